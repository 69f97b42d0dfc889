// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config holds the harness configuration.
//
// The zero configuration reproduces the conventional OpenFOAM tooling:
// wmake to build, wclean to clean, mpirun -np 2 for parallel test
// executables, and Make/files as the build descriptor. A wtest.yaml or
// wtest.hcl file in the harness root overrides individual settings;
// absent settings keep their defaults. YAML documents are validated
// against an embedded JSON schema before decoding. Configuration may
// also be fetched from a remote URL using go-getter syntax.
package config
