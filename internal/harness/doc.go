// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package harness builds and runs the discovered test projects.
//
// Each project goes through a fixed pipeline: build with the configured
// build command, resolve the executable name from the build descriptor,
// run the executable through the shell. The outcome is PASS when both
// steps exit zero, FAIL when the executable exits nonzero, and ERROR when
// the build fails or the executable name cannot be determined. The
// harness process never changes its own working directory; every child
// process receives an explicit one.
package harness
