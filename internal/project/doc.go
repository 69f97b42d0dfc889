// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package project discovers test projects under a root directory and resolves
// the executable each project builds from its build descriptor.
//
// A test project is any direct child directory of the root that contains the
// build-descriptor subdirectory (Make by default). The descriptor file inside
// it (files by default) declares the executable on the first line beginning
// with the executable token (EXE by default); the name is the text after that
// line's final slash.
package project
