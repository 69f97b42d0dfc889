// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package project

import "github.com/spf13/afero"

// FsFactory supplies the filesystem that discovery and descriptor scanning
// read from. Tests stub it with an in-memory filesystem.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}
