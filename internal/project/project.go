// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package project

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"

	"github.com/matt-FFFFFF/wtest/internal/ctxlog"
)

// AllProjects is the sentinel selection name meaning every discovered project.
const AllProjects = "all"

var (
	// ErrDiscovery is returned when the root directory cannot be enumerated.
	ErrDiscovery = errors.New("could not enumerate test projects")
	// ErrNoExecutable is returned when a build descriptor does not declare an executable.
	ErrNoExecutable = errors.New("no executable declaration in build descriptor")
	// ErrUnknownProject is returned when a selected name does not match a discovered project.
	ErrUnknownProject = errors.New("unknown test project")
)

// Layout describes where a project keeps its build descriptor.
type Layout struct {
	DescriptorDir   string // Subdirectory marking a test project, e.g. "Make"
	DescriptorFile  string // File inside DescriptorDir declaring build targets, e.g. "files"
	ExecutableToken string // Prefix of the line declaring the executable, e.g. "EXE"
}

// DefaultLayout returns the wmake build descriptor layout.
func DefaultLayout() Layout {
	return Layout{
		DescriptorDir:   "Make",
		DescriptorFile:  "files",
		ExecutableToken: "EXE",
	}
}

// Project is a single test project directory.
type Project struct {
	Name string // Directory base name, used in reports and selection
	Dir  string // Path to the project directory
}

// Discover enumerates the direct children of root that are test projects,
// sorted lexicographically by name. A root that cannot be read is fatal and
// wraps ErrDiscovery; unreadable children are skipped.
func Discover(ctx context.Context, root string, layout Layout) ([]Project, error) {
	fs := FsFactory()

	entries, err := afero.ReadDir(fs, root)
	if err != nil {
		return nil, errors.Join(ErrDiscovery, err)
	}

	projects := make([]Project, 0, len(entries))

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		marker := filepath.Join(root, entry.Name(), layout.DescriptorDir)

		ok, err := afero.DirExists(fs, marker)
		if err != nil {
			ctxlog.Debug(ctx, "skipping unreadable directory", "dir", entry.Name(), "error", err)
			continue
		}

		if !ok {
			continue
		}

		projects = append(projects, Project{
			Name: entry.Name(),
			Dir:  filepath.Join(root, entry.Name()),
		})
	}

	slices.SortFunc(projects, func(a, b Project) int {
		return strings.Compare(a.Name, b.Name)
	})

	ctxlog.Debug(ctx, "discovered test projects", "root", root, "count", len(projects))

	return projects, nil
}

// Executable resolves the name of the executable the project builds.
// It scans the descriptor file for the first line beginning with the
// executable token and returns the text after that line's final slash.
func (p Project) Executable(layout Layout) (string, error) {
	fs := FsFactory()
	descriptor := filepath.Join(p.Dir, layout.DescriptorDir, layout.DescriptorFile)

	f, err := fs.Open(descriptor)
	if err != nil {
		return "", errors.Join(ErrNoExecutable, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, layout.ExecutableToken) {
			continue
		}

		name := line
		if i := strings.LastIndexByte(line, '/'); i >= 0 {
			name = line[i+1:]
		}

		name = strings.TrimSpace(name)
		if name == "" {
			return "", fmt.Errorf("%w: empty executable name in %s", ErrNoExecutable, descriptor)
		}

		return name, nil
	}

	if err := scanner.Err(); err != nil {
		return "", errors.Join(ErrNoExecutable, err)
	}

	return "", fmt.Errorf("%w: no line begins with %q in %s", ErrNoExecutable, layout.ExecutableToken, descriptor)
}

// Select filters discovered projects by explicit names, preserving the order
// the names were given in. An empty name list or the single sentinel "all"
// selects every project. Every unknown name is collected into the returned
// error and the selection fails as a whole.
func Select(projects []Project, names []string) ([]Project, error) {
	if len(names) == 0 || (len(names) == 1 && names[0] == AllProjects) {
		return projects, nil
	}

	byName := make(map[string]Project, len(projects))
	for _, p := range projects {
		byName[p.Name] = p
	}

	var err error

	selected := make([]Project, 0, len(names))

	for _, name := range names {
		p, ok := byName[name]
		if !ok {
			err = multierror.Append(err, fmt.Errorf("%w: %s", ErrUnknownProject, name))
			continue
		}

		selected = append(selected, p)
	}

	if err != nil {
		return nil, err
	}

	return selected, nil
}
