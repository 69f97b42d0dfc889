// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/wtest/internal/ctxlog"
	"github.com/matt-FFFFFF/wtest/internal/project"
	"github.com/spf13/afero"
)

// Defaults reproduce the conventional OpenFOAM tool chain.
const (
	DefaultBuildCommand  = "wmake"
	DefaultCleanCommand  = "wclean"
	DefaultLauncher      = "mpirun"
	DefaultLauncherProcs = 2
)

const (
	yamlConfigFileName = "wtest.yaml"
	hclConfigFileName  = "wtest.hcl"
)

var (
	// ErrReadConfig is returned when the configuration file cannot be read.
	ErrReadConfig = errors.New("failed to read configuration file")
	// ErrParseConfig is returned when the configuration file cannot be decoded.
	ErrParseConfig = errors.New("failed to parse configuration")
	// ErrValidateConfig is returned when the configuration contains invalid values.
	ErrValidateConfig = errors.New("invalid configuration")
	// ErrAmbiguousConfig is returned when both configuration file formats are present.
	ErrAmbiguousConfig = fmt.Errorf("both %s and %s exist, remove one", yamlConfigFileName, hclConfigFileName)
	// ErrUnknownConfigFormat is returned for configuration files with an unsupported extension.
	ErrUnknownConfigFormat = errors.New("unknown configuration file format")
)

// Config is the resolved harness configuration.
type Config struct {
	// BuildCommand builds a test project. It runs in the project directory.
	BuildCommand string
	// CleanCommand cleans a test project. It runs in the harness root with
	// the project directory as its argument.
	CleanCommand string
	// Launcher wraps parallel test executables.
	Launcher string
	// LauncherProcs is the process count passed to the launcher.
	LauncherProcs int
	// Layout locates the build descriptor inside a project.
	Layout project.Layout
	// Autopar wraps executables whose name contains "parallel" with the launcher.
	Autopar bool
	// Strict makes a batch with failures or errors fatal to the process exit code.
	Strict bool
	// Timeout bounds each build and run invocation. Zero means no limit.
	Timeout time.Duration
}

// Default returns the configuration used when no file overrides anything.
func Default() *Config {
	return &Config{
		BuildCommand:  DefaultBuildCommand,
		CleanCommand:  DefaultCleanCommand,
		Launcher:      DefaultLauncher,
		LauncherProcs: DefaultLauncherProcs,
		Layout:        project.DefaultLayout(),
		Autopar:       true,
	}
}

// Validate checks for values the harness cannot run with.
func (c *Config) Validate() error {
	var err error

	if c.BuildCommand == "" {
		err = multierror.Append(err, errors.New("build_command must not be empty"))
	}

	if c.CleanCommand == "" {
		err = multierror.Append(err, errors.New("clean_command must not be empty"))
	}

	if c.Launcher == "" {
		err = multierror.Append(err, errors.New("launcher must not be empty"))
	}

	if c.LauncherProcs < 1 {
		err = multierror.Append(err, errors.New("launcher_procs must be at least 1"))
	}

	if c.Layout.DescriptorDir == "" {
		err = multierror.Append(err, errors.New("descriptor_dir must not be empty"))
	}

	if c.Layout.DescriptorFile == "" {
		err = multierror.Append(err, errors.New("descriptor_file must not be empty"))
	}

	if c.Layout.ExecutableToken == "" {
		err = multierror.Append(err, errors.New("executable_token must not be empty"))
	}

	if c.Timeout < 0 {
		err = multierror.Append(err, errors.New("timeout must not be negative"))
	}

	if err != nil {
		return errors.Join(ErrValidateConfig, err)
	}

	return nil
}

// document is the on-disk shape shared by the YAML and HCL decoders.
// Pointer fields distinguish absent from explicitly set.
type document struct {
	BuildCommand    *string `yaml:"build_command"    hcl:"build_command,optional"`
	CleanCommand    *string `yaml:"clean_command"    hcl:"clean_command,optional"`
	Launcher        *string `yaml:"launcher"         hcl:"launcher,optional"`
	LauncherProcs   *int    `yaml:"launcher_procs"   hcl:"launcher_procs,optional"`
	DescriptorDir   *string `yaml:"descriptor_dir"   hcl:"descriptor_dir,optional"`
	DescriptorFile  *string `yaml:"descriptor_file"  hcl:"descriptor_file,optional"`
	ExecutableToken *string `yaml:"executable_token" hcl:"executable_token,optional"`
	Autopar         *bool   `yaml:"autopar"          hcl:"autopar,optional"`
	Strict          *bool   `yaml:"strict"           hcl:"strict,optional"`
	Timeout         *string `yaml:"timeout"          hcl:"timeout,optional"`
}

// fromDocument overlays a decoded document on the defaults. Absent and empty
// values keep their defaults.
func fromDocument(doc *document) (*Config, error) {
	cfg := Default()

	if doc.BuildCommand != nil && *doc.BuildCommand != "" {
		cfg.BuildCommand = *doc.BuildCommand
	}

	if doc.CleanCommand != nil && *doc.CleanCommand != "" {
		cfg.CleanCommand = *doc.CleanCommand
	}

	if doc.Launcher != nil && *doc.Launcher != "" {
		cfg.Launcher = *doc.Launcher
	}

	if doc.LauncherProcs != nil && *doc.LauncherProcs != 0 {
		cfg.LauncherProcs = *doc.LauncherProcs
	}

	if doc.DescriptorDir != nil && *doc.DescriptorDir != "" {
		cfg.Layout.DescriptorDir = *doc.DescriptorDir
	}

	if doc.DescriptorFile != nil && *doc.DescriptorFile != "" {
		cfg.Layout.DescriptorFile = *doc.DescriptorFile
	}

	if doc.ExecutableToken != nil && *doc.ExecutableToken != "" {
		cfg.Layout.ExecutableToken = *doc.ExecutableToken
	}

	if doc.Autopar != nil {
		cfg.Autopar = *doc.Autopar
	}

	if doc.Strict != nil {
		cfg.Strict = *doc.Strict
	}

	if doc.Timeout != nil && *doc.Timeout != "" {
		d, err := time.ParseDuration(*doc.Timeout)
		if err != nil {
			return nil, fmt.Errorf("%w: timeout: %v", ErrParseConfig, err)
		}

		cfg.Timeout = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load resolves the harness configuration. A non-empty url fetches the
// document with go-getter and decodes it by extension. Otherwise the harness
// root is searched for wtest.yaml or wtest.hcl; when neither exists the
// defaults are returned.
func Load(ctx context.Context, root, url string) (*Config, error) {
	if url != "" {
		data, err := fetchURL(ctx, url)
		if err != nil {
			return nil, err
		}

		return decode(root, url, data)
	}

	fs := FsFactory()

	yamlPath := filepath.Join(root, yamlConfigFileName)
	hclPath := filepath.Join(root, hclConfigFileName)

	yamlExists, err := afero.Exists(fs, yamlPath)
	if err != nil {
		return nil, errors.Join(ErrReadConfig, err)
	}

	hclExists, err := afero.Exists(fs, hclPath)
	if err != nil {
		return nil, errors.Join(ErrReadConfig, err)
	}

	switch {
	case yamlExists && hclExists:
		return nil, ErrAmbiguousConfig
	case yamlExists:
		return readAndDecode(fs, root, yamlPath)
	case hclExists:
		return readAndDecode(fs, root, hclPath)
	default:
		ctxlog.Debug(ctx, "no configuration file found, using defaults", "root", root)
		return Default(), nil
	}
}

func readAndDecode(fs afero.Fs, root, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Join(ErrReadConfig, err)
	}

	return decode(root, path, data)
}

// decode picks the decoder from the file extension. Getter refs such as
// ?ref=main are not part of the extension.
func decode(root, name string, data []byte) (*Config, error) {
	base, _, _ := strings.Cut(name, "?")

	switch strings.ToLower(filepath.Ext(base)) {
	case ".yaml", ".yml":
		return parseYAML(data)
	case ".hcl":
		return parseHCL(root, filepath.Base(base), data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownConfigFormat, name)
	}
}

func parseYAML(data []byte) (*Config, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Default(), nil
	}

	if err := validateSchema(data); err != nil {
		return nil, err
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(ErrParseConfig, err)
	}

	return fromDocument(&doc)
}
