// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// hclDocument is the root of a wtest.hcl file: one optional harness block.
type hclDocument struct {
	Harness *document `hcl:"harness,block"`
}

func parseHCL(root, filename string, data []byte) (*Config, error) {
	file, diags := hclsyntax.ParseConfig(data, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, errors.Join(ErrParseConfig, diagErrors(diags))
	}

	var doc hclDocument
	if diags := gohcl.DecodeBody(file.Body, newEvalContext(root), &doc); diags.HasErrors() {
		return nil, errors.Join(ErrParseConfig, diagErrors(diags))
	}

	if doc.Harness == nil {
		return Default(), nil
	}

	return fromDocument(doc.Harness)
}

func diagErrors(diags hcl.Diagnostics) error {
	var err error
	err = multierror.Append(err, diags.Errs()...)

	return err
}

// newEvalContext exposes the harness root and the process environment to
// expressions in the configuration file, e.g. launcher = env["MPI_LAUNCHER"].
func newEvalContext(root string) *hcl.EvalContext {
	environ := os.Environ()
	vals := make(map[string]cty.Value, len(environ))

	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}

		vals[k] = cty.StringVal(v)
	}

	env := cty.MapValEmpty(cty.String)
	if len(vals) > 0 {
		env = cty.MapVal(vals)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"root": cty.StringVal(root),
			"env":  env,
		},
	}
}
