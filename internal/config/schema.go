// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed wtest.schema.json
var schemaJSON []byte

const schemaResourceName = "wtest.schema.json"

var (
	configSchema *jsonschema.Schema
	compileOnce  sync.Once
	compileErr   error
)

// compileSchema compiles the embedded schema once.
func compileSchema() error {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal embedded schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()

		if err := compiler.AddResource(schemaResourceName, doc); err != nil {
			compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}

		configSchema, compileErr = compiler.Compile(schemaResourceName)
	})

	return compileErr
}

// validateSchema checks a YAML document against the embedded JSON schema.
func validateSchema(data []byte) error {
	if err := compileSchema(); err != nil {
		return err
	}

	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return errors.Join(ErrParseConfig, err)
	}

	var v any
	if err := json.Unmarshal(jsonData, &v); err != nil {
		return errors.Join(ErrParseConfig, err)
	}

	if err := configSchema.Validate(v); err != nil {
		return errors.Join(ErrValidateConfig, err)
	}

	return nil
}
