/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

package config

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaVersion is the version of the embedded configuration schema.
const SchemaVersion = "1.0.0"

//go:embed schema/precache-config.schema.json
var configSchema []byte

// Schema returns the embedded JSON schema for configuration files.
func Schema() []byte {
	out := make([]byte, len(configSchema))
	copy(out, configSchema)
	return out
}

// ValidationError lists every schema violation found in a document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "configuration validation failed:\n" + strings.Join(e.Problems, "\n")
}

// Unwrap lets errors.Is(err, ErrInvalidConfig) match.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

// ValidateDocument validates a decoded configuration document against the
// embedded schema.
func ValidateDocument(doc map[string]interface{}) error {
	schemaLoader := gojsonschema.NewBytesLoader(configSchema)
	documentLoader := gojsonschema.NewGoLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return &ValidationError{Problems: problems}
	}

	return nil
}
