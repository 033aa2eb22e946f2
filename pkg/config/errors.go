/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

package config

import "errors"

// Sentinel errors for the config package
var (
	// ErrFileNotFound indicates the config file does not exist
	ErrFileNotFound = errors.New("config file not found")

	// ErrInvalidFormat indicates the config file does not parse
	ErrInvalidFormat = errors.New("config must be valid YAML, TOML or JSON")

	// ErrUnsupportedExt indicates an unsupported file extension
	ErrUnsupportedExt = errors.New("unsupported file extension (use .yaml, .yml, .toml or .json)")

	// ErrInvalidConfig indicates a config that parses but is not usable
	ErrInvalidConfig = errors.New("invalid configuration")
)
