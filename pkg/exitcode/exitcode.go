/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

// Package exitcode provides standardized exit codes for precache
package exitcode

import (
	"context"
	"errors"
	"io/fs"

	"github.com/fulmenhq/precache/pkg/config"
	"github.com/fulmenhq/precache/pkg/precache"
	"github.com/fulmenhq/precache/pkg/transform"
)

// Exit codes for the precache CLI
const (
	Success         = 0
	GeneralError    = 1
	ConfigError     = 2
	ValidationError = 3
	FileSystemError = 4
	PermissionError = 5
	Cancelled       = 6
)

// String returns a human-readable description of the exit code
func String(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case ConfigError:
		return "Configuration error"
	case ValidationError:
		return "Validation error"
	case FileSystemError:
		return "File system error"
	case PermissionError:
		return "Permission error"
	case Cancelled:
		return "Cancelled"
	default:
		return "Unknown error"
	}
}

// FromError maps an error returned by a command to its exit code.
func FromError(err error) int {
	if err == nil {
		return Success
	}

	var buildErr *precache.Error
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return Cancelled
	case precache.IsCode(err, precache.CodeUnableToGlobFiles), precache.IsCode(err, precache.CodeBadTemplateURLsAsset):
		return FileSystemError
	case errors.As(err, &buildErr), errors.Is(err, transform.ErrBadTransformResult):
		return ValidationError
	case errors.Is(err, transform.ErrBadPrefixes),
		errors.Is(err, config.ErrFileNotFound),
		errors.Is(err, config.ErrInvalidFormat),
		errors.Is(err, config.ErrUnsupportedExt),
		errors.Is(err, config.ErrInvalidConfig):
		return ConfigError
	case errors.Is(err, fs.ErrPermission):
		return PermissionError
	case errors.Is(err, fs.ErrNotExist):
		return FileSystemError
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return FileSystemError
	}
	return GeneralError
}
