/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

package exitcode

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/fulmenhq/precache/pkg/config"
	"github.com/fulmenhq/precache/pkg/precache"
	"github.com/fulmenhq/precache/pkg/transform"
)

func TestString(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{Success, "Success"},
		{GeneralError, "General error"},
		{ConfigError, "Configuration error"},
		{ValidationError, "Validation error"},
		{FileSystemError, "File system error"},
		{PermissionError, "Permission error"},
		{Cancelled, "Cancelled"},
		{999, "Unknown error"}, // Test unknown code
	}

	for _, test := range tests {
		result := String(test.code)
		if result != test.expected {
			t.Errorf("String(%d) = %v, expected %v", test.code, result, test.expected)
		}
	}
}

func TestExitCodeUniqueness(t *testing.T) {
	codes := []int{Success, GeneralError, ConfigError, ValidationError, FileSystemError, PermissionError, Cancelled}

	seen := make(map[int]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Exit code %d is not unique", code)
		}
		seen[code] = true
	}
}

func TestFromError(t *testing.T) {
	buildErr := &precache.Error{Code: precache.CodeTemplatedURLMatchesGlob, Message: "collision"}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, Success},
		{"cancelled", fmt.Errorf("build: %w", context.Canceled), Cancelled},
		{"deadline", context.DeadlineExceeded, Cancelled},
		{"collision", fmt.Errorf("generate: %w", buildErr), ValidationError},
		{"glob failure", &precache.Error{Code: precache.CodeUnableToGlobFiles, Pattern: "**/*"}, FileSystemError},
		{"templated dependency failure", &precache.Error{Code: precache.CodeBadTemplateURLsAsset, URL: "/app-shell", Pattern: "broken/**"}, FileSystemError},
		{"bad transform result", fmt.Errorf("%w: nil", transform.ErrBadTransformResult), ValidationError},
		{"bad prefixes", transform.ErrBadPrefixes, ConfigError},
		{"missing config", fmt.Errorf("%w: precache.yaml", config.ErrFileNotFound), ConfigError},
		{"schema violation", &config.ValidationError{Problems: []string{"x"}}, ConfigError},
		{"permission", &fs.PathError{Op: "open", Path: "sw.js", Err: fs.ErrPermission}, PermissionError},
		{"missing file", &fs.PathError{Op: "open", Path: "sw.js", Err: fs.ErrNotExist}, FileSystemError},
		{"other path error", &fs.PathError{Op: "write", Path: "sw.js", Err: errors.New("disk full")}, FileSystemError},
		{"anything else", errors.New("boom"), GeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromError(tt.err); got != tt.want {
				t.Errorf("FromError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
