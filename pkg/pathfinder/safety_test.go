/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

package pathfinder

import (
	"errors"
	"testing"
)

func TestValidatePattern(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		err      error
	}{
		{"simple", "*.js", "*.js", nil},
		{"doublestar braces", "**/*.{js,css,html}", "**/*.{js,css,html}", nil},
		{"leading dot slash", "./js/*.js", "js/*.js", nil},
		{"repeated dot slash", "././js/*.js", "js/*.js", nil},
		{"windows separators", `js\**\*.js`, "js/**/*.js", nil},
		{"dots in names", "app.min.js", "app.min.js", nil},
		{"empty", "", "", ErrInvalidPattern},
		{"blank", "   ", "", ErrInvalidPattern},
		{"traversal", "../*.js", "", ErrPatternEscapes},
		{"traversal in middle", "js/../../*.js", "", ErrPatternEscapes},
		{"absolute", "/etc/*", "", ErrPatternEscapes},
		{"unclosed bracket", "[abc", "", ErrInvalidPattern},
		{"unclosed brace", "*.{js,css", "", ErrInvalidPattern},
	}

	v := NewSafetyValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.ValidatePattern(tt.input)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("ValidatePattern(%q) error = %v, want %v", tt.input, err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidatePattern(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ValidatePattern(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestValidatePatternAllowAbsolute(t *testing.T) {
	v := NewSafetyValidator()
	v.SetAllowAbsolute(true)

	got, err := v.ValidatePattern("/js/*.js")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "js/*.js" {
		t.Errorf("ValidatePattern() = %q, expected %q", got, "js/*.js")
	}
}

func TestValidateQuery(t *testing.T) {
	v := NewSafetyValidator()

	pattern, ignores, err := v.ValidateQuery("./**/*.js", []string{"./node_modules/**/*", `vendor\**`})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pattern != "**/*.js" {
		t.Errorf("pattern = %q", pattern)
	}
	if len(ignores) != 2 || ignores[0] != "node_modules/**/*" || ignores[1] != "vendor/**" {
		t.Errorf("ignores = %v", ignores)
	}

	if _, _, err := v.ValidateQuery("*.js", []string{"../x"}); !errors.Is(err, ErrPatternEscapes) {
		t.Errorf("expected ErrPatternEscapes, got %v", err)
	}
}
