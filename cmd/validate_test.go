/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

package cmd

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/fulmenhq/precache/pkg/config"
)

func TestValidate_Valid(t *testing.T) {
	cfg := writeYAML(t, "globDirectory: dist\nformat: js\n")

	out, err := execRoot(t, []string{"validate", "--config", cfg})
	if err != nil {
		t.Fatalf("validate failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Configuration valid") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestValidate_Show(t *testing.T) {
	cfg := writeYAML(t, "globDirectory: dist\ntemplatedUrls:\n  /shell: [\"*.html\"]\n")

	out, err := execRoot(t, []string{"validate", "--config", cfg, "--show"})
	if err != nil {
		t.Fatalf("validate --show failed: %v\n%s", err, out)
	}
	var v map[string]any
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("output is not valid JSON: %s", out)
	}
	if v["globDirectory"] != "dist" {
		t.Errorf("globDirectory = %v", v["globDirectory"])
	}
	shell, ok := v["templatedUrls"].(map[string]any)["/shell"].([]any)
	if !ok || len(shell) != 1 || shell[0] != "*.html" {
		t.Errorf("templatedUrls not round-tripped: %v", v["templatedUrls"])
	}
}

func TestValidate_SchemaProblems(t *testing.T) {
	cfg := writeYAML(t, "globDir: dist\n")

	out, err := execRoot(t, []string{"validate", "--config", cfg})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	if !strings.Contains(out, "  - ") || !strings.Contains(out, "globDir") {
		t.Errorf("expected problems to be listed, got: %s", out)
	}
}

func TestValidate_PrintSchema(t *testing.T) {
	out, err := execRoot(t, []string{"validate", "--print-schema"})
	if err != nil {
		t.Fatalf("validate --print-schema failed: %v", err)
	}
	var v map[string]any
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("schema is not valid JSON: %s", out)
	}
	if v["title"] != "precache configuration" {
		t.Errorf("unexpected schema title: %v", v["title"])
	}
}
