/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

package transform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/open-policy-agent/opa/v1/rego"

	"github.com/fulmenhq/precache/pkg/manifest"
	"github.com/fulmenhq/precache/pkg/safeio"
)

// PolicyQuery is the Rego document a manifest policy must define. Two rules are
// read from it: "exclude" (a set of URLs) and "warn" (a set of messages).
const PolicyQuery = "data.precache"

type policyEntry struct {
	URL      string `json:"url"`
	Revision string `json:"revision"`
	Size     int64  `json:"size"`
	Kind     string `json:"kind"`
}

type policyInput struct {
	Entries []policyEntry `json:"entries"`
}

// NewPolicyTransform compiles a Rego module into a ManifestTransform.
func NewPolicyTransform(ctx context.Context, name, module string) (ManifestTransform, error) {
	pq, err := rego.New(
		rego.Query(PolicyQuery),
		rego.Module(name, module),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile manifest policy %s: %w", name, err)
	}

	return func(ctx context.Context, entries []manifest.ManifestEntry) (*TransformResult, error) {
		input := policyInput{Entries: make([]policyEntry, 0, len(entries))}
		for _, e := range entries {
			input.Entries = append(input.Entries, policyEntry{
				URL:      e.URL,
				Revision: e.Revision,
				Size:     e.Size,
				Kind:     e.Kind.String(),
			})
		}

		rs, err := pq.Eval(ctx, rego.EvalInput(input))
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate manifest policy %s: %w", name, err)
		}

		var doc map[string]interface{}
		if len(rs) > 0 && len(rs[0].Expressions) > 0 {
			doc, _ = rs[0].Expressions[0].Value.(map[string]interface{})
		}

		excluded := stringSet(doc["exclude"])
		out := make([]manifest.ManifestEntry, 0, len(entries))
		var warnings []string
		for _, e := range entries {
			if _, ok := excluded[e.URL]; ok {
				warnings = append(warnings, fmt.Sprintf("%s excluded by policy", e.URL))
				continue
			}
			out = append(out, e)
		}

		msgs := make([]string, 0)
		for msg := range stringSet(doc["warn"]) {
			msgs = append(msgs, msg)
		}
		sort.Strings(msgs)
		warnings = append(warnings, msgs...)

		return &TransformResult{Manifest: out, Warnings: warnings}, nil
	}, nil
}

// LoadPolicyTransform reads a .rego file and compiles it.
func LoadPolicyTransform(ctx context.Context, path string) (ManifestTransform, error) {
	clean, err := safeio.CleanUserPath(path)
	if err != nil {
		return nil, fmt.Errorf("invalid policy path: %w", err)
	}

	data, err := os.ReadFile(clean) // #nosec G304 -- path cleaned above
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	return NewPolicyTransform(ctx, clean, string(data))
}

// LoadPolicyTransformIn reads a .rego file that must live under baseDir. A
// relative path is taken relative to baseDir.
func LoadPolicyTransformIn(ctx context.Context, baseDir, path string) (ManifestTransform, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	data, err := safeio.ReadFileContained(baseDir, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file %s: %w", path, err)
	}

	return NewPolicyTransform(ctx, filepath.ToSlash(path), string(data))
}

func stringSet(v interface{}) map[string]struct{} {
	set := map[string]struct{}{}
	items, ok := v.([]interface{})
	if !ok {
		return set
	}
	for _, item := range items {
		if s, ok := item.(string); ok {
			set[s] = struct{}{}
		}
	}
	return set
}
