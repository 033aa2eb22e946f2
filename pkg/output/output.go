/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

// Package output renders a precache result as JSON, as a service worker script
// or as a human-readable table.
package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aymerick/raymond"
	"github.com/mattn/go-runewidth"

	"github.com/fulmenhq/precache/pkg/manifest"
	"github.com/fulmenhq/precache/pkg/safeio"
	"github.com/fulmenhq/precache/pkg/transform"
)

// Supported formats.
const (
	FormatJSON  = "json"
	FormatJS    = "js"
	FormatTable = "table"
)

// ErrUnknownFormat is returned for a format other than json, js or table.
var ErrUnknownFormat = errors.New("unknown output format")

// GlobalName is the service worker global the js format assigns.
const GlobalName = "self.__precacheManifest"

const jsSource = `// {{count}} {{plural count "entry" "entries"}}, {{bytes size}}
{{global}} = {{json entries}};
`

var jsTemplate = newJSTemplate()

func newJSTemplate() *raymond.Template {
	tpl := raymond.MustParse(jsSource)
	tpl.RegisterHelper("json", func(v interface{}) raymond.SafeString {
		var buf bytes.Buffer
		if err := encodeJSON(&buf, v); err != nil {
			return raymond.SafeString("[]")
		}
		return raymond.SafeString(strings.TrimSuffix(buf.String(), "\n"))
	})
	tpl.RegisterHelper("plural", func(n interface{}, one, many string) string {
		if fmt.Sprint(n) == "1" {
			return one
		}
		return many
	})
	tpl.RegisterHelper("bytes", func(n interface{}) string {
		size, _ := n.(int64)
		return transform.FormatBytes(size)
	})
	return tpl
}

// Render writes res to w in the given format.
func Render(w io.Writer, format string, res *transform.Result) error {
	entries := res.ManifestEntries
	if entries == nil {
		entries = []manifest.ManifestEntry{}
	}

	switch format {
	case FormatJSON, "":
		return renderJSON(w, entries)
	case FormatJS:
		return renderJS(w, entries, res.Size)
	case FormatTable:
		return renderTable(w, entries, res.Size)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Write renders res and writes it to path, creating parent directories.
func Write(path, format string, res *transform.Result) error {
	var buf bytes.Buffer
	if err := Render(&buf, format, res); err != nil {
		return err
	}
	if err := safeio.WriteFilePreservePerms(path, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

func renderJSON(w io.Writer, entries []manifest.ManifestEntry) error {
	return encodeJSON(w, entries)
}

func encodeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func renderJS(w io.Writer, entries []manifest.ManifestEntry, size int64) error {
	out, err := jsTemplate.Exec(map[string]interface{}{
		"global":  GlobalName,
		"entries": entries,
		"count":   len(entries),
		"size":    size,
	})
	if err != nil {
		return fmt.Errorf("failed to render manifest script: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func renderTable(w io.Writer, entries []manifest.ManifestEntry, size int64) error {
	header := []string{"URL", "REVISION", "SIZE", "KIND"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rev := e.Revision
		if rev == "" {
			rev = "-"
		}
		rows = append(rows, []string{e.URL, rev, transform.FormatBytes(e.Size), e.Kind.String()})
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i == len(cells)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(runewidth.FillRight(cell, widths[i]))
			b.WriteString("  ")
		}
		b.WriteString("\n")
	}

	writeRow(header)
	for _, row := range rows {
		writeRow(row)
	}
	fmt.Fprintf(&b, "\n%d %s, %s\n", len(entries), plural(len(entries), "entry", "entries"), transform.FormatBytes(size))

	_, err := io.WriteString(w, b.String())
	return err
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
