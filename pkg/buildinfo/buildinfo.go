/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

package buildinfo

import "runtime/debug"

// Set at build time via -ldflags "-X github.com/fulmenhq/precache/pkg/buildinfo.BinaryVersion=...".
var (
	// BinaryVersion defaults to "dev".
	BinaryVersion = "dev"
	Commit        = "unknown"
	BuildDate     = "unknown"
)

// ModuleVersion returns the module version embedded by the Go toolchain (when available).
func ModuleVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return ""
}

// Version prefers the ldflags version, then the module version.
func Version() string {
	if BinaryVersion != "" && BinaryVersion != "dev" {
		return BinaryVersion
	}
	if v := ModuleVersion(); v != "" && v != "(devel)" {
		return v
	}
	return BinaryVersion
}
