/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

package precache

import (
	"crypto/md5" // #nosec G501 -- content fingerprint, not a security boundary
	"encoding/hex"

	"github.com/fulmenhq/precache/pkg/manifest"
)

// NewCompositeDetails builds the entry for a templated URL backed by deps. The
// revision is the md5 of the dependency hashes concatenated in order, so the same
// files in a different order yield a different revision.
func NewCompositeDetails(url string, deps []manifest.FileDetails) manifest.FileDetails {
	h := md5.New() // #nosec G401
	var size int64
	for _, d := range deps {
		_, _ = h.Write([]byte(d.Hash))
		size += d.Size
	}
	return manifest.FileDetails{
		File: url,
		Hash: hex.EncodeToString(h.Sum(nil)),
		Size: size,
		Kind: manifest.KindComposite,
	}
}

// NewStringDetails builds the entry for a templated URL with a literal revision.
func NewStringDetails(url, revision string) manifest.FileDetails {
	return manifest.FileDetails{
		File: url,
		Hash: revision,
		Kind: manifest.KindLiteral,
	}
}
