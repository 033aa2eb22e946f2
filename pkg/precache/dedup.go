/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

package precache

import "github.com/fulmenhq/precache/pkg/manifest"

// dedupSet accumulates discovered files, keeping the first occurrence of each path.
type dedupSet struct {
	seen    map[string]struct{}
	entries []manifest.FileDetails
}

func newDedupSet() *dedupSet {
	return &dedupSet{seen: make(map[string]struct{})}
}

// add appends the files not seen before and returns how many were new.
func (s *dedupSet) add(files []manifest.FileDetails) int {
	added := 0
	for _, f := range files {
		if _, ok := s.seen[f.File]; ok {
			continue
		}
		s.seen[f.File] = struct{}{}
		s.entries = append(s.entries, f)
		added++
	}
	return added
}

func (s *dedupSet) contains(file string) bool {
	_, ok := s.seen[file]
	return ok
}
