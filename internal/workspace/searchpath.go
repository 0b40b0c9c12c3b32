package workspace

import (
	"fmt"
	"path/filepath"
)

// SearchPath is a traversal root. Lower Priority wins name conflicts.
type SearchPath struct {
	Path     string `json:"path"`
	Explicit bool   `json:"explicit"`
	Priority int    `json:"priority"`
}

// ResolveSearchPaths returns the implicit roots (project parent, then
// grandparent when includeGrandparent) followed by the configured paths.
// Relative configured paths are taken from projectDir. Paths are made
// absolute and duplicates collapse onto their first occurrence; an explicit
// entry that duplicates an implicit one marks it explicit.
func ResolveSearchPaths(projectDir string, configured []string, includeGrandparent bool) ([]SearchPath, error) {
	projectDir, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("resolving project directory: %w", err)
	}

	var paths []SearchPath
	index := make(map[string]int)
	add := func(p string, explicit bool) {
		p = filepath.Clean(p)
		if i, ok := index[p]; ok {
			if explicit {
				paths[i].Explicit = true
			}
			return
		}
		index[p] = len(paths)
		paths = append(paths, SearchPath{Path: p, Explicit: explicit, Priority: len(paths)})
	}

	parent := filepath.Dir(projectDir)
	add(parent, false)
	if includeGrandparent {
		add(filepath.Dir(parent), false)
	}

	for _, c := range configured {
		p := c
		if !filepath.IsAbs(p) {
			p = filepath.Join(projectDir, p)
		}
		add(p, true)
	}
	return paths, nil
}
