package workspace

import (
	"fmt"
	"path/filepath"
)

// DefaultExcludes are always active. User patterns are appended to them.
var DefaultExcludes = []string{
	".git", ".hg", ".svn",
	"__pycache__", ".mypy_cache", ".pytest_cache", ".ruff_cache", ".tox", ".nox",
	".venv", "venv", ".env", "env",
	"node_modules", "site-packages",
	"build", "dist", "*.egg-info", ".eggs",
}

// Filter decides which directories are pruned during a scan.
type Filter struct {
	patterns []string
}

// NewFilter combines DefaultExcludes with the user patterns. A malformed
// user pattern is dropped and reported; it never matches.
func NewFilter(userPatterns []string) (*Filter, []error) {
	f := &Filter{patterns: append([]string(nil), DefaultExcludes...)}
	var warnings []error
	for _, p := range userPatterns {
		if _, err := filepath.Match(p, ""); err != nil {
			warnings = append(warnings, fmt.Errorf("exclude pattern %q ignored: %w", p, err))
			continue
		}
		f.patterns = append(f.patterns, p)
	}
	return f, warnings
}

// ShouldPrune reports whether the directory's basename matches any pattern.
func (f *Filter) ShouldPrune(dir string) bool {
	name := filepath.Base(dir)
	for _, p := range f.patterns {
		if ok, err := filepath.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}

// Patterns returns the active patterns, defaults first.
func (f *Filter) Patterns() []string {
	return append([]string(nil), f.patterns...)
}
