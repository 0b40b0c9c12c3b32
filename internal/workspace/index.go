package workspace

import (
	"sort"

	"github.com/calltree/localresolve/internal/manifest"
	"github.com/calltree/localresolve/internal/pkgname"
)

// Package is a local package chosen for a normalized name.
type Package struct {
	manifest.Package
	Key      string `json:"key"`
	Root     string `json:"root"`
	Priority int    `json:"priority"`
}

// Conflict records a package dropped because another one won its name.
type Conflict struct {
	Key     string
	Kept    string
	Dropped string
}

// Index maps normalized package names to chosen local packages. It has no
// mutation methods; lookups normalize the query.
type Index struct {
	byName    map[string]Package
	conflicts []Conflict
}

func newIndex() *Index {
	return &Index{byName: make(map[string]Package)}
}

// Has reports whether name resolves to a local package.
func (i *Index) Has(name string) bool {
	_, ok := i.byName[pkgname.Normalize(name)]
	return ok
}

// LocationOf returns the directory of the local package for name.
func (i *Index) LocationOf(name string) (string, bool) {
	p, ok := i.byName[pkgname.Normalize(name)]
	if !ok {
		return "", false
	}
	return p.Dir, true
}

// Lookup returns a copy of the chosen package for name.
func (i *Index) Lookup(name string) (Package, bool) {
	p, ok := i.byName[pkgname.Normalize(name)]
	return p, ok
}

// Len returns the number of indexed packages.
func (i *Index) Len() int { return len(i.byName) }

// Packages returns every indexed package sorted by normalized name.
func (i *Index) Packages() []Package {
	out := make([]Package, 0, len(i.byName))
	for _, p := range i.byName {
		out = append(out, p)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Key < out[b].Key })
	return out
}

// Names returns the normalized names in sorted order.
func (i *Index) Names() []string {
	names := make([]string, 0, len(i.byName))
	for k := range i.byName {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Conflicts returns the name conflicts resolved while building the index.
func (i *Index) Conflicts() []Conflict {
	return append([]Conflict(nil), i.conflicts...)
}

// insert keeps the first package seen for a key. Scan order encodes the
// conflict policy, so later arrivals always lose.
func (i *Index) insert(p Package) (Package, bool) {
	if existing, ok := i.byName[p.Key]; ok {
		i.conflicts = append(i.conflicts, Conflict{Key: p.Key, Kept: existing.Dir, Dropped: p.Dir})
		return existing, false
	}
	i.byName[p.Key] = p
	return p, true
}
