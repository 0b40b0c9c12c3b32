package resolver

import (
	"slices"
	"sort"

	"github.com/calltree/localresolve/internal/manifest"
	"github.com/calltree/localresolve/internal/pkgname"
)

// Kind is the outcome for one dependency.
type Kind string

const (
	KindLocal  Kind = "local"
	KindRemote Kind = "remote"
)

// Reason explains why a Kind was chosen.
type Reason string

const (
	ReasonLocalMatch  Reason = "local-match"
	ReasonDisabled    Reason = "disabled"
	ReasonNotFound    Reason = "not-in-workspace"
	ReasonAlreadyPath Reason = "already-path"
	ReasonInterpreter Reason = "interpreter"
	ReasonOff         Reason = "resolver-off"
)

// Decision is the resolution of one declared dependency.
type Decision struct {
	Name   string `json:"name" yaml:"name"`
	Group  string `json:"group" yaml:"group"`
	Kind   Kind   `json:"kind" yaml:"kind"`
	Reason Reason `json:"reason" yaml:"reason"`
	// Path is the reference written into the rewritten dependency.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
	// Dir is the absolute directory of the local package.
	Dir          string `json:"dir,omitempty" yaml:"dir,omitempty"`
	LocalVersion string `json:"local_version,omitempty" yaml:"local_version,omitempty"`

	Original manifest.Dependency `json:"original" yaml:"original"`
	Result   manifest.Dependency `json:"result" yaml:"result"`
}

// Result is the committed output of Intercept.
type Result struct {
	Dependencies []manifest.Dependency
	Decisions    []Decision
}

// Local returns the decisions that resolved to a local path.
func (r Result) Local() []Decision {
	var out []Decision
	for _, d := range r.Decisions {
		if d.Kind == KindLocal {
			out = append(out, d)
		}
	}
	return out
}

// DisableList holds normalized names that must always defer to remote.
type DisableList struct {
	names map[string]struct{}
}

// NewDisableList normalizes names into a DisableList.
func NewDisableList(names []string) DisableList {
	d := DisableList{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		if key := pkgname.Normalize(n); key != "" {
			d.names[key] = struct{}{}
		}
	}
	return d
}

// Contains reports whether name is disabled, after normalization.
func (d DisableList) Contains(name string) bool {
	_, ok := d.names[pkgname.Normalize(name)]
	return ok
}

// Names returns the disabled names sorted.
func (d DisableList) Names() []string {
	out := make([]string, 0, len(d.names))
	for n := range d.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// toPath turns dep into a develop-mode path dependency, keeping the
// attributes that still apply to a local source.
func toPath(dep manifest.Dependency, path string) manifest.Dependency {
	spec := manifest.Spec{Path: path, Develop: true}
	if len(dep.Alternatives) > 0 {
		first := dep.Alternatives[0]
		spec.Optional = first.Optional
		spec.AllowPrereleases = first.AllowPrereleases
		spec.Extras = slices.Clone(first.Extras)
	} else {
		spec.Optional = dep.Spec.Optional
		spec.AllowPrereleases = dep.Spec.AllowPrereleases
		spec.Extras = slices.Clone(dep.Spec.Extras)
		spec.Markers = dep.Spec.Markers
		spec.Python = dep.Spec.Python
	}
	return manifest.Dependency{Name: dep.Name, Group: dep.Group, Spec: spec}
}
