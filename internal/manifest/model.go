package manifest

import (
	"slices"
	"strings"
)

// Format identifies which manifest file a package was read from.
type Format string

const (
	FormatPyproject Format = "pyproject.toml"
	FormatSetupPy   Format = "setup.py"
)

// Dependency groups that are not declared under [tool.poetry.group.*].
const (
	GroupMain = "main"
	GroupDev  = "dev"
)

// Package is a directory identified as a Python package by a manifest
// found directly inside it.
type Package struct {
	Name     string `json:"name" yaml:"name"`
	Version  string `json:"version,omitempty" yaml:"version,omitempty"`
	Dir      string `json:"dir" yaml:"dir"`
	Manifest string `json:"manifest" yaml:"manifest"`
	Format   Format `json:"format" yaml:"format"`
}

// Project is the consuming project whose dependencies are resolved.
type Project struct {
	Name         string
	Version      string
	Dir          string
	Path         string
	Dependencies []Dependency
	// ResolverConfig is the raw [tool.poetry-local-resolver] table, nil when absent.
	ResolverConfig map[string]any
}

// Dependency is one declared dependency of the consuming project.
type Dependency struct {
	Name  string `json:"name" yaml:"name"`
	Group string `json:"group" yaml:"group"`
	Spec  Spec   `json:"spec" yaml:"spec"`
	// Alternatives holds the multiple-constraints form; Spec is zero when set.
	Alternatives []Spec `json:"alternatives,omitempty" yaml:"alternatives,omitempty"`
}

// Spec is the right-hand side of a dependency declaration.
type Spec struct {
	Version          string   `json:"version,omitempty" yaml:"version,omitempty"`
	Path             string   `json:"path,omitempty" yaml:"path,omitempty"`
	Develop          bool     `json:"develop,omitempty" yaml:"develop,omitempty"`
	Optional         bool     `json:"optional,omitempty" yaml:"optional,omitempty"`
	AllowPrereleases bool     `json:"allow_prereleases,omitempty" yaml:"allow_prereleases,omitempty"`
	Extras           []string `json:"extras,omitempty" yaml:"extras,omitempty"`
	Git              string   `json:"git,omitempty" yaml:"git,omitempty"`
	Branch           string   `json:"branch,omitempty" yaml:"branch,omitempty"`
	Tag              string   `json:"tag,omitempty" yaml:"tag,omitempty"`
	Rev              string   `json:"rev,omitempty" yaml:"rev,omitempty"`
	URL              string   `json:"url,omitempty" yaml:"url,omitempty"`
	Source           string   `json:"source,omitempty" yaml:"source,omitempty"`
	Markers          string   `json:"markers,omitempty" yaml:"markers,omitempty"`
	Python           string   `json:"python,omitempty" yaml:"python,omitempty"`
}

// IsPath reports whether the dependency already points at a local path.
func (d Dependency) IsPath() bool {
	if d.Spec.Path != "" {
		return true
	}
	for _, alt := range d.Alternatives {
		if alt.Path != "" {
			return true
		}
	}
	return false
}

// IsInterpreter reports whether the entry is Poetry's python constraint
// rather than a package.
func (d Dependency) IsInterpreter() bool {
	return d.Group == GroupMain && strings.EqualFold(d.Name, "python")
}

// Constraint renders the declared requirement for display.
func (d Dependency) Constraint() string {
	if len(d.Alternatives) > 0 {
		parts := make([]string, len(d.Alternatives))
		for i, alt := range d.Alternatives {
			parts[i] = alt.Constraint()
		}
		return strings.Join(parts, " | ")
	}
	return d.Spec.Constraint()
}

// Clone returns a deep copy of d.
func (d Dependency) Clone() Dependency {
	out := d
	out.Spec = d.Spec.clone()
	if d.Alternatives != nil {
		out.Alternatives = make([]Spec, len(d.Alternatives))
		for i, alt := range d.Alternatives {
			out.Alternatives[i] = alt.clone()
		}
	}
	return out
}

// Constraint renders s as the user would read it in pyproject.toml.
func (s Spec) Constraint() string {
	switch {
	case s.Path != "":
		return "path:" + s.Path
	case s.Git != "":
		return "git:" + s.Git
	case s.URL != "":
		return "url:" + s.URL
	case s.Version != "":
		return s.Version
	default:
		return "*"
	}
}

func (s Spec) clone() Spec {
	s.Extras = slices.Clone(s.Extras)
	return s
}
