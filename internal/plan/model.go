package plan

import "github.com/calltree/localresolve/internal/manifest"

// Version is the current plan file format.
const Version = 2

// File represents a resolution plan YAML document.
type File struct {
	Version      int     `yaml:"version"`
	Project      string  `yaml:"project"`
	GeneratedAt  string  `yaml:"generated_at"`
	ToolVersion  string  `yaml:"tool_version"`
	Dependencies []Entry `yaml:"dependencies"`
}

// Entry records the decision for one dependency and the specification the
// host resolver should use. Remote entries carry the declaration exactly as
// written; local entries carry a develop path and no version, so the host's
// lock file does not hash-pin them.
type Entry struct {
	Name     string `yaml:"name"`
	Group    string `yaml:"group"`
	Decision string `yaml:"decision"`
	Reason   string `yaml:"reason"`
	// Constraint is for people reading the file; Spec and Alternatives are
	// authoritative.
	Constraint   string          `yaml:"constraint,omitempty"`
	Spec         manifest.Spec   `yaml:"spec,omitempty"`
	Alternatives []manifest.Spec `yaml:"alternatives,omitempty"`
}

// Dependency rebuilds the declaration the entry describes.
func (e Entry) Dependency() manifest.Dependency {
	return manifest.Dependency{Name: e.Name, Group: e.Group, Spec: e.Spec, Alternatives: e.Alternatives}.Clone()
}
