package plan

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/calltree/localresolve/internal/resolver"
)

// Build converts a committed resolver result into a plan file.
func Build(project, toolVersion string, now time.Time, res resolver.Result) *File {
	f := &File{
		Version:      Version,
		Project:      project,
		GeneratedAt:  now.Format(time.RFC3339),
		ToolVersion:  toolVersion,
		Dependencies: make([]Entry, 0, len(res.Decisions)),
	}
	for _, d := range res.Decisions {
		dep := d.Result.Clone()
		e := Entry{
			Name:         d.Name,
			Group:        d.Group,
			Decision:     string(d.Kind),
			Reason:       string(d.Reason),
			Spec:         dep.Spec,
			Alternatives: dep.Alternatives,
		}
		if !dep.IsPath() {
			e.Constraint = dep.Constraint()
		}
		f.Dependencies = append(f.Dependencies, e)
	}
	return f
}

// Load reads a plan file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is a user-provided plan file
	if err != nil {
		return nil, fmt.Errorf("reading plan file: %w", err)
	}
	return Parse(data)
}

// Parse parses plan YAML content.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing plan YAML: %w", err)
	}
	if f.Version != Version {
		return nil, fmt.Errorf("unsupported plan version: %d (expected %d)", f.Version, Version)
	}
	return &f, nil
}

// Save writes the plan file to disk.
func Save(path string, f *File) error {
	data, err := Marshal(f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil { //nolint:gosec // plan file needs to be readable
		return fmt.Errorf("writing plan file: %w", err)
	}
	return nil
}

// Marshal renders the plan as YAML.
func Marshal(f *File) ([]byte, error) {
	data, err := yaml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("marshaling plan file: %w", err)
	}
	return data, nil
}
