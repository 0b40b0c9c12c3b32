package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/calltree/localresolve/internal/pkgname"
)

var (
	// ErrNoManifest means the directory holds neither pyproject.toml nor setup.py.
	ErrNoManifest = errors.New("no package manifest")

	// ErrNoName means a manifest exists but declares no package name.
	ErrNoName = errors.New("manifest declares no package name")
)

type pyprojectFile struct {
	Tool struct {
		Poetry        poetrySection  `toml:"poetry"`
		LocalResolver map[string]any `toml:"poetry-local-resolver"`
	} `toml:"tool"`
	Project struct {
		Name                 string              `toml:"name"`
		Version              string              `toml:"version"`
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
}

type poetrySection struct {
	Name            string                 `toml:"name"`
	Version         string                 `toml:"version"`
	Dependencies    map[string]any         `toml:"dependencies"`
	DevDependencies map[string]any         `toml:"dev-dependencies"`
	Group           map[string]poetryGroup `toml:"group"`
}

type poetryGroup struct {
	Dependencies map[string]any `toml:"dependencies"`
}

// ReadPackage identifies the package in dir. pyproject.toml is tried first;
// setup.py is only read when pyproject.toml does not exist.
func ReadPackage(dir string) (*Package, error) {
	candidates := []struct {
		format Format
		parse  func([]byte) (string, string, error)
	}{
		{FormatPyproject, ParsePyprojectIdentity},
		{FormatSetupPy, ParseSetupPy},
	}

	for _, c := range candidates {
		path := filepath.Join(dir, string(c.format))
		data, err := os.ReadFile(path) //nolint:gosec // path is a manifest inside a scanned directory
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		name, version, err := c.parse(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		if name == "" {
			return nil, fmt.Errorf("%s: %w", path, ErrNoName)
		}
		return &Package{
			Name:     name,
			Version:  version,
			Dir:      dir,
			Manifest: path,
			Format:   c.format,
		}, nil
	}
	return nil, fmt.Errorf("%s: %w", dir, ErrNoManifest)
}

// ParsePyprojectIdentity extracts the package name and version, preferring
// [tool.poetry] over the PEP 621 [project] table.
func ParsePyprojectIdentity(data []byte) (name, version string, err error) {
	var f pyprojectFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return "", "", fmt.Errorf("parsing pyproject TOML: %w", err)
	}
	if n := strings.TrimSpace(f.Tool.Poetry.Name); n != "" {
		return n, f.Tool.Poetry.Version, nil
	}
	return strings.TrimSpace(f.Project.Name), f.Project.Version, nil
}

var (
	setupCall    = regexp.MustCompile(`\bsetup\s*\(`)
	setupKeyword = regexp.MustCompile(`^\s*(name|version)\s*=\s*(['"])([^'"\n]+)['"]\s*$`)
)

// ParseSetupPy extracts literal name= and version= keyword arguments from
// the setup() call of a legacy setup.py. Only arguments of setup() itself
// count; keywords of nested calls such as Extension(name=...) are ignored.
// Computed values are not evaluated.
func ParseSetupPy(data []byte) (name, version string, err error) {
	src := string(data)
	loc := setupCall.FindStringIndex(src)
	if loc == nil {
		return "", "", nil
	}
	for _, arg := range callArguments(src[loc[1]:]) {
		m := setupKeyword.FindStringSubmatch(arg)
		if m == nil {
			continue
		}
		switch value := strings.TrimSpace(m[3]); m[1] {
		case "name":
			if name == "" {
				name = value
			}
		case "version":
			if version == "" {
				version = value
			}
		}
	}
	return name, version, nil
}

// callArguments splits the argument list that starts right after an opening
// parenthesis into its top-level arguments. Brackets nested inside an
// argument, string literals and comments do not split it. Scanning stops at
// the matching closing parenthesis.
func callArguments(body string) []string {
	var (
		args  []string
		cur   strings.Builder
		depth int
		quote byte
	)
	for i := 0; i < len(body); i++ {
		c := body[i]
		if quote != 0 {
			cur.WriteByte(c)
			switch {
			case c == '\\' && i+1 < len(body):
				i++
				cur.WriteByte(body[i])
			case c == quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '#':
			for i < len(body) && body[i] != '\n' {
				i++
			}
			continue
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth == 0 {
				return append(args, cur.String())
			}
			depth--
		case ',':
			if depth == 0 {
				args = append(args, cur.String())
				cur.Reset()
				continue
			}
		}
		cur.WriteByte(c)
	}
	return append(args, cur.String())
}

// LoadProject reads the consuming project's pyproject.toml.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is the project manifest
	if err != nil {
		return nil, fmt.Errorf("reading project manifest: %w", err)
	}
	p, err := ParseProject(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving project manifest path: %w", err)
	}
	p.Path = abs
	p.Dir = filepath.Dir(abs)
	return p, nil
}

// ParseProject parses pyproject.toml content into a Project. Dependencies
// come from the PEP 621 [project] tables and from Poetry's own tables. They
// are ordered main, dev, then Poetry groups and PEP 621 extras
// alphabetically; by name within a group. A [tool.poetry.dependencies]
// entry naming a [project].dependencies requirement enriches it instead of
// adding a second entry.
func ParseProject(data []byte) (*Project, error) {
	var f pyprojectFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing pyproject TOML: %w", err)
	}

	p := &Project{
		Name:           f.Tool.Poetry.Name,
		Version:        f.Tool.Poetry.Version,
		ResolverConfig: f.Tool.LocalResolver,
	}
	if p.Name == "" {
		p.Name = f.Project.Name
		p.Version = f.Project.Version
	}

	mainDeps, err := requirementDependencies(GroupMain, f.Project.Dependencies, false)
	if err != nil {
		return nil, err
	}
	poetryMain, err := tableDependencies(GroupMain, f.Tool.Poetry.Dependencies)
	if err != nil {
		return nil, err
	}
	p.Dependencies = append(p.Dependencies, mergeMain(mainDeps, poetryMain)...)

	dev, err := tableDependencies(GroupDev, f.Tool.Poetry.DevDependencies)
	if err != nil {
		return nil, err
	}
	p.Dependencies = append(p.Dependencies, dev...)

	type namedGroup struct {
		name string
		deps []Dependency
	}
	var groups []namedGroup
	for g, table := range f.Tool.Poetry.Group {
		deps, err := tableDependencies(g, table.Dependencies)
		if err != nil {
			return nil, err
		}
		groups = append(groups, namedGroup{g, deps})
	}
	for extra, reqs := range f.Project.OptionalDependencies {
		deps, err := requirementDependencies(extra, reqs, true)
		if err != nil {
			return nil, err
		}
		groups = append(groups, namedGroup{extra, deps})
	}
	sort.SliceStable(groups, func(a, b int) bool { return groups[a].name < groups[b].name })
	for _, g := range groups {
		p.Dependencies = append(p.Dependencies, g.deps...)
	}
	return p, nil
}

// tableDependencies reads a Poetry dependency table, sorted by name.
func tableDependencies(group string, table map[string]any) ([]Dependency, error) {
	names := make([]string, 0, len(table))
	for n := range table {
		names = append(names, n)
	}
	sort.Strings(names)
	deps := make([]Dependency, 0, len(names))
	for _, n := range names {
		dep, err := parseDependency(n, group, table[n])
		if err != nil {
			return nil, err
		}
		deps = append(deps, dep)
	}
	return deps, nil
}

// requirementDependencies reads a list of PEP 508 strings, sorted by name.
// Entries of an extra are optional.
func requirementDependencies(group string, reqs []string, optional bool) ([]Dependency, error) {
	deps := make([]Dependency, 0, len(reqs))
	for _, r := range reqs {
		name, spec, err := ParseRequirement(r)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", group, err)
		}
		spec.Optional = optional
		deps = append(deps, Dependency{Name: name, Group: group, Spec: spec})
	}
	sort.SliceStable(deps, func(a, b int) bool { return deps[a].Name < deps[b].Name })
	return deps, nil
}

// mergeMain combines [project].dependencies with [tool.poetry.dependencies].
// A Poetry entry for the same package replaces the requirement's spec but
// keeps its version, extras and markers when the Poetry entry has none.
func mergeMain(pep621, poetry []Dependency) []Dependency {
	out := append([]Dependency(nil), pep621...)
	for _, dep := range poetry {
		i := slices.IndexFunc(out, func(d Dependency) bool { return pkgname.Equal(d.Name, dep.Name) })
		if i < 0 {
			out = append(out, dep)
			continue
		}
		base := out[i].Spec
		if len(dep.Alternatives) == 0 {
			s := dep.Spec
			if s.Version == "" && s.Path == "" && s.Git == "" && s.URL == "" {
				s.Version = base.Version
			}
			if len(s.Extras) == 0 {
				s.Extras = base.Extras
			}
			if s.Markers == "" {
				s.Markers = base.Markers
			}
			dep.Spec = s
		}
		out[i] = Dependency{Name: out[i].Name, Group: GroupMain, Spec: dep.Spec, Alternatives: dep.Alternatives}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

func parseDependency(name, group string, v any) (Dependency, error) {
	dep := Dependency{Name: name, Group: group}
	switch val := v.(type) {
	case string:
		dep.Spec = Spec{Version: val}
	case map[string]any:
		spec, err := parseSpecTable(val)
		if err != nil {
			return dep, fmt.Errorf("dependency %q: %w", name, err)
		}
		dep.Spec = spec
	case []map[string]any:
		for _, t := range val {
			spec, err := parseSpecTable(t)
			if err != nil {
				return dep, fmt.Errorf("dependency %q: %w", name, err)
			}
			dep.Alternatives = append(dep.Alternatives, spec)
		}
	case []any:
		for _, item := range val {
			t, ok := item.(map[string]any)
			if !ok {
				return dep, fmt.Errorf("dependency %q: constraint list entries must be tables", name)
			}
			spec, err := parseSpecTable(t)
			if err != nil {
				return dep, fmt.Errorf("dependency %q: %w", name, err)
			}
			dep.Alternatives = append(dep.Alternatives, spec)
		}
	default:
		return dep, fmt.Errorf("dependency %q: unsupported value of type %T", name, v)
	}
	return dep, nil
}

func parseSpecTable(t map[string]any) (Spec, error) {
	var s Spec
	strFields := map[string]*string{
		"version": &s.Version,
		"path":    &s.Path,
		"git":     &s.Git,
		"branch":  &s.Branch,
		"tag":     &s.Tag,
		"rev":     &s.Rev,
		"url":     &s.URL,
		"source":  &s.Source,
		"markers": &s.Markers,
		"python":  &s.Python,
	}
	boolFields := map[string]*bool{
		"develop":           &s.Develop,
		"optional":          &s.Optional,
		"allow-prereleases": &s.AllowPrereleases,
	}
	for k, v := range t {
		if dst, ok := strFields[k]; ok {
			str, ok := v.(string)
			if !ok {
				return s, fmt.Errorf("%s must be a string", k)
			}
			*dst = str
			continue
		}
		if dst, ok := boolFields[k]; ok {
			b, ok := v.(bool)
			if !ok {
				return s, fmt.Errorf("%s must be a boolean", k)
			}
			*dst = b
			continue
		}
		if k == "extras" {
			extras, err := toStrings(v)
			if err != nil {
				return s, fmt.Errorf("extras: %w", err)
			}
			s.Extras = extras
		}
	}
	return s, nil
}

func toStrings(v any) ([]string, error) {
	switch val := v.(type) {
	case []string:
		return val, nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected list of strings, got %T", v)
	}
}
