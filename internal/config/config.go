// Package config loads resolver options.
//
// Options come from the [tool.poetry-local-resolver] table of the consuming
// project's pyproject.toml, then an optional local-resolver.yaml next to it,
// then the environment. Lists are appended across sources; scalars are
// overridden by later sources. Malformed values never abort: Validate drops
// them and reports an *OptionError for each.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the optional per-project config file.
const FileName = "local-resolver.yaml"

const (
	// DefaultMaxDepth scans only the immediate children of each search path.
	DefaultMaxDepth = 1
	// MaxDepthLimit bounds the recursive scan mode.
	MaxDepthLimit = 4
)

// Environment overrides.
const (
	EnvDisableFor = "LOCAL_RESOLVER_DISABLE_FOR"
	EnvOff        = "LOCAL_RESOLVER_OFF"
)

// Config holds the resolver options for one session.
type Config struct {
	SearchPaths        []string `yaml:"search_paths,omitempty"`
	Exclude            []string `yaml:"exclude,omitempty"`
	DisableFor         []string `yaml:"disable_for,omitempty"`
	MaxDepth           int      `yaml:"max_depth,omitempty"`
	IncludeGrandparent *bool    `yaml:"include_grandparent,omitempty"`
	// Off turns local resolution off entirely; every dependency defers to
	// remote. Nil means unset so a later source can still turn it back on.
	Off *bool `yaml:"off,omitempty"`
}

// OptionError reports a malformed option value that was ignored.
type OptionError struct {
	Option string
	Value  string
	Err    error
}

func (e *OptionError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("config: %s: %v", e.Option, e.Err)
	}
	return fmt.Sprintf("config: %s: %q: %v", e.Option, e.Value, e.Err)
}

func (e *OptionError) Unwrap() error { return e.Err }

// Depth returns the effective scan depth.
func (c Config) Depth() int {
	if c.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return c.MaxDepth
}

// Grandparent reports whether the project's grandparent is an implicit search path.
func (c Config) Grandparent() bool {
	if c.IncludeGrandparent != nil {
		return *c.IncludeGrandparent
	}
	return true
}

// Disabled reports whether local resolution is turned off.
func (c Config) Disabled() bool {
	return c.Off != nil && *c.Off
}

// Merge appends overlay's lists to c's and lets overlay's scalars win.
func (c Config) Merge(overlay Config) Config {
	out := Config{
		SearchPaths:        append(append([]string(nil), c.SearchPaths...), overlay.SearchPaths...),
		Exclude:            append(append([]string(nil), c.Exclude...), overlay.Exclude...),
		DisableFor:         append(append([]string(nil), c.DisableFor...), overlay.DisableFor...),
		MaxDepth:           c.MaxDepth,
		IncludeGrandparent: c.IncludeGrandparent,
		Off:                c.Off,
	}
	if overlay.MaxDepth != 0 {
		out.MaxDepth = overlay.MaxDepth
	}
	if overlay.IncludeGrandparent != nil {
		out.IncludeGrandparent = overlay.IncludeGrandparent
	}
	if overlay.Off != nil {
		out.Off = overlay.Off
	}
	return out
}

// Validate removes malformed values in place and returns one error per
// removed value.
func (c *Config) Validate() []error {
	var warnings []error

	exclude := c.Exclude[:0]
	for _, p := range c.Exclude {
		if strings.TrimSpace(p) == "" {
			warnings = append(warnings, &OptionError{Option: "exclude", Err: errors.New("empty pattern")})
			continue
		}
		if _, err := filepath.Match(p, ""); err != nil {
			warnings = append(warnings, &OptionError{Option: "exclude", Value: p, Err: err})
			continue
		}
		exclude = append(exclude, p)
	}
	c.Exclude = exclude

	c.SearchPaths = dropEmpty(c.SearchPaths, "search_paths", &warnings)
	c.DisableFor = dropEmpty(c.DisableFor, "disable_for", &warnings)

	switch {
	case c.MaxDepth < 0:
		warnings = append(warnings, &OptionError{
			Option: "max_depth", Value: strconv.Itoa(c.MaxDepth),
			Err: errors.New("must be positive; using default"),
		})
		c.MaxDepth = DefaultMaxDepth
	case c.MaxDepth > MaxDepthLimit:
		warnings = append(warnings, &OptionError{
			Option: "max_depth", Value: strconv.Itoa(c.MaxDepth),
			Err: fmt.Errorf("capped at %d", MaxDepthLimit),
		})
		c.MaxDepth = MaxDepthLimit
	}
	return warnings
}

func dropEmpty(values []string, option string, warnings *[]error) []string {
	out := values[:0]
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			*warnings = append(*warnings, &OptionError{Option: option, Err: errors.New("empty entry ignored")})
			continue
		}
		out = append(out, strings.TrimSpace(v))
	}
	return out
}

// LoadFile reads a local-resolver.yaml file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is a user config file
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse parses local-resolver.yaml content.
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	return &c, nil
}

// Save writes c as YAML.
func Save(path string, c *Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil { //nolint:gosec // config file needs to be readable
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// FromTable converts the raw [tool.poetry-local-resolver] table. Entries of
// the wrong type are skipped with a warning.
func FromTable(t map[string]any) (Config, []error) {
	var c Config
	var warnings []error
	if t == nil {
		return c, nil
	}

	lists := map[string]*[]string{
		"search_paths": &c.SearchPaths,
		"exclude":      &c.Exclude,
		"disable_for":  &c.DisableFor,
	}
	for key, dst := range lists {
		v, ok := t[key]
		if !ok {
			continue
		}
		values, err := stringList(v)
		if err != nil {
			warnings = append(warnings, &OptionError{Option: key, Err: err})
		}
		*dst = values
	}

	if v, ok := t["max_depth"]; ok {
		if n, ok := v.(int64); ok {
			c.MaxDepth = int(n)
		} else {
			warnings = append(warnings, &OptionError{Option: "max_depth", Err: fmt.Errorf("expected integer, got %T", v)})
		}
	}
	if v, ok := t["include_grandparent"]; ok {
		if b, ok := v.(bool); ok {
			c.IncludeGrandparent = &b
		} else {
			warnings = append(warnings, &OptionError{Option: "include_grandparent", Err: fmt.Errorf("expected boolean, got %T", v)})
		}
	}
	if v, ok := t["off"]; ok {
		if b, ok := v.(bool); ok {
			c.Off = &b
		} else {
			warnings = append(warnings, &OptionError{Option: "off", Err: fmt.Errorf("expected boolean, got %T", v)})
		}
	}
	return c, warnings
}

// stringList accepts a list of strings, keeping the valid entries when
// some are not strings.
func stringList(v any) ([]string, error) {
	switch val := v.(type) {
	case []string:
		return val, nil
	case []any:
		out := make([]string, 0, len(val))
		var bad int
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				bad++
				continue
			}
			out = append(out, s)
		}
		if bad > 0 {
			return out, fmt.Errorf("%d non-string entries ignored", bad)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected list of strings, got %T", v)
	}
}

// FromEnv reads the environment overrides using getenv.
func FromEnv(getenv func(string) string) Config {
	var c Config
	if v := getenv(EnvDisableFor); v != "" {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				c.DisableFor = append(c.DisableFor, name)
			}
		}
	}
	if v := getenv(EnvOff); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Off = &b
		}
	}
	return c
}
