package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Sources names the inputs Load combines.
type Sources struct {
	// ProjectDir holds the consuming project; FileName is looked up there.
	ProjectDir string
	// Table is the raw [tool.poetry-local-resolver] table, may be nil.
	Table map[string]any
	// File is an explicit config file. Unlike the default file it must exist.
	File string
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// Load merges every source and validates the result. Returned warnings are
// non-fatal; the error is only set when an explicit file cannot be read or
// a config file is not valid YAML.
func Load(src Sources) (Config, []error, error) {
	cfg, warnings := FromTable(src.Table)

	file := src.File
	required := file != ""
	if !required && src.ProjectDir != "" {
		file = filepath.Join(src.ProjectDir, FileName)
	}
	if file != "" {
		fc, err := LoadFile(file)
		switch {
		case err == nil:
			cfg = cfg.Merge(*fc)
		case !required && errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, warnings, fmt.Errorf("%s: %w", file, err)
		}
	}

	getenv := src.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg = cfg.Merge(FromEnv(getenv))

	warnings = append(warnings, cfg.Validate()...)
	return cfg, warnings, nil
}
