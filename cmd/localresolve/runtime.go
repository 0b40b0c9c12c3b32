package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/calltree/localresolve/internal/config"
	"github.com/calltree/localresolve/internal/logging"
	"github.com/calltree/localresolve/internal/manifest"
	"github.com/calltree/localresolve/internal/workspace"
)

// runtime is what every command needs for one invocation: the consuming
// project, its merged config, and a session that scans at most once.
type runtime struct {
	ProjectDir string
	Project    *manifest.Project // nil when the project has no pyproject.toml
	Config     config.Config
	Warnings   []error
	Paths      []workspace.SearchPath
	Session    *workspace.Session
	Logger     *zap.Logger
}

func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	format, _ := cmd.Flags().GetString("log-format")
	return logging.New(logging.Options{Verbose: verbose, Format: format, Out: cmd.ErrOrStderr()})
}

// projectLocation accepts either a project directory or its pyproject.toml.
func projectLocation(arg string) (dir, manifestPath string, err error) {
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", "", fmt.Errorf("resolving project path: %w", err)
	}
	if filepath.Base(abs) == string(manifest.FormatPyproject) {
		return filepath.Dir(abs), abs, nil
	}
	return abs, filepath.Join(abs, string(manifest.FormatPyproject)), nil
}

// loadRuntime reads the project and config and prepares the scan. When
// requireProject is false a missing pyproject.toml is tolerated.
func loadRuntime(cmd *cobra.Command, requireProject bool) (*runtime, error) {
	projectArg, _ := cmd.Flags().GetString("project")
	configFile, _ := cmd.Flags().GetString("config")

	log, err := newLogger(cmd)
	if err != nil {
		return nil, err
	}

	dir, manifestPath, err := projectLocation(projectArg)
	if err != nil {
		return nil, err
	}

	rt := &runtime{ProjectDir: dir, Logger: log}

	project, err := manifest.LoadProject(manifestPath)
	switch {
	case err == nil:
		rt.Project = project
	case errors.Is(err, os.ErrNotExist) && !requireProject:
		log.Debug("No project manifest; using defaults", zap.String("dir", dir))
	case errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("no %s in %s (use --project to point at the consuming project)", manifest.FormatPyproject, dir)
	default:
		return nil, err
	}

	var table map[string]any
	if rt.Project != nil {
		table = rt.Project.ResolverConfig
	}
	cfg, warnings, err := config.Load(config.Sources{ProjectDir: dir, Table: table, File: configFile})
	if err != nil {
		return nil, err
	}
	rt.Config = cfg
	rt.Warnings = warnings
	for _, w := range warnings {
		log.Warn("Ignoring invalid resolver option", zap.Error(w))
	}

	filter, filterWarnings := workspace.NewFilter(cfg.Exclude)
	for _, w := range filterWarnings {
		log.Warn("Ignoring invalid exclude pattern", zap.Error(w))
	}

	rt.Paths, err = workspace.ResolveSearchPaths(dir, cfg.SearchPaths, cfg.Grandparent())
	if err != nil {
		return nil, err
	}
	scanner := &workspace.Scanner{
		Filter:   filter,
		MaxDepth: cfg.Depth(),
		Skip:     []string{dir},
		Logger:   log,
	}
	rt.Session = workspace.NewSession(scanner, rt.Paths)
	return rt, nil
}
