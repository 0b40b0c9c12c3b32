package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/calltree/localresolve/internal/config"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create local-resolver.yaml for the project, interactively or from flags",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
	cmd.Flags().StringSlice("search-path", nil, "Additional search path (repeatable)")
	cmd.Flags().StringSlice("exclude", nil, "Extra directory pattern to skip (repeatable)")
	cmd.Flags().StringSlice("disable-for", nil, "Package that always resolves remotely (repeatable)")
	cmd.Flags().Bool("no-grandparent", false, "Do not search the project's grandparent directory")
	cmd.Flags().Bool("force", false, "Overwrite an existing config file")
	return cmd
}

func runInit(cmd *cobra.Command, _ []string) error {
	projectArg, _ := cmd.Flags().GetString("project")
	searchPaths, _ := cmd.Flags().GetStringSlice("search-path")
	exclude, _ := cmd.Flags().GetStringSlice("exclude")
	disableFor, _ := cmd.Flags().GetStringSlice("disable-for")
	noGrandparent, _ := cmd.Flags().GetBool("no-grandparent")
	force, _ := cmd.Flags().GetBool("force")

	dir, _, err := projectLocation(projectArg)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	// Build the config before writing so a failed prompt leaves nothing behind.
	var cfg *config.Config
	fromFlags := len(searchPaths)+len(exclude)+len(disableFor) > 0 || noGrandparent
	switch {
	case fromFlags:
		cfg = &config.Config{SearchPaths: searchPaths, Exclude: exclude, DisableFor: disableFor}
		if noGrandparent {
			no := false
			cfg.IncludeGrandparent = &no
		}
	default:
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("interactive init requires a TTY; use --search-path, --exclude or --disable-for")
		}
		cfg, err = interactiveConfig(dir)
		if err != nil {
			return fmt.Errorf("interactive setup: %w", err)
		}
	}

	for _, w := range cfg.Validate() {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", w)
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Resolver config written to %s\n", path)
	return nil
}
