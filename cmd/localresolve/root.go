package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "localresolve",
		Short:         "Resolve Poetry dependencies from sibling workspace packages",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("project", ".", "Directory (or pyproject.toml) of the consuming project")
	cmd.PersistentFlags().String("config", "", "Resolver config file (default: <project>/local-resolver.yaml if present)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log scan and resolution details")
	cmd.PersistentFlags().String("log-format", "console", "Log format: console or json")

	cmd.AddCommand(
		newStatusCmd(),
		newResolveCmd(),
		newExplainCmd(),
		newInitCmd(),
		newDoctorCmd(),
	)

	return cmd
}
