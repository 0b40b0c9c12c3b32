package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calltree/localresolve/internal/report"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show local packages found in the workspace",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	cmd.Flags().Bool("table", false, "Output as a table with versions and manifest formats")
	cmd.Flags().Bool("git", false, "Include branch, HEAD and dirty state of each package (implies --table)")
	return cmd
}

func runStatus(cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	asTable, _ := cmd.Flags().GetBool("table")
	withGit, _ := cmd.Flags().GetBool("git")

	rt, err := loadRuntime(cmd, false)
	if err != nil {
		return err
	}
	idx, err := rt.Session.Index()
	if err != nil {
		return err
	}

	entries := report.Report(idx)
	if withGit {
		entries = report.WithGit(entries)
	}

	out := cmd.OutOrStdout()
	switch {
	case asJSON:
		return report.WriteJSON(out, entries)
	case len(entries) == 0:
		_, _ = fmt.Fprintln(out, "No local packages found in workspace")
		return nil
	case asTable || withGit:
		return report.WriteTable(out, entries)
	default:
		return report.WritePlain(out, entries)
	}
}
