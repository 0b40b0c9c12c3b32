package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/calltree/localresolve/internal/manifest"
	"github.com/calltree/localresolve/internal/plan"
	"github.com/calltree/localresolve/internal/resolver"
	"github.com/calltree/localresolve/internal/ui"
)

// resolveOutput is the JSON form of a resolution: the list handed to the
// host resolver and the decision behind each entry.
type resolveOutput struct {
	Dependencies []manifest.Dependency `json:"dependencies"`
	Decisions    []resolver.Decision   `json:"decisions"`
}

func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Decide local or remote resolution for every declared dependency",
		Long: `Scan the workspace once, then decide for each dependency declared in the
project's pyproject.toml whether it is satisfied from a sibling package
(rewritten to a develop path dependency) or left for the remote registry.

Local packages always win over the declared version constraint. Path
dependencies are not content-hash pinned by the lock file.`,
		Args: cobra.NoArgs,
		RunE: runResolve,
	}
	cmd.Flags().StringP("output", "o", "", "Write the resolution plan (YAML) to this file")
	cmd.Flags().String("format", "text", "Output format: text, yaml or json")
	return cmd
}

func runResolve(cmd *cobra.Command, _ []string) error {
	output, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "text", "yaml", "json":
	default:
		return fmt.Errorf("unknown format %q (must be text, yaml, or json)", format)
	}

	rt, err := loadRuntime(cmd, true)
	if err != nil {
		return err
	}

	res, err := intercept(rt, rt.Project.Dependencies)
	if err != nil {
		return err
	}

	f := plan.Build(rt.Project.Name, version, time.Now(), res)
	out := cmd.OutOrStdout()
	switch format {
	case "yaml":
		data, err := plan.Marshal(f)
		if err != nil {
			return err
		}
		if _, err := out.Write(data); err != nil {
			return err
		}
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resolveOutput{Dependencies: res.Dependencies, Decisions: res.Decisions}); err != nil {
			return err
		}
	default:
		if err := writeDecisionTable(out, res); err != nil {
			return err
		}
	}

	if output != "" {
		if err := plan.Save(output, f); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Resolution plan written to %s\n", output)
	}
	return nil
}

// intercept builds the index (unless resolution is off) and runs the
// interceptor. A fatal scan error returns before any decision is made.
func intercept(rt *runtime, deps []manifest.Dependency) (resolver.Result, error) {
	ic := &resolver.Interceptor{
		ProjectDir: rt.ProjectDir,
		Disable:    resolver.NewDisableList(rt.Config.DisableFor),
		Off:        rt.Config.Disabled(),
		Logger:     rt.Logger,
	}
	if !rt.Config.Disabled() {
		idx, err := rt.Session.Index()
		if err != nil {
			return resolver.Result{Dependencies: deps}, err
		}
		rt.Logger.Info("Found local packages in workspace", zap.Int("count", idx.Len()))
		ic.Index = idx
	}
	return ic.Intercept(deps)
}

func writeDecisionTable(w io.Writer, res resolver.Result) error {
	tbl := ui.NewTable(w, "DEPENDENCY", "GROUP", "DECISION", "REASON", "TARGET")
	for _, d := range res.Decisions {
		target := d.Path
		if d.Kind == resolver.KindRemote {
			target = d.Original.Constraint()
		}
		tbl.Row(d.Name, d.Group, d.Kind, d.Reason, target)
	}
	return tbl.Flush()
}
