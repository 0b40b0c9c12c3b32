package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/calltree/localresolve/internal/manifest"
	"github.com/calltree/localresolve/internal/pkgname"
	"github.com/calltree/localresolve/internal/resolver"
)

const maxSuggestions = 3

var (
	nameStyle   = lipgloss.NewStyle().Bold(true)
	localStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	remoteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	hintStyle   = lipgloss.NewStyle().Faint(true)
)

func newExplainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain <dependency>",
		Short: "Explain how a single dependency would be resolved",
		Args:  cobra.ExactArgs(1),
		RunE:  runExplain,
	}
}

func runExplain(cmd *cobra.Command, args []string) error {
	name := args[0]

	rt, err := loadRuntime(cmd, false)
	if err != nil {
		return err
	}

	dep, declared := findDependency(rt.Project, name)
	res, err := intercept(rt, []manifest.Dependency{dep})
	if err != nil {
		return err
	}
	d := res.Decisions[0]

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, nameStyle.Render(d.Name))
	if declared {
		_, _ = fmt.Fprintf(out, "  declared:  %s (group %s)\n", d.Original.Constraint(), d.Group)
	} else {
		_, _ = fmt.Fprintln(out, "  declared:  "+hintStyle.Render("not declared by this project"))
	}

	if d.Kind == resolver.KindLocal {
		_, _ = fmt.Fprintf(out, "  decision:  %s (%s)\n", localStyle.Render(string(d.Kind)), d.Reason)
		_, _ = fmt.Fprintf(out, "  path:      %s\n", d.Path)
		_, _ = fmt.Fprintf(out, "  directory: %s\n", d.Dir)
		if d.LocalVersion != "" {
			_, _ = fmt.Fprintf(out, "  local version: %s\n", d.LocalVersion)
		}
		_, _ = fmt.Fprintln(out, hintStyle.Render("  the declared constraint is not checked against the local version"))
		return nil
	}

	_, _ = fmt.Fprintf(out, "  decision:  %s (%s)\n", remoteStyle.Render(string(d.Kind)), d.Reason)
	if d.Reason == resolver.ReasonNotFound && rt.Session != nil {
		idx, err := rt.Session.Index()
		if err != nil {
			return err
		}
		writeSuggestions(out, name, idx.Names())
	}
	return nil
}

// findDependency returns the project's declaration of name, or a bare
// unconstrained dependency when the project does not declare it.
func findDependency(p *manifest.Project, name string) (manifest.Dependency, bool) {
	if p != nil {
		for _, d := range p.Dependencies {
			if pkgname.Equal(d.Name, name) {
				return d, true
			}
		}
	}
	return manifest.Dependency{Name: name, Group: manifest.GroupMain, Spec: manifest.Spec{Version: "*"}}, false
}

func writeSuggestions(w io.Writer, name string, candidates []string) {
	matches := fuzzy.Find(pkgname.Normalize(name), candidates)
	if len(matches) == 0 {
		return
	}
	var names []string
	for i, m := range matches {
		if i == maxSuggestions {
			break
		}
		names = append(names, m.Str)
	}
	_, _ = fmt.Fprintf(w, "  did you mean: %s?\n", strings.Join(names, ", "))
}
