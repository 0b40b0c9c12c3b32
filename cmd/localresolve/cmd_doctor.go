package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/calltree/localresolve/internal/git"
)

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the project, resolver config and search paths",
		Args:  cobra.NoArgs,
		RunE:  runDoctor,
	}
}

type checkLine struct {
	w      io.Writer
	failed bool
}

func (c *checkLine) ok(format string, args ...any) {
	_, _ = fmt.Fprintf(c.w, "%s %s\n", okColor.Sprint("[OK]    "), fmt.Sprintf(format, args...))
}

func (c *checkLine) warn(format string, args ...any) {
	_, _ = fmt.Fprintf(c.w, "%s %s\n", warnColor.Sprint("[WARN]  "), fmt.Sprintf(format, args...))
}

func (c *checkLine) fail(format string, args ...any) {
	c.failed = true
	_, _ = fmt.Fprintf(c.w, "%s %s\n", failColor.Sprint("[FAILED]"), fmt.Sprintf(format, args...))
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime(cmd, false)
	if err != nil {
		return err
	}
	c := &checkLine{w: cmd.OutOrStdout()}

	if rt.Project == nil {
		c.warn("no pyproject.toml in %s; nothing to resolve", rt.ProjectDir)
	} else {
		c.ok("project %s (%d dependencies)", rt.Project.Name, len(rt.Project.Dependencies))
	}

	if len(rt.Warnings) == 0 {
		c.ok("resolver config")
	}
	for _, w := range rt.Warnings {
		c.warn("config: %v", w)
	}
	if rt.Config.Disabled() {
		c.warn("resolver is off; every dependency resolves remotely")
	}

	for _, sp := range rt.Paths {
		kind := "default"
		if sp.Explicit {
			kind = "configured"
		}
		info, err := os.Stat(sp.Path)
		switch {
		case err == nil && info.IsDir():
			c.ok("%s search path %s", kind, sp.Path)
		case sp.Explicit:
			if err == nil {
				err = errors.New("not a directory")
			}
			c.fail("%s search path %s: %v", kind, sp.Path, err)
		default:
			c.warn("%s search path %s is not usable and will be skipped", kind, sp.Path)
		}
	}

	if !c.failed {
		idx, err := rt.Session.Index()
		if err != nil {
			c.fail("workspace scan: %v", err)
		} else {
			c.ok("workspace scan found %d local packages", idx.Len())
			for _, cf := range idx.Conflicts() {
				c.warn("duplicate package %s: using %s, ignoring %s", cf.Key, cf.Kept, cf.Dropped)
			}
		}
	}

	if git.IsGitInstalled() {
		if v, err := git.Version(); err == nil {
			c.ok("%s", v)
		}
	} else {
		c.warn("git not found; status --git will show no repository state")
	}

	if c.failed {
		return errors.New("doctor checks failed")
	}
	return nil
}
