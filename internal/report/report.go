// Package report renders the workspace index for people. It reads an
// already-built Index and never triggers a scan.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/calltree/localresolve/internal/git"
	"github.com/calltree/localresolve/internal/manifest"
	"github.com/calltree/localresolve/internal/ui"
	"github.com/calltree/localresolve/internal/workspace"
)

// Entry is one discovered and chosen package.
type Entry struct {
	Name    string          `json:"name"`
	Key     string          `json:"key"`
	Version string          `json:"version,omitempty"`
	Path    string          `json:"path"`
	Format  manifest.Format `json:"format"`
	Root    string          `json:"search_path"`
	Git     *GitState       `json:"git,omitempty"`
}

// GitState describes the checkout of a local package.
type GitState struct {
	Branch string `json:"branch,omitempty"`
	Head   string `json:"head,omitempty"`
	Dirty  bool   `json:"dirty"`
}

// Report lists the index contents sorted by normalized name.
func Report(idx *workspace.Index) []Entry {
	pkgs := idx.Packages()
	entries := make([]Entry, 0, len(pkgs))
	for _, p := range pkgs {
		entries = append(entries, Entry{
			Name:    p.Name,
			Key:     p.Key,
			Version: p.Version,
			Path:    p.Dir,
			Format:  p.Format,
			Root:    p.Root,
		})
	}
	return entries
}

// WithGit fills in Git for entries whose directory is a git checkout.
func WithGit(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e
		if !git.IsRepo(e.Path) {
			continue
		}
		gs := &GitState{}
		if branch, err := git.CurrentBranch(e.Path); err == nil {
			if branch == "" {
				branch = "(detached)"
			}
			gs.Branch = branch
		}
		if head, err := git.HeadCommit(e.Path); err == nil {
			gs.Head = head
		}
		if dirty, err := git.IsDirty(e.Path); err == nil {
			gs.Dirty = dirty
		}
		out[i].Git = gs
	}
	return out
}

// WritePlain writes one "name -> path" line per entry.
func WritePlain(w io.Writer, entries []Entry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%s -> %s\n", e.Key, e.Path); err != nil {
			return err
		}
	}
	return nil
}

// WriteTable renders entries as aligned columns, with git columns when any
// entry carries git state.
func WriteTable(w io.Writer, entries []Entry) error {
	withGit := false
	for _, e := range entries {
		if e.Git != nil {
			withGit = true
			break
		}
	}

	headers := []string{"NAME", "VERSION", "FORMAT", "PATH"}
	if withGit {
		headers = append(headers, "BRANCH", "HEAD", "DIRTY")
	}
	tbl := ui.NewTable(w, headers...)
	for _, e := range entries {
		row := []any{e.Key, e.Version, e.Format, e.Path}
		if e.Git != nil {
			row = append(row, e.Git.Branch, e.Git.Head, e.Git.Dirty)
		}
		tbl.Row(row...)
	}
	return tbl.Flush()
}

// WriteJSON writes entries as an indented JSON array.
func WriteJSON(w io.Writer, entries []Entry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}
