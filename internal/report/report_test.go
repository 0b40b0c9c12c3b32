package report

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/calltree/localresolve/internal/testutil"
	"github.com/calltree/localresolve/internal/workspace"
)

func buildIndex(t *testing.T) (string, *workspace.Index) {
	t.Helper()
	root := t.TempDir()
	testutil.WritePyproject(t, filepath.Join(root, "zeta"), "Zeta", "1.0")
	testutil.WriteSetupPy(t, filepath.Join(root, "alpha"), "alpha_lib", "0.1")

	idx, err := (&workspace.Scanner{}).Scan([]workspace.SearchPath{{Path: root, Explicit: true}})
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	return root, idx
}

func TestReport_sortedByName(t *testing.T) {
	root, idx := buildIndex(t)
	entries := Report(idx)

	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Key != "alpha-lib" || entries[1].Key != "zeta" {
		t.Errorf("order = %s, %s", entries[0].Key, entries[1].Key)
	}
	if entries[0].Path != filepath.Join(root, "alpha") {
		t.Errorf("Path = %q", entries[0].Path)
	}
}

func TestWritePlain(t *testing.T) {
	root, idx := buildIndex(t)
	var buf bytes.Buffer
	if err := WritePlain(&buf, Report(idx)); err != nil {
		t.Fatal(err)
	}

	want := "alpha-lib -> " + filepath.Join(root, "alpha") + "\n" +
		"zeta -> " + filepath.Join(root, "zeta") + "\n"
	if buf.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWritePlain_empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePlain(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestWriteTable(t *testing.T) {
	_, idx := buildIndex(t)
	var buf bytes.Buffer
	if err := WriteTable(&buf, Report(idx)); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if strings.Contains(lines[0], "BRANCH") {
		t.Error("git columns should be absent without git state")
	}
	if !strings.Contains(lines[1], "setup.py") {
		t.Errorf("row 1 missing format: %q", lines[1])
	}
}

func TestWriteJSON(t *testing.T) {
	_, idx := buildIndex(t)
	var buf bytes.Buffer
	if err := WriteJSON(&buf, Report(idx)); err != nil {
		t.Fatal(err)
	}
	var got []Entry
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got) != 2 || got[1].Version != "1.0" {
		t.Errorf("got %+v", got)
	}
}

func TestWithGit(t *testing.T) {
	root := t.TempDir()
	testutil.CreateGitPackage(t, filepath.Join(root, "tracked"), "tracked")
	testutil.WritePyproject(t, filepath.Join(root, "untracked"), "untracked", "1")

	idx, err := (&workspace.Scanner{}).Scan([]workspace.SearchPath{{Path: root, Explicit: true}})
	if err != nil {
		t.Fatal(err)
	}
	entries := WithGit(Report(idx))
	if entries[0].Git == nil || entries[0].Git.Branch != "main" || entries[0].Git.Dirty {
		t.Errorf("tracked git state = %+v", entries[0].Git)
	}
	if entries[1].Git != nil {
		t.Error("untracked package should have no git state")
	}

	var buf bytes.Buffer
	if err := WriteTable(&buf, entries); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "BRANCH") {
		t.Error("expected git columns")
	}
}
