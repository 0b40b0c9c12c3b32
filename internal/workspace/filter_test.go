package workspace

import (
	"path/filepath"
	"testing"
)

func TestFilter_ShouldPrune(t *testing.T) {
	f, warnings := NewFilter([]string{"scratch-*", "tmp?"})
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}

	tests := []struct {
		dir  string
		want bool
	}{
		{"node_modules", true},
		{".git", true},
		{".venv", true},
		{"__pycache__", true},
		{"calltree.egg-info", true},
		{"/ws/project/node_modules", true},
		{"scratch-old", true},
		{"tmp1", true},
		{"tmp12", false},
		{"calltree-utils", false},
		{"builder", false},
	}
	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			if got := f.ShouldPrune(tt.dir); got != tt.want {
				t.Errorf("ShouldPrune(%q) = %v, want %v", tt.dir, got, tt.want)
			}
		})
	}
}

func TestFilter_badPatternIgnored(t *testing.T) {
	f, warnings := NewFilter([]string{"[abc", "keep-*"})
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", warnings)
	}
	if f.ShouldPrune("[abc") {
		t.Error("malformed pattern must never match")
	}
	if !f.ShouldPrune("keep-me") {
		t.Error("valid user pattern should still apply")
	}
	if !f.ShouldPrune("node_modules") {
		t.Error("defaults must stay active")
	}
}

func TestFilter_userPatternsAppend(t *testing.T) {
	f, _ := NewFilter([]string{"extra"})
	got := f.Patterns()
	if len(got) != len(DefaultExcludes)+1 || got[len(got)-1] != "extra" {
		t.Errorf("Patterns() = %v, want defaults followed by extra", got)
	}
}

func TestResolveSearchPaths(t *testing.T) {
	root := t.TempDir()
	project := filepath.Join(root, "ws", "consumer")

	paths, err := ResolveSearchPaths(project, []string{"../libs", filepath.Join(root, "other"), "..", "../libs/"}, true)
	if err != nil {
		t.Fatal(err)
	}

	want := []SearchPath{
		{Path: filepath.Join(root, "ws"), Explicit: true, Priority: 0},
		{Path: root, Explicit: false, Priority: 1},
		{Path: filepath.Join(root, "ws", "libs"), Explicit: true, Priority: 2},
		{Path: filepath.Join(root, "other"), Explicit: true, Priority: 3},
	}
	if len(paths) != len(want) {
		t.Fatalf("paths = %+v, want %+v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %+v, want %+v", i, paths[i], want[i])
		}
	}
}

func TestResolveSearchPaths_noGrandparent(t *testing.T) {
	root := t.TempDir()
	paths, err := ResolveSearchPaths(filepath.Join(root, "consumer"), nil, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 || paths[0].Path != root || paths[0].Explicit {
		t.Errorf("paths = %+v, want only implicit %s", paths, root)
	}
}
