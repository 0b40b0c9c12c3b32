package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/calltree/localresolve/internal/config"
	"github.com/calltree/localresolve/internal/plan"
	"github.com/calltree/localresolve/internal/resolver"
	"github.com/calltree/localresolve/internal/testutil"
)

const consumerPyproject = `[tool.poetry]
name = "consumer"
version = "0.1.0"

[tool.poetry.dependencies]
python = "^3.10"
calltree-utils = "^1.0"
requests = "^2.31"

[tool.poetry.group.dev.dependencies]
calltree_testkit = { version = ">=0.2", extras = ["fixtures"] }
`

// setupWorkspace lays out a consumer project next to two local packages.
// Returns the workspace root and the project directory.
func setupWorkspace(t *testing.T) (string, string) {
	t.Helper()
	t.Setenv(config.EnvOff, "")
	t.Setenv(config.EnvDisableFor, "")
	root, project := testutil.Workspace(t, consumerPyproject)
	testutil.WritePyproject(t, filepath.Join(root, "calltree-utils"), "calltree-utils", "0.9.0")
	testutil.WriteSetupPy(t, filepath.Join(root, "testkit"), "Calltree_Testkit", "0.3.1")
	return root, project
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func decodeResolve(t *testing.T, out string) resolveOutput {
	t.Helper()
	var got resolveOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	return got
}

// --- status ---

func TestRunStatus_plain(t *testing.T) {
	root, project := setupWorkspace(t)

	out, _, err := execute(t, "--project", project, "status")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	want := "calltree-utils -> " + filepath.Join(root, "calltree-utils")
	if !strings.Contains(out, want) {
		t.Errorf("output missing %q:\n%s", want, out)
	}
	if strings.Contains(out, "consumer") {
		t.Errorf("the consuming project should not index itself:\n%s", out)
	}
}

func TestRunStatus_json(t *testing.T) {
	_, project := setupWorkspace(t)

	out, _, err := execute(t, "--project", project, "status", "--json")
	if err != nil {
		t.Fatalf("status --json failed: %v", err)
	}
	var entries []struct {
		Name    string `json:"name"`
		Key     string `json:"key"`
		Version string `json:"version"`
		Format  string `json:"format"`
	}
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Key != "calltree-testkit" || entries[0].Format != "setup.py" {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[1].Name != "calltree-utils" || entries[1].Version != "0.9.0" {
		t.Errorf("entries[1] = %+v", entries[1])
	}
}

func TestRunStatus_table(t *testing.T) {
	_, project := setupWorkspace(t)

	out, _, err := execute(t, "--project", project, "status", "--table")
	if err != nil {
		t.Fatalf("status --table failed: %v", err)
	}
	for _, want := range []string{"NAME", "VERSION", "0.9.0", "0.3.1", "pyproject.toml"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestRunStatus_empty(t *testing.T) {
	t.Setenv(config.EnvOff, "")
	_, project := testutil.Workspace(t, consumerPyproject)

	out, _, err := execute(t, "--project", project, "status")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !strings.Contains(out, "No local packages found in workspace") {
		t.Errorf("unexpected output: %q", out)
	}
}

// --- resolve ---

func TestRunResolve_text(t *testing.T) {
	_, project := setupWorkspace(t)

	out, _, err := execute(t, "--project", project, "resolve")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	for _, want := range []string{"../calltree-utils", "not-in-workspace", "interpreter", "../testkit"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunResolve_planFile(t *testing.T) {
	_, project := setupWorkspace(t)
	planPath := filepath.Join(t.TempDir(), "plan.yaml")

	_, stderr, err := execute(t, "--project", project, "resolve", "-o", planPath)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !strings.Contains(stderr, "Resolution plan written to") {
		t.Errorf("stderr = %q", stderr)
	}

	f, err := plan.Load(planPath)
	if err != nil {
		t.Fatalf("loading plan: %v", err)
	}
	if f.Project != "consumer" {
		t.Errorf("project = %q", f.Project)
	}
	byName := make(map[string]plan.Entry)
	for _, e := range f.Dependencies {
		byName[e.Name] = e
	}
	utils := byName["calltree-utils"]
	if utils.Decision != "local" || utils.Spec.Path != "../calltree-utils" || !utils.Spec.Develop || utils.Constraint != "" {
		t.Errorf("calltree-utils = %+v", utils)
	}
	kit := byName["calltree_testkit"]
	if kit.Group != "dev" || kit.Spec.Path != "../testkit" || len(kit.Spec.Extras) != 1 {
		t.Errorf("calltree_testkit = %+v", kit)
	}
	if req := byName["requests"]; req.Decision != "remote" || req.Spec.Version != "^2.31" {
		t.Errorf("requests = %+v", req)
	}
}

func TestRunResolve_yaml(t *testing.T) {
	_, project := setupWorkspace(t)

	out, _, err := execute(t, "--project", project, "resolve", "--format", "yaml")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	f, err := plan.Parse([]byte(out))
	if err != nil {
		t.Fatalf("stdout is not a plan: %v\n%s", err, out)
	}
	if len(f.Dependencies) != 4 {
		t.Errorf("got %d plan entries, want 4", len(f.Dependencies))
	}
}

func TestRunResolve_json(t *testing.T) {
	_, project := setupWorkspace(t)

	out, _, err := execute(t, "--project", project, "resolve", "--format", "json")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	got := decodeResolve(t, out)
	if len(got.Decisions) != 4 || len(got.Dependencies) != 4 {
		t.Fatalf("got %d decisions and %d dependencies, want 4 each", len(got.Decisions), len(got.Dependencies))
	}
	for _, dep := range got.Dependencies {
		if dep.Name == "calltree-utils" && (dep.Spec.Path != "../calltree-utils" || !dep.Spec.Develop) {
			t.Errorf("calltree-utils not rewritten: %+v", dep)
		}
		if dep.Name == "requests" && dep.Spec.Version != "^2.31" {
			t.Errorf("requests not passed through: %+v", dep)
		}
	}
}

func TestRunResolve_pep621Project(t *testing.T) {
	t.Setenv(config.EnvOff, "")
	t.Setenv(config.EnvDisableFor, "")
	root, project := testutil.Workspace(t, `[project]
name = "consumer"
version = "0.1.0"
dependencies = ["calltree-utils>=0.2", "requests"]
`)
	testutil.WritePyproject(t, filepath.Join(root, "calltree-utils"), "calltree-utils", "0.9.0")

	out, _, err := execute(t, "--project", project, "resolve", "--format", "json")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	got := decodeResolve(t, out)
	if len(got.Decisions) != 2 {
		t.Fatalf("got %d decisions, want 2", len(got.Decisions))
	}
	if d := got.Decisions[0]; d.Name != "calltree-utils" || d.Kind != resolver.KindLocal {
		t.Errorf("decision[0] = %s %s, want calltree-utils local", d.Name, d.Kind)
	}
}

func TestRunResolve_badFormat(t *testing.T) {
	_, project := setupWorkspace(t)
	if _, _, err := execute(t, "--project", project, "resolve", "--format", "xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestRunResolve_disableForEnv(t *testing.T) {
	_, project := setupWorkspace(t)
	t.Setenv(config.EnvDisableFor, "Calltree_Utils")

	out, _, err := execute(t, "--project", project, "resolve", "--format", "json")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	for _, d := range decodeResolve(t, out).Decisions {
		if d.Name == "calltree-utils" && d.Reason != resolver.ReasonDisabled {
			t.Errorf("calltree-utils reason = %q, want %q", d.Reason, resolver.ReasonDisabled)
		}
	}
}

func TestRunResolve_off(t *testing.T) {
	_, project := setupWorkspace(t)
	t.Setenv(config.EnvOff, "true")

	out, _, err := execute(t, "--project", project, "resolve", "--format", "json")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	for _, d := range decodeResolve(t, out).Decisions {
		if d.Kind != resolver.KindRemote {
			t.Errorf("%s resolved %s with the resolver off", d.Name, d.Kind)
		}
	}
}

func TestRunResolve_missingConfiguredPathIsFatal(t *testing.T) {
	_, project := setupWorkspace(t)
	testutil.WriteFile(t, filepath.Join(project, config.FileName), "search_paths:\n  - ../does-not-exist\n")
	planPath := filepath.Join(t.TempDir(), "plan.yaml")

	_, _, err := execute(t, "--project", project, "resolve", "-o", planPath)
	if err == nil {
		t.Fatal("expected error for unreadable configured search path")
	}
	if !strings.Contains(err.Error(), "does-not-exist") {
		t.Errorf("error should name the search path: %v", err)
	}
	if _, statErr := os.Stat(planPath); !os.IsNotExist(statErr) {
		t.Error("no plan should be written after a fatal scan")
	}
}

func TestRunResolve_requiresProject(t *testing.T) {
	t.Setenv(config.EnvOff, "")
	if _, _, err := execute(t, "--project", t.TempDir(), "resolve"); err == nil {
		t.Fatal("expected error without pyproject.toml")
	}
}

// --- explain ---

func TestRunExplain_local(t *testing.T) {
	_, project := setupWorkspace(t)

	out, _, err := execute(t, "--project", project, "explain", "Calltree_Utils")
	if err != nil {
		t.Fatalf("explain failed: %v", err)
	}
	for _, want := range []string{"local", "../calltree-utils", "0.9.0", "^1.0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunExplain_remoteWithSuggestion(t *testing.T) {
	_, project := setupWorkspace(t)

	out, _, err := execute(t, "--project", project, "explain", "calltree-util")
	if err != nil {
		t.Fatalf("explain failed: %v", err)
	}
	if !strings.Contains(out, "not declared") {
		t.Errorf("output should say the dependency is not declared:\n%s", out)
	}
	if !strings.Contains(out, "not-in-workspace") {
		t.Errorf("output missing reason:\n%s", out)
	}
	if !strings.Contains(out, "did you mean: calltree-utils") {
		t.Errorf("output missing suggestion:\n%s", out)
	}
}

func TestRunExplain_interpreter(t *testing.T) {
	_, project := setupWorkspace(t)

	out, _, err := execute(t, "--project", project, "explain", "python")
	if err != nil {
		t.Fatalf("explain failed: %v", err)
	}
	if !strings.Contains(out, "interpreter") || strings.Contains(out, "did you mean") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

// --- init ---

func TestRunInit_flags(t *testing.T) {
	_, project := setupWorkspace(t)

	out, _, err := execute(t, "--project", project, "init",
		"--search-path", "../libs", "--exclude", "scratch-*", "--disable-for", "requests", "--no-grandparent")
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if !strings.Contains(out, "Resolver config written to") {
		t.Errorf("output = %q", out)
	}

	cfg, err := config.LoadFile(filepath.Join(project, config.FileName))
	if err != nil {
		t.Fatalf("loading written config: %v", err)
	}
	if len(cfg.SearchPaths) != 1 || cfg.SearchPaths[0] != "../libs" {
		t.Errorf("search_paths = %v", cfg.SearchPaths)
	}
	if len(cfg.DisableFor) != 1 || cfg.DisableFor[0] != "requests" {
		t.Errorf("disable_for = %v", cfg.DisableFor)
	}
	if cfg.Grandparent() {
		t.Error("include_grandparent should be false")
	}
}

func TestRunInit_existingWithoutForce(t *testing.T) {
	_, project := setupWorkspace(t)
	path := filepath.Join(project, config.FileName)
	testutil.WriteFile(t, path, "off: true\n")

	_, _, err := execute(t, "--project", project, "init", "--exclude", "tmp")
	if err == nil || !strings.Contains(err.Error(), "--force") {
		t.Fatalf("expected --force hint, got %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "off: true\n" {
		t.Errorf("existing config was modified: %q", data)
	}

	if _, _, err := execute(t, "--project", project, "init", "--exclude", "tmp", "--force"); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}
}

func TestRunInit_invalidPatternWarns(t *testing.T) {
	_, project := setupWorkspace(t)

	_, stderr, err := execute(t, "--project", project, "init", "--exclude", "[oops")
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if !strings.Contains(stderr, "Warning:") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRunInit_nonInteractiveRequiresFlags(t *testing.T) {
	_, project := setupWorkspace(t)

	_, _, err := execute(t, "--project", project, "init")
	if err == nil || !strings.Contains(err.Error(), "requires a TTY") {
		t.Fatalf("expected TTY error, got %v", err)
	}
}

// --- doctor ---

func TestRunDoctor_healthy(t *testing.T) {
	_, project := setupWorkspace(t)

	out, _, err := execute(t, "--project", project, "doctor")
	if err != nil {
		t.Fatalf("doctor failed: %v\n%s", err, out)
	}
	for _, want := range []string{"project consumer", "found 2 local packages"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunDoctor_reportsConflicts(t *testing.T) {
	root, project := setupWorkspace(t)
	testutil.WritePyproject(t, filepath.Join(root, "utils-fork"), "Calltree_Utils", "2.0.0")

	out, _, err := execute(t, "--project", project, "doctor")
	if err != nil {
		t.Fatalf("doctor failed: %v", err)
	}
	if !strings.Contains(out, "duplicate package calltree-utils") {
		t.Errorf("output missing conflict:\n%s", out)
	}
}

func TestRunDoctor_failsOnMissingConfiguredPath(t *testing.T) {
	_, project := setupWorkspace(t)
	testutil.WriteFile(t, filepath.Join(project, config.FileName), "search_paths:\n  - ../nowhere\n")

	out, _, err := execute(t, "--project", project, "doctor")
	if err == nil || err.Error() != "doctor checks failed" {
		t.Fatalf("expected doctor failure, got %v", err)
	}
	if !strings.Contains(out, "FAILED") {
		t.Errorf("output missing failure line:\n%s", out)
	}
}
