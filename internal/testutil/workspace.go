package testutil

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// WritePyproject creates dir (and parents) with a Poetry pyproject.toml
// declaring name and version. Returns dir.
func WritePyproject(t *testing.T, dir, name, version string) string {
	t.Helper()
	content := fmt.Sprintf("[tool.poetry]\nname = %q\nversion = %q\n", name, version)
	WriteFile(t, filepath.Join(dir, "pyproject.toml"), content)
	return dir
}

// WriteSetupPy creates dir with a legacy setup.py declaring name and version.
func WriteSetupPy(t *testing.T, dir, name, version string) string {
	t.Helper()
	content := fmt.Sprintf("from setuptools import setup\n\nsetup(\n    name=%q,\n    version=%q,\n)\n", name, version)
	WriteFile(t, filepath.Join(dir, "setup.py"), content)
	return dir
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil { //nolint:gosec // test dir
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil { //nolint:gosec // test file
		t.Fatal(err)
	}
}

// Workspace lays out a root directory holding a consuming project named
// "consumer" whose pyproject.toml has the given body. Returns the root and
// the project directory.
func Workspace(t *testing.T, projectBody string) (root, project string) {
	t.Helper()
	root = t.TempDir()
	project = filepath.Join(root, "consumer")
	WriteFile(t, filepath.Join(project, "pyproject.toml"), projectBody)
	return root, project
}

// CreateGitPackage creates a Poetry package at dir and commits it to a new
// git repository on branch main.
func CreateGitPackage(t *testing.T, dir, name string) string {
	t.Helper()
	WritePyproject(t, dir, name, "0.1.0")
	run(t, dir, "git", "init", "-b", "main")
	run(t, dir, "git", "config", "user.email", "test@example.com")
	run(t, dir, "git", "config", "user.name", "Test")
	run(t, dir, "git", "add", ".")
	run(t, dir, "git", "commit", "-m", "initial commit")
	return dir
}

func run(t *testing.T, dir string, name string, args ...string) {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("command %s %v failed: %v", name, args, err)
	}
}
