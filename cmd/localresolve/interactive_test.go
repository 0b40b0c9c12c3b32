package main

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/calltree/localresolve/internal/testutil"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{" a , b ,, c ", []string{"a", "b", "c"}},
		{",,", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := splitList(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitList(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPatternValidator(t *testing.T) {
	if err := patternValidator("scratch-*, *.bak"); err != nil {
		t.Errorf("valid patterns rejected: %v", err)
	}
	if err := patternValidator("ok, [broken"); err == nil {
		t.Error("expected error for malformed pattern")
	}
}

func TestSearchPathValidator(t *testing.T) {
	root := t.TempDir()
	project := filepath.Join(root, "consumer")
	testutil.WriteFile(t, filepath.Join(project, "pyproject.toml"), "")
	testutil.WriteFile(t, filepath.Join(root, "libs", "README"), "")

	validate := searchPathValidator(project)
	if err := validate(""); err != nil {
		t.Errorf("empty answer rejected: %v", err)
	}
	if err := validate("../libs"); err != nil {
		t.Errorf("existing directory rejected: %v", err)
	}
	if err := validate("../missing"); err == nil {
		t.Error("expected error for missing directory")
	}
	if err := validate("pyproject.toml"); err == nil {
		t.Error("expected error for a file")
	}
}

func TestYesNoPrompt_keys(t *testing.T) {
	var m tea.Model = yesNoPrompt{question: "ok?", yes: true}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	p := m.(yesNoPrompt)
	if !p.finished || p.yes {
		t.Errorf("after n: finished=%v yes=%v", p.finished, p.yes)
	}

	m = yesNoPrompt{question: "ok?", yes: true}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if p := m.(yesNoPrompt); !p.finished || p.yes {
		t.Errorf("tab then enter: finished=%v yes=%v", p.finished, p.yes)
	}

	m = yesNoPrompt{question: "ok?"}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !m.(yesNoPrompt).canceled {
		t.Error("esc should cancel")
	}
}

func TestListPrompt_validatesOnEnter(t *testing.T) {
	in := textinput.New()
	in.Focus()
	in.SetValue("[broken")
	var m tea.Model = listPrompt{input: in, question: "patterns", validate: patternValidator}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	p := m.(listPrompt)
	if p.finished || p.problem == "" {
		t.Errorf("invalid input accepted: finished=%v problem=%q", p.finished, p.problem)
	}
}
