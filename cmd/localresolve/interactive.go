package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/calltree/localresolve/internal/config"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

// listPrompt asks for a comma-separated list and validates it on enter.
type listPrompt struct {
	input    textinput.Model
	question string
	validate func(string) error
	problem  string
	finished bool
	canceled bool
}

func (p listPrompt) Init() tea.Cmd {
	return textinput.Blink
}

func (p listPrompt) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			p.canceled = true
			return p, tea.Quit
		case tea.KeyEnter:
			if p.validate != nil {
				if err := p.validate(p.input.Value()); err != nil {
					p.problem = err.Error()
					return p, nil
				}
			}
			p.finished = true
			return p, tea.Quit
		}
		p.problem = ""
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p listPrompt) View() string {
	if p.finished {
		return ""
	}
	view := titleStyle.Render(p.question) + "\n" + p.input.View() + "\n"
	if p.problem != "" {
		view += errStyle.Render(p.problem) + "\n"
	}
	return view
}

// yesNoPrompt toggles between yes and no; enter keeps the current answer.
type yesNoPrompt struct {
	question string
	yes      bool
	finished bool
	canceled bool
}

func (p yesNoPrompt) Init() tea.Cmd { return nil }

func (p yesNoPrompt) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "ctrl+c", "esc":
		p.canceled = true
		return p, tea.Quit
	case "y", "Y":
		p.yes = true
	case "n", "N":
		p.yes = false
	case "left", "right", "tab":
		p.yes = !p.yes
		return p, nil
	case "enter":
	default:
		return p, nil
	}
	p.finished = true
	return p, tea.Quit
}

func (p yesNoPrompt) View() string {
	if p.finished {
		return ""
	}
	yes, no := " yes ", " no "
	if p.yes {
		yes = selectedStyle.Render(yes)
	} else {
		no = selectedStyle.Render(no)
	}
	return titleStyle.Render(p.question) + " " + yes + "/" + no + "\n"
}

var errAborted = errors.New("init aborted")

func askList(question, example string, validate func(string) error) ([]string, error) {
	in := textinput.New()
	in.Placeholder = example
	in.Focus()

	final, err := tea.NewProgram(listPrompt{input: in, question: question, validate: validate}).Run()
	if err != nil {
		return nil, err
	}
	p := final.(listPrompt)
	if p.canceled {
		return nil, errAborted
	}
	return splitList(p.input.Value()), nil
}

func askYesNo(question string, def bool) (bool, error) {
	final, err := tea.NewProgram(yesNoPrompt{question: question, yes: def}).Run()
	if err != nil {
		return false, err
	}
	p := final.(yesNoPrompt)
	if p.canceled {
		return false, errAborted
	}
	return p.yes, nil
}

// splitList splits a comma-separated answer, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// searchPathValidator rejects search paths that do not exist, since an
// unreadable explicit search path makes every later scan fail.
func searchPathValidator(projectDir string) func(string) error {
	return func(s string) error {
		for _, p := range splitList(s) {
			abs := p
			if !filepath.IsAbs(abs) {
				abs = filepath.Join(projectDir, p)
			}
			info, err := os.Stat(abs)
			if err != nil {
				return fmt.Errorf("search path %q: %v", p, err)
			}
			if !info.IsDir() {
				return fmt.Errorf("search path %q is not a directory", p)
			}
		}
		return nil
	}
}

func patternValidator(s string) error {
	for _, p := range splitList(s) {
		if _, err := filepath.Match(p, ""); err != nil {
			return fmt.Errorf("pattern %q: %v", p, err)
		}
	}
	return nil
}

// interactiveConfig collects resolver options from the user.
func interactiveConfig(projectDir string) (*config.Config, error) {
	var cfg config.Config
	var err error

	cfg.SearchPaths, err = askList("Additional search paths (comma separated, relative to the project)",
		"../libs, ../../shared", searchPathValidator(projectDir))
	if err != nil {
		return nil, err
	}
	cfg.Exclude, err = askList("Extra directory patterns to skip", "scratch-*, *.bak", patternValidator)
	if err != nil {
		return nil, err
	}
	cfg.DisableFor, err = askList("Packages that always come from the registry", "calltree-utils", nil)
	if err != nil {
		return nil, err
	}

	grandparent, err := askYesNo("Also search the project's grandparent directory?", true)
	if err != nil {
		return nil, err
	}
	if !grandparent {
		cfg.IncludeGrandparent = &grandparent
	}
	return &cfg, nil
}
