package menu

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeText(f *Form, text string) {
	for _, r := range text {
		f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestRenameFormSubmits(t *testing.T) {
	f := NewRenameForm(RenamePrompt{Index: 3, Initial: "top"})
	if f.Value() != "top" || !f.IsRename() {
		t.Fatalf("expected initial value, got %q", f.Value())
	}
	f.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	typeText(f, "logs")
	cmd, done, cancel := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !done || cancel {
		t.Fatalf("expected submission, done=%v cancel=%v", done, cancel)
	}
	msg := cmd().(RenameSessionMsg)
	if msg.Index != 3 || msg.Name != "logs" {
		t.Fatalf("unexpected rename %+v", msg)
	}
	if f.PendingLabel() != "session 3 → logs" {
		t.Fatalf("unexpected pending label %q", f.PendingLabel())
	}
}

func TestRenameFormRejectsBrackets(t *testing.T) {
	f := NewRenameForm(RenamePrompt{Index: 1})
	typeText(f, "a[1]")
	if f.Error() == "" {
		t.Fatalf("expected validation error")
	}
	_, done, _ := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if done {
		t.Fatalf("invalid name must not submit")
	}
}

func TestRenameFormEscapeCancels(t *testing.T) {
	f := NewRenameForm(RenamePrompt{Index: 1})
	_, done, cancel := f.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if done || !cancel {
		t.Fatalf("expected cancel")
	}
}

func TestCommandFormRequiresInput(t *testing.T) {
	f := NewCommandForm(CommandPromptMsg{Shell: "/bin/bash"})
	if f.Error() == "" {
		t.Fatalf("expected empty command error")
	}
	_, done, _ := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if done {
		t.Fatalf("empty command must not submit")
	}
	typeText(f, "top")
	cmd, done, _ := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !done {
		t.Fatalf("expected submission")
	}
	launch := cmd().(LaunchMsg)
	if launch.Program.Command != "/bin/bash" || launch.Program.Args[1] != "top" {
		t.Fatalf("unexpected program %+v", launch.Program)
	}
	if f.ActionID() != "run" {
		t.Fatalf("unexpected action id %q", f.ActionID())
	}
}
