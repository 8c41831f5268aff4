package menu

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/termslots/internal/logging/events"
)

type formMode int

const (
	formModeRename formMode = iota
	formModeCommand
)

const maxNameLength = 32

// Form is a single-line text prompt: renaming a session or typing a command
// line to run.
type Form struct {
	input textinput.Model
	mode  formMode
	index int
	shell string
	err   string
	title string
	help  string
}

// NewRenameForm prompts for a new name of the session at prompt.Index.
func NewRenameForm(prompt RenamePrompt) *Form {
	ti := textinput.New()
	ti.Placeholder = "session-name"
	ti.CharLimit = maxNameLength
	ti.Focus()
	if prompt.Initial != "" {
		ti.SetValue(prompt.Initial)
	}
	return &Form{
		input: ti,
		mode:  formModeRename,
		index: prompt.Index,
		title: fmt.Sprintf("Rename session %d", prompt.Index),
		help:  "Press Enter to rename. Empty restores the automatic name. Esc to cancel.",
	}
}

// NewCommandForm prompts for a command line run through shell.
func NewCommandForm(prompt CommandPromptMsg) *Form {
	ti := textinput.New()
	ti.Placeholder = "command"
	ti.CharLimit = 256
	ti.Focus()
	f := &Form{
		input: ti,
		mode:  formModeCommand,
		shell: prompt.Shell,
		title: "Run Command",
		help:  "Press Enter to run. Esc to cancel.",
	}
	f.err = f.validate()
	return f
}

func (f *Form) Value() string     { return strings.TrimSpace(f.input.Value()) }
func (f *Form) InputView() string { return f.input.View() }
func (f *Form) Error() string     { return f.err }
func (f *Form) Title() string     { return f.title }
func (f *Form) Help() string      { return f.help }
func (f *Form) Index() int        { return f.index }
func (f *Form) IsRename() bool    { return f.mode == formModeRename }

// ActionID names the operation the form submits.
func (f *Form) ActionID() string {
	if f.mode == formModeRename {
		return "sessions:rename"
	}
	return "run"
}

// PendingLabel describes the submitted operation while it runs.
func (f *Form) PendingLabel() string {
	value := f.Value()
	if f.mode == formModeRename {
		if value == "" {
			return fmt.Sprintf("session %d", f.index)
		}
		return fmt.Sprintf("session %d → %s", f.index, value)
	}
	return value
}

// Update feeds a message to the form. It returns the command produced by a
// submission together with the done and cancel flags.
func (f *Form) Update(msg tea.Msg) (tea.Cmd, bool, bool) {
	if m, ok := msg.(tea.KeyMsg); ok {
		switch m.String() {
		case "ctrl+u":
			if f.input.Value() != "" {
				f.input.SetValue("")
				f.input.CursorStart()
				f.err = f.validate()
			}
			return nil, false, false
		}
		switch m.Type {
		case tea.KeyEsc:
			if f.mode == formModeRename {
				events.Session.CancelRename(f.index, events.SessionReasonEscape)
			}
			return nil, false, true
		case tea.KeyEnter:
			value := f.Value()
			if err := f.validate(); err != "" {
				f.err = err
				return nil, false, false
			}
			f.err = ""
			if f.mode == formModeRename {
				events.Session.SubmitRename(f.index, value)
				return msgCmd(RenameSessionMsg{Index: f.index, Name: value}), true, false
			}
			return msgCmd(LaunchMsg{Program: ShellProgram(f.shell, value)}), true, false
		}
	}

	updated, cmd := f.input.Update(msg)
	f.input = updated
	f.err = f.validate()
	return cmd, false, false
}

func (f *Form) validate() string {
	value := f.Value()
	switch f.mode {
	case formModeRename:
		if strings.ContainsAny(value, "[]") {
			return "Session names cannot contain brackets"
		}
		return ""
	default:
		if value == "" {
			return "Command required"
		}
		return ""
	}
}
