package menu

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// CommandPromptMsg asks the UI to open the run-command form.
type CommandPromptMsg struct {
	Shell string
}

func loadApplicationsMenu(ctx Context) ([]Item, error) {
	items := make([]Item, 0, len(ctx.Programs))
	for i, p := range ctx.Programs {
		items = append(items, Item{ID: strconv.Itoa(i), Label: p.Title()})
	}
	return items, nil
}

// LaunchAction embeds the chosen catalog program.
func LaunchAction(ctx Context, item Item) tea.Cmd {
	idx, err := strconv.Atoi(item.ID)
	if err != nil || idx < 0 || idx >= len(ctx.Programs) {
		return errCmd(fmt.Errorf("unknown application %q", item.Label))
	}
	return msgCmd(LaunchMsg{Program: ctx.Programs[idx]})
}

// TerminalAction embeds the user's shell.
func TerminalAction(ctx Context, item Item) tea.Cmd {
	shell := strings.TrimSpace(ctx.Shell)
	if shell == "" {
		return errCmd(fmt.Errorf("no shell configured"))
	}
	return msgCmd(LaunchMsg{Program: Program{Name: "Terminal", Command: shell}})
}

// RunCommandAction opens a prompt for an ad-hoc command line.
func RunCommandAction(ctx Context, item Item) tea.Cmd {
	return msgCmd(CommandPromptMsg{Shell: ctx.Shell})
}

// ShellProgram wraps a command line so the shell parses it.
func ShellProgram(shell, line string) Program {
	line = strings.TrimSpace(line)
	if shell == "" {
		shell = "/bin/sh"
	}
	name := line
	if fields := strings.Fields(line); len(fields) > 0 {
		name = fields[0]
	}
	return Program{Name: name, Command: shell, Args: []string{"-c", line}}
}
