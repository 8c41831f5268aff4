package menu

import (
	"strings"
	"unicode"

	"github.com/atomicstack/termslots/internal/auth"
	"github.com/atomicstack/termslots/internal/session"
	tea "github.com/charmbracelet/bubbletea"
)

// Item represents a selectable menu entry.
type Item struct {
	ID    string
	Label string
}

// Program is an entry of the application catalog.
type Program struct {
	Name    string
	Command string
	Args    []string
	Dir     string
}

// Title is what a session running the program is labelled with.
func (p Program) Title() string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	return p.Command
}

// Context carries runtime data needed by loader functions.
type Context struct {
	User     string
	Users    []auth.User
	Slots    []session.SlotInfo
	Active   int
	Programs []Program
	Shell    string
}

// Loader populates submenu entries on demand.
type Loader func(Context) ([]Item, error)

type Action func(Context, Item) tea.Cmd

// ActionResult communicates the outcome of executing a menu action.
type ActionResult struct {
	Info string
	Err  error
}

// LaunchMsg asks the UI to embed a program in the active session.
type LaunchMsg struct {
	Program Program
}

// SwitchMsg routes a session request through the switch queue.
type SwitchMsg struct {
	Request session.SwitchRequest
}

// CloseSessionMsg closes the session at Index.
type CloseSessionMsg struct {
	Index int
}

// RenameSessionMsg gives the session at Index a new name.
type RenameSessionMsg struct {
	Index int
	Name  string
}

// LoginMsg makes User the owner of a fresh session.
type LoginMsg struct {
	User string
}

// LogoutMsg ends every session of the current user.
type LogoutMsg struct{}

// QuitMsg ends every session and exits.
type QuitMsg struct{}

// RootItems returns the top-level menu entries.
func RootItems() []Item {
	return []Item{
		{ID: "applications", Label: "Applications"},
		{ID: "terminal", Label: "Terminal"},
		{ID: "run", Label: "Run Command"},
		{ID: "sessions", Label: "Sessions"},
		{ID: "logout", Label: "Logout"},
		{ID: "quit", Label: "Quit"},
	}
}

// CategoryLoaders lists submenu loaders keyed by root item ID.
func CategoryLoaders() map[string]Loader {
	return map[string]Loader{
		"applications": loadApplicationsMenu,
		"sessions":     loadSessionsMenu,
	}
}

// ActionHandlers maps menu identifiers to their execution logic.
func ActionHandlers() map[string]Action {
	return map[string]Action{
		"login":           LoginAction,
		"applications":    LaunchAction,
		"terminal":        TerminalAction,
		"run":             RunCommandAction,
		"sessions:switch": SessionSwitchAction,
		"sessions:new":    SessionNewAction,
		"sessions:close":  SessionCloseAction,
		"sessions:rename": SessionRenameAction,
		"logout":          LogoutAction,
		"quit":            QuitAction,
	}
}

// ActionLoaders enumerates loaders for nested submenu actions.
func ActionLoaders() map[string]Loader {
	return map[string]Loader{
		"login":           loadLoginMenu,
		"sessions:switch": loadSessionSlotsMenu,
		"sessions:close":  loadSessionSlotsMenu,
		"sessions:rename": loadSessionSlotsMenu,
	}
}

func menuItemsFromIDs(ids []string) []Item {
	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, Item{ID: id, Label: prettyLabel(id)})
	}
	return items
}

func prettyLabel(id string) string {
	if id == "" {
		return id
	}
	parts := strings.FieldsFunc(id, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	for i, part := range parts {
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		for j := 1; j < len(runes); j++ {
			runes[j] = unicode.ToLower(runes[j])
		}
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}

func msgCmd(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg { return ActionResult{Err: err} }
}
