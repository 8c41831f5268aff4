package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func loadLoginMenu(ctx Context) ([]Item, error) {
	items := make([]Item, 0, len(ctx.Users))
	for _, u := range ctx.Users {
		items = append(items, Item{ID: u.Name, Label: u.Label()})
	}
	return items, nil
}

// LoginAction starts a session for the chosen user.
func LoginAction(ctx Context, item Item) tea.Cmd {
	user := strings.TrimSpace(item.ID)
	if user == "" {
		return errCmd(fmt.Errorf("invalid user selection"))
	}
	return msgCmd(LoginMsg{User: user})
}

// LogoutAction ends the current user's sessions.
func LogoutAction(ctx Context, item Item) tea.Cmd {
	return msgCmd(LogoutMsg{})
}

// QuitAction ends all sessions and exits.
func QuitAction(ctx Context, item Item) tea.Cmd {
	return msgCmd(QuitMsg{})
}
