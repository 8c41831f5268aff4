package command

import (
	"fmt"
	"time"

	"github.com/atomicstack/termslots/internal/logging/events"
	"github.com/atomicstack/termslots/internal/menu"
	tea "github.com/charmbracelet/bubbletea"
)

// Request is one menu action picked by the user.
type Request struct {
	ID      string
	Label   string
	Handler menu.Action
	Item    menu.Item
}

// Bus runs menu actions as tea.Cmds. Actions only build messages; sessions
// and bridges are touched back on the loop when the message arrives.
type Bus struct {
	now func() time.Time
}

func New() *Bus {
	return &Bus{now: time.Now}
}

// Execute returns a command that runs req off the loop and traces how long
// the action took and what it produced.
func (b *Bus) Execute(ctx menu.Context, req Request) tea.Cmd {
	events.Command.Queue(req.ID, req.Label)
	return func() tea.Msg { return b.run(ctx, req) }
}

func (b *Bus) run(ctx menu.Context, req Request) tea.Msg {
	if req.Handler == nil {
		events.Command.Skip(req.ID, req.Label)
		return nil
	}
	start := b.now()
	cmd := req.Handler(ctx, req.Item)
	if cmd == nil {
		events.Command.NoOp(req.ID, req.Label)
		return nil
	}
	msg := cmd()
	events.Command.Result(req.ID, req.Label, fmt.Sprintf("%T", msg), b.now().Sub(start))
	return msg
}
