package menu

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/termslots/internal/format/table"
	"github.com/atomicstack/termslots/internal/logging/events"
	"github.com/atomicstack/termslots/internal/session"
)

// RenamePrompt requests interactive input for a session name.
type RenamePrompt struct {
	Index   int
	Initial string
}

func loadSessionsMenu(ctx Context) ([]Item, error) {
	items := menuItemsFromIDs([]string{"switch", "new", "rename", "close"})
	if len(ctx.Slots) >= session.MaxSlots {
		items = append(items[:1], items[2:]...)
	}
	return items, nil
}

func loadSessionSlotsMenu(ctx Context) ([]Item, error) {
	return SlotItems(ctx.Slots), nil
}

// SessionSwitchAction queues a switch to the chosen slot.
func SessionSwitchAction(ctx Context, item Item) tea.Cmd {
	idx, err := slotIndex(item)
	if err != nil {
		return errCmd(err)
	}
	return msgCmd(SwitchMsg{Request: session.SwitchRequest{Target: session.Index(idx)}})
}

// SessionNewAction queues creation of a session.
func SessionNewAction(ctx Context, item Item) tea.Cmd {
	return msgCmd(SwitchMsg{Request: session.SwitchRequest{Target: session.New}})
}

// SessionCloseAction closes the chosen slot.
func SessionCloseAction(ctx Context, item Item) tea.Cmd {
	idx, err := slotIndex(item)
	if err != nil {
		return errCmd(err)
	}
	return msgCmd(CloseSessionMsg{Index: idx})
}

// SessionRenameAction opens the rename form for the chosen slot.
func SessionRenameAction(ctx Context, item Item) tea.Cmd {
	idx, err := slotIndex(item)
	if err != nil {
		return errCmd(err)
	}
	initial := ""
	for _, slot := range ctx.Slots {
		if slot.Index == idx {
			initial = slot.Label
		}
	}
	events.Session.RenamePrompt(idx)
	return msgCmd(RenamePrompt{Index: idx, Initial: initial})
}

func slotIndex(item Item) (int, error) {
	idx, err := strconv.Atoi(strings.TrimSpace(item.ID))
	if err != nil || idx < 1 {
		return 0, fmt.Errorf("invalid session %q", item.Label)
	}
	return idx, nil
}

// SlotItems renders the slots as an aligned table: index, owner, label and
// process state, with the active slot marked.
func SlotItems(slots []session.SlotInfo) []Item {
	if len(slots) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(slots))
	for _, slot := range slots {
		process := slot.Process
		if process == "" {
			process = "menu"
		}
		active := ""
		if slot.Active {
			active = "active"
		}
		rows = append(rows, []string{
			fmt.Sprintf("[%d]", slot.Index),
			slot.Owner,
			slot.Label,
			process,
			active,
		})
	}
	aligned := table.Format(rows, []table.Alignment{table.AlignRight, table.AlignLeft, table.AlignLeft, table.AlignLeft, table.AlignLeft})
	items := make([]Item, len(aligned))
	for i, label := range aligned {
		items[i] = Item{ID: strconv.Itoa(slots[i].Index), Label: strings.TrimRight(label, " ")}
	}
	return items
}
