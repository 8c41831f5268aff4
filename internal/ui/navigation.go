package ui

import (
	"fmt"

	"github.com/atomicstack/termslots/internal/input"
	"github.com/atomicstack/termslots/internal/logging/events"
	"github.com/atomicstack/termslots/internal/menu"
	"github.com/atomicstack/termslots/internal/ui/command"
	tea "github.com/charmbracelet/bubbletea"
)

var sessionSlotLevels = []string{"sessions:switch", "sessions:close", "sessions:rename"}

// handleEscapeKey pops one menu level. The parent gets back the cursor it
// had when the child was opened.
func (m *Model) handleEscapeKey() tea.Cmd {
	if len(m.stack) <= 1 {
		return nil
	}
	child := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	parent := m.currentLevel()
	switch idx := parent.IndexOf(child.ID); {
	case parent.LastCursor >= 0 && parent.LastCursor < len(parent.Items):
		parent.Cursor = parent.LastCursor
	case idx >= 0:
		parent.Cursor = idx
	}
	parent.LastCursor = -1
	m.syncViewport(parent)
	m.errMsg = ""
	m.forceClearInfo()
	return nil
}

// entryTarget is what picking an item does: open a child menu through its
// loader, or run an action.
type entryTarget struct {
	id     string
	loader menu.Loader
	action menu.Action
}

// resolveEntry looks for a child node named after the item first, then
// falls back to the level's own action, which receives the item. Slot lists
// such as sessions:switch work that way.
func (m *Model) resolveEntry(l *level, item menu.Item) (entryTarget, bool) {
	node := l.Node
	if node == nil {
		node, _ = m.registry.Find(l.ID)
	}
	if node == nil {
		return entryTarget{}, false
	}
	if child, ok := node.Children[item.ID]; ok && (child.Loader != nil || child.Action != nil) {
		return entryTarget{id: child.ID, loader: child.Loader, action: child.Action}, true
	}
	if node.Action != nil {
		return entryTarget{id: node.ID, action: node.Action}, true
	}
	return entryTarget{}, false
}

func (m *Model) handleEnterKey() tea.Cmd {
	current := m.currentLevel()
	item, ok := current.Current()
	if m.loading || !ok {
		return nil
	}
	events.UI.MenuEnter(current.ID, item.ID, item.Label, current.Filter)
	ctx := m.menuContext()
	caret := current.FilterCursorPos()
	current.SetFilter("", 0)
	m.noteFilterCursorChange(current, caret)

	target, ok := m.resolveEntry(current, item)
	switch {
	case !ok:
		m.setInfo(fmt.Sprintf("Selected %s (no action defined yet)", item.Label))
		return nil
	case target.loader != nil:
		current.LastCursor = current.Cursor
		m.startPending(target.id, item.Label)
		return m.loadMenuCmd(target.id, item.Label, target.loader)
	default:
		m.startPending(target.id, item.Label)
		return m.bus.Execute(ctx, command.Request{ID: target.id, Label: item.Label, Handler: target.action, Item: item})
	}
}

func (m *Model) startPending(id, label string) {
	m.loading = true
	m.pendingID = id
	m.pendingLabel = label
	m.errMsg = ""
	m.forceClearInfo()
}

// stepCursor moves the cursor one item, wrapping at either end.
func (m *Model) stepCursor(delta int) {
	current := m.currentLevel()
	if current == nil || len(current.Items) == 0 {
		return
	}
	n := len(current.Items)
	current.Cursor = ((current.Cursor+delta)%n + n) % n
	events.UI.MenuCursor(current.ID, current.Cursor)
	m.syncViewport(current)
}

// jumpCursor applies a clamped cursor move such as a page or the ends.
func (m *Model) jumpCursor(move func(l *level, rows int) bool) {
	current := m.currentLevel()
	if current == nil {
		return
	}
	if move(current, m.maxVisibleItems()) {
		events.UI.MenuCursor(current.ID, current.Cursor)
	}
	m.syncViewport(current)
}

func (m *Model) syncViewport(l *level) {
	if l == nil {
		return
	}
	l.EnsureCursorVisible(m.maxVisibleItems())
}

// handleKeyMsg routes a key: the leader machine sees it first, then the
// embedded program, the open form, or the menu. A completed switch is applied
// before the next key is read, so nothing typed after it reaches the session
// left behind.
func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if m.loggedIn() {
		req, outcome := m.leader.Feed(keyMsg, m.now(), m.table.Len())
		switch outcome {
		case input.Emitted:
			m.queue.Offer(req)
			m.applyQueued()
			return nil
		case input.Consumed:
			return nil
		}
	}
	switch m.mode {
	case ModeProcess:
		m.forwardToProcess(keyMsg)
		return nil
	case ModeForm:
		return m.handleFormKey(keyMsg)
	}
	if handled, cmd := m.handleTextInput(keyMsg); handled {
		return cmd
	}
	if action, ok := menuKeys[keyMsg.String()]; ok {
		return action(m)
	}
	return nil
}

// menuKeys are the menu bindings left over once the filter has declined a
// key.
var menuKeys = map[string]func(*Model) tea.Cmd{
	"ctrl+c": func(m *Model) tea.Cmd { return m.handleQuitMsg(menu.QuitMsg{}) },
	"esc":    (*Model).handleEscapeKey,
	"enter":  (*Model).handleEnterKey,
	"up":     func(m *Model) tea.Cmd { m.stepCursor(-1); return nil },
	"down":   func(m *Model) tea.Cmd { m.stepCursor(1); return nil },
	"pgup":   cursorJump(func(l *level, rows int) bool { return l.MoveCursorPageUp(rows) }),
	"pgdown": cursorJump(func(l *level, rows int) bool { return l.MoveCursorPageDown(rows) }),
	"home":   cursorJump(func(l *level, _ int) bool { return l.MoveCursorHome() }),
	"end":    cursorJump(func(l *level, _ int) bool { return l.MoveCursorEnd() }),
}

func cursorJump(move func(l *level, rows int) bool) func(*Model) tea.Cmd {
	return func(m *Model) tea.Cmd {
		m.jumpCursor(move)
		return nil
	}
}

// handleCategoryLoadedMsg pushes a freshly loaded menu level. Results for a
// load the user has since abandoned are dropped.
func (m *Model) handleCategoryLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(categoryLoadedMsg)
	if !ok || loaded.id != m.pendingID {
		return nil
	}
	m.finishPending()
	if loaded.err != nil {
		m.errMsg = loaded.err.Error()
		return nil
	}
	m.errMsg = ""
	node, _ := m.registry.Find(loaded.id)
	l := newLevel(loaded.id, loaded.title, loaded.items, node)
	m.syncViewport(l)
	m.stack = append(m.stack, l)
	switch {
	case len(l.Items) == 0:
		m.setInfo("No entries found.")
	case m.infoMsg != "":
		m.clearInfo()
	}
	return nil
}

// refreshSessionLevels reloads every open menu level that lists slots.
func (m *Model) refreshSessionLevels() {
	if len(m.stack) == 0 || m.atLogin() {
		return
	}
	ctx := m.menuContext()
	items := menu.SlotItems(ctx.Slots)
	for _, id := range sessionSlotLevels {
		if lvl := m.findLevelByID(id); lvl != nil {
			lvl.UpdateItems(items)
			m.syncViewport(lvl)
		}
	}
	if lvl := m.findLevelByID("sessions"); lvl != nil && lvl.Node != nil && lvl.Node.Loader != nil {
		if loaded, err := lvl.Node.Loader(ctx); err == nil {
			lvl.UpdateItems(loaded)
			m.syncViewport(lvl)
		}
	}
}

// popToRoot drops every level above the main menu and clears its filter.
func (m *Model) popToRoot() {
	if len(m.stack) == 0 {
		return
	}
	m.stack = m.stack[:1]
	root := m.stack[0]
	root.SetFilter("", 0)
	root.LastCursor = -1
	m.syncViewport(root)
}

func (m *Model) findLevelByID(id string) *level {
	for _, l := range m.stack {
		if l.ID == id {
			return l
		}
	}
	return nil
}

func (m *Model) currentLevel() *level {
	if n := len(m.stack); n > 0 {
		return m.stack[n-1]
	}
	return nil
}
