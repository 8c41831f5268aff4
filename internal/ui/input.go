package ui

import (
	"unicode"

	"github.com/atomicstack/termslots/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const filterPlaceholder = "(type to filter)"

func (m *Model) updateFilterCursorModel(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.filterCursor, cmd = m.filterCursor.Update(msg)
	return cmd
}

func (m *Model) noteFilterCursorChange(l *level, before int) {
	if l != nil && before != l.FilterCursorPos() {
		m.filterCursorDirty = true
	}
}

// filterMotions move the caret without editing the query.
var filterMotions = map[string]func(*level) bool{
	"ctrl+a": (*level).MoveFilterCursorStart,
	"ctrl+e": (*level).MoveFilterCursorEnd,
	"alt+b":  (*level).MoveFilterCursorWordBackward,
	"alt+f":  (*level).MoveFilterCursorWordForward,
	"left":   (*level).MoveFilterCursorRuneBackward,
	"right":  (*level).MoveFilterCursorRuneForward,
}

type filterEdit struct {
	apply func(*level) bool
	trace func(*level)
}

func clearFilter(l *level) bool {
	if l.Filter == "" {
		return false
	}
	l.SetFilter("", 0)
	return true
}

var backspace = filterEdit{
	apply: (*level).DeleteFilterRuneBackward,
	trace: func(l *level) { events.Filter.Backspace(l.ID, l.Filter) },
}

// filterEdits change the query. A key whose edit is a no-op falls through to
// menu navigation.
var filterEdits = map[string]filterEdit{
	"ctrl+u": {
		apply: clearFilter,
		trace: func(l *level) { events.Filter.Cleared(l.ID) },
	},
	"ctrl+w": {
		apply: (*level).DeleteFilterWordBackward,
		trace: func(l *level) { events.Filter.WordBackspace(l.ID, l.Filter) },
	},
	"backspace": backspace,
	"ctrl+h":    backspace,
}

// handleTextInput offers a menu key to the filter of the current level and
// reports whether the filter took it.
func (m *Model) handleTextInput(msg tea.KeyMsg) (bool, tea.Cmd) {
	current := m.currentLevel()
	if m.loading || current == nil {
		return false, nil
	}
	key := msg.String()
	if move, ok := filterMotions[key]; ok {
		before := current.FilterCursorPos()
		if !move(current) {
			return false, nil
		}
		m.noteFilterCursorChange(current, before)
		events.Filter.Cursor(current.ID, current.FilterCursor)
		return true, nil
	}
	if edit, ok := filterEdits[key]; ok {
		return m.editFilter(current, edit), nil
	}
	if text, ok := filterText(msg); ok {
		return m.appendToFilter(text), nil
	}
	return false, nil
}

// filterText extracts the printable text a key would type into the filter.
func filterText(msg tea.KeyMsg) (string, bool) {
	switch msg.Type {
	case tea.KeySpace:
		return " ", true
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return "", false
		}
		for _, r := range msg.Runes {
			if unicode.IsControl(r) || unicode.IsSpace(r) {
				return "", false
			}
		}
		return string(msg.Runes), true
	}
	return "", false
}

func (m *Model) editFilter(l *level, edit filterEdit) bool {
	before := l.FilterCursorPos()
	if !edit.apply(l) {
		return false
	}
	m.noteFilterCursorChange(l, before)
	m.forceClearInfo()
	m.errMsg = ""
	m.syncViewport(l)
	edit.trace(l)
	return true
}

func (m *Model) appendToFilter(text string) bool {
	current := m.currentLevel()
	if current == nil {
		return false
	}
	return m.editFilter(current, filterEdit{
		apply: func(l *level) bool { return l.InsertFilterText(text) },
		trace: func(l *level) { events.Filter.Append(l.ID, l.Filter) },
	})
}

func styled(style *lipgloss.Style, s string) string {
	if style == nil || s == "" {
		return s
	}
	return style.Render(s)
}

// filterPrompt renders the search line of the current level with the caret
// drawn over the rune it sits on. An empty query shows the placeholder with
// the caret on its first rune.
func (m *Model) filterPrompt() string {
	current := m.currentLevel()
	if current == nil {
		return ""
	}
	text, caret, style := current.Filter, current.FilterCursorPos(), styles.Filter
	if text == "" {
		text, caret, style = filterPlaceholder, 0, styles.FilterPlaceholder
	}
	if styles.Cursor != nil {
		m.filterCursor.Style = styles.Cursor.Copy()
	}
	m.filterCursor.TextStyle = lipgloss.Style{}
	if style != nil {
		m.filterCursor.TextStyle = style.Copy()
	}

	runes := []rune(text)
	under, after := " ", ""
	if caret < len(runes) {
		under, after = string(runes[caret]), string(runes[caret+1:])
	}
	return styled(styles.FilterPrompt, "» ") +
		styled(style, string(runes[:caret])) +
		m.renderFilterCursor(under) +
		styled(style, after)
}

func (m *Model) renderFilterCursor(char string) string {
	m.filterCursor.SetChar(char)
	base := m.filterCursor.TextStyle.Copy().Inline(true)
	switch {
	case m.filterCursor.Blink:
		return base.Render(char)
	case styles.Cursor != nil:
		return base.Inherit(styles.Cursor.Copy().Inline(true)).Blink(false).Render(char)
	default:
		return base.Reverse(true).Render(char)
	}
}
