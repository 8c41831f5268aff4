package input

import (
	"github.com/atomicstack/termslots/internal/session"
	tea "github.com/charmbracelet/bubbletea"
)

// shiftedDigits maps the US-layout shifted number row back to its digit.
var shiftedDigits = map[rune]int{
	'!': 1, '@': 2, '#': 3, '$': 4, '%': 5, '^': 6, '&': 7, '*': 8, '(': 9,
}

// optionDigits maps the characters a macOS Option+digit produces when the
// terminal does not send it as meta.
var optionDigits = map[rune]int{
	'¡': 1, '™': 2, '£': 3, '¢': 4, '∞': 5, '§': 6, '¶': 7, '•': 8, 'ª': 9,
}

var functionKeys = map[tea.KeyType]int{
	tea.KeyF1: 1, tea.KeyF2: 2, tea.KeyF3: 3, tea.KeyF4: 4, tea.KeyF5: 5,
	tea.KeyF6: 6, tea.KeyF7: 7, tea.KeyF8: 8, tea.KeyF9: 9,
}

// DirectTarget recognises keys that switch sessions without a leader:
// Alt+1..9 (or Alt with the shifted digit), Option+digit characters, and
// F1..F9. With slots sessions open, only existing slots and the next free
// one are claimed; any other such key belongs to the program.
func DirectTarget(msg tea.KeyMsg, slots int) (session.Target, bool) {
	idx := directIndex(msg)
	if idx == 0 || !InReach(idx, slots) {
		return session.Target{}, false
	}
	return session.Index(idx), true
}

// InReach reports whether index names an open slot or the one a switch
// would create.
func InReach(index, slots int) bool {
	if index < 1 {
		return false
	}
	return index <= slots || (index == slots+1 && slots < session.MaxSlots)
}

func directIndex(msg tea.KeyMsg) int {
	if idx, ok := functionKeys[msg.Type]; ok {
		return idx
	}
	r, ok := singleRune(msg)
	if !ok {
		return 0
	}
	if msg.Alt {
		if idx := digit(r); idx > 0 {
			return idx
		}
		return shiftedDigits[r]
	}
	return optionDigits[r]
}

// selectorTarget interprets the key following the leader.
func selectorTarget(msg tea.KeyMsg) (session.Target, bool) {
	if msg.Type == tea.KeyTab {
		return session.Next, true
	}
	r, ok := singleRune(msg)
	if !ok || msg.Alt {
		return session.Target{}, false
	}
	if idx := digit(r); idx > 0 {
		return session.Index(idx), true
	}
	if idx, ok := shiftedDigits[r]; ok {
		return session.Index(idx), true
	}
	switch r {
	case 'n', 'N', '+', '0':
		return session.New, true
	case 'x', 'X', 'w':
		return session.CloseActive, true
	}
	return session.Target{}, false
}

func singleRune(msg tea.KeyMsg) (rune, bool) {
	if msg.Type != tea.KeyRunes || msg.Paste || len(msg.Runes) != 1 {
		return 0, false
	}
	return msg.Runes[0], true
}

func digit(r rune) int {
	if r >= '1' && r <= '9' {
		return int(r - '0')
	}
	return 0
}
