package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestEncode(t *testing.T) {
	cases := []struct {
		name string
		key  tea.KeyMsg
		want string
	}{
		{"rune", runes("a"), "a"},
		{"unicode", runes("é"), "é"},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, " "},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, "\r"},
		{"tab", tea.KeyMsg{Type: tea.KeyTab}, "\t"},
		{"backspace", tea.KeyMsg{Type: tea.KeyBackspace}, "\x7f"},
		{"escape", tea.KeyMsg{Type: tea.KeyEsc}, "\x1b"},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, "\x03"},
		{"ctrl+d", tea.KeyMsg{Type: tea.KeyCtrlD}, "\x04"},
		{"up", tea.KeyMsg{Type: tea.KeyUp}, "\x1b[A"},
		{"left", tea.KeyMsg{Type: tea.KeyLeft}, "\x1b[D"},
		{"home", tea.KeyMsg{Type: tea.KeyHome}, "\x1b[H"},
		{"end", tea.KeyMsg{Type: tea.KeyEnd}, "\x1b[F"},
		{"ctrl+right", tea.KeyMsg{Type: tea.KeyCtrlRight}, "\x1b[1;5C"},
		{"shift+tab", tea.KeyMsg{Type: tea.KeyShiftTab}, "\x1b[Z"},
		{"delete", tea.KeyMsg{Type: tea.KeyDelete}, "\x1b[3~"},
		{"insert", tea.KeyMsg{Type: tea.KeyInsert}, "\x1b[2~"},
		{"pgup", tea.KeyMsg{Type: tea.KeyPgUp}, "\x1b[5~"},
		{"pgdown", tea.KeyMsg{Type: tea.KeyPgDown}, "\x1b[6~"},
		{"f1", tea.KeyMsg{Type: tea.KeyF1}, "\x1bOP"},
		{"f4", tea.KeyMsg{Type: tea.KeyF4}, "\x1bOS"},
		{"f5", tea.KeyMsg{Type: tea.KeyF5}, "\x1b[15~"},
		{"f12", tea.KeyMsg{Type: tea.KeyF12}, "\x1b[24~"},
		{"alt+b", altRunes("b"), "\x1bb"},
		{"alt+up", tea.KeyMsg{Type: tea.KeyUp, Alt: true}, "\x1b\x1b[A"},
		{"paste", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ls -l"), Paste: true}, "\x1b[200~ls -l\x1b[201~"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, []byte(tc.want), Encode(tc.key, false))
		})
	}
}

func TestEncodeApplicationCursor(t *testing.T) {
	assert.Equal(t, []byte("\x1bOA"), Encode(tea.KeyMsg{Type: tea.KeyUp}, true))
	assert.Equal(t, []byte("\x1bOH"), Encode(tea.KeyMsg{Type: tea.KeyHome}, true))
	// tilde keys are unaffected
	assert.Equal(t, []byte("\x1b[3~"), Encode(tea.KeyMsg{Type: tea.KeyDelete}, true))
}

func TestEncodeUnknown(t *testing.T) {
	assert.Nil(t, Encode(tea.KeyMsg{Type: tea.KeyF20}, false))
}
