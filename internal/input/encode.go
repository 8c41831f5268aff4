package input

import (
	tea "github.com/charmbracelet/bubbletea"
)

const esc = "\x1b"

var cursorKeys = map[tea.KeyType]byte{
	tea.KeyUp:    'A',
	tea.KeyDown:  'B',
	tea.KeyRight: 'C',
	tea.KeyLeft:  'D',
	tea.KeyHome:  'H',
	tea.KeyEnd:   'F',
}

var tildeKeys = map[tea.KeyType]string{
	tea.KeyInsert: "2",
	tea.KeyDelete: "3",
	tea.KeyPgUp:   "5",
	tea.KeyPgDown: "6",
	tea.KeyF5:     "15",
	tea.KeyF6:     "17",
	tea.KeyF7:     "18",
	tea.KeyF8:     "19",
	tea.KeyF9:     "20",
	tea.KeyF10:    "21",
	tea.KeyF11:    "23",
	tea.KeyF12:    "24",
}

var ss3Keys = map[tea.KeyType]byte{
	tea.KeyF1: 'P',
	tea.KeyF2: 'Q',
	tea.KeyF3: 'R',
	tea.KeyF4: 'S',
}

// ctrl+arrow variants carry the xterm modifier parameter 5.
var ctrlCursorKeys = map[tea.KeyType]byte{
	tea.KeyCtrlUp:    'A',
	tea.KeyCtrlDown:  'B',
	tea.KeyCtrlRight: 'C',
	tea.KeyCtrlLeft:  'D',
	tea.KeyCtrlHome:  'H',
	tea.KeyCtrlEnd:   'F',
}

// Encode renders a key as the bytes an xterm-compatible terminal would send.
// appCursor selects SS3 cursor keys, as requested by ESC[?1h. Keys without
// an encoding yield nil.
func Encode(msg tea.KeyMsg, appCursor bool) []byte {
	seq := encode(msg, appCursor)
	if seq == "" {
		return nil
	}
	if msg.Alt && msg.Type != tea.KeyEsc {
		seq = esc + seq
	}
	return []byte(seq)
}

func encode(msg tea.KeyMsg, appCursor bool) string {
	switch msg.Type {
	case tea.KeyRunes:
		if msg.Paste {
			return "\x1b[200~" + string(msg.Runes) + "\x1b[201~"
		}
		return string(msg.Runes)
	case tea.KeySpace:
		return " "
	case tea.KeyShiftTab:
		return esc + "[Z"
	case tea.KeyCtrlPgUp:
		return esc + "[5;5~"
	case tea.KeyCtrlPgDown:
		return esc + "[6;5~"
	}
	if final, ok := cursorKeys[msg.Type]; ok {
		if appCursor {
			return esc + "O" + string(final)
		}
		return esc + "[" + string(final)
	}
	if final, ok := ctrlCursorKeys[msg.Type]; ok {
		return esc + "[1;5" + string(final)
	}
	if final, ok := ss3Keys[msg.Type]; ok {
		return esc + "O" + string(final)
	}
	if code, ok := tildeKeys[msg.Type]; ok {
		return esc + "[" + code + "~"
	}
	// Control keys share their numeric value with the byte they stand for.
	if (msg.Type >= 0 && msg.Type <= 31) || msg.Type == tea.KeyBackspace {
		return string([]byte{byte(msg.Type)})
	}
	return ""
}
