package ui

import (
	"bytes"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

const (
	defaultScrollbackLines = 1000
	tabWidth               = 8
	// maxHeldEscape bounds how much of an unterminated escape sequence is
	// carried over to the next chunk.
	maxHeldEscape = 256
)

var (
	appCursorOn  = []byte("\x1b[?1h")
	appCursorOff = []byte("\x1b[?1l")
)

// Scrollback is the line buffer behind a process screen. It keeps the text
// of what the child printed, with escape sequences removed, and tracks the
// child's cursor-key mode.
type Scrollback struct {
	lines     [][]rune
	col       int
	held      []byte
	appCursor bool
	limit     int
}

func newScrollback(limit int) *Scrollback {
	if limit <= 0 {
		limit = defaultScrollbackLines
	}
	return &Scrollback{lines: [][]rune{nil}, limit: limit}
}

// AppCursor reports whether the child asked for application cursor keys.
func (s *Scrollback) AppCursor() bool { return s.appCursor }

// Write appends child output. Escape sequences or UTF-8 runes split across
// chunks are held back until the rest arrives.
func (s *Scrollback) Write(p []byte) {
	if len(p) == 0 {
		return
	}
	data := append(s.held, p...)
	s.held = nil
	cut := incompleteTail(data)
	if cut < len(data) {
		s.held = append([]byte(nil), data[cut:]...)
		data = data[:cut]
	}
	s.trackCursorMode(data)
	for _, r := range ansi.Strip(string(data)) {
		s.put(r)
	}
}

func (s *Scrollback) trackCursorMode(data []byte) {
	on := bytes.LastIndex(data, appCursorOn)
	off := bytes.LastIndex(data, appCursorOff)
	switch {
	case on > off:
		s.appCursor = true
	case off > on:
		s.appCursor = false
	}
}

func (s *Scrollback) put(r rune) {
	last := len(s.lines) - 1
	switch r {
	case '\n':
		s.lines = append(s.lines, nil)
		s.col = 0
		if len(s.lines) > s.limit {
			s.lines = s.lines[len(s.lines)-s.limit:]
		}
	case '\r':
		s.col = 0
	case '\b':
		if s.col > 0 {
			s.col--
		}
	case '\t':
		next := (s.col/tabWidth + 1) * tabWidth
		for s.col < next {
			s.set(last, ' ')
		}
	default:
		if r < 0x20 || r == 0x7f {
			return
		}
		s.set(last, r)
	}
}

func (s *Scrollback) set(line int, r rune) {
	if s.col < len(s.lines[line]) {
		s.lines[line][s.col] = r
	} else {
		for len(s.lines[line]) < s.col {
			s.lines[line] = append(s.lines[line], ' ')
		}
		s.lines[line] = append(s.lines[line], r)
	}
	s.col++
}

// Lines returns the last height rows, wrapping each line at width cells.
// Non-positive arguments disable wrapping and the row limit.
func (s *Scrollback) Lines(width, height int) []string {
	rows := make([]string, 0, len(s.lines))
	for _, line := range s.lines {
		rows = append(rows, wrapRunes(line, width)...)
	}
	if n := len(rows); n > 0 && rows[n-1] == "" {
		rows = rows[:n-1]
	}
	if height > 0 && len(rows) > height {
		rows = rows[len(rows)-height:]
	}
	return rows
}

func wrapRunes(line []rune, width int) []string {
	if width <= 0 || len(line) == 0 {
		return []string{string(line)}
	}
	var rows []string
	start, used := 0, 0
	for i, r := range line {
		w := runewidth.RuneWidth(r)
		if used+w > width && i > start {
			rows = append(rows, string(line[start:i]))
			start, used = i, 0
		}
		used += w
	}
	return append(rows, string(line[start:]))
}

// incompleteTail returns the offset where an unfinished escape sequence or
// UTF-8 rune starts, or len(data) when the chunk ends cleanly.
func incompleteTail(data []byte) int {
	if i := bytes.LastIndexByte(data, 0x1b); i >= 0 && len(data)-i <= maxHeldEscape {
		if !escapeComplete(data[i:]) {
			return i
		}
	}
	i := len(data) - 1
	for i > 0 && len(data)-i < utf8.UTFMax && !utf8.RuneStart(data[i]) {
		i--
	}
	if i >= 0 && !utf8.FullRune(data[i:]) {
		return i
	}
	return len(data)
}

func escapeComplete(seq []byte) bool {
	if len(seq) < 2 {
		return false
	}
	switch seq[1] {
	case '[':
		for _, b := range seq[2:] {
			if b >= 0x40 && b <= 0x7e {
				return true
			}
		}
		return false
	case ']', 'P', '_', '^':
		return bytes.IndexByte(seq, 0x07) >= 0 || bytes.Contains(seq, []byte("\x1b\\"))
	case '(', ')', '*', '+', '#', ' ':
		return len(seq) >= 3
	default:
		return true
	}
}
