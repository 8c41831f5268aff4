package state

import "github.com/atomicstack/termslots/internal/menu"

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// setCursor moves the cursor to pos, clamped to the item range, and reports
// whether it moved.
func (l *Level) setCursor(pos int) bool {
	if len(l.Items) == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor = clamp(pos, 0, len(l.Items)-1)
	return l.Cursor != old
}

func (l *Level) MoveCursorHome() bool { return l.setCursor(0) }

func (l *Level) MoveCursorEnd() bool { return l.setCursor(len(l.Items) - 1) }

// MoveCursorPageUp moves one page of rows towards the top.
func (l *Level) MoveCursorPageUp(rows int) bool {
	return l.setCursor(max(l.Cursor, 0) - l.page(rows))
}

// MoveCursorPageDown moves one page of rows towards the bottom.
func (l *Level) MoveCursorPageDown(rows int) bool {
	return l.setCursor(max(l.Cursor, 0) + l.page(rows))
}

func (l *Level) page(rows int) int {
	n := len(l.Items)
	if rows <= 0 || rows > n {
		rows = n
	}
	return max(rows, 1)
}

// EnsureCursorVisible scrolls the viewport the least amount needed to keep
// the cursor inside a window of rows lines.
func (l *Level) EnsureCursorVisible(rows int) {
	n := len(l.Items)
	if n == 0 {
		l.Cursor, l.ViewportOffset = 0, 0
		return
	}
	l.Cursor = clamp(l.Cursor, 0, n-1)
	if rows <= 0 {
		l.ViewportOffset = 0
		return
	}
	last := max(n-rows, 0)
	top := clamp(l.ViewportOffset, 0, last)
	switch {
	case l.Cursor < top:
		top = l.Cursor
	case l.Cursor >= top+rows:
		top = l.Cursor - rows + 1
	}
	l.ViewportOffset = clamp(top, 0, last)
}

// Window returns the slice of items a viewport of rows lines shows and the
// index of its first item, pulling ViewportOffset back in range first.
func (l *Level) Window(rows int) (int, []menu.Item) {
	n := len(l.Items)
	if rows <= 0 || n <= rows {
		return 0, l.Items
	}
	l.ViewportOffset = clamp(l.ViewportOffset, 0, n-rows)
	return l.ViewportOffset, l.Items[l.ViewportOffset : l.ViewportOffset+rows]
}
