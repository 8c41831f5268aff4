package state

import (
	"strings"

	"github.com/atomicstack/termslots/internal/menu"
)

// Level is one entry of a menu stack: the items it offers, the filter typed
// against them, and where the cursor and viewport sit. A session parks its
// whole stack of levels when it loses focus, so a Level must not reference
// anything owned by another session.
type Level struct {
	ID    string
	Title string
	Node  *menu.Node

	// Full holds every item; Items is the filtered view the cursor walks.
	Full  []menu.Item
	Items []menu.Item

	Filter       string
	FilterCursor int

	Cursor         int
	LastCursor     int
	ViewportOffset int
}

func NewLevel(id, title string, items []menu.Item, node *menu.Node) *Level {
	l := &Level{ID: id, Title: title, Node: node, LastCursor: -1}
	l.UpdateItems(items)
	return l
}

// IndexOf finds the item with the given id. Qualified ids such as
// "sessions:switch" also match a plain "switch" item.
func (l *Level) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	candidates := []string{id}
	if i := strings.LastIndexByte(id, ':'); i >= 0 {
		candidates = append(candidates, id[i+1:])
	}
	for _, want := range candidates {
		for i, item := range l.Items {
			if item.ID == want {
				return i
			}
		}
	}
	return -1
}

func (l *Level) Current() (menu.Item, bool) {
	if l == nil || l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return menu.Item{}, false
	}
	return l.Items[l.Cursor], true
}

// UpdateItems swaps in a fresh item list, for example when a session's
// process changes state while its menu is open. The cursor stays on the
// same item id when that item survives the refresh.
func (l *Level) UpdateItems(items []menu.Item) {
	offset := max(l.ViewportOffset, 0)
	var keep string
	if item, ok := l.Current(); ok {
		keep = item.ID
	}
	l.Full = cloneItems(items)
	l.applyFilter()
	if i := l.IndexOf(keep); i >= 0 {
		l.Cursor = i
	}
	if offset >= len(l.Items) {
		offset = 0
	}
	l.ViewportOffset = offset
}

func cloneItems(items []menu.Item) []menu.Item {
	return append(make([]menu.Item, 0, len(items)), items...)
}
