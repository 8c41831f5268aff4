package state

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/atomicstack/termslots/internal/menu"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// SetFilter replaces the query and puts its caret at caret. Typing the first
// character remembers the cursor and clearing the query returns to it.
func (l *Level) SetFilter(query string, caret int) {
	active := strings.TrimSpace(query) != ""
	wasActive := strings.TrimSpace(l.Filter) != ""

	l.Filter = query
	l.FilterCursor = clamp(caret, 0, utf8.RuneCountInString(query))

	if active {
		if !wasActive {
			l.LastCursor = l.Cursor
		}
		l.Cursor = 0
		l.applyFilter()
		if len(l.Items) > 0 {
			if i := BestMatchIndex(l.Items, query); i >= 0 {
				l.Cursor = i
			}
		}
		return
	}

	restore := l.LastCursor
	l.applyFilter()
	if !wasActive {
		return
	}
	switch {
	case restore >= 0 && restore < len(l.Items):
		l.Cursor = restore
	case len(l.Items) > 0:
		l.Cursor = len(l.Items) - 1
	}
	l.LastCursor = -1
}

func (l *Level) applyFilter() {
	l.Items = FilterItems(l.Full, l.Filter)
	n := len(l.Items)
	if n == 0 {
		l.Cursor, l.ViewportOffset = 0, 0
		return
	}
	if l.Cursor < 0 || l.Cursor >= n {
		l.Cursor = n - 1
	}
	if l.ViewportOffset >= n {
		l.ViewportOffset = 0
	}
}

// FilterCursorPos is the caret as a rune offset into the query.
func (l *Level) FilterCursorPos() int {
	return clamp(l.FilterCursor, 0, utf8.RuneCountInString(l.Filter))
}

// edit rewrites the query through fn. fn gets the runes and caret and
// returns the replacement, or ok=false to leave the query alone.
func (l *Level) edit(fn func(q []rune, caret int) (out []rune, next int, ok bool)) bool {
	out, next, ok := fn([]rune(l.Filter), l.FilterCursorPos())
	if !ok {
		return false
	}
	l.SetFilter(string(out), next)
	return true
}

// moveCaret moves the caret to where fn says without touching the query.
func (l *Level) moveCaret(fn func(q []rune, caret int) int) bool {
	q := []rune(l.Filter)
	caret := l.FilterCursorPos()
	next := clamp(fn(q, caret), 0, len(q))
	if next == caret {
		return false
	}
	l.FilterCursor = next
	return true
}

func (l *Level) InsertFilterText(text string) bool {
	ins := []rune(text)
	if len(ins) == 0 {
		return false
	}
	return l.edit(func(q []rune, c int) ([]rune, int, bool) {
		out := make([]rune, 0, len(q)+len(ins))
		out = append(out, q[:c]...)
		out = append(out, ins...)
		return append(out, q[c:]...), c + len(ins), true
	})
}

func (l *Level) DeleteFilterRuneBackward() bool {
	return l.edit(func(q []rune, c int) ([]rune, int, bool) {
		if c == 0 {
			return nil, 0, false
		}
		return append(q[:c-1:c-1], q[c:]...), c - 1, true
	})
}

// DeleteFilterWordBackward behaves like ctrl+w in a shell.
func (l *Level) DeleteFilterWordBackward() bool {
	return l.edit(func(q []rune, c int) ([]rune, int, bool) {
		if c == 0 {
			return nil, 0, false
		}
		start := wordStart(q, c)
		return append(q[:start:start], q[c:]...), start, true
	})
}

func (l *Level) MoveFilterCursorStart() bool {
	return l.moveCaret(func([]rune, int) int { return 0 })
}

func (l *Level) MoveFilterCursorEnd() bool {
	return l.moveCaret(func(q []rune, _ int) int { return len(q) })
}

func (l *Level) MoveFilterCursorWordBackward() bool { return l.moveCaret(wordStart) }

func (l *Level) MoveFilterCursorWordForward() bool { return l.moveCaret(wordEnd) }

func (l *Level) MoveFilterCursorRuneBackward() bool {
	return l.moveCaret(func(_ []rune, c int) int { return c - 1 })
}

func (l *Level) MoveFilterCursorRuneForward() bool {
	return l.moveCaret(func(_ []rune, c int) int { return c + 1 })
}

// wordStart skips spaces and then a word to the left of c.
func wordStart(q []rune, c int) int {
	for c > 0 && unicode.IsSpace(q[c-1]) {
		c--
	}
	for c > 0 && !unicode.IsSpace(q[c-1]) {
		c--
	}
	return c
}

// wordEnd skips a word and then spaces to the right of c.
func wordEnd(q []rune, c int) int {
	for c < len(q) && !unicode.IsSpace(q[c]) {
		c++
	}
	for c < len(q) && unicode.IsSpace(q[c]) {
		c++
	}
	return c
}

// FilterItems keeps the items whose label fuzzy-matches query. When nothing
// fuzzy-matches it falls back to a substring test on label and id, which
// lets "3" find the item for session slot 3.
func FilterItems(items []menu.Item, query string) []menu.Item {
	q := strings.TrimSpace(query)
	if q == "" {
		return cloneItems(items)
	}
	if ranks := fuzzy.RankFindNormalizedFold(q, labels(items)); len(ranks) > 0 {
		hit := make([]bool, len(items))
		for _, r := range ranks {
			hit[r.OriginalIndex] = true
		}
		return keepItems(items, func(i int, _ menu.Item) bool { return hit[i] })
	}
	lower := strings.ToLower(q)
	return keepItems(items, func(_ int, item menu.Item) bool {
		return strings.Contains(strings.ToLower(item.Label), lower) ||
			strings.Contains(strings.ToLower(item.ID), lower)
	})
}

// matchTiers rank how well an item answers a lowercased query, best first.
var matchTiers = []func(item menu.Item, lower string) bool{
	func(item menu.Item, lower string) bool {
		return strings.ToLower(item.Label) == lower || strings.ToLower(item.ID) == lower
	},
	func(item menu.Item, lower string) bool { return strings.HasPrefix(strings.ToLower(item.Label), lower) },
	func(item menu.Item, lower string) bool { return strings.HasPrefix(strings.ToLower(item.ID), lower) },
	func(item menu.Item, lower string) bool { return strings.Contains(strings.ToLower(item.ID), lower) },
	func(item menu.Item, lower string) bool { return strings.Contains(strings.ToLower(item.Label), lower) },
}

// BestMatchIndex picks where the cursor should land for query: the first
// item in the best matching tier, then the closest fuzzy match, then 0.
// It returns -1 only for an empty list.
func BestMatchIndex(items []menu.Item, query string) int {
	if len(items) == 0 {
		return -1
	}
	q := strings.TrimSpace(query)
	if q == "" {
		return 0
	}
	lower := strings.ToLower(q)
	for _, tier := range matchTiers {
		for i, item := range items {
			if tier(item, lower) {
				return i
			}
		}
	}
	ranks := fuzzy.RankFindNormalizedFold(q, labels(items))
	if len(ranks) == 0 {
		return 0
	}
	best := ranks[0]
	for _, r := range ranks[1:] {
		if r.Distance < best.Distance || (r.Distance == best.Distance && r.OriginalIndex < best.OriginalIndex) {
			best = r
		}
	}
	if best.OriginalIndex < 0 || best.OriginalIndex >= len(items) {
		return 0
	}
	return best.OriginalIndex
}

func labels(items []menu.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Label
	}
	return out
}

func keepItems(items []menu.Item, keep func(int, menu.Item) bool) []menu.Item {
	out := make([]menu.Item, 0, len(items))
	for i, item := range items {
		if keep(i, item) {
			out = append(out, item)
		}
	}
	return out
}
