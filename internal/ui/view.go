package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atomicstack/termslots/internal/indicator"
	"github.com/atomicstack/termslots/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
)

const infoTTL = 5 * time.Second

type styledLine struct {
	text          string
	style         *lipgloss.Style
	prefixStyle   *lipgloss.Style
	highlightFrom int
	raw           bool // already styled; truncated ANSI-aware and never restyled
}

// View implements tea.Model. The frame is cached between changes.
func (m *Model) View() string {
	if !m.dirty && m.frame != "" {
		return m.frame
	}
	m.frame = m.render(m.now())
	m.dirty = false
	return m.frame
}

func (m *Model) render(now time.Time) string {
	bar := styledLine{text: m.renderStatusBar(now), raw: true}
	rows := m.height - statusBarRows
	var body []styledLine
	switch {
	case m.mode == ModeProcess && m.proc != nil:
		body = m.processLines(rows)
	case m.mode == ModeForm && m.form != nil:
		for _, text := range strings.Split(m.viewForm(m.menuHeader()), "\n") {
			body = append(body, styledLine{text: text, raw: true})
		}
		body = fitHeight(body, rows, m.width)
	default:
		body = m.menuLines(rows)
	}
	return renderLines(applyWidth(append(body, bar), m.width))
}

// menuLines lays out the menu above the status bar. The error line and the
// filter prompt sit at the bottom so they do not move as the list changes.
func (m *Model) menuLines(rows int) []styledLine {
	var lines []styledLine
	if header := m.menuHeader(); header != "" {
		lines = append(lines, styledLine{text: header, style: styles.Header})
	}
	if m.loading && m.pendingLabel != "" {
		lines = append(lines, styledLine{text: "Loading " + m.pendingLabel + "…", style: styles.Loading})
	}
	if current := m.currentLevel(); current != nil {
		lines = append(lines, m.itemLines(current)...)
	}
	if info := m.currentInfo(); info != "" {
		lines = append(lines, styledLine{}, styledLine{text: info, style: styles.Info})
	}
	if m.showFooter {
		lines = append(lines, styledLine{}, styledLine{text: m.footerText(), style: styles.Footer})
	}
	lines = fitHeight(lines, rows-2, m.width)

	var errLine styledLine
	if m.errMsg != "" {
		errLine = styledLine{text: "Error: " + m.errMsg, style: styles.Error}
	}
	return append(lines, errLine, styledLine{text: m.filterPrompt(), raw: true})
}

func (m *Model) itemLines(l *level) []styledLine {
	if len(l.Items) == 0 {
		msg := "(no entries)"
		if l.Filter != "" {
			msg = fmt.Sprintf("No matches for %q", l.Filter)
		}
		return []styledLine{{text: msg, style: styles.Info}}
	}
	m.syncViewport(l)
	start, visible := l.Window(m.maxVisibleItems())
	lines := make([]styledLine, len(visible))
	for i, item := range visible {
		lines[i] = m.buildItemLine(item.Label, start+i == l.Cursor)
	}
	return lines
}

func (m *Model) footerText() string {
	keys := []string{"↑/↓ move", "enter select", "esc back"}
	if m.loggedIn() {
		keys = append(keys, m.leader.Key()+" leader")
	}
	return strings.Join(append(keys, "ctrl+c quit"), "  ")
}

// processLines shows the tail of the program's output. A pending error or
// notice takes the last row.
func (m *Model) processLines(rows int) []styledLine {
	if rows <= 0 {
		rows = 24
	}
	lines := make([]styledLine, 0, rows)
	for _, text := range m.proc.screen.Lines(m.width, rows) {
		lines = append(lines, styledLine{text: text})
	}
	lines = fitHeight(lines, rows, m.width)
	if m.errMsg != "" {
		lines[rows-1] = styledLine{text: "Error: " + m.errMsg, style: styles.Error}
	} else if info := m.currentInfo(); info != "" {
		lines[rows-1] = styledLine{text: info, style: styles.Info}
	}
	return lines
}

func (m *Model) buildItemLine(label string, selected bool) styledLine {
	line := styledLine{text: "▌ " + label, style: styles.Item, prefixStyle: styles.ItemIndicator, highlightFrom: 1}
	if selected {
		line.style, line.prefixStyle = styles.SelectedItem, styles.SelectedItemIndicator
	}
	if pad := m.width - runewidth.StringWidth(line.text); m.width > 0 && pad > 0 {
		line.text += strings.Repeat(" ", pad)
	}
	return line
}

// statusMode names what the keyboard currently drives.
func (m *Model) statusMode() string {
	switch {
	case !m.loggedIn():
		return "login"
	case m.leader.Awaiting():
		return "leader"
	}
	return m.mode.String()
}

func (m *Model) statusClock(now time.Time) string {
	if clock := m.status.Clock(); clock != "" {
		return clock
	}
	return indicator.Clock(now)
}

func (m *Model) statusIdentity() string {
	mode := m.statusMode()
	if user := m.identity.Current(); user != "" {
		return fmt.Sprintf("[%s | %s]", user, mode)
	}
	return fmt.Sprintf("[%s]", mode)
}

// statusText is the unstyled status bar. The loop compares it between ticks
// to decide whether the bar needs redrawing.
func (m *Model) statusText(now time.Time) string {
	parts := []string{m.statusClock(now), m.statusIdentity()}
	if strip := indicator.Strip(m.table.Slots()); strip != "" {
		parts = append(parts, strip)
	}
	if battery := m.status.Battery(); battery != "" {
		parts = append(parts, battery)
	}
	return strings.Join(parts, "  ")
}

func (m *Model) renderStatusBar(now time.Time) string {
	render := func(style *lipgloss.Style, text string) string {
		if style == nil {
			return text
		}
		return style.Render(text)
	}
	var b strings.Builder
	plain := 0
	add := func(style *lipgloss.Style, text string) {
		b.WriteString(render(style, text))
		plain += runewidth.StringWidth(text)
	}
	add(styles.StatusBar, " "+m.statusClock(now)+"  ")
	identityStyle := styles.StatusBar
	if m.leader.Awaiting() {
		identityStyle = styles.StatusChord
	}
	add(identityStyle, m.statusIdentity())
	slots := m.table.Slots()
	if len(slots) > 0 {
		add(styles.StatusBar, "  ")
	}
	for i, cell := range indicator.StripCells(slots) {
		style := styles.StatusSlot
		if slots[i].Active {
			style = styles.StatusActiveSlot
		}
		add(style, cell)
	}
	if battery := m.status.Battery(); battery != "" {
		add(styles.StatusBar, "  "+battery)
	}
	if m.width > plain {
		add(styles.StatusBar, strings.Repeat(" ", m.width-plain))
	}
	return b.String()
}

// menuHeader is the breadcrumb of the menu stack, such as
// "main menu → sessions → close".
func (m *Model) menuHeader() string {
	return strings.Join(m.headerSegments(), menuHeaderSeparator)
}

func (m *Model) headerSegments() []string {
	if len(m.stack) == 0 {
		return nil
	}
	segments := []string{defaultRootTitle}
	if m.atLogin() {
		segments[0] = loginLevelID
	}
	for _, l := range m.stack[1:] {
		if segment := headerSegmentForLevel(l); segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}

// headerSegmentForLevel turns "sessions:switch" into "switch".
func headerSegmentForLevel(l *level) string {
	if l == nil {
		return ""
	}
	name := strings.TrimSpace(l.ID)
	if name == "" {
		name = strings.TrimSpace(l.Title)
	}
	name = name[strings.LastIndexByte(name, ':')+1:]
	return strings.Join(strings.Fields(strings.ToLower(headerSegmentCleaner.Replace(name))), " ")
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	events.UI.Resize(m.width, m.height)
	if m.proc != nil {
		m.proc.bridge.Resize(m.processSize())
	}
	if current := m.currentLevel(); current != nil {
		m.syncViewport(current)
	}
	return nil
}

// maxVisibleItems is how many menu items fit once the header, notices,
// footer, error line, filter prompt and status bar have their rows.
func (m *Model) maxVisibleItems() int {
	if m.height <= 0 {
		return -1
	}
	chrome := statusBarRows + 2
	if m.menuHeader() != "" {
		chrome++
	}
	if m.loading && m.pendingLabel != "" {
		chrome++
	}
	if m.currentInfo() != "" {
		chrome += 2
	}
	if m.showFooter {
		chrome += 2
	}
	return max(m.height-chrome, 1)
}

func (m *Model) setInfo(message string) {
	m.infoMsg, m.infoExpire = message, m.now().Add(infoTTL)
}

func (m *Model) infoLive() bool {
	return !m.infoExpire.IsZero() && !m.now().After(m.infoExpire)
}

// clearInfo drops the notice once it has been shown for infoTTL.
func (m *Model) clearInfo() {
	if m.infoMsg != "" && !m.infoLive() {
		m.forceClearInfo()
	}
}

func (m *Model) forceClearInfo() {
	m.infoMsg, m.infoExpire = "", time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && !m.infoLive() {
		m.forceClearInfo()
	}
	return m.infoMsg
}

// fitHeight makes lines exactly rows long: overflow is cut and marked with
// an ellipsis row, a short frame is padded with blank rows.
func fitHeight(lines []styledLine, rows, width int) []styledLine {
	if rows <= 0 {
		return lines
	}
	if len(lines) > rows {
		lines = append(lines[:rows-1:rows-1], styledLine{text: truncateText("…", width)})
	}
	for len(lines) < rows {
		lines = append(lines, styledLine{})
	}
	return lines
}

// applyWidth truncates every line to width. Raw lines already carry escape
// sequences and are cut ANSI-aware.
func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	out := make([]styledLine, len(lines))
	for i, line := range lines {
		switch {
		case !line.raw:
			line.text = truncateText(line.text, width)
		case lipgloss.Width(line.text) > width:
			line.text = truncate.StringWithTail(line.text, uint(width-1), "…")
		}
		out[i] = line
	}
	return out
}

func (l styledLine) render() string {
	if l.raw || l.text == "" {
		return l.text
	}
	runes := []rune(l.text)
	if l.highlightFrom <= 0 || l.highlightFrom >= len(runes) {
		return styled(l.style, l.text)
	}
	return styled(l.prefixStyle, string(runes[:l.highlightFrom])) + styled(l.style, string(runes[l.highlightFrom:]))
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line.render()
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 || runewidth.StringWidth(text) <= width {
		return text
	}
	if width == 1 {
		return runewidth.Truncate(text, 1, "")
	}
	return runewidth.Truncate(text, width, "…")
}
