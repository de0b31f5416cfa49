package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/Trashbot7274/lunascope/dialogs"
	"github.com/Trashbot7274/lunascope/logging"
	"github.com/Trashbot7274/lunascope/selection"
)

const (
	footerHeight   = 2
	timelineHeight = 5 // three lines plus the border
)

// gutterWidth is the width of the marker, row number and checkbox drawn
// before the cells of each row.
func gutterWidth(s *selection.Store, checkable bool) int {
	w := 1 + numberWidth(s) + 1
	if checkable {
		w += len(checkboxOn) + 1
	}
	return w
}

func numberWidth(s *selection.Store) int {
	if s == nil {
		return 1
	}
	return len(strconv.Itoa(s.RowCount()))
}

// footerView renders the 2-line footer.
func (m *model) footerView(width int) string {
	styles := DefaultFooterStyles()
	_, g := m.focused()

	footerMode := CmdNone
	modeInput := ""
	if m.ui.mode == modeCommand {
		footerMode = m.ui.command.cmd
		modeInput = m.activeCommandLine()
	}

	p := m.panes[m.focus]
	st := FooterState{
		Mode:        footerMode,
		ModeInput:   modeInput,
		Record:      m.entry.ID,
		Pane:        m.focus.String(),
		FilterLabel: g.FilterText(),
		Checked:     g.CheckedCount(),
		Row:         min(p.cursor+1, g.PresentedCount()),
		TotalRows:   g.PresentedCount(),
		Legend:      "(? help · tab pane · space check · f filter · s sort · enter show · t window)",
	}
	if m.ui.noticeMsg != "" {
		st.StatusMessage = noticeText(m.ui.noticeMsg, m.ui.noticeType)
	}
	if st.StatusMessage == "" && m.loading {
		st.StatusMessage = "Loading " + m.entry.ID + "…"
	}
	if st.StatusMessage == "" {
		st.StatusMessage = m.timeline.windowLabel()
	}

	if logging.IsDebugMode() {
		debug := fmt.Sprintf(" dbg term=%dx%d gen=%d vp=%dx%d cur=%d vis=%d-%d",
			m.terminalWidth, m.terminalHeight, m.gens.Current(), p.port.Width, p.port.Height,
			p.cursor, p.visibleStart, p.visibleEnd,
		)
		st.Legend = st.Legend + " |" + debug
	}

	return RenderFooter(width, st, styles)
}

func (m *model) View() string {
	if !m.ready {
		return "loading..."
	}

	if m.activeDialog != nil && m.activeDialog.IsVisible() {
		return dialogs.Overlay(m.activeDialog.View(), m.terminalWidth, m.terminalHeight)
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top, m.paneView(paneSignals), m.paneView(paneAnnots))
	bottom := m.paneView(paneInstances)
	contentW := lipgloss.Width(top)

	parts := []string{top, bottom, m.timelineView(contentW)}
	if m.ui.timeWindow.open {
		parts = append(parts, m.timeWindowDrawerView(contentW))
	}
	parts = append(parts, m.footerView(contentW)) // always
	return appstyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// paneView draws the bordered pane: a title line and the viewport.
func (m *model) paneView(id paneID) string {
	p := m.panes[id]
	style := paneStyle
	if id == m.focus {
		style = paneFocusedStyle
	}
	title := titleStyle.Render(fitCell(m.paneTitle(id), max(1, p.width-titleStyle.GetHorizontalPadding())))
	body := p.port.View()
	return style.Width(p.width).Height(p.height).Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
}

func (m *model) paneTitle(id paneID) string {
	g := m.grid(id)
	var b strings.Builder
	b.WriteString(id.String())
	if g.Checkable() {
		fmt.Fprintf(&b, "  %d/%d checked", g.CheckedCount(), g.Store().RowCount())
	} else {
		fmt.Fprintf(&b, "  %d rows", g.Store().RowCount())
	}
	if n := g.PresentedCount(); n != g.Store().RowCount() {
		fmt.Fprintf(&b, "  (%d shown)", n)
	}
	if col, desc := g.Sort(); col >= 0 {
		dir := "▲"
		if desc {
			dir = "▼"
		}
		fmt.Fprintf(&b, "  sort %s %s", g.Store().Columns()[col], dir)
	}
	if f := g.FilterText(); f != "" {
		fmt.Fprintf(&b, "  filter %q", f)
	}
	return b.String()
}

func (m *model) timelineView(width int) string {
	inner := max(0, width-timelineArea.GetHorizontalFrameSize())
	line := lipgloss.NewStyle().Width(inner).MaxHeight(1)
	lines := []string{
		line.Render(fitCell(m.timeline.windowLabel(), inner)),
		line.Render(m.timeline.scrubberLine(inner)),
		line.Render(fitCell(m.timeline.tracesLine(), inner)),
	}
	return timelineArea.Width(width - timelineArea.GetHorizontalBorderSize()).Render(strings.Join(lines, "\n"))
}

// renderPane renders the column header and the rows around the cursor.
func (m *model) renderPane(id paneID) string {
	p := m.panes[id]
	g := m.grid(id)

	header := headerStyle.Render(strings.Repeat(" ", gutterWidth(g.Store(), g.Checkable())) + m.headerCells(id))
	if g.PresentedCount() == 0 {
		return header + "\n" + emptyPaneNotice.Render(m.emptyPaneText(id))
	}

	rows, start, end := m.computeVisibleRows(id, p.cursor, p.bodyHeight())
	p.visibleStart = start
	p.visibleEnd = end
	p.lastVisibleRowCount = len(rows)

	var b strings.Builder
	b.WriteString(header)
	for _, r := range rows {
		b.WriteString("\n" + r)
	}
	return b.String()
}

func (m *model) headerCells(id paneID) string {
	p := m.panes[id]
	col, desc := m.grid(id).Sort()
	return headerCells(p.cols, col, desc, cellStyle)
}

func (m *model) emptyPaneText(id paneID) string {
	g := m.grid(id)
	switch {
	case m.session == nil && m.loading:
		return "loading…"
	case g.Store().RowCount() > 0:
		return "no rows match the filter"
	case id == paneInstances && m.session != nil && m.session.FeedErr() != nil:
		return "instances unavailable: " + m.session.FeedErr().Error()
	case id == paneInstances:
		return "check an annotation class to list its instances"
	default:
		return "no rows"
	}
}

// computeVisibleRows renders up to height rows, keeping the cursor near the
// middle.
func (m *model) computeVisibleRows(id paneID, cursor int, height int) ([]string, int, int) {
	count := m.grid(id).PresentedCount()
	if count == 0 || height <= 0 {
		return nil, 0, -1
	}
	start := cursor - height/2
	if start+height > count {
		start = count - height
	}
	if start < 0 {
		start = 0
	}
	end := min(count, start+height) - 1

	rows := make([]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		if r, ok := m.renderRowAt(id, i); ok {
			rows = append(rows, r)
		}
	}
	return rows, start, end
}

func (m *model) renderRowAt(id paneID, pos int) (string, bool) {
	p := m.panes[id]
	g := m.grid(id)
	row, err := g.PresentedRow(pos)
	if err != nil {
		return "", false
	}
	n, _ := g.NaturalIndexOf(pos)

	selected := pos == p.cursor
	rowBgStyle := rowStyle
	rowPrefix := bgSeq(lipgloss.Color("")) + fgSeq(lipgloss.Color(rowTextFGColor))
	if selected {
		rowBgStyle = rowSelectedStyle
		rowPrefix = bgSeq(lipgloss.Color(rowSelectedBGColor)) + fgSeq(lipgloss.Color(rowSelectedTextFGColor))
	}
	rowSuffix := termenv.CSI + "0m"

	checked := g.Checkable() && g.CheckedAt(pos)
	marker := defaultMarker
	if checked {
		marker = checkedMarker.Render(pillMarker)
	}

	flag := " "
	if id == paneSignals && m.session != nil && m.session.FilterTag(row.Key) != "" {
		flag = taggedMarker.Render(tagMarker)
	}
	gutter := fmt.Sprintf("%*d", numberWidth(g.Store()), n+1)
	box := ""
	if g.Checkable() {
		box = checkboxOff
		if checked {
			box = checkboxOn
		}
		box += " "
	}

	// the marker ends in a reset, so each later segment sets its own colours
	line := renderCells(row.Fields, p.cols, cellStyle, m.ui.searchQuery)
	if m.ui.searchQuery != "" {
		line = restoreRowStyleAfterReset(line, rowPrefix)
	}
	return marker + rowBgStyle.Render(gutter) + flag + rowBgStyle.Render(box) + rowPrefix + line + rowSuffix, true
}

func highlightMatches(text string, query string) string {
	q := strings.TrimSpace(query)
	if q == "" || text == "" {
		return text
	}
	lowerText := strings.ToLower(text)
	lowerQuery := strings.ToLower(q)
	if len(lowerText) != len(text) {
		// case folding changed byte offsets; leave the cell plain
		return text
	}
	var b strings.Builder
	start := 0
	for {
		idx := strings.Index(lowerText[start:], lowerQuery)
		if idx == -1 {
			b.WriteString(text[start:])
			break
		}
		idx += start
		b.WriteString(text[start:idx])
		match := text[idx : idx+len(lowerQuery)]
		b.WriteString(searchHighlight.Render(match))
		start = idx + len(lowerQuery)
	}
	return b.String()
}

func restoreRowStyleAfterReset(s string, rowPrefix string) string {
	if rowPrefix == "" {
		return s
	}
	reset := termenv.CSI + "0m"
	if !strings.Contains(s, reset) {
		return s
	}
	return strings.ReplaceAll(s, reset, reset+rowPrefix)
}

func fgSeq(c lipgloss.Color) string {
	return colorSeq(c, false)
}

func bgSeq(c lipgloss.Color) string {
	return colorSeq(c, true)
}

func colorSeq(c lipgloss.Color, bg bool) string {
	value := string(c)
	if value == "" {
		if bg {
			return termenv.CSI + "49m"
		}
		return termenv.CSI + "39m"
	}
	profile := lipgloss.ColorProfile()
	tc := profile.Color(value)
	if tc == nil {
		return ""
	}
	return termenv.CSI + tc.Sequence(bg) + "m"
}
