package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Trashbot7274/lunascope/logging"
)

// applyFilter filters the focused pane, keeping the cursor on the same row
// when it survives.
func (m *model) applyFilter(text string) tea.Cmd {
	logging.Infof("%s: filter %q", m.focus, text)
	m.keepCursor(func() {
		_, g := m.focused()
		g.SetFilter(text)
	})
	_, g := m.focused()
	if text != "" && g.PresentedCount() == 0 {
		return m.startNotice(fmt.Sprintf("No rows match %q", text), "info", noticeDuration)
	}
	return nil
}

func (m *model) cycleSort() tea.Cmd {
	m.keepCursor(func() {
		_, g := m.focused()
		g.CycleSort()
	})
	return m.startNotice(m.sortLabel(m.focus), "", noticeDuration)
}

func (m *model) reverseSort() tea.Cmd {
	m.keepCursor(func() {
		_, g := m.focused()
		g.ReverseSort()
	})
	return m.startNotice(m.sortLabel(m.focus), "", noticeDuration)
}

func (m *model) sortLabel(id paneID) string {
	g := m.grid(id)
	col, desc := g.Sort()
	if col < 0 {
		return "Sort: natural order"
	}
	dir := "ascending"
	if desc {
		dir = "descending"
	}
	return fmt.Sprintf("Sort: %s %s", g.Store().Columns()[col], dir)
}

// keepCursor runs reorder and puts the cursor back on the row it was on.
func (m *model) keepCursor(reorder func()) {
	p, g := m.focused()
	key := ""
	if row, err := g.PresentedRow(p.cursor); err == nil {
		key = row.Key
	}
	reorder()
	if pos, ok := g.PresentedIndexOfKey(key); ok && key != "" {
		p.cursor = pos
		return
	}
	p.cursor = 0
}
