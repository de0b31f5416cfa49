package main

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// searchOnce moves to the next presented row after the cursor containing
// query, wrapping around. Matches stay highlighted until the next search.
func (m *model) searchOnce(query string) tea.Cmd {
	m.ui.searchQuery = query
	if query == "" {
		return nil
	}
	p, g := m.focused()
	count := g.PresentedCount()
	q := strings.ToLower(query)
	for i := 1; i <= count; i++ {
		pos := (p.cursor + i) % count
		row, err := g.PresentedRow(pos)
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(row.Join("\t")), q) {
			p.cursor = pos
			return nil
		}
	}
	return m.startNotice("No match for "+query, "info", noticeDuration)
}
