package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Trashbot7274/lunascope/logging"
)

func (m *model) checkPaneHasData() bool {
	_, g := m.focused()
	return g.PresentedCount() > 0
}

func (m *model) jumpToStart() {
	logging.Debug("jumpToStart called...")
	if !m.checkPaneHasData() {
		return
	}
	m.panes[m.focus].cursor = 0
}

func (m *model) jumpToEnd() {
	logging.Debug("jumpToEnd called...")
	if !m.checkPaneHasData() {
		return
	}
	p, g := m.focused()
	p.cursor = g.PresentedCount() - 1
}

// jumpToLine moves to the row numbered lineNo in the gutter, which is the
// row's position in the source table.
func (m *model) jumpToLine(lineNo int) tea.Cmd {
	logging.Debugf("jumpToLine %d", lineNo)
	if !m.checkPaneHasData() {
		return nil
	}
	p, g := m.focused()
	if lineNo <= 0 || lineNo > g.Store().RowCount() {
		return m.startNotice(fmt.Sprintf("Line %d out of bounds", lineNo), "warn", noticeDuration)
	}
	key, err := g.Store().KeyOf(lineNo - 1)
	if err != nil {
		return m.startNotice(fmt.Sprintf("Line %d out of bounds", lineNo), "warn", noticeDuration)
	}
	pos, ok := g.PresentedIndexOfKey(key)
	if !ok {
		return m.startNotice(fmt.Sprintf("Line %d not in current filter", lineNo), "warn", noticeDuration)
	}
	p.cursor = pos
	return nil
}
