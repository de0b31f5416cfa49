package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Trashbot7274/lunascope/logging"
)

// currentChannel is the key of the signals row under the cursor.
func (m *model) currentChannel() (string, bool) {
	if m.session == nil {
		return "", false
	}
	row, err := m.session.Signals.PresentedRow(m.panes[paneSignals].cursor)
	if err != nil {
		return "", false
	}
	return row.Key, true
}

func (m *model) currentTag() string {
	ch, ok := m.currentChannel()
	if !ok {
		return ""
	}
	return m.session.FilterTag(ch)
}

// setTag sets the filter tag of the channel under the cursor. An empty tag
// clears it.
func (m *model) setTag(tag string) tea.Cmd {
	ch, ok := m.currentChannel()
	if !ok {
		return m.startNotice("No channel under the cursor", "warn", noticeDuration)
	}
	if err := m.session.SetFilterTag(ch, tag); err != nil {
		logging.Warnf("tag %s: %v", ch, err)
		return m.errorNotice("Tag", err)
	}
	if tag == "" {
		return m.startNotice(fmt.Sprintf("Tag cleared on %s", ch), "", noticeDuration)
	}
	return m.startNotice(fmt.Sprintf("Tag %q set on %s", tag, ch), "", noticeDuration)
}
