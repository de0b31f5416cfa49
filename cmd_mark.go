package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Trashbot7274/lunascope/logging"
)

// toggleCurrent flips the checkbox of the row under the cursor.
func (m *model) toggleCurrent() tea.Cmd {
	p, g := m.focused()
	if !g.Checkable() {
		return nil
	}
	if err := g.ToggleAt(p.cursor); err != nil {
		logging.Debugf("toggle %s@%d: %v", m.focus, p.cursor, err)
		return nil
	}
	logging.Debugf("toggle %s@%d: %d checked", m.focus, p.cursor, g.CheckedCount())
	return m.feedNotice()
}

// toggleAll checks every row when none is checked and clears them otherwise.
func (m *model) toggleAll() tea.Cmd {
	_, g := m.focused()
	if !g.Checkable() {
		return nil
	}
	g.ToggleAll()
	return m.startNotice(fmt.Sprintf("%s: %d checked", m.focus, g.CheckedCount()), "", noticeDuration)
}

func (m *model) selectAll() tea.Cmd {
	_, g := m.focused()
	if !g.Checkable() {
		return nil
	}
	g.SelectAll()
	return m.feedNotice()
}

func (m *model) selectNone() tea.Cmd {
	_, g := m.focused()
	if !g.Checkable() {
		return nil
	}
	g.SelectNone()
	return nil
}

// checkShown checks or unchecks the rows left by the current filter.
func (m *model) checkShown(on bool) tea.Cmd {
	_, g := m.focused()
	if !g.Checkable() {
		return nil
	}
	if err := g.SetShownChecked(on); err != nil {
		logging.Debugf("check shown %s: %v", m.focus, err)
		return nil
	}
	if cmd := m.feedNotice(); cmd != nil {
		return cmd
	}
	return m.startNotice(fmt.Sprintf("%s: %d checked", m.focus, g.CheckedCount()), "", noticeDuration)
}

// feedNotice reports an instance feed failure after the annotation
// selection changed.
func (m *model) feedNotice() tea.Cmd {
	if m.session == nil || m.focus != paneAnnots {
		return nil
	}
	if err := m.session.FeedErr(); err != nil {
		return m.startNotice(fmt.Sprintf("Instances unavailable: %v", err), "warn", noticeDuration)
	}
	if w := m.session.Warnings(); len(w) > 0 {
		return m.startNotice(fmt.Sprintf("%d malformed instances", len(w)), "warn", noticeDuration)
	}
	return nil
}

func (m *model) jumpToNextChecked(dir int) tea.Cmd {
	p, g := m.focused()
	if !m.checkPaneHasData() {
		return nil
	}
	next, ok := g.NextChecked(p.cursor, dir)
	if !ok {
		logging.Debug("no checked row to jump to")
		return m.startNotice("No checked rows", "info", noticeDuration)
	}
	p.cursor = next
	return nil
}

// copyChecked puts the checked keys of the focused pane on the clipboard,
// one per line. In the instances pane it copies the current view window.
func (m *model) copyChecked() tea.Cmd {
	_, g := m.focused()
	var text string
	if g.Checkable() {
		text = strings.Join(g.Checked(), "\n")
	} else if m.session != nil {
		if w, ok := m.session.Window(); ok {
			text = w.String()
		}
	}
	if text == "" {
		return m.startNotice("Nothing to copy", "info", noticeDuration)
	}
	if err := m.copyText(text); err != nil {
		logging.Warnf("copy: %v", err)
		return m.startNotice(fmt.Sprintf("Copy failed: %v", err), "error", noticeDuration)
	}
	return m.startNotice("Copied to clipboard", "success", noticeDuration)
}
