package main

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Trashbot7274/lunascope/annot"
	"github.com/Trashbot7274/lunascope/dialogs"
	"github.com/Trashbot7274/lunascope/logging"
	"github.com/Trashbot7274/lunascope/source"
)

// selectInstance expands the instance under the cursor and shows it in the
// timeline.
func (m *model) selectInstance() tea.Cmd {
	if m.focus != paneInstances || m.session == nil {
		return nil
	}
	p := m.panes[paneInstances]
	w, err := m.session.SelectInstance(p.cursor)
	if err != nil {
		logging.Debugf("select instance %d: %v", p.cursor, err)
		return m.errorNotice("Cannot show instance", err)
	}
	return m.startNotice(fmt.Sprintf("Window %s", w), "", noticeDuration)
}

// presentedEvents returns the instances in the order the pane shows them.
func (m *model) presentedEvents() []annot.Event {
	if m.session == nil {
		return nil
	}
	g := m.session.Instances
	out := make([]annot.Event, 0, g.PresentedCount())
	for p := 0; p < g.PresentedCount(); p++ {
		ev, err := m.session.EventAt(p)
		if err != nil {
			continue
		}
		out = append(out, ev)
	}
	return out
}

func defaultExportName(id string) string {
	if id == "" {
		return "instances.csv"
	}
	return id + ".instances.csv"
}

func (m *model) openExportDialog() {
	if m.session == nil {
		return
	}
	dir, _ := filepath.Abs(".")
	m.activeDialog = dialogs.NewExportDialog(defaultExportName(m.entry.ID), dir)
}

func (m *model) exportInstances(path string) tea.Cmd {
	events := m.presentedEvents()
	if err := source.ExportEvents(path, events); err != nil {
		logging.Errorf("export %s: %v", path, err)
		return m.startNotice(fmt.Sprintf("Export failed: %v", err), "error", noticeDuration)
	}
	logging.Infof("exported %d instances to %s", len(events), path)
	return m.startNotice(fmt.Sprintf("Exported %d instances to %s", len(events), path), "success", noticeDuration)
}

func (m *model) openOpenDialog() {
	m.activeDialog = dialogs.NewOpenDialog(m.slist.IDs(), m.entry.ID)
}
