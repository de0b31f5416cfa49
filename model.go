package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Trashbot7274/lunascope/annot"
	"github.com/Trashbot7274/lunascope/clipboard"
	"github.com/Trashbot7274/lunascope/dialogs"
	"github.com/Trashbot7274/lunascope/logging"
	"github.com/Trashbot7274/lunascope/record"
	"github.com/Trashbot7274/lunascope/selection"
	"github.com/Trashbot7274/lunascope/source"
)

type mode int

const (
	modeView mode = iota
	modeCommand
	modeTimeWindow
)

// recordLoadedMsg carries the result of a background load. Results whose
// generation is no longer current are dropped.
type recordLoadedMsg struct {
	gen      uint64
	entry    source.Entry
	rec      *record.Record
	err      error
	reattach bool
}

type model struct {
	slist         *source.SList
	entry         source.Entry
	expander      annot.Expander
	filterColumns []string

	gens     record.Generations
	session  *record.Session
	timeline *timeline
	loading  bool

	panes [paneCount]*pane
	empty [paneCount]*selection.Grid
	focus paneID
	ui    uiState
	keys  Keymap

	ready          bool
	terminalWidth  int
	terminalHeight int
	activeDialog   dialogs.Dialog

	// swapped in tests
	loadEntry func(source.Entry) (*record.Record, error)
	copyText  func(string) error
}

// newModel prepares the viewer for record id of sl; an empty id picks the
// first record. Nothing is read until Init.
func newModel(sl *source.SList, id string, x annot.Expander, filterColumns []string) (*model, error) {
	if sl == nil || len(sl.Records) == 0 {
		return nil, fmt.Errorf("the S-list has no records")
	}
	if err := x.Validate(); err != nil {
		return nil, err
	}
	entry := sl.Records[0]
	if id != "" {
		e, ok := sl.Find(id)
		if !ok {
			return nil, fmt.Errorf("record %q is not in the S-list", id)
		}
		entry = e
	}

	m := &model{
		slist:         sl,
		entry:         entry,
		expander:      x,
		filterColumns: filterColumns,
		timeline:      newTimeline(x.MinLeft),
		keys:          Keys,
		loadEntry:     source.Load,
		copyText:      clipboard.Copy,
	}
	for pid := paneSignals; pid < paneCount; pid++ {
		m.panes[pid] = newPane(pid)
		m.empty[pid] = selection.NewGrid(pid.String(), pid != paneInstances)
	}
	m.ui.timeWindow = newTimeWindowUI()
	return m, nil
}

func (m *model) Init() tea.Cmd {
	logging.Infof("lunascope: opening %q", m.entry.ID)
	return m.loadRecord(m.entry, false)
}

// loadRecord starts a background load of e under a new generation.
func (m *model) loadRecord(e source.Entry, reattach bool) tea.Cmd {
	gen := m.gens.Next()
	m.loading = true
	load := m.loadEntry
	resolved := m.slist.Resolve(e)
	logging.Debugf("load %q gen %d reattach=%v", e.ID, gen, reattach)
	return func() tea.Msg {
		rec, err := load(resolved)
		return recordLoadedMsg{gen: gen, entry: e, rec: rec, err: err, reattach: reattach}
	}
}

func (m *model) handleRecordLoaded(msg recordLoadedMsg) tea.Cmd {
	if !m.gens.IsCurrent(msg.gen) {
		logging.Debugf("dropping stale load of %q (gen %d, current %d)", msg.entry.ID, msg.gen, m.gens.Current())
		return nil
	}
	m.loading = false
	if msg.err != nil {
		logging.Errorf("load %q: %v", msg.entry.ID, msg.err)
		return m.startNotice(fmt.Sprintf("Load failed: %v", msg.err), "error", noticeDuration)
	}

	if msg.reattach && m.session != nil && m.session.Record().ID == msg.rec.ID {
		if err := m.session.Reattach(msg.rec, msg.gen); err != nil {
			logging.Warnf("reload %q: %v", msg.rec.ID, err)
			return m.errorNotice("Reload failed", err)
		}
		m.timeline.setDuration(msg.rec.Duration)
		m.refreshView("reload")
		return m.startNotice(fmt.Sprintf("Reloaded %s", msg.rec.ID), "success", noticeDuration)
	}

	s, err := record.NewSession(msg.rec, m.timeline, m.expander, msg.gen)
	if err != nil {
		logging.Warnf("open %q: %v", msg.rec.ID, err)
		return m.errorNotice("Cannot open "+msg.rec.ID, err)
	}
	// nothing is drawn until the first selection change
	m.timeline.reset(msg.rec.Duration)
	if len(m.filterColumns) > 0 {
		s.Signals.SetFilterColumns(m.filterColumns)
		s.Annots.SetFilterColumns(m.filterColumns)
		s.Instances.SetFilterColumns(m.filterColumns)
	}
	m.session = s
	m.entry = msg.entry
	for _, p := range m.panes {
		p.cursor = 0
	}
	m.ui.searchQuery = ""
	m.refreshView("open")
	return m.startNotice(fmt.Sprintf("Opened %s", msg.rec.ID), "info", noticeDuration)
}

// grid returns the grid behind pane id, or an empty one before the first
// record is attached.
func (m *model) grid(id paneID) *selection.Grid {
	if m.session == nil {
		return m.empty[id]
	}
	switch id {
	case paneSignals:
		return m.session.Signals
	case paneAnnots:
		return m.session.Annots
	default:
		return m.session.Instances
	}
}

func (m *model) focused() (*pane, *selection.Grid) {
	return m.panes[m.focus], m.grid(m.focus)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.terminalWidth = msg.Width
		m.terminalHeight = msg.Height
		m.ready = true
		m.layout()
		m.refreshView("resize")
		return m, nil

	case clearNoticeMsg:
		if msg.id == m.ui.noticeSeq {
			m.ui.noticeMsg = ""
			m.ui.noticeType = ""
		}
		return m, nil

	case recordLoadedMsg:
		return m, m.handleRecordLoaded(msg)

	case dialogs.ExportConfirmedMsg:
		m.activeDialog = nil
		return m, m.exportInstances(msg.Path)
	case dialogs.ExportCanceledMsg:
		m.activeDialog = nil
		return m, nil

	case dialogs.OpenConfirmedMsg:
		m.activeDialog = nil
		return m, m.openRecord(msg.ID)
	case dialogs.OpenCanceledMsg:
		m.activeDialog = nil
		return m, nil

	case tea.KeyMsg:
		if m.activeDialog != nil && m.activeDialog.IsVisible() {
			d, cmd := m.activeDialog.Update(msg)
			m.activeDialog = d
			if !d.IsVisible() {
				m.activeDialog = nil
			}
			return m, cmd
		}
		return m.updateKey(msg)
	}

	return m, nil
}

func (m *model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.ui.mode {
	case modeCommand:
		return m.handleCommandKey(msg)
	case modeTimeWindow:
		return m.handleTimeWindowKey(msg)
	default:
		return m.handleViewModeKey(msg)
	}
}

func (m *model) openRecord(id string) tea.Cmd {
	e, ok := m.slist.Find(id)
	if !ok {
		return m.startNotice(fmt.Sprintf("No record %q", id), "warn", noticeDuration)
	}
	return m.loadRecord(e, false)
}

func (m *model) reloadRecord() tea.Cmd {
	if m.session == nil {
		return m.loadRecord(m.entry, false)
	}
	return m.loadRecord(m.entry, true)
}

// refreshView syncs every pane with its grid and re-renders the viewports.
func (m *model) refreshView(reason string) {
	logging.Debugf("refreshView: %s", reason)
	for id, p := range m.panes {
		p.sync(m.grid(paneID(id)))
		if m.ready {
			p.port.SetContent(m.renderPane(paneID(id)))
		}
	}
}

// layout splits the terminal between the two selection panes on top, the
// instances pane below, the timeline, the drawer and the footer.
func (m *model) layout() {
	contentW := max(0, m.terminalWidth-appstyle.GetHorizontalFrameSize())
	contentH := max(0, m.terminalHeight-appstyle.GetVerticalFrameSize())

	free := contentH - footerHeight - timelineHeight
	if m.ui.timeWindow.open {
		free -= timeWindowDrawerHeight
	}
	free = max(0, free)
	topH := free / 2
	bottomH := free - topH

	leftW := contentW / 2
	rightW := contentW - leftW
	frameW := paneStyle.GetHorizontalFrameSize()
	frameH := paneStyle.GetVerticalFrameSize()

	m.panes[paneSignals].resize(leftW-frameW, topH-frameH)
	m.panes[paneAnnots].resize(rightW-frameW, topH-frameH)
	m.panes[paneInstances].resize(contentW-frameW, bottomH-frameH)
}

func (m *model) cycleFocus(step int) {
	m.focus = paneID((int(m.focus) + step + int(paneCount)) % int(paneCount))
	logging.Debugf("focus: %s", m.focus)
}

func (m *model) handleViewModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p, g := m.focused()
	k := m.keys
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case msg.String() == "shift+tab":
		m.cycleFocus(-1)
	case key.Matches(msg, k.NextPane):
		m.cycleFocus(1)

	case key.Matches(msg, k.Toggle):
		cmd = m.toggleCurrent()
	case key.Matches(msg, k.ToggleAll):
		cmd = m.toggleAll()
	case key.Matches(msg, k.SelectAll):
		cmd = m.selectAll()
	case key.Matches(msg, k.SelectNone):
		cmd = m.selectNone()
	case key.Matches(msg, k.CheckShown):
		cmd = m.checkShown(true)
	case key.Matches(msg, k.ClearShown):
		cmd = m.checkShown(false)
	case key.Matches(msg, k.NextChecked):
		cmd = m.jumpToNextChecked(1)
	case key.Matches(msg, k.PrevChecked):
		cmd = m.jumpToNextChecked(-1)

	case key.Matches(msg, k.Filter):
		m.enterCommand(CmdFilter)
		m.ui.command.buf = g.FilterText()
	case key.Matches(msg, k.ClearFilter):
		cmd = m.applyFilter("")
	case key.Matches(msg, k.CycleSort):
		cmd = m.cycleSort()
	case key.Matches(msg, k.ReverseSort):
		cmd = m.reverseSort()
	case key.Matches(msg, k.ShowWindow):
		cmd = m.selectInstance()
	case key.Matches(msg, k.Jump, k.Search):
		m.enterCommand(CommandFromPrefix(msg.Runes[0]))
	case key.Matches(msg, k.Tag):
		if m.focus != paneSignals {
			return m, m.startNotice("Tags apply to channels in the Signals pane", "warn", noticeDuration)
		}
		m.enterCommand(CmdTag)
		m.ui.command.buf = m.currentTag()

	case key.Matches(msg, k.TimeWindow):
		m.openTimeWindowDrawer()
	case key.Matches(msg, k.Export):
		m.openExportDialog()
	case key.Matches(msg, k.Open):
		m.openOpenDialog()
	case key.Matches(msg, k.Reload):
		cmd = m.reloadRecord()
	case key.Matches(msg, k.Copy):
		cmd = m.copyChecked()
	case key.Matches(msg, k.OpenHelp):
		m.activeDialog = dialogs.NewHelpDialog(k.Sections())

	case key.Matches(msg, k.RowDown):
		if p.cursor < g.PresentedCount()-1 {
			p.cursor++
		}
	case key.Matches(msg, k.RowUp):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, k.PageUp):
		m.pageUp()
	case key.Matches(msg, k.PageDown):
		m.pageDown()
	case key.Matches(msg, k.Top):
		m.jumpToStart()
	case key.Matches(msg, k.Bottom):
		m.jumpToEnd()
	case key.Matches(msg, k.ScrollLeft):
		p.port.ScrollLeft(4)
	case key.Matches(msg, k.ScrollRight):
		p.port.ScrollRight(4)
	}

	m.refreshView("key")
	return m, cmd
}

func (m *model) pageDown() {
	p, g := m.focused()
	step := max(1, p.lastVisibleRowCount)
	p.cursor = min(g.PresentedCount()-1, p.cursor+step)
	if p.cursor < 0 {
		p.cursor = 0
	}
}

func (m *model) pageUp() {
	p, _ := m.focused()
	step := max(1, p.lastVisibleRowCount)
	p.cursor = max(0, p.cursor-step)
}
