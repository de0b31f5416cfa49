package main

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Trashbot7274/lunascope/annot"
	"github.com/Trashbot7274/lunascope/record"
	"github.com/Trashbot7274/lunascope/selection"
	"github.com/Trashbot7274/lunascope/source"
)

func fixtureRecord(id string) *record.Record {
	return &record.Record{
		ID: id,
		Signals: selection.NewStaticTable([]string{"CH", "SR"}, [][]string{
			{"C3", "256"}, {"C4", "256"}, {"EMG", "512"},
		}),
		Annots: selection.NewStaticTable([]string{"ANNOT", "N"}, [][]string{
			{"Arousal", "2"}, {"Spindle", "1"},
		}),
		Feed:     source.NewLineFeed([]string{"Arousal | 10-15", "Spindle | 2-4", "Arousal | 40-42"}),
		Duration: 100,
	}
}

func testSList() *source.SList {
	return &source.SList{Records: []source.Entry{
		{ID: "n1", Signals: "n1.signals.csv"},
		{ID: "n2", Signals: "n2.signals.csv"},
	}}
}

// newTestModel returns a sized model with n1 attached. Loads and clipboard
// writes are stubbed; copied text lands in *copied.
func newTestModel(t *testing.T) (*model, *string) {
	t.Helper()
	m, err := newModel(testSList(), "", annot.DefaultExpander(), nil)
	if err != nil {
		t.Fatal(err)
	}
	m.loadEntry = func(e source.Entry) (*record.Record, error) { return fixtureRecord(e.ID), nil }
	copied := new(string)
	m.copyText = func(s string) error {
		*copied = s
		return nil
	}
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m.Update(m.Init()())
	if m.session == nil {
		t.Fatalf("record not attached: notice %q", m.ui.noticeMsg)
	}
	return m, copied
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(keyMsg(k))
	}
	return cmd
}

func typeText(m *model, s string) {
	for _, r := range s {
		press(m, string(r))
	}
}

func TestNewModelRejectsBadInput(t *testing.T) {
	x := annot.DefaultExpander()
	if _, err := newModel(nil, "", x, nil); err == nil {
		t.Errorf("nil S-list accepted")
	}
	if _, err := newModel(&source.SList{}, "", x, nil); err == nil {
		t.Errorf("empty S-list accepted")
	}
	if _, err := newModel(testSList(), "n9", x, nil); err == nil {
		t.Errorf("unknown record accepted")
	}
	x.Factor = 0
	if _, err := newModel(testSList(), "", x, nil); err == nil {
		t.Errorf("invalid expander accepted")
	}
}

func TestInitAttachesFirstRecord(t *testing.T) {
	m, _ := newTestModel(t)
	if m.entry.ID != "n1" || m.loading {
		t.Fatalf("entry = %q loading = %v", m.entry.ID, m.loading)
	}
	if got := m.grid(paneSignals).PresentedCount(); got != 3 {
		t.Errorf("signals rows = %d", got)
	}
	if got := m.grid(paneAnnots).PresentedCount(); got != 2 {
		t.Errorf("annotation rows = %d", got)
	}
	if got := m.grid(paneInstances).PresentedCount(); got != 0 {
		t.Errorf("instances before any class is checked = %d", got)
	}
	if !strings.Contains(m.ui.noticeMsg, "Opened n1") {
		t.Errorf("notice = %q", m.ui.noticeMsg)
	}
}

func TestStaleLoadIsDropped(t *testing.T) {
	m, err := newModel(testSList(), "", annot.DefaultExpander(), nil)
	if err != nil {
		t.Fatal(err)
	}
	m.loadEntry = func(e source.Entry) (*record.Record, error) { return fixtureRecord(e.ID), nil }

	first := m.Init()
	second := m.openRecord("n2")
	m.Update(second())
	m.Update(first())

	if m.entry.ID != "n2" || m.session.Record().ID != "n2" {
		t.Fatalf("attached %q, want n2", m.session.Record().ID)
	}
}

func TestLoadErrorShowsNotice(t *testing.T) {
	m, err := newModel(testSList(), "", annot.DefaultExpander(), nil)
	if err != nil {
		t.Fatal(err)
	}
	m.loadEntry = func(source.Entry) (*record.Record, error) { return nil, errors.New("disk on fire") }
	m.Update(m.Init()())
	if m.session != nil || m.ui.noticeType != "error" || !strings.Contains(m.ui.noticeMsg, "disk on fire") {
		t.Fatalf("session = %v notice = %q (%s)", m.session, m.ui.noticeMsg, m.ui.noticeType)
	}
}

func TestCheckingChannelsRedrawsTraces(t *testing.T) {
	m, _ := newTestModel(t)
	press(m, " ", "j", " ")
	if want := []string{"C3", "C4"}; !reflect.DeepEqual(m.timeline.channels, want) {
		t.Fatalf("traces = %v, want %v", m.timeline.channels, want)
	}

	press(m, " ")
	if want := []string{"C3"}; !reflect.DeepEqual(m.timeline.channels, want) {
		t.Fatalf("traces after uncheck = %v", m.timeline.channels)
	}

	press(m, "x")
	if len(m.timeline.channels) != 0 {
		t.Fatalf("traces after select none = %v", m.timeline.channels)
	}
}

func TestTagCommandSetsChannelTag(t *testing.T) {
	m, _ := newTestModel(t)
	press(m, "j", " ", "#")
	if m.ui.mode != modeCommand || m.ui.command.cmd != CmdTag {
		t.Fatalf("mode = %v cmd = %v", m.ui.mode, m.ui.command.cmd)
	}
	typeText(m, "lp")
	press(m, "enter")

	if m.timeline.tags["C4"] != "lp" {
		t.Fatalf("tags = %v", m.timeline.tags)
	}
	if got := m.timeline.tracesLine(); !strings.Contains(got, "C4~lp") {
		t.Errorf("traces line = %q", got)
	}

	// clearing
	press(m, "#", "backspace", "backspace", "enter")
	if _, ok := m.timeline.tags["C4"]; ok {
		t.Fatalf("tag not cleared: %v", m.timeline.tags)
	}
}

func TestTagOutsideSignalsWarns(t *testing.T) {
	m, _ := newTestModel(t)
	press(m, "tab", "#")
	if m.ui.mode != modeView || m.ui.noticeType != "warn" {
		t.Fatalf("mode = %v notice = %q (%s)", m.ui.mode, m.ui.noticeMsg, m.ui.noticeType)
	}
}

func TestAnnotationSelectionListsInstances(t *testing.T) {
	m, copied := newTestModel(t)
	press(m, "tab", " ")

	if got := m.grid(paneInstances).PresentedCount(); got != 2 {
		t.Fatalf("instances = %d", got)
	}
	if want := []string{"Arousal"}; !reflect.DeepEqual(m.timeline.classes, want) {
		t.Fatalf("classes = %v", m.timeline.classes)
	}

	press(m, "tab", "enter")
	want := annot.Window{Left: 7.5, Right: 17.5}
	if !m.timeline.shown || m.timeline.window != want {
		t.Fatalf("window = %v shown = %v, want %v", m.timeline.window, m.timeline.shown, want)
	}

	press(m, "y")
	if *copied != "7.50-17.50" {
		t.Errorf("copied %q", *copied)
	}

	// unchecking the class empties the instances pane
	press(m, "shift+tab", " ")
	if got := m.grid(paneInstances).PresentedCount(); got != 0 {
		t.Fatalf("instances after uncheck = %d", got)
	}
}

func TestCopyCheckedKeys(t *testing.T) {
	m, copied := newTestModel(t)
	press(m, "y")
	if m.ui.noticeMsg != "Nothing to copy" {
		t.Fatalf("notice = %q", m.ui.noticeMsg)
	}
	press(m, "A", "y")
	if *copied != "C3\nC4\nEMG" {
		t.Fatalf("copied %q", *copied)
	}

	m.copyText = func(string) error { return errors.New("no clipboard") }
	press(m, "y")
	if m.ui.noticeType != "error" {
		t.Fatalf("notice = %q (%s)", m.ui.noticeMsg, m.ui.noticeType)
	}
}

func TestCheckShownFollowsFilter(t *testing.T) {
	m, _ := newTestModel(t)
	press(m, "f")
	typeText(m, "c")
	press(m, "enter", "v")
	if want := []string{"C3", "C4"}; !reflect.DeepEqual(m.timeline.channels, want) {
		t.Fatalf("traces = %v, want %v", m.timeline.channels, want)
	}

	press(m, "F", "v")
	if got := m.grid(paneSignals).CheckedCount(); got != 3 {
		t.Fatalf("checked = %d", got)
	}

	press(m, "f")
	typeText(m, "emg")
	press(m, "enter", "V")
	if want := []string{"C3", "C4"}; !reflect.DeepEqual(m.timeline.channels, want) {
		t.Fatalf("traces after clearing shown = %v", m.timeline.channels)
	}
}

func TestFilterCommand(t *testing.T) {
	m, _ := newTestModel(t)
	press(m, "f")
	typeText(m, "c4")
	press(m, "enter")

	g := m.grid(paneSignals)
	if g.PresentedCount() != 1 || g.FilterText() != "c4" {
		t.Fatalf("presented = %d filter = %q", g.PresentedCount(), g.FilterText())
	}
	if row, _ := g.PresentedRow(m.panes[paneSignals].cursor); row.Key != "C4" {
		t.Errorf("cursor on %q", row.Key)
	}

	press(m, "F")
	if g.PresentedCount() != 3 {
		t.Fatalf("presented after clear = %d", g.PresentedCount())
	}
	if m.panes[paneSignals].cursor != 1 {
		t.Errorf("cursor = %d, want it kept on C4", m.panes[paneSignals].cursor)
	}

	press(m, "f")
	typeText(m, "zz")
	press(m, "enter")
	if g.PresentedCount() != 0 || m.ui.noticeType != "info" {
		t.Errorf("presented = %d notice = %q", g.PresentedCount(), m.ui.noticeMsg)
	}
}

func TestSortKeepsCursorRow(t *testing.T) {
	m, _ := newTestModel(t)
	press(m, "s", "S")

	g := m.grid(paneSignals)
	if col, desc := g.Sort(); col != 0 || !desc {
		t.Fatalf("sort = %d %v", col, desc)
	}
	row, _ := g.PresentedRow(m.panes[paneSignals].cursor)
	if row.Key != "C3" || m.panes[paneSignals].cursor != 2 {
		t.Fatalf("cursor = %d on %q", m.panes[paneSignals].cursor, row.Key)
	}
	if m.ui.noticeMsg != "Sort: CH descending" {
		t.Errorf("notice = %q", m.ui.noticeMsg)
	}
}

func TestJumpAndSearch(t *testing.T) {
	m, _ := newTestModel(t)
	p := m.panes[paneSignals]

	press(m, ":", "3", "enter")
	if p.cursor != 2 {
		t.Fatalf("jump: cursor = %d", p.cursor)
	}

	press(m, "/")
	typeText(m, "c4")
	press(m, "enter")
	if p.cursor != 1 || m.ui.searchQuery != "c4" {
		t.Fatalf("search: cursor = %d query = %q", p.cursor, m.ui.searchQuery)
	}

	press(m, ":", "9", "enter")
	if p.cursor != 1 || m.ui.noticeType != "warn" {
		t.Fatalf("out of range jump: cursor = %d notice = %q", p.cursor, m.ui.noticeMsg)
	}

	press(m, "G", "g")
	if p.cursor != 0 {
		t.Fatalf("top: cursor = %d", p.cursor)
	}
}

func TestNextCheckedWraps(t *testing.T) {
	m, _ := newTestModel(t)
	press(m, "n")
	if m.ui.noticeMsg != "No checked rows" {
		t.Fatalf("notice = %q", m.ui.noticeMsg)
	}
	press(m, " ", "G", "n")
	if m.panes[paneSignals].cursor != 0 {
		t.Fatalf("cursor = %d", m.panes[paneSignals].cursor)
	}
}

func TestReloadKeepsSelection(t *testing.T) {
	m, _ := newTestModel(t)
	press(m, " ", "tab", " ")
	s := m.session

	m.Update(press(m, "r")())
	if m.session != s {
		t.Fatalf("reload replaced the session")
	}
	if got := s.Signals.Checked(); !reflect.DeepEqual(got, []string{"C3"}) {
		t.Errorf("signals = %v", got)
	}
	if got := s.Instances.PresentedCount(); got != 2 {
		t.Errorf("instances = %d", got)
	}
	if !strings.HasPrefix(m.ui.noticeMsg, "Reloaded") {
		t.Errorf("notice = %q", m.ui.noticeMsg)
	}
}

func TestOpenDialogSwitchesRecord(t *testing.T) {
	m, _ := newTestModel(t)
	press(m, " ")
	press(m, "o")
	if m.activeDialog == nil {
		t.Fatalf("open dialog not shown")
	}
	typeText(m, "n2")
	confirm := press(m, "enter")
	_, load := m.Update(confirm())
	if m.activeDialog != nil {
		t.Fatalf("dialog still active")
	}
	m.Update(load())

	if m.entry.ID != "n2" || m.session.Record().ID != "n2" {
		t.Fatalf("entry = %q", m.entry.ID)
	}
	if m.session.Signals.CheckedCount() != 0 || len(m.timeline.channels) != 0 {
		t.Errorf("selection carried over to a new record")
	}
}

func TestExportInstances(t *testing.T) {
	m, _ := newTestModel(t)
	press(m, "tab", "A")

	path := filepath.Join(t.TempDir(), "out.csv")
	m.exportInstances(path)
	if m.ui.noticeType != "success" {
		t.Fatalf("notice = %q", m.ui.noticeMsg)
	}
	tbl, err := source.LoadTable(path, source.Options{})
	if err != nil {
		t.Fatal(err)
	}
	var classes []string
	for r := 0; r < tbl.RowCount(); r++ {
		classes = append(classes, tbl.ValueAt(r, 0))
	}
	if want := []string{"Spindle", "Arousal", "Arousal"}; !reflect.DeepEqual(classes, want) {
		t.Fatalf("exported %v, want %v", classes, want)
	}
	if got := defaultExportName("n1"); got != "n1.instances.csv" {
		t.Errorf("default name = %q", got)
	}
}

func TestTimeWindowDrawer(t *testing.T) {
	m, _ := newTestModel(t)
	press(m, "tab", " ", "tab", "enter", "t")

	tw := &m.ui.timeWindow
	if m.ui.mode != modeTimeWindow || !tw.open {
		t.Fatalf("drawer not open")
	}
	if tw.startInput.Value() != "7.5" || tw.endInput.Value() != "17.5" {
		t.Fatalf("inputs = %q %q", tw.startInput.Value(), tw.endInput.Value())
	}

	press(m, "tab", "tab", "right")
	if want := (annot.Window{Left: 37.5, Right: 47.5}); tw.draft != want {
		t.Fatalf("draft after shift = %v", tw.draft)
	}
	press(m, "left", "left")
	if want := (annot.Window{Left: 0, Right: 10}); tw.draft != want {
		t.Fatalf("draft at the left edge = %v", tw.draft)
	}

	press(m, "enter")
	if m.ui.mode != modeView || tw.open {
		t.Fatalf("drawer still open: %q", tw.errorMsg)
	}
	if w, _ := m.session.Window(); w != (annot.Window{Left: 0, Right: 10}) {
		t.Fatalf("session window = %v", w)
	}
	if m.timeline.window != (annot.Window{Left: 0, Right: 10}) {
		t.Fatalf("timeline window = %v", m.timeline.window)
	}
}

func TestTimeWindowRejectsBadInput(t *testing.T) {
	m, _ := newTestModel(t)
	press(m, "t")

	tw := &m.ui.timeWindow
	if tw.startInput.Value() != "0" || tw.endInput.Value() != "100" {
		t.Fatalf("inputs = %q %q", tw.startInput.Value(), tw.endInput.Value())
	}
	tw.startInput.SetValue("50")
	tw.endInput.SetValue("20")
	press(m, "enter")
	if !tw.open || tw.errorMsg != "Start is not before end" {
		t.Fatalf("open = %v error = %q", tw.open, tw.errorMsg)
	}

	tw.endInput.SetValue("abc")
	press(m, "enter")
	if tw.errorMsg != "Invalid end" {
		t.Fatalf("error = %q", tw.errorMsg)
	}

	tw.startInput.SetValue("150")
	tw.endInput.SetValue("200")
	press(m, "enter")
	if tw.errorMsg != "Window is outside the record" {
		t.Fatalf("error = %q", tw.errorMsg)
	}

	press(m, "esc")
	if m.ui.mode != modeView {
		t.Fatalf("mode = %v", m.ui.mode)
	}
}

func TestTimeWindowStep(t *testing.T) {
	m, _ := newTestModel(t)
	for i := 0; i < 10; i++ {
		m.adjustTimeWindowStep(false)
	}
	if m.timeWindowStep() != timeWindowStepMin {
		t.Fatalf("step = %v", m.timeWindowStep())
	}
	for i := 0; i < 20; i++ {
		m.adjustTimeWindowStep(true)
	}
	if m.timeWindowStep() != timeWindowStepMax {
		t.Fatalf("step = %v", m.timeWindowStep())
	}
	if got := formatStep(120); got != "2m" {
		t.Errorf("formatStep(120) = %q", got)
	}
	if got := formatStep(7.5); got != "7.5s" {
		t.Errorf("formatStep(7.5) = %q", got)
	}
}

func TestViewRendersPanes(t *testing.T) {
	m, _ := newTestModel(t)
	press(m, "tab", " ")

	out := m.View()
	for _, want := range []string{"Signals", "Annotations", "Instances", "Arousal", "Window: none"} {
		if !strings.Contains(out, want) {
			t.Errorf("view is missing %q", want)
		}
	}

	press(m, "?")
	if !strings.Contains(m.View(), "Selection") {
		t.Errorf("help dialog not shown")
	}
	press(m, "esc")
	if m.activeDialog != nil {
		t.Errorf("help dialog still active")
	}
}

func TestScrubberBar(t *testing.T) {
	events := []annot.Event{{Class: "A", Start: 8, Duration: 1}}
	got := scrubberBar(11, 0, 10, annot.Window{Left: 2, Right: 4}, true, events)
	if got != "--[=]---|--" {
		t.Fatalf("bar = %q", got)
	}
	if got := scrubberBar(11, 0, 10, annot.Window{}, false, events); got != "--------|--" {
		t.Fatalf("bar without window = %q", got)
	}
	if scrubberBar(0, 0, 10, annot.Window{}, false, nil) != "" || scrubberBar(5, 3, 3, annot.Window{}, false, nil) != "" {
		t.Fatalf("degenerate bars should be empty")
	}
}

func TestTimelineSpanWithoutDuration(t *testing.T) {
	tl := newTimeline(0)
	if _, _, ok := tl.span(); ok {
		t.Fatalf("empty timeline has a span")
	}
	tl.RedrawAnnotations([]string{"A"}, []annot.Event{{Class: "A", Start: 5, Duration: 20}})
	if lo, hi, ok := tl.span(); !ok || lo != 0 || hi != 25 {
		t.Fatalf("span = %v %v %v", lo, hi, ok)
	}
	tl.ShowWindow(annot.Window{Left: 20, Right: 40})
	if _, hi, _ := tl.span(); hi != 40 {
		t.Fatalf("span end = %v", hi)
	}
	tl.reset(60)
	if lo, hi, ok := tl.span(); !ok || lo != 0 || hi != 60 || tl.shown {
		t.Fatalf("after reset: %v %v %v shown=%v", lo, hi, ok, tl.shown)
	}
}

func TestLayoutColumns(t *testing.T) {
	cols := []ColumnMeta{
		{Name: "CH", Visible: true, MinWidth: 10, Weight: 3},
		{Name: "SR", Visible: true, MinWidth: 6, Weight: 1},
		{Name: "X", Visible: false, MinWidth: 8, Weight: 2},
	}
	got := layoutColumns(cols, 24)
	if got[0].Width != 16 || got[1].Width != 8 || got[2].Width != 0 {
		t.Fatalf("widths = %d %d %d", got[0].Width, got[1].Width, got[2].Width)
	}
	got = layoutColumns(cols, 12)
	if got[0].Width != 10 || got[1].Width != 6 {
		t.Fatalf("tight widths = %d %d", got[0].Width, got[1].Width)
	}
}

func TestColumnsForHidesEmptyColumns(t *testing.T) {
	s, err := selection.NewStore(selection.NewStaticTable(
		[]string{"CH", "NOTE", "SR"},
		[][]string{{"C3", "", "256"}, {"C4", " ", "128"}},
	), 0)
	if err != nil {
		t.Fatal(err)
	}
	cols := columnsFor(s)
	if !cols[0].Visible || cols[1].Visible || !cols[2].Visible {
		t.Fatalf("visibility = %v %v %v", cols[0].Visible, cols[1].Visible, cols[2].Visible)
	}
	if cols[0].Role != RolePrimary || cols[2].Role != RoleNumeric {
		t.Fatalf("roles = %v %v", cols[0].Role, cols[2].Role)
	}
}

func TestFitCellAndTruncate(t *testing.T) {
	if got := fitCell("line one\nline two", 8); got != "line on…" {
		t.Errorf("fitCell = %q", got)
	}
	if got := truncatePlain("睡眠脳波", 5); got != "睡眠" {
		t.Errorf("truncatePlain = %q", got)
	}
	if runeWidth("睡眠") != 4 {
		t.Errorf("runeWidth = %d", runeWidth("睡眠"))
	}
	if got := padRightPlain("ab", 4); got != "ab  " {
		t.Errorf("padRightPlain = %q", got)
	}
}

func TestHighlightMatches(t *testing.T) {
	if got := highlightMatches("C3-M2", ""); got != "C3-M2" {
		t.Errorf("empty query changed text: %q", got)
	}
	got := highlightMatches("C3-M2", "m2")
	if !strings.HasPrefix(got, "C3-") || !strings.Contains(got, "M2") {
		t.Errorf("highlight = %q", got)
	}
}

func TestRenderFooter(t *testing.T) {
	st := FooterState{
		Mode:          CmdTag,
		ModeInput:     "[TAG] tag: lp",
		Record:        "n1",
		Pane:          "Signals",
		FilterLabel:   "c4",
		Checked:       2,
		Row:           2,
		TotalRows:     3,
		StatusMessage: "Window: none",
	}
	out := RenderFooter(120, st, DefaultFooterStyles())
	for _, want := range []string{"TAG", "n1 · Signals", "[FILTER: c4]", "[CHECKED: 2]", "Rows 2/3", "Window: none"} {
		if !strings.Contains(out, want) {
			t.Errorf("footer is missing %q", want)
		}
	}
	if lines := strings.Split(out, "\n"); len(lines) != 2 {
		t.Fatalf("footer has %d lines", len(lines))
	}
	if RenderFooter(0, st, DefaultFooterStyles()) != "" {
		t.Errorf("zero width footer is not empty")
	}
	// narrow terminals still get the row position
	if out := RenderFooter(12, st, DefaultFooterStyles()); !strings.Contains(out, "Rows 2/3") {
		t.Errorf("narrow footer = %q", out)
	}
}
