package main

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Trashbot7274/lunascope/annot"
	"github.com/Trashbot7274/lunascope/logging"
)

func (m *model) openTimeWindowDrawer() {
	tw := &m.ui.timeWindow
	tw.open = true
	tw.errorMsg = ""
	tw.step = timeWindowStepDefault
	tw.hasDraft = false
	tw.startInput.SetValue("")
	tw.endInput.SetValue("")

	switch {
	case m.session == nil:
		tw.errorMsg = "No record loaded"
	default:
		if w, ok := m.session.Window(); ok {
			tw.draft, tw.hasDraft = w, true
		} else if lo, hi, ok := m.timeline.span(); ok {
			tw.draft, tw.hasDraft = annot.Window{Left: lo, Right: hi}, true
		} else {
			tw.errorMsg = "No time range available"
		}
	}

	m.updateTimeWindowInputsFromDraft()
	m.setTimeWindowFocus(timeWindowFocusStart)
	m.ui.mode = modeTimeWindow
	m.layout()
	m.refreshView("time-window-open")
}

func (m *model) closeTimeWindowDrawer() {
	m.ui.timeWindow.open = false
	m.ui.timeWindow.errorMsg = ""
	m.ui.mode = modeView
	m.layout()
	m.refreshView("time-window-close")
}

func (m *model) handleTimeWindowKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tw := &m.ui.timeWindow

	switch {
	case msg.Type == tea.KeyEsc:
		m.closeTimeWindowDrawer()
		return m, nil
	case msg.Type == tea.KeyEnter:
		m.applyTimeWindowFromInputs()
		return m, nil
	case msg.String() == "r":
		m.resetTimeWindowDraft()
		return m, nil
	case msg.Type == tea.KeyTab:
		m.setTimeWindowFocus((tw.focus + 1) % 3)
		return m, nil
	case msg.Type == tea.KeyShiftTab:
		m.setTimeWindowFocus((tw.focus + 2) % 3)
		return m, nil
	case tw.focus == timeWindowFocusScrubber && msg.Type == tea.KeyLeft:
		m.shiftTimeWindow(-m.timeWindowStep())
		return m, nil
	case tw.focus == timeWindowFocusScrubber && msg.Type == tea.KeyRight:
		m.shiftTimeWindow(m.timeWindowStep())
		return m, nil
	case tw.focus == timeWindowFocusScrubber && msg.Type == tea.KeyShiftLeft:
		m.expandTimeWindow(-m.timeWindowStep())
		return m, nil
	case tw.focus == timeWindowFocusScrubber && msg.Type == tea.KeyShiftRight:
		m.expandTimeWindow(m.timeWindowStep())
		return m, nil
	case tw.focus == timeWindowFocusScrubber && msg.String() == "-":
		m.adjustTimeWindowStep(false)
		return m, nil
	case tw.focus == timeWindowFocusScrubber && (msg.String() == "+" || msg.String() == "="):
		m.adjustTimeWindowStep(true)
		return m, nil
	}

	var cmd tea.Cmd
	if tw.focus == timeWindowFocusStart {
		tw.startInput, cmd = tw.startInput.Update(msg)
		return m, cmd
	}
	if tw.focus == timeWindowFocusEnd {
		tw.endInput, cmd = tw.endInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) setTimeWindowFocus(focus int) {
	tw := &m.ui.timeWindow
	tw.focus = focus
	switch focus {
	case timeWindowFocusStart:
		tw.startInput.Focus()
		tw.endInput.Blur()
	case timeWindowFocusEnd:
		tw.startInput.Blur()
		tw.endInput.Focus()
	default:
		tw.startInput.Blur()
		tw.endInput.Blur()
	}
}

func (m *model) updateTimeWindowInputsFromDraft() {
	tw := &m.ui.timeWindow
	if !tw.hasDraft {
		return
	}
	tw.startInput.SetValue(formatSecs(tw.draft.Left))
	tw.endInput.SetValue(formatSecs(tw.draft.Right))
}

func parseSecondsInput(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// syncDraftFromInputs picks up whatever the user typed that parses.
func (m *model) syncDraftFromInputs() {
	tw := &m.ui.timeWindow
	if l, err := parseSecondsInput(tw.startInput.Value()); err == nil {
		tw.draft.Left = l
	}
	if r, err := parseSecondsInput(tw.endInput.Value()); err == nil {
		tw.draft.Right = r
	}
}

func (m *model) resetTimeWindowDraft() {
	tw := &m.ui.timeWindow
	tw.errorMsg = ""

	lo, hi, ok := m.timeline.span()
	if !ok {
		tw.errorMsg = "No time range available"
		return
	}
	tw.draft, tw.hasDraft = annot.Window{Left: lo, Right: hi}, true
	m.updateTimeWindowInputsFromDraft()
}

func (m *model) applyTimeWindowFromInputs() {
	tw := &m.ui.timeWindow
	tw.errorMsg = ""

	if m.session == nil {
		tw.errorMsg = "No record loaded"
		return
	}
	start, err := parseSecondsInput(tw.startInput.Value())
	if err != nil {
		tw.errorMsg = "Invalid start"
		return
	}
	end, err := parseSecondsInput(tw.endInput.Value())
	if err != nil {
		tw.errorMsg = "Invalid end"
		return
	}
	if start >= end {
		tw.errorMsg = "Start is not before end"
		return
	}
	if lo, hi, ok := m.timeline.span(); ok {
		start = clampSecs(start, lo, hi)
		end = clampSecs(end, lo, hi)
		if start >= end {
			tw.errorMsg = "Window is outside the record"
			return
		}
	}

	w := annot.Window{Left: start, Right: end}
	if err := m.session.SetWindow(w); err != nil {
		tw.errorMsg = err.Error()
		return
	}
	logging.Debugf("time window applied: %s", w)
	tw.draft, tw.hasDraft = w, true
	m.closeTimeWindowDrawer()
}

// shiftTimeWindow pans the draft by delta seconds, keeping its width and
// stopping at the edges of the record.
func (m *model) shiftTimeWindow(delta float64) {
	tw := &m.ui.timeWindow
	tw.errorMsg = ""

	lo, hi, ok := m.timeline.span()
	if !ok {
		tw.errorMsg = "No time range available"
		return
	}

	m.syncDraftFromInputs()
	if !tw.hasDraft {
		tw.draft, tw.hasDraft = annot.Window{Left: lo, Right: hi}, true
	}

	width := tw.draft.Width()
	if width <= 0 {
		width = timeWindowStepMin
	}
	if width > hi-lo {
		tw.draft = annot.Window{Left: lo, Right: hi}
		m.updateTimeWindowInputsFromDraft()
		return
	}

	next := annot.Window{Left: tw.draft.Left + delta, Right: tw.draft.Left + delta + width}
	if next.Left < lo {
		next = annot.Window{Left: lo, Right: lo + width}
	}
	if next.Right > hi {
		next = annot.Window{Left: hi - width, Right: hi}
	}

	tw.draft = next
	m.updateTimeWindowInputsFromDraft()
}

func (m *model) timeWindowStep() float64 {
	return clampSecs(m.ui.timeWindow.step, timeWindowStepMin, timeWindowStepMax)
}

func (m *model) adjustTimeWindowStep(increase bool) {
	step := m.timeWindowStep()
	if increase {
		step *= 2
	} else {
		step /= 2
	}
	m.ui.timeWindow.step = clampSecs(step, timeWindowStepMin, timeWindowStepMax)
}

// expandTimeWindow grows the draft to the left for negative delta and to the
// right for positive delta.
func (m *model) expandTimeWindow(delta float64) {
	tw := &m.ui.timeWindow
	tw.errorMsg = ""

	lo, hi, ok := m.timeline.span()
	if !ok {
		tw.errorMsg = "No time range available"
		return
	}

	m.syncDraftFromInputs()
	if !tw.hasDraft {
		tw.draft, tw.hasDraft = annot.Window{Left: lo, Right: hi}, true
	}

	if delta < 0 {
		tw.draft.Left = max(lo, tw.draft.Left+delta)
		if tw.draft.Left > tw.draft.Right {
			tw.draft.Right = tw.draft.Left
		}
	} else if delta > 0 {
		tw.draft.Right = min(hi, tw.draft.Right+delta)
		if tw.draft.Right < tw.draft.Left {
			tw.draft.Left = tw.draft.Right
		}
	}

	m.updateTimeWindowInputsFromDraft()
}

func clampSecs(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func formatStep(step float64) string {
	if step >= 60 && int(step)%60 == 0 {
		return fmt.Sprintf("%dm", int(step)/60)
	}
	return fmt.Sprintf("%gs", step)
}

func (m *model) timeWindowDrawerView(width int) string {
	tw := &m.ui.timeWindow
	innerWidth := max(0, width-2)
	lineStyle := lipgloss.NewStyle().Width(innerWidth).MaxHeight(1)

	startLine := fmt.Sprintf("Start: %s", tw.startInput.View())
	endLine := fmt.Sprintf("End:   %s", tw.endInput.View())
	scrubberLine := m.timeWindowScrubberLine(innerWidth)
	helpLine := fmt.Sprintf("tab: next  enter: apply  r: reset  esc: cancel  ←/→: move %s  shift+←/→: expand %s  -/+: step",
		formatStep(m.timeWindowStep()),
		formatStep(m.timeWindowStep()),
	)
	errorLine := ""
	if tw.errorMsg != "" {
		errorLine = "Error: " + tw.errorMsg
	}

	lines := []string{
		lineStyle.Render(startLine),
		lineStyle.Render(endLine),
		lineStyle.Render(scrubberLine),
		lineStyle.Render(helpLine),
		lineStyle.Render(errorLine),
	}

	content := strings.Join(lines, "\n")
	return timeWindowArea.Width(innerWidth).Render(content)
}

func (m *model) timeWindowScrubberLine(width int) string {
	tw := &m.ui.timeWindow
	lo, hi, ok := m.timeline.span()
	if !ok || !tw.hasDraft {
		return "Scrubber: n/a"
	}
	loLabel, hiLabel := formatSecs(lo), formatSecs(hi)
	barWidth := width - len(loLabel) - len(hiLabel) - 4
	if barWidth < 10 {
		return fmt.Sprintf("Window: %s", tw.draft)
	}
	return fmt.Sprintf("%s  %s  %s", loLabel, scrubberBar(barWidth, lo, hi, tw.draft, true, m.timeline.events), hiLabel)
}
