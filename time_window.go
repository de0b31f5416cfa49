package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Trashbot7274/lunascope/annot"
	"github.com/Trashbot7274/lunascope/record"
)

// timeline is the text stand-in for the signal plot. The session drives it
// through record.Sink.
type timeline struct {
	minLeft  float64
	duration float64

	channels []string
	tags     map[string]string
	classes  []string
	events   []annot.Event
	window   annot.Window
	shown    bool
	redraws  int
}

var _ record.Sink = (*timeline)(nil)

func newTimeline(minLeft float64) *timeline {
	return &timeline{minLeft: minLeft}
}

func (t *timeline) RedrawTraces(channels []string, tags map[string]string) {
	t.channels = append([]string(nil), channels...)
	t.tags = tags
	t.redraws++
}

func (t *timeline) RedrawAnnotations(classes []string, events []annot.Event) {
	t.classes = append([]string(nil), classes...)
	t.events = events
	t.redraws++
}

func (t *timeline) ShowWindow(w annot.Window) {
	t.window = w
	t.shown = true
}

// reset forgets everything drawn for the previous record.
func (t *timeline) reset(duration float64) {
	*t = timeline{minLeft: t.minLeft, duration: duration}
}

func (t *timeline) setDuration(duration float64) { t.duration = duration }

// span returns the range the scrubber covers: the record duration when known,
// otherwise up to the last drawn instance or window edge.
func (t *timeline) span() (float64, float64, bool) {
	lo, hi := t.minLeft, t.duration
	if hi <= 0 {
		for _, e := range t.events {
			if e.Valid() && e.Stop() > hi {
				hi = e.Stop()
			}
		}
		if t.shown && t.window.Right > hi {
			hi = t.window.Right
		}
	}
	return lo, hi, hi > lo
}

// scrubberBar draws width cells covering [lo, hi]: '|' at each instance start
// and the window as [===].
func scrubberBar(width int, lo, hi float64, win annot.Window, shown bool, events []annot.Event) string {
	if width <= 0 || hi <= lo {
		return ""
	}
	bar := []rune(strings.Repeat("-", width))
	pos := func(v float64) int {
		return clamp(int(float64(width-1)*(v-lo)/(hi-lo)), 0, width-1)
	}
	for _, e := range events {
		if e.Valid() {
			bar[pos(e.Start)] = '|'
		}
	}
	if shown {
		start, end := pos(win.Left), pos(win.Right)
		for i := start; i <= end; i++ {
			bar[i] = '='
		}
		bar[start] = '['
		bar[end] = ']'
	}
	return string(bar)
}

func formatSecs(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (t *timeline) windowLabel() string {
	if !t.shown {
		return "Window: none"
	}
	return fmt.Sprintf("Window: %s s (%.2f s)", t.window, t.window.Width())
}

func (t *timeline) scrubberLine(width int) string {
	lo, hi, ok := t.span()
	if !ok {
		return "Timeline: n/a"
	}
	loLabel, hiLabel := formatSecs(lo), formatSecs(hi)
	barWidth := width - len(loLabel) - len(hiLabel) - 4
	if barWidth < 10 {
		return t.windowLabel()
	}
	return fmt.Sprintf("%s  %s  %s", loLabel, scrubberBar(barWidth, lo, hi, t.window, t.shown, t.events), hiLabel)
}

// tracesLine lists the drawn channels with their filter tags, then the drawn
// annotation classes.
func (t *timeline) tracesLine() string {
	traces := "none"
	if len(t.channels) > 0 {
		parts := make([]string, len(t.channels))
		for i, ch := range t.channels {
			parts[i] = ch
			if tag, ok := t.tags[ch]; ok {
				parts[i] = ch + tagMarker + tag
			}
		}
		traces = strings.Join(parts, ", ")
	}
	annots := "none"
	if len(t.classes) > 0 {
		counts := map[string]int{}
		for _, e := range t.events {
			counts[e.Class]++
		}
		parts := make([]string, len(t.classes))
		for i, c := range t.classes {
			parts[i] = fmt.Sprintf("%s (%d)", c, counts[c])
		}
		annots = strings.Join(parts, ", ")
	}
	return fmt.Sprintf("Traces: %s · Annotations: %s", traces, annots)
}
