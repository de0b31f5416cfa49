// Package annot turns raw annotation-instance encodings into time-ordered
// events and computes the timeline window shown around one of them.
package annot

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Event is one annotation instance in seconds from record start.
type Event struct {
	Class    string
	Label    string
	Start    float64
	Duration float64
}

// Stop is Start+Duration, NaN when either is.
func (e Event) Stop() float64 { return e.Start + e.Duration }

// Valid reports whether both Start and Duration parsed.
func (e Event) Valid() bool {
	return !math.IsNaN(e.Start) && !math.IsNaN(e.Duration)
}

// ParseWarning records one malformed encoding. The event is still returned
// with NaN fields.
type ParseWarning struct {
	Index  int
	Raw    string
	Reason string
}

func (w ParseWarning) Error() string {
	return fmt.Sprintf("instance %d %q: %s", w.Index, w.Raw, w.Reason)
}

// Derive parses raw encodings of the forms
//
//	class | start-stop
//	class | label | start-stop
//	class | label | start+duration
//
// and returns the events ordered by start, ties kept in input order and
// unparsable starts last. Derive never fails as a whole: a malformed
// encoding yields an event with NaN fields and a warning.
func Derive(raw []string) ([]Event, []ParseWarning) {
	events := make([]Event, 0, len(raw))
	var warnings []ParseWarning
	for i, s := range raw {
		ev, reason := parseEvent(s)
		if reason != "" {
			warnings = append(warnings, ParseWarning{Index: i, Raw: s, Reason: reason})
		}
		events = append(events, ev)
	}
	sort.SliceStable(events, func(a, b int) bool {
		return startLess(events[a].Start, events[b].Start)
	})
	return events, warnings
}

// ClassOf returns the trimmed text before the first '|'.
func ClassOf(raw string) string {
	if i := strings.IndexByte(raw, '|'); i >= 0 {
		return strings.TrimSpace(raw[:i])
	}
	return strings.TrimSpace(raw)
}

func parseEvent(s string) (Event, string) {
	ev := Event{Start: math.NaN(), Duration: math.NaN()}
	fields := strings.Split(s, "|")
	ev.Class = strings.TrimSpace(fields[0])
	if len(fields) < 2 {
		return ev, "missing interval"
	}
	if len(fields) > 2 {
		mid := fields[1 : len(fields)-1]
		for i := range mid {
			mid[i] = strings.TrimSpace(mid[i])
		}
		ev.Label = strings.Join(mid, " | ")
	}

	span := strings.TrimSpace(fields[len(fields)-1])
	if i := strings.IndexByte(span, '+'); i > 0 {
		start, okS := parseSeconds(span[:i])
		dur, okD := parseSeconds(span[i+1:])
		ev.Start = start
		if !okS || !okD {
			ev.Duration = math.NaN()
			return ev, fmt.Sprintf("bad start+duration %q", span)
		}
		if dur < 0 {
			return ev, "negative duration"
		}
		ev.Duration = dur
		return ev, ""
	}

	i := rangeSeparator(span)
	if i < 0 {
		ev.Start, _ = parseSeconds(span)
		return ev, fmt.Sprintf("no stop in %q", span)
	}
	start, okS := parseSeconds(span[:i])
	stop, okE := parseSeconds(span[i+1:])
	ev.Start = start
	if !okS || !okE {
		return ev, fmt.Sprintf("bad start-stop %q", span)
	}
	if stop < start {
		return ev, "stop before start"
	}
	ev.Duration = stop - start
	return ev, ""
}

// rangeSeparator finds the '-' between start and stop, skipping a leading
// sign and exponent signs.
func rangeSeparator(s string) int {
	for i := 1; i < len(s); i++ {
		if s[i] != '-' {
			continue
		}
		if p := s[i-1]; p == 'e' || p == 'E' {
			continue
		}
		return i
	}
	return -1
}

func parseSeconds(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(f, 0) {
		return math.NaN(), false
	}
	if math.IsNaN(f) {
		return f, false
	}
	return f, true
}

func startLess(a, b float64) bool {
	switch {
	case math.IsNaN(a):
		return false
	case math.IsNaN(b):
		return true
	}
	return a < b
}
