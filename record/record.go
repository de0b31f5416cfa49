// Package record ties the selection engine to one attached recording: the
// signals and annotations tables, the derived instances, per-channel filter
// tags, and the render sink they drive.
package record

import (
	"sync/atomic"

	"github.com/Trashbot7274/lunascope/annot"
	"github.com/Trashbot7274/lunascope/selection"
)

// Sink receives everything the engine wants drawn.
type Sink interface {
	// RedrawTraces draws the checked channels. tags holds the filter tag of
	// each checked channel that has one.
	RedrawTraces(channels []string, tags map[string]string)
	// RedrawAnnotations draws the instances of the checked classes.
	RedrawAnnotations(classes []string, events []annot.Event)
	// ShowWindow moves the timeline to w.
	ShowWindow(w annot.Window)
}

// Feed returns raw instance encodings for the given annotation classes.
type Feed interface {
	Instances(classes []string) ([]string, error)
}

// Record is one loaded recording.
type Record struct {
	ID      string
	Signals selection.Table
	Annots  selection.Table
	Feed    Feed
	// Duration in seconds, 0 when unknown.
	Duration float64

	// SignalKey and AnnotKey name the key columns. Empty picks "CH" and
	// "ANNOT", falling back to the first column.
	SignalKey string
	AnnotKey  string
}

// Generations hands out load generations. Only the newest is current; a
// result carrying an older one is stale.
type Generations struct {
	n atomic.Uint64
}

func (g *Generations) Next() uint64 { return g.n.Add(1) }

func (g *Generations) Current() uint64 { return g.n.Load() }

func (g *Generations) IsCurrent(gen uint64) bool { return gen == g.n.Load() }
