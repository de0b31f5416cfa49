package record

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/Trashbot7274/lunascope/annot"
	"github.com/Trashbot7274/lunascope/errs"
	"github.com/Trashbot7274/lunascope/logging"
	"github.com/Trashbot7274/lunascope/selection"
)

// InstanceColumns are the columns of the instances grid.
var InstanceColumns = []string{"#", "CLASS", "LABEL", "START", "STOP", "DUR"}

// Session owns the state tied to one attached record. A new record gets a new
// Session; Reattach is only for refreshing the same record.
type Session struct {
	ID         string
	Generation uint64

	Signals   *selection.Grid
	Annots    *selection.Grid
	Instances *selection.Grid

	rec      *Record
	sink     Sink
	expander annot.Expander
	tags     map[string]string

	events   []annot.Event
	warnings []annot.ParseWarning
	feedErr  error
	window   annot.Window
	shown    bool
}

// NewSession attaches rec and wires selection changes to sink. Nothing is
// drawn until the first selection change.
func NewSession(rec *Record, sink Sink, x annot.Expander, gen uint64) (*Session, error) {
	if rec == nil {
		return nil, errs.Validationf("nil record")
	}
	if sink == nil {
		return nil, errs.Validationf("nil sink")
	}
	if err := x.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		ID:         uuid.NewString(),
		Generation: gen,
		Signals:    selection.NewGrid("Signals", true),
		Annots:     selection.NewGrid("Annotations", true),
		Instances:  selection.NewGrid("Instances", false),
		sink:       sink,
		expander:   x,
		tags:       map[string]string{},
	}
	if err := s.attach(rec); err != nil {
		return nil, err
	}
	s.Signals.OnChange(s.onSignals)
	s.Annots.OnChange(s.onAnnots)
	logging.Infof("session %s: attached record %q (gen %d, %d channels, %d classes)",
		s.ID, rec.ID, gen, s.Signals.Store().RowCount(), s.Annots.Store().RowCount())
	return s, nil
}

func (s *Session) Record() *Record { return s.rec }

// Reattach swaps in a refreshed copy of the record and restores both
// selections. Each table notifies once, so traces and instances are redrawn
// from the restored sets.
func (s *Session) Reattach(rec *Record, gen uint64) error {
	if rec == nil {
		return errs.Validationf("nil record")
	}
	sig := s.Signals.Checked()
	ann := s.Annots.Checked()

	// attach validates both tables before touching any state
	if err := s.attach(rec); err != nil {
		return err
	}
	s.Generation = gen
	for ch := range s.tags {
		if _, ok := s.Signals.Store().IndexOfKey(ch); !ok {
			delete(s.tags, ch)
		}
	}
	s.Signals.SetChecked(sig)
	s.Annots.SetChecked(ann)
	logging.Debugf("session %s: reattached %q gen %d, restored %d/%d channels and %d/%d classes",
		s.ID, rec.ID, gen, s.Signals.CheckedCount(), len(sig), s.Annots.CheckedCount(), len(ann))
	return nil
}

func (s *Session) attach(rec *Record) error {
	sig, err := buildStore(rec.Signals, rec.SignalKey, "CH")
	if err != nil {
		return fmt.Errorf("signals table: %w", err)
	}
	ann, err := buildStore(rec.Annots, rec.AnnotKey, "ANNOT")
	if err != nil {
		return fmt.Errorf("annotations table: %w", err)
	}
	s.rec = rec
	s.Signals.Attach(sig)
	s.Annots.Attach(ann)
	s.setEvents(nil, nil)
	s.feedErr = nil
	s.shown = false
	return nil
}

func buildStore(t selection.Table, keyName, fallback string) (*selection.Store, error) {
	if t == nil {
		return selection.EmptyStore(nil), nil
	}
	if len(t.ColumnNames()) == 0 {
		return selection.EmptyStore(nil), nil
	}
	if keyName == "" {
		keyName = fallback
	}
	col := selection.ColumnIndex(t, keyName)
	if col < 0 {
		col = 0
	}
	return selection.NewStore(t, col)
}

func (s *Session) onSignals(keys []string) {
	s.sink.RedrawTraces(keys, s.tagsFor(keys))
}

func (s *Session) onAnnots(keys []string) {
	s.refreshInstances(keys)
	s.sink.RedrawAnnotations(keys, s.Events())
}

func (s *Session) refreshInstances(classes []string) {
	s.feedErr = nil
	if len(classes) == 0 || s.rec.Feed == nil {
		s.setEvents(nil, nil)
		return
	}
	raw, err := s.rec.Feed.Instances(classes)
	if err != nil {
		s.feedErr = err
		logging.Warnf("session %s: instance feed: %v", s.ID, err)
		s.setEvents(nil, nil)
		return
	}
	events, warnings := annot.Derive(raw)
	for _, w := range warnings {
		logging.Debugf("session %s: %v", s.ID, w)
	}
	s.setEvents(events, warnings)
}

func (s *Session) setEvents(events []annot.Event, warnings []annot.ParseWarning) {
	s.events = events
	s.warnings = warnings

	rows := make([][]string, len(events))
	for i, e := range events {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			e.Class,
			e.Label,
			formatSeconds(e.Start),
			formatSeconds(e.Stop()),
			formatSeconds(e.Duration),
		}
	}
	store, err := selection.NewStore(selection.NewStaticTable(InstanceColumns, rows), 0)
	if err != nil {
		// ordinal keys are unique and non-empty
		panic(err)
	}
	s.Instances.Attach(store)
}

// Events returns the derived instances in start order.
func (s *Session) Events() []annot.Event {
	return append([]annot.Event(nil), s.events...)
}

// Warnings returns the parse warnings of the last derivation.
func (s *Session) Warnings() []annot.ParseWarning {
	return append([]annot.ParseWarning(nil), s.warnings...)
}

// FeedErr is the error of the last instance query, if it failed.
func (s *Session) FeedErr() error { return s.feedErr }

// EventAt returns the instance shown at presented row p of the instances
// grid.
func (s *Session) EventAt(p int) (annot.Event, error) {
	n, err := s.Instances.NaturalIndexOf(p)
	if err != nil {
		return annot.Event{}, err
	}
	return s.events[n], nil
}

// SelectInstance expands the instance at presented row p and shows it.
func (s *Session) SelectInstance(p int) (annot.Window, error) {
	ev, err := s.EventAt(p)
	if err != nil {
		return annot.Window{}, err
	}
	w, err := s.expander.ExpandEvent(ev)
	if err != nil {
		return annot.Window{}, err
	}
	s.show(w)
	return w, nil
}

// SetWindow shows an explicit window, e.g. after the user pans the timeline.
func (s *Session) SetWindow(w annot.Window) error {
	if !(w.Left < w.Right) {
		return errs.Validationf("window %v is empty", w)
	}
	if w.Left < s.expander.MinLeft {
		return errs.Validationf("window %v starts before %v", w, s.expander.MinLeft)
	}
	s.show(w)
	return nil
}

func (s *Session) show(w annot.Window) {
	s.window = w
	s.shown = true
	s.sink.ShowWindow(w)
}

// Window returns the window last shown.
func (s *Session) Window() (annot.Window, bool) { return s.window, s.shown }

func (s *Session) Expander() annot.Expander { return s.expander }

// SetFilterTag sets the opaque filter tag carried with channel to the sink.
// An empty tag clears it. Checked channels are redrawn.
func (s *Session) SetFilterTag(channel, tag string) error {
	n, ok := s.Signals.Store().IndexOfKey(channel)
	if !ok {
		return errs.Validationf("unknown channel %q", channel)
	}
	if tag == "" {
		delete(s.tags, channel)
	} else {
		s.tags[channel] = tag
	}
	if s.Signals.IsKeyChecked(channel) {
		keys := s.Signals.Checked()
		s.sink.RedrawTraces(keys, s.tagsFor(keys))
	}
	logging.Debugf("session %s: channel %s (row %d) tag %q", s.ID, channel, n, tag)
	return nil
}

func (s *Session) FilterTag(channel string) string { return s.tags[channel] }

func (s *Session) tagsFor(keys []string) map[string]string {
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if t, ok := s.tags[k]; ok {
			out[k] = t
		}
	}
	return out
}

func formatSeconds(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
