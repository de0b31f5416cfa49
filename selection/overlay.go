package selection

import (
	"github.com/Trashbot7274/lunascope/errs"
)

// Overlay is the checked/unchecked state layered over a Store. State is keyed
// by row key, so it follows a row through any filter or sort.
type Overlay struct {
	store    *Store
	checked  map[string]struct{}
	notifier *Notifier
}

func NewOverlay(s *Store) *Overlay {
	o := &Overlay{checked: map[string]struct{}{}}
	o.notifier = newNotifier(o.Checked)
	o.Attach(s)
	return o
}

// Attach replaces the backing store and clears the selection without
// notifying. The subscriber is kept.
func (o *Overlay) Attach(s *Store) {
	if s == nil {
		s = EmptyStore(nil)
	}
	o.store = s
	o.checked = map[string]struct{}{}
}

// OnChange sets the single subscriber, replacing any earlier one.
func (o *Overlay) OnChange(fn func(keys []string)) {
	o.notifier.Subscribe(fn)
}

// Notifier exposes the batch scope so callers can group several mutations
// into one notification.
func (o *Overlay) Notifier() *Notifier { return o.notifier }

// Checked returns the checked keys in natural order.
func (o *Overlay) Checked() []string {
	keys := make([]string, 0, len(o.checked))
	for i := 0; i < o.store.RowCount(); i++ {
		k := o.store.row(i).Key
		if _, ok := o.checked[k]; ok {
			keys = append(keys, k)
		}
	}
	return keys
}

func (o *Overlay) IsChecked(n int) bool {
	if n < 0 || n >= o.store.RowCount() {
		return false
	}
	_, ok := o.checked[o.store.row(n).Key]
	return ok
}

func (o *Overlay) IsKeyChecked(key string) bool {
	_, ok := o.checked[key]
	return ok
}

func (o *Overlay) Count() int { return len(o.checked) }

// Toggle flips natural row n.
func (o *Overlay) Toggle(n int) error {
	key, err := o.store.KeyOf(n)
	if err != nil {
		return err
	}
	o.notifier.Batch(func() {
		if _, ok := o.checked[key]; ok {
			delete(o.checked, key)
		} else {
			o.checked[key] = struct{}{}
		}
	})
	return nil
}

func (o *Overlay) SelectAll() {
	o.notifier.Batch(func() {
		for i := 0; i < o.store.RowCount(); i++ {
			o.checked[o.store.row(i).Key] = struct{}{}
		}
	})
}

func (o *Overlay) SelectNone() {
	o.notifier.Batch(func() {
		o.checked = map[string]struct{}{}
	})
}

// ToggleAll selects every row when none is checked and clears the selection
// otherwise.
func (o *Overlay) ToggleAll() {
	if o.Count() == 0 {
		o.SelectAll()
		return
	}
	o.SelectNone()
}

// SetChecked replaces the selection with keys. Keys the store does not hold
// are ignored.
func (o *Overlay) SetChecked(keys []string) {
	o.notifier.Batch(func() {
		o.checked = make(map[string]struct{}, len(keys))
		for _, k := range keys {
			if _, ok := o.store.IndexOfKey(k); ok {
				o.checked[k] = struct{}{}
			}
		}
	})
}

// SetCheckedAt checks or unchecks the natural rows in ns as one change.
func (o *Overlay) SetCheckedAt(ns []int, on bool) error {
	for _, n := range ns {
		if n < 0 || n >= o.store.RowCount() {
			return errs.OutOfRangef("row %d outside [0,%d)", n, o.store.RowCount())
		}
	}
	o.notifier.Batch(func() {
		for _, n := range ns {
			k := o.store.row(n).Key
			if on {
				o.checked[k] = struct{}{}
			} else {
				delete(o.checked, k)
			}
		}
	})
	return nil
}
