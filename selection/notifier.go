package selection

// Notifier delivers the checked key set to a single subscriber. Mutations run
// inside Batch so a bulk change reaches the subscriber exactly once.
type Notifier struct {
	onChange func(keys []string)
	snapshot func() []string
	depth    int
}

func newNotifier(snapshot func() []string) *Notifier {
	return &Notifier{snapshot: snapshot}
}

// Subscribe replaces the callback. nil unsubscribes.
func (n *Notifier) Subscribe(fn func(keys []string)) {
	n.onChange = fn
}

// Batch runs mutate with notifications suppressed and fires once on the way
// out, also when mutate panics. Nested batches fire only at the outermost
// level.
func (n *Notifier) Batch(mutate func()) {
	n.depth++
	defer func() {
		n.depth--
		if n.depth == 0 {
			n.fire()
		}
	}()
	mutate()
}

// Suppressed reports whether a batch is open.
func (n *Notifier) Suppressed() bool { return n.depth > 0 }

func (n *Notifier) fire() {
	if n.onChange == nil {
		return
	}
	n.onChange(n.snapshot())
}
