package annot

import (
	"fmt"
	"math"

	"github.com/Trashbot7274/lunascope/errs"
)

// Window is the time range handed to the timeline, in seconds.
type Window struct {
	Left  float64
	Right float64
}

func (w Window) Width() float64 { return w.Right - w.Left }

func (w Window) String() string {
	return fmt.Sprintf("%.2f-%.2f", w.Left, w.Right)
}

// Expander widens an interval into a view window.
type Expander struct {
	// Factor is the final width over the original width.
	Factor float64
	// PointWidth is the window width used for zero-width intervals.
	PointWidth float64
	// MinLeft is the lowest allowed left edge.
	MinLeft float64
}

func DefaultExpander() Expander {
	return Expander{Factor: 2.0, PointWidth: 10.0, MinLeft: 0.0}
}

func (x Expander) Validate() error {
	switch {
	case !finite(x.Factor) || x.Factor <= 0:
		return errs.Validationf("factor must be > 0, got %v", x.Factor)
	case !finite(x.PointWidth) || x.PointWidth <= 0:
		return errs.Validationf("point width must be > 0, got %v", x.PointWidth)
	case !finite(x.MinLeft):
		return errs.Validationf("min left must be finite, got %v", x.MinLeft)
	}
	return nil
}

// Expand returns a window around [left, right]. A point gets a window of
// PointWidth centred on it; an interval is widened symmetrically to Factor
// times its width. Either way the window is shifted right, never shrunk,
// until its left edge is at least MinLeft.
func (x Expander) Expand(left, right float64) (Window, error) {
	if !finite(left) || !finite(right) {
		return Window{}, errs.Validationf("interval bounds must be finite, got %v-%v", left, right)
	}
	if err := x.Validate(); err != nil {
		return Window{}, err
	}
	a, b := math.Min(left, right), math.Max(left, right)

	var w Window
	if a == b {
		w = Window{Left: a - x.PointWidth/2, Right: a + x.PointWidth/2}
	} else {
		pad := 0.5 * ((b-a)*x.Factor - (b - a))
		w = Window{Left: a - pad, Right: b + pad}
	}
	if w.Left < x.MinLeft {
		shift := x.MinLeft - w.Left
		w.Left += shift
		w.Right += shift
	}
	if !(w.Left < w.Right) {
		return Window{}, errs.Validationf("window %v-%v collapsed to zero width", w.Left, w.Right)
	}
	return w, nil
}

// ExpandEvent expands the span of ev.
func (x Expander) ExpandEvent(ev Event) (Window, error) {
	if !ev.Valid() {
		return Window{}, errs.Validationf("%s instance has no parsed interval", ev.Class)
	}
	return x.Expand(ev.Start, ev.Stop())
}

// Expand uses DefaultExpander.
func Expand(left, right float64) (Window, error) {
	return DefaultExpander().Expand(left, right)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
