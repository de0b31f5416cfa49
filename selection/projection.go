package selection

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/Trashbot7274/lunascope/errs"
)

// Predicate decides whether a row is presented.
type Predicate func(r Row) bool

// Comparator orders two rows: negative when a sorts before b.
type Comparator func(a, b Row) int

// Projection maps between a store's natural order and the presented order
// produced by the current filter and sort. It never writes to the store.
type Projection struct {
	store     *Store
	filter    Predicate
	cmp       Comparator
	presented []int // natural indices in presentation order
	position  []int // natural index -> presented index, -1 when filtered out
}

func NewProjection(s *Store) *Projection {
	p := &Projection{}
	p.Reset(s)
	return p
}

// Reset points the projection at a new store, keeping the current filter and
// sort.
func (p *Projection) Reset(s *Store) {
	if s == nil {
		s = EmptyStore(nil)
	}
	p.store = s
	p.rebuild()
}

func (p *Projection) Store() *Store { return p.store }

// ApplyFilter sets the filter predicate; nil presents every row.
func (p *Projection) ApplyFilter(pred Predicate) {
	p.filter = pred
	p.rebuild()
}

// ApplySort sets the comparator; nil restores natural order.
func (p *Projection) ApplySort(cmp Comparator) {
	p.cmp = cmp
	p.rebuild()
}

func (p *Projection) PresentedCount() int { return len(p.presented) }

func (p *Projection) NaturalIndexOf(presented int) (int, error) {
	if presented < 0 || presented >= len(p.presented) {
		return -1, errs.OutOfRangef("presented row %d outside [0,%d)", presented, len(p.presented))
	}
	return p.presented[presented], nil
}

// PresentedIndexOf returns where natural row n is shown, or false when it is
// filtered out or does not exist.
func (p *Projection) PresentedIndexOf(n int) (int, bool) {
	if n < 0 || n >= len(p.position) {
		return -1, false
	}
	pos := p.position[n]
	return pos, pos >= 0
}

// PresentedRow returns the row shown at position presented.
func (p *Projection) PresentedRow(presented int) (Row, error) {
	n, err := p.NaturalIndexOf(presented)
	if err != nil {
		return Row{}, err
	}
	return p.store.FieldsOf(n)
}

func (p *Projection) rebuild() {
	n := p.store.RowCount()
	p.presented = p.presented[:0]
	for i := 0; i < n; i++ {
		if p.filter == nil || p.filter(p.store.row(i)) {
			p.presented = append(p.presented, i)
		}
	}
	if p.cmp != nil {
		sort.SliceStable(p.presented, func(a, b int) bool {
			return p.cmp(p.store.row(p.presented[a]), p.store.row(p.presented[b])) < 0
		})
	}

	if cap(p.position) < n {
		p.position = make([]int, n)
	}
	p.position = p.position[:n]
	for i := range p.position {
		p.position[i] = -1
	}
	for pos, nat := range p.presented {
		p.position[nat] = pos
	}
}

// MatchText builds a case-insensitive substring predicate over the given
// columns, or over every column when none are given. Empty text returns nil
// so every row passes.
func MatchText(text string, columns ...int) Predicate {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return nil
	}
	cols := append([]int(nil), columns...)
	return func(r Row) bool {
		var b strings.Builder
		if len(cols) == 0 {
			for i, f := range r.Fields {
				if i > 0 {
					b.WriteByte('\t')
				}
				b.WriteString(f)
			}
		} else {
			for i, c := range cols {
				if c < 0 || c >= len(r.Fields) {
					continue
				}
				if i > 0 {
					b.WriteByte('\t')
				}
				b.WriteString(r.Fields[c])
			}
		}
		return strings.Contains(strings.ToLower(b.String()), needle)
	}
}

// ByColumn compares one column, numerically when both cells are numbers and
// as case-folded text otherwise. Blank and NaN cells sort after numbers in
// ascending order.
func ByColumn(col int, desc bool) Comparator {
	return func(a, b Row) int {
		c := compareCells(cell(a, col), cell(b, col))
		if desc {
			return -c
		}
		return c
	}
}

func cell(r Row, col int) string {
	if col < 0 || col >= len(r.Fields) {
		return ""
	}
	return r.Fields[col]
}

func compareCells(a, b string) int {
	fa, aNum := parseNumber(a)
	fb, bNum := parseNumber(b)
	switch {
	case aNum && bNum:
		return compareFloats(fa, fb)
	case aNum && strings.TrimSpace(b) == "":
		return -1
	case bNum && strings.TrimSpace(a) == "":
		return 1
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func compareFloats(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
