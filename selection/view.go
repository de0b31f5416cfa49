package selection

// SelectableView is the surface hosts use to read and drive a checkbox
// table.
type SelectableView interface {
	Checked() []string
	SelectAll()
	SelectNone()
	SetChecked(keys []string)
	ToggleAll()
	OnChange(fn func(keys []string))
}

var _ SelectableView = (*Grid)(nil)

// Grid composes a Store, a Projection and an Overlay into one table with
// presentation-position helpers for the UI layer.
type Grid struct {
	name       string
	store      *Store
	proj       *Projection
	overlay    *Overlay
	filterText string
	filterCols []int
	filterBy   []string
	sortCol    int
	sortDesc   bool
	checkable  bool
}

// NewGrid builds an empty grid. Non-checkable grids reject toggles and never
// notify.
func NewGrid(name string, checkable bool) *Grid {
	s := EmptyStore(nil)
	return &Grid{
		name:      name,
		store:     s,
		proj:      NewProjection(s),
		overlay:   NewOverlay(s),
		sortCol:   -1,
		checkable: checkable,
	}
}

func (g *Grid) Name() string    { return g.name }
func (g *Grid) Checkable() bool { return g.checkable }
func (g *Grid) Store() *Store   { return g.store }

// Attach swaps the backing store. The selection is cleared silently, while
// filter text and sort column carry over when the new store still has them.
func (g *Grid) Attach(s *Store) {
	if s == nil {
		s = EmptyStore(nil)
	}
	g.store = s
	g.overlay.Attach(s)
	if g.sortCol >= len(s.columns) {
		g.sortCol = -1
		g.sortDesc = false
	}
	g.filterCols = resolveColumns(s, g.filterBy)
	g.proj.filter = MatchText(g.filterText, g.filterCols...)
	g.proj.cmp = g.comparator()
	g.proj.Reset(s)
}

func (g *Grid) Checked() []string { return g.overlay.Checked() }

func (g *Grid) SelectAll() {
	if g.checkable {
		g.overlay.SelectAll()
	}
}

func (g *Grid) SelectNone() {
	if g.checkable {
		g.overlay.SelectNone()
	}
}

func (g *Grid) SetChecked(keys []string) {
	if g.checkable {
		g.overlay.SetChecked(keys)
	}
}

func (g *Grid) ToggleAll() {
	if g.checkable {
		g.overlay.ToggleAll()
	}
}

func (g *Grid) OnChange(fn func(keys []string)) { g.overlay.OnChange(fn) }

// SetShownChecked checks or unchecks every row that passes the filter, as a
// single change. Rows hidden by the filter keep their state.
func (g *Grid) SetShownChecked(on bool) error {
	if !g.checkable {
		return nil
	}
	ns := make([]int, 0, g.proj.PresentedCount())
	for p := 0; p < g.proj.PresentedCount(); p++ {
		n, err := g.proj.NaturalIndexOf(p)
		if err != nil {
			return err
		}
		ns = append(ns, n)
	}
	return g.overlay.SetCheckedAt(ns, on)
}

func (g *Grid) CheckedCount() int { return g.overlay.Count() }

func (g *Grid) IsKeyChecked(key string) bool { return g.overlay.IsKeyChecked(key) }

// ToggleAt flips the row shown at presented position p.
func (g *Grid) ToggleAt(p int) error {
	n, err := g.proj.NaturalIndexOf(p)
	if err != nil {
		return err
	}
	if !g.checkable {
		return nil
	}
	return g.overlay.Toggle(n)
}

// CheckedAt reports whether the row at presented position p is checked.
func (g *Grid) CheckedAt(p int) bool {
	n, err := g.proj.NaturalIndexOf(p)
	if err != nil {
		return false
	}
	return g.overlay.IsChecked(n)
}

func (g *Grid) PresentedCount() int { return g.proj.PresentedCount() }

func (g *Grid) PresentedRow(p int) (Row, error) { return g.proj.PresentedRow(p) }

func (g *Grid) NaturalIndexOf(p int) (int, error) { return g.proj.NaturalIndexOf(p) }

// PresentedIndexOfKey returns where key is shown, or false when the row is
// filtered out or unknown.
func (g *Grid) PresentedIndexOfKey(key string) (int, bool) {
	n, ok := g.store.IndexOfKey(key)
	if !ok {
		return -1, false
	}
	return g.proj.PresentedIndexOf(n)
}

// SetFilter filters presented rows by case-insensitive text over the filter
// columns. Empty text clears the filter.
func (g *Grid) SetFilter(text string) {
	g.filterText = text
	g.proj.ApplyFilter(MatchText(text, g.filterCols...))
}

func (g *Grid) FilterText() string { return g.filterText }

// SetFilterColumns restricts text filtering to the named columns. The names
// are resolved again on every Attach. Unknown names are skipped; an empty
// result filters over every column.
func (g *Grid) SetFilterColumns(names []string) {
	g.filterBy = append([]string(nil), names...)
	g.filterCols = resolveColumns(g.store, g.filterBy)
	g.proj.ApplyFilter(MatchText(g.filterText, g.filterCols...))
}

// SortBy orders presented rows by column col; col < 0 restores natural order.
func (g *Grid) SortBy(col int, desc bool) {
	if col >= len(g.store.columns) {
		col = -1
	}
	g.sortCol = col
	g.sortDesc = desc && col >= 0
	g.proj.ApplySort(g.comparator())
}

// CycleSort moves the sort to the next column, wrapping back to natural
// order after the last one.
func (g *Grid) CycleSort() {
	next := g.sortCol + 1
	if next >= len(g.store.columns) {
		next = -1
	}
	g.SortBy(next, false)
}

// ReverseSort flips the direction of the current sort column.
func (g *Grid) ReverseSort() {
	if g.sortCol < 0 {
		return
	}
	g.SortBy(g.sortCol, !g.sortDesc)
}

// Sort returns the sort column (-1 for natural order) and direction.
func (g *Grid) Sort() (int, bool) { return g.sortCol, g.sortDesc }

// NextChecked returns the presented position of the nearest checked row after
// (dir > 0) or before (dir < 0) from, wrapping around.
func (g *Grid) NextChecked(from, dir int) (int, bool) {
	count := g.proj.PresentedCount()
	if count == 0 || g.overlay.Count() == 0 {
		return -1, false
	}
	step := 1
	if dir < 0 {
		step = -1
	}
	for i := 1; i <= count; i++ {
		p := ((from+step*i)%count + count) % count
		if g.CheckedAt(p) {
			return p, true
		}
	}
	return -1, false
}

func (g *Grid) comparator() Comparator {
	if g.sortCol < 0 {
		return nil
	}
	return ByColumn(g.sortCol, g.sortDesc)
}

func resolveColumns(s *Store, names []string) []int {
	var cols []int
	for _, name := range names {
		for i, c := range s.columns {
			if equalFoldTrim(c, name) {
				cols = append(cols, i)
				break
			}
		}
	}
	return cols
}
