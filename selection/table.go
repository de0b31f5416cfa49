package selection

import (
	"strings"

	"github.com/Trashbot7274/lunascope/errs"
)

// Table is the tabular data source the engine reads from. The analysis
// output, a loaded CSV, or a literal in a test all satisfy it.
type Table interface {
	RowCount() int
	ColumnNames() []string
	ValueAt(row, col int) string
}

// Row is one record's field values in column order plus its key.
type Row struct {
	Key    string
	Fields []string
}

// Join concatenates the fields with sep.
func (r Row) Join(sep string) string {
	return strings.Join(r.Fields, sep)
}

// StaticTable is an in-memory Table.
type StaticTable struct {
	columns []string
	rows    [][]string
}

// NewStaticTable copies columns and rows. Short rows are padded with empty
// cells so every row has len(columns) fields.
func NewStaticTable(columns []string, rows [][]string) *StaticTable {
	t := &StaticTable{
		columns: append([]string(nil), columns...),
		rows:    make([][]string, len(rows)),
	}
	for i, r := range rows {
		row := make([]string, len(columns))
		copy(row, r)
		t.rows[i] = row
	}
	return t
}

func (t *StaticTable) RowCount() int { return len(t.rows) }

func (t *StaticTable) ColumnNames() []string { return append([]string(nil), t.columns...) }

func (t *StaticTable) ValueAt(row, col int) string {
	if row < 0 || row >= len(t.rows) || col < 0 || col >= len(t.columns) {
		return ""
	}
	return t.rows[row][col]
}

// ColumnIndex returns the index of the named column, matched case
// insensitively, or -1.
func ColumnIndex(t Table, name string) int {
	for i, c := range t.ColumnNames() {
		if equalFoldTrim(c, name) {
			return i
		}
	}
	return -1
}

func equalFoldTrim(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Store is the natural-order backing store with one key per row. Keys come
// from a single designated column and never change for the life of the
// store; a reload builds a new Store.
type Store struct {
	columns   []string
	keyColumn int
	rows      []Row
	index     map[string]int
}

// NewStore snapshots t and indexes it by keyColumn. Duplicate or empty keys
// are rejected.
func NewStore(t Table, keyColumn int) (*Store, error) {
	if t == nil {
		return nil, errs.Validationf("nil table")
	}
	cols := t.ColumnNames()
	if keyColumn < 0 || keyColumn >= len(cols) {
		return nil, errs.Validationf("key column %d outside [0,%d)", keyColumn, len(cols))
	}

	n := t.RowCount()
	s := &Store{
		columns:   cols,
		keyColumn: keyColumn,
		rows:      make([]Row, n),
		index:     make(map[string]int, n),
	}
	for i := 0; i < n; i++ {
		fields := make([]string, len(cols))
		for c := range cols {
			fields[c] = t.ValueAt(i, c)
		}
		key := strings.TrimSpace(fields[keyColumn])
		if key == "" {
			return nil, errs.Validationf("row %d has an empty %q", i, cols[keyColumn])
		}
		if prev, dup := s.index[key]; dup {
			return nil, errs.Validationf("duplicate key %q at rows %d and %d", key, prev, i)
		}
		s.index[key] = i
		s.rows[i] = Row{Key: key, Fields: fields}
	}
	return s, nil
}

// EmptyStore returns a store with the given columns and no rows.
func EmptyStore(columns []string) *Store {
	return &Store{
		columns: append([]string(nil), columns...),
		index:   map[string]int{},
	}
}

func (s *Store) RowCount() int { return len(s.rows) }

func (s *Store) Columns() []string { return append([]string(nil), s.columns...) }

func (s *Store) KeyColumn() int { return s.keyColumn }

func (s *Store) KeyOf(n int) (string, error) {
	if n < 0 || n >= len(s.rows) {
		return "", errs.OutOfRangef("row %d outside [0,%d)", n, len(s.rows))
	}
	return s.rows[n].Key, nil
}

func (s *Store) FieldsOf(n int) (Row, error) {
	if n < 0 || n >= len(s.rows) {
		return Row{}, errs.OutOfRangef("row %d outside [0,%d)", n, len(s.rows))
	}
	r := s.rows[n]
	return Row{Key: r.Key, Fields: append([]string(nil), r.Fields...)}, nil
}

// IndexOfKey returns the natural index holding key.
func (s *Store) IndexOfKey(key string) (int, bool) {
	n, ok := s.index[key]
	return n, ok
}

// row returns the stored row without copying; callers must not mutate it.
func (s *Store) row(n int) Row { return s.rows[n] }
