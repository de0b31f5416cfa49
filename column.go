package main

import (
	"strings"

	"github.com/Trashbot7274/lunascope/selection"
)

type ColumnRole int

const (
	RoleNormal  ColumnRole = iota
	RolePrimary            // key column: CH, ANNOT, CLASS
	RoleNumeric
)

type ColumnMeta struct {
	Name     string
	Index    int
	Role     ColumnRole
	Visible  bool
	MinWidth int
	Weight   float64
	Width    int
}

func detectRole(name string, isKey bool) ColumnRole {
	if isKey {
		return RolePrimary
	}
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "ch", "annot", "class":
		return RolePrimary
	case "#", "n", "sr", "start", "stop", "dur", "duration":
		return RoleNumeric
	default:
		return RoleNormal
	}
}

func defaultMinWidthForRole(r ColumnRole) int {
	switch r {
	case RolePrimary:
		return 10
	case RoleNumeric:
		return 6
	default:
		return 8
	}
}

func defaultWeightForRole(r ColumnRole) float64 {
	switch r {
	case RolePrimary:
		return 3.0
	case RoleNumeric:
		return 1.0
	default:
		return 2.0
	}
}

// columnsFor builds display metadata for every column of s and hides the
// ones that are empty in all rows.
func columnsFor(s *selection.Store) []ColumnMeta {
	names := s.Columns()
	cols := make([]ColumnMeta, len(names))
	for i, name := range names {
		role := detectRole(name, i == s.KeyColumn())
		cols[i] = ColumnMeta{
			Name:     name,
			Index:    i,
			Role:     role,
			Visible:  true,
			MinWidth: defaultMinWidthForRole(role),
			Weight:   defaultWeightForRole(role),
		}
	}
	markEmptyColumns(cols, s)
	return cols
}

func markEmptyColumns(cols []ColumnMeta, s *selection.Store) {
	if s.RowCount() == 0 {
		return
	}
	hasData := make([]bool, len(cols))
	for n := 0; n < s.RowCount(); n++ {
		row, err := s.FieldsOf(n)
		if err != nil {
			continue
		}
		for i := range cols {
			if cols[i].Index < len(row.Fields) && strings.TrimSpace(row.Fields[cols[i].Index]) != "" {
				hasData[i] = true
			}
		}
	}
	for i := range cols {
		// the key column always has data; anything else empty in every row is hidden
		if !hasData[i] && cols[i].Role != RolePrimary {
			cols[i].Visible = false
			cols[i].Width = 0
			cols[i].Weight = 0
		}
	}
}

func layoutColumns(cols []ColumnMeta, totalWidth int) []ColumnMeta {
	if totalWidth <= 0 {
		return cols
	}

	// 1. Sum min widths & weights for visible columns
	minSum := 0
	weightSum := 0.0

	for i := range cols {
		if !cols[i].Visible {
			continue
		}
		minSum += cols[i].MinWidth
		weightSum += cols[i].Weight
	}

	if minSum >= totalWidth {
		// Too tight: give each visible column its MinWidth and let the
		// viewport scroll horizontally.
		for i := range cols {
			if !cols[i].Visible {
				cols[i].Width = 0
				continue
			}
			cols[i].Width = cols[i].MinWidth
		}
		return cols
	}

	remaining := totalWidth - minSum

	// 2. Distribute remaining space by weight
	for i := range cols {
		if !cols[i].Visible {
			cols[i].Width = 0
			continue
		}

		extra := 0
		if weightSum > 0 {
			extra = int(float64(remaining) * (cols[i].Weight / weightSum))
		}
		cols[i].Width = cols[i].MinWidth + extra
	}

	return cols
}
