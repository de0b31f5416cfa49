package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const ellipsis = "…"

// renderCells lays fields out across the visible columns. Cells are cut to
// their column so every row is one line high.
func renderCells(fields []string, cols []ColumnMeta, style lipgloss.Style, query string) string {
	var rendered []string

	for _, meta := range cols {
		if !meta.Visible || meta.Width <= 0 {
			// Skip hidden / zero-width columns completely
			continue
		}
		text := ""
		if meta.Index < len(fields) {
			text = fields[meta.Index]
		}
		text = fitCell(text, meta.Width-style.GetHorizontalPadding())
		if query != "" {
			text = highlightMatches(text, query)
		}
		rendered = append(rendered, style.Width(meta.Width).MaxHeight(1).Render(text))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// fitCell flattens newlines and truncates s to w printable cells.
func fitCell(s string, w int) string {
	if w < 1 {
		w = 1
	}
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\t", " ").Replace(s)
	return truncate.StringWithTail(s, uint(w), ellipsis)
}

// headerCells renders the column titles, marking the sort column.
func headerCells(cols []ColumnMeta, sortCol int, desc bool, style lipgloss.Style) string {
	fields := make([]string, len(cols))
	for _, c := range cols {
		if c.Index >= len(fields) {
			continue
		}
		name := c.Name
		if c.Index == sortCol {
			if desc {
				name += " ▼"
			} else {
				name += " ▲"
			}
		}
		fields[c.Index] = name
	}
	return renderCells(fields, cols, style, "")
}
