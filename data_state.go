package main

import (
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/Trashbot7274/lunascope/selection"
)

type paneID int

const (
	paneSignals paneID = iota
	paneAnnots
	paneInstances
	paneCount
)

func (id paneID) String() string {
	switch id {
	case paneSignals:
		return "Signals"
	case paneAnnots:
		return "Annotations"
	case paneInstances:
		return "Instances"
	default:
		return "?"
	}
}

// pane is the view state of one grid. The cursor is a presented position.
type pane struct {
	id     paneID
	cursor int
	cols   []ColumnMeta
	store  *selection.Store // the store cols were built from
	port   viewport.Model
	width  int // inner width, borders excluded
	height int // inner height, borders excluded

	visibleStart        int
	visibleEnd          int
	lastVisibleRowCount int
}

func newPane(id paneID) *pane {
	return &pane{id: id, port: viewport.New(0, 0)}
}

// sync rebuilds the column layout when the grid was attached to a new store
// and keeps the cursor inside the presented rows.
func (p *pane) sync(g *selection.Grid) {
	if s := g.Store(); s != p.store {
		p.store = s
		p.cols = columnsFor(s)
		p.layout()
	}
	count := g.PresentedCount()
	if p.cursor >= count {
		p.cursor = count - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

func (p *pane) layout() {
	if p.store == nil {
		return
	}
	p.cols = layoutColumns(p.cols, p.width-gutterWidth(p.store, p.id != paneInstances))
}

// resize sets the inner size of the pane: a title line and the viewport,
// which holds the column header and the rows.
func (p *pane) resize(width, height int) {
	p.width = max(0, width)
	p.height = max(0, height)
	p.port.Width = p.width
	p.port.Height = max(0, p.height-1)
	p.layout()
}

// bodyHeight is the number of row lines below the column header.
func (p *pane) bodyHeight() int {
	return max(0, p.port.Height-1)
}
