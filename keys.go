package main

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/Trashbot7274/lunascope/dialogs"
)

type Keymap struct {
	Quit        key.Binding
	NextPane    key.Binding
	Toggle      key.Binding
	ToggleAll   key.Binding
	SelectAll   key.Binding
	SelectNone  key.Binding
	CheckShown  key.Binding
	ClearShown  key.Binding
	NextChecked key.Binding
	PrevChecked key.Binding
	Filter      key.Binding
	ClearFilter key.Binding
	CycleSort   key.Binding
	ReverseSort key.Binding
	ShowWindow  key.Binding
	Jump        key.Binding
	Search      key.Binding
	Tag         key.Binding
	TimeWindow  key.Binding
	Export      key.Binding
	Open        key.Binding
	Reload      key.Binding
	Copy        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	RowDown     key.Binding
	RowUp       key.Binding
	Top         key.Binding
	Bottom      key.Binding
	ScrollLeft  key.Binding
	ScrollRight key.Binding
	OpenHelp    key.Binding
}

var Keys = Keymap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	NextPane: key.NewBinding(
		key.WithKeys("tab", "shift+tab"),
		key.WithHelp("tab/⇧tab", "next / previous pane"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "space"),
		key.WithHelp("space", "check / uncheck row"),
	),
	ToggleAll: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "check all, or none when any is checked"),
	),
	SelectAll: key.NewBinding(
		key.WithKeys("A"),
		key.WithHelp("A", "check all"),
	),
	SelectNone: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "uncheck all"),
	),
	CheckShown: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "check shown rows"),
	),
	ClearShown: key.NewBinding(
		key.WithKeys("V"),
		key.WithHelp("V", "uncheck shown rows"),
	),
	NextChecked: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "next checked row"),
	),
	PrevChecked: key.NewBinding(
		key.WithKeys("N"),
		key.WithHelp("N", "previous checked row"),
	),
	Filter: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "filter"),
	),
	ClearFilter: key.NewBinding(
		key.WithKeys("F"),
		key.WithHelp("F", "clear filter"),
	),
	CycleSort: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "sort by next column"),
	),
	ReverseSort: key.NewBinding(
		key.WithKeys("S"),
		key.WithHelp("S", "reverse sort"),
	),
	ShowWindow: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "show instance in the timeline"),
	),
	Jump: key.NewBinding(
		key.WithKeys(":"),
		key.WithHelp(":", "jump to row number"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Tag: key.NewBinding(
		key.WithKeys("#"),
		key.WithHelp("#", "set channel filter tag"),
	),
	TimeWindow: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "edit the view window"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export instances (csv/xlsx)"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open another record"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload record, keep selection"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy checked keys"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("u", "pgup"),
		key.WithHelp("u/pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("d", "pgdown"),
		key.WithHelp("d/pgdown", "page down"),
	),
	RowDown: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "move down"),
	),
	RowUp: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "move up"),
	),
	Top: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "first row"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "last row"),
	),
	ScrollLeft: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "scroll left"),
	),
	ScrollRight: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "scroll right"),
	),
	OpenHelp: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help / keys"),
	),
}

// Sections groups the bindings for the help dialog.
func (k Keymap) Sections() []dialogs.HelpSection {
	return []dialogs.HelpSection{
		{Title: "Selection", Bindings: []key.Binding{
			k.Toggle, k.ToggleAll, k.SelectAll, k.SelectNone, k.CheckShown, k.ClearShown,
			k.NextChecked, k.PrevChecked, k.Copy,
		}},
		{Title: "View", Bindings: []key.Binding{
			k.NextPane, k.Filter, k.ClearFilter, k.CycleSort, k.ReverseSort, k.Search, k.Jump, k.Tag,
		}},
		{Title: "Timeline", Bindings: []key.Binding{
			k.ShowWindow, k.TimeWindow,
		}},
		{Title: "Record", Bindings: []key.Binding{
			k.Open, k.Reload, k.Export, k.OpenHelp, k.Quit,
		}},
		{Title: "Navigation", Bindings: []key.Binding{
			k.RowDown, k.RowUp, k.PageDown, k.PageUp, k.Top, k.Bottom, k.ScrollLeft, k.ScrollRight,
		}},
	}
}
