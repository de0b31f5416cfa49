package main

import "github.com/charmbracelet/lipgloss"

const (
	rowTextFGColor         = "#c0c0c0"
	rowSelectedTextFGColor = "#e0e0e0"
	rowSelectedBGColor     = "#3a3a3a"
	searchHighlightBGColor = "#f5c542"
	searchHighlightFGColor = "#000000"
	focusBorderColor       = "#ff9f1c"
	blurBorderColor        = "240"
)

const (
	defaultMarker = " " // in place of pillMarker for unchecked rows
	pillMarker    = "▐"
	checkboxOn    = "[x]"
	checkboxOff   = "[ ]"
	tagMarker     = "~"
)

var (
	// Styles
	appstyle         = lipgloss.NewStyle().Margin(1, 2)
	headerStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	titleStyle       = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	rowStyle         = lipgloss.NewStyle()
	rowSelectedStyle = lipgloss.NewStyle().Background(lipgloss.Color(rowSelectedBGColor))
	cellStyle        = lipgloss.NewStyle().Padding(0, 1)
	emptyPaneNotice  = lipgloss.NewStyle().Faint(true).Padding(0, 1)

	paneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(blurBorderColor))
	paneFocusedStyle = paneStyle.BorderForeground(lipgloss.Color(focusBorderColor))

	checkedMarker = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	taggedMarker  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	timeWindowArea = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("245")).
			Padding(0, 0).BorderLeft(true)

	timelineArea = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(blurBorderColor)).
			Padding(0, 1)

	searchHighlight = lipgloss.NewStyle().
			Background(lipgloss.Color(searchHighlightBGColor)).
			Foreground(lipgloss.Color(searchHighlightFGColor))
)
