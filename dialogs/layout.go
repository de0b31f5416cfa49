package dialogs

import "github.com/charmbracelet/lipgloss"

const overlayBG = "236"

// Overlay centres a dialog over a shaded screen of width x height.
func Overlay(s string, width, height int) string {
	return lipgloss.Place(
		width, height,
		lipgloss.Center, lipgloss.Center,
		s,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(lipgloss.Color(overlayBG)),
	)
}

func boxStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("252")).
		BorderBackground(lipgloss.Color(overlayBG)).
		Padding(1, 2).
		Width(60)
}

var hintStyle = lipgloss.NewStyle().Faint(true)
