package dialogs

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpSection is one titled group of bindings.
type HelpSection struct {
	Title    string
	Bindings []key.Binding
}

// Help is a visible flag plus the bindings to list.
type Help struct {
	visible  bool
	sections []HelpSection
}

func (d Help) Init() tea.Cmd { return nil }

func NewHelpDialog(sections []HelpSection) *Help {
	return &Help{
		visible:  true,
		sections: sections,
	}
}

func (d *Help) Update(msg tea.Msg) (Dialog, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		switch m.String() {
		case "enter", "esc", "?", "q":
			d.visible = false
			return d, nil
		}
	}
	return d, nil
}

var sectionStyle = lipgloss.NewStyle().Bold(true)

func (d Help) View() string {
	if !d.visible {
		return ""
	}

	var lines []string
	for i, s := range d.sections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, sectionStyle.Render(s.Title))
		for _, b := range s.Bindings {
			if !b.Enabled() {
				continue
			}
			h := b.Help()
			lines = append(lines, fmt.Sprintf("  %-10s %s", h.Key, h.Desc))
		}
	}

	content := fmt.Sprintf("%s\n\n%s", strings.Join(lines, "\n"), hintStyle.Render("enter/esc to return"))
	return boxStyle().Render(content)
}

func (d *Help) Show() {
	d.visible = true
}

func (d *Help) Hide() {
	d.visible = false
}

func (d *Help) Focus() tea.Cmd { return nil }
func (d *Help) Blur()          {}
func (d Help) IsVisible() bool { return d.visible }
