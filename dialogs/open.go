package dialogs

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Trashbot7274/lunascope/logging"
)

// --- Messages ---------------------------------------------------------------

type (
	OpenConfirmedMsg struct{ ID string }
	OpenCanceledMsg  struct{}
)

const openListRows = 8

var (
	openCurrentStyle  = lipgloss.NewStyle().Faint(true)
	openSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff9f1c"))
)

// Open picks a record of the S-list. Typing narrows the list; up and down
// move the choice.
type Open struct {
	input   textinput.Model
	visible bool
	ids     []string
	current string
	matches []string
	choice  int
}

func (d Open) Init() tea.Cmd { return d.input.Focus() }

func NewOpenDialog(ids []string, current string) *Open {
	ti := textinput.New()
	ti.Placeholder = "record id"
	ti.Prompt = "Open: "
	ti.CharLimit = 128
	ti.Width = 40
	ti.Focus()
	d := &Open{input: ti, visible: true, ids: ids, current: current}
	d.narrow()
	return d
}

// narrow keeps the ids containing the typed text, case-insensitively.
func (d *Open) narrow() {
	q := strings.ToLower(strings.TrimSpace(d.input.Value()))
	d.matches = d.matches[:0]
	for _, id := range d.ids {
		if q == "" || strings.Contains(strings.ToLower(id), q) {
			d.matches = append(d.matches, id)
		}
	}
	if d.choice >= len(d.matches) {
		d.choice = len(d.matches) - 1
	}
	if d.choice < 0 {
		d.choice = 0
	}
}

// Choice is the id enter would open, empty when nothing matches.
func (d *Open) Choice() string {
	if len(d.matches) == 0 {
		return ""
	}
	return d.matches[d.choice]
}

func (d *Open) Update(msg tea.Msg) (Dialog, tea.Cmd) {
	if !d.visible {
		return d, nil
	}
	if m, ok := msg.(tea.KeyMsg); ok {
		switch m.String() {
		case "enter":
			id := d.Choice()
			if id == "" {
				return d, nil
			}
			logging.Debugf("open dialog: confirmed %s", id)
			return d, func() tea.Msg { return OpenConfirmedMsg{ID: id} }
		case "esc":
			return d, func() tea.Msg { return OpenCanceledMsg{} }
		case "up", "ctrl+p":
			if d.choice > 0 {
				d.choice--
			}
			return d, nil
		case "down", "ctrl+n":
			if d.choice < len(d.matches)-1 {
				d.choice++
			}
			return d, nil
		}
	}
	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	d.narrow()
	return d, cmd
}

func (d Open) View() string {
	if !d.visible {
		return ""
	}
	start := 0
	if d.choice >= openListRows {
		start = d.choice - openListRows + 1
	}
	end := min(len(d.matches), start+openListRows)

	var lines []string
	for i := start; i < end; i++ {
		id := d.matches[i]
		line := "  " + id
		if id == d.current {
			line += openCurrentStyle.Render("  (open)")
		}
		if i == d.choice {
			line = openSelectedStyle.Render("▸ " + id)
		}
		lines = append(lines, line)
	}
	if len(d.matches) == 0 {
		lines = append(lines, hintStyle.Render("  no matching record"))
	}

	help := hintStyle.Render(fmt.Sprintf("%d/%d records • ↑/↓ choose • enter to open • esc to cancel", len(d.matches), len(d.ids)))
	content := fmt.Sprintf("%s\n\n%s\n\n%s", d.input.View(), strings.Join(lines, "\n"), help)
	return boxStyle().Render(content)
}

func (d *Open) Show() {
	d.visible = true
	d.input.Focus()
}

func (d *Open) Hide() {
	d.visible = false
	d.input.Blur()
}

func (d *Open) Focus() tea.Cmd { return d.input.Focus() }
func (d *Open) Blur()          { d.input.Blur() }
func (d Open) IsVisible() bool { return d.visible }
