package dialogs

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func typeInto(d Dialog, s string) Dialog {
	for _, r := range s {
		d, _ = d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return d
}

func TestOpenNarrowsAndConfirms(t *testing.T) {
	d := NewOpenDialog([]string{"night-01", "night-02", "nap-01"}, "night-01")
	if d.Choice() != "night-01" {
		t.Fatalf("initial choice = %q", d.Choice())
	}

	typeInto(d, "NIGHT")
	if len(d.matches) != 2 {
		t.Fatalf("matches = %v", d.matches)
	}
	d.Update(tea.KeyMsg{Type: tea.KeyDown})
	d.Update(tea.KeyMsg{Type: tea.KeyDown})
	if d.Choice() != "night-02" {
		t.Fatalf("choice after down = %q", d.Choice())
	}

	_, cmd := d.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msg, ok := cmd().(OpenConfirmedMsg)
	if !ok || msg.ID != "night-02" {
		t.Fatalf("enter produced %#v", cmd())
	}
	if !strings.Contains(d.View(), "night-01") {
		t.Errorf("view lost the other match")
	}
}

func TestOpenWithoutMatch(t *testing.T) {
	d := NewOpenDialog([]string{"a", "b"}, "")
	typeInto(d, "zzz")
	if d.Choice() != "" {
		t.Fatalf("choice = %q", d.Choice())
	}
	if _, cmd := d.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Fatalf("enter with no match should do nothing")
	}
	if !strings.Contains(d.View(), "no matching record") {
		t.Errorf("view = %q", d.View())
	}
	_, cmd := d.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := cmd().(OpenCanceledMsg); !ok {
		t.Fatalf("esc did not cancel")
	}
}

func TestExportResolvesBareNames(t *testing.T) {
	dir := t.TempDir()
	d := NewExportDialog("n1.instances.csv", dir)

	_, cmd := d.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msg, ok := cmd().(ExportConfirmedMsg)
	if !ok || msg.Path != filepath.Join(dir, "n1.instances.csv") {
		t.Fatalf("enter produced %#v", cmd())
	}

	if got := d.resolve("sub/out.xlsx"); got != "sub/out.xlsx" {
		t.Errorf("relative path with a directory = %q", got)
	}
	abs := filepath.Join(dir, "x.csv")
	if got := d.resolve(abs); got != abs {
		t.Errorf("absolute path = %q", got)
	}

	_, cmd = d.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := cmd().(ExportCanceledMsg); !ok {
		t.Fatalf("esc did not cancel")
	}
}

func TestHelpListsSectionsAndHides(t *testing.T) {
	d := NewHelpDialog([]HelpSection{
		{Title: "Selection", Bindings: []key.Binding{
			key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "check row")),
		}},
	})
	v := d.View()
	if !strings.Contains(v, "Selection") || !strings.Contains(v, "check row") {
		t.Fatalf("view = %q", v)
	}
	d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if !d.IsVisible() {
		t.Fatalf("unrelated key hid the dialog")
	}
	d.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if d.IsVisible() || d.View() != "" {
		t.Fatalf("esc did not hide the dialog")
	}
}

func TestOverlaySize(t *testing.T) {
	out := Overlay("box", 20, 5)
	if lines := strings.Split(out, "\n"); len(lines) != 5 {
		t.Fatalf("overlay has %d lines", len(lines))
	}
}
