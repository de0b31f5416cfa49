package clipboard

import (
	"errors"
	"io"
	"os"
	"strings"

	osc52 "github.com/aymanbagabas/go-osc52/v2"

	"github.com/Trashbot7274/lunascope/logging"
)

func copyOSC52(w io.Writer, text string) error {
	if w == nil {
		logging.Warnf("Clipboard: OSC52 unavailable (stdout not TTY or TERM=dumb)")
		return errors.New("clipboard unavailable (OSC52 unsupported by terminal)")
	}
	seq := osc52.New(text)
	if os.Getenv("TMUX") != "" {
		seq = seq.Tmux()
	} else if strings.HasPrefix(os.Getenv("TERM"), "screen") {
		seq = seq.Screen()
	}
	if _, err := seq.WriteTo(w); err != nil {
		logging.Warnf("Clipboard: OSC52 write failed: %v", err)
		return err
	}
	logging.Infof("Clipboard: copied via OSC52")
	return nil
}

// osc52Writer returns stdout when the terminal can take OSC52 sequences.
func osc52Writer() io.Writer {
	if term := os.Getenv("TERM"); term == "" || strings.EqualFold(term, "dumb") {
		return nil
	}
	if !isTTY(os.Stdout) {
		return nil
	}
	return os.Stdout
}

func isTTY(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
