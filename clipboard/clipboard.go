// Package clipboard copies text to the system clipboard, falling back to an
// OSC52 terminal sequence when no clipboard tool is available (e.g. over
// ssh).
package clipboard

import (
	"github.com/atotto/clipboard"

	"github.com/Trashbot7274/lunascope/logging"
)

var (
	systemUnsupported = func() bool { return clipboard.Unsupported }
	systemWrite       = clipboard.WriteAll
	terminal          = osc52Writer
)

// Copy puts text on the clipboard.
func Copy(text string) error {
	if !systemUnsupported() {
		err := systemWrite(text)
		if err == nil {
			logging.Debugf("Clipboard: copied %d bytes", len(text))
			return nil
		}
		logging.Warnf("Clipboard: system clipboard failed: %v", err)
	}
	return copyOSC52(terminal(), text)
}
