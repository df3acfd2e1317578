// Package term resolves the color mode against the output stream.
package term

import (
	"io"
	"os"
	"strings"

	xterm "golang.org/x/term"

	"rxrename/internal/config"
)

// Env abstracts environment lookup so color resolution can be tested.
type Env func(key string) string

// ColorEnabled reports whether colored output should be written to w.
// Auto mode requires an interactive terminal, an unset NO_COLOR and a TERM other than "dumb".
func ColorEnabled(mode config.ColorMode, w io.Writer, getenv Env) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}

	if getenv == nil {
		getenv = os.Getenv
	}
	if getenv("NO_COLOR") != "" || strings.EqualFold(getenv("TERM"), "dumb") {
		return false
	}
	return IsTerminal(w)
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	return xterm.IsTerminal(int(f.Fd()))
}
