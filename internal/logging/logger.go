// Package logging builds the slog logger shared by every rxrename component.
// The logger is created once at startup and passed explicitly; nothing here keeps
// package-level state.
package logging

import (
	"io"
	"log/slog"

	"rxrename/internal/config"
)

// NewLogger returns a text logger writing to w at the configured level.
func NewLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: cfg.LogLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Terminal output: the time adds nothing.
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
	return slog.New(handler)
}

// Discard returns a logger that drops everything, for tests and library callers.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
