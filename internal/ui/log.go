package ui

import (
	"io"
	"log/slog"
)

// NewLogger returns a text logger on w. Only warnings and errors are shown
// unless debug is set.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
