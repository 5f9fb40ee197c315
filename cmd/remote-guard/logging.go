package main

import (
	"io"
	"log/slog"
	"strings"
)

// newLogger returns a text logger on w. Unknown levels fall back to warn so
// an allowed push stays silent.
func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
