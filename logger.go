package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// NewLogger returns a structured slog.Logger writing to stderr: text when
// stderr is a terminal, JSON otherwise.
func NewLogger(level slog.Leveler) *slog.Logger {
	return newLogger(os.Stderr, isatty.IsTerminal(os.Stderr.Fd()), level)
}

func newLogger(w io.Writer, terminal bool, level slog.Leveler) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if terminal {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// ParseLevel maps "debug", "info", "warn" and "error" to a level, defaulting
// to info.
func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}
