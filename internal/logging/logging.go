// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Formats accepted by New.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// LevelOff silences the logger entirely.
const LevelOff = "off"

// levelOff sits above every level a handler is ever asked about.
const levelOff = slog.Level(1 << 30)

// ParseLevel maps a level name to a slog.Level. An empty name is Info.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	switch {
	case strings.TrimSpace(name) == "":
		return slog.LevelInfo, nil
	case strings.EqualFold(strings.TrimSpace(name), LevelOff):
		return levelOff, nil
	}
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

// New returns a logger writing to w in the given format ("text" or "json")
// at the given level. Level "off" yields a logger that writes nothing.
func New(level, format string, w io.Writer) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if lvl == levelOff {
		return Discard(), nil
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		handler = slog.NewTextHandler(w, opts)
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return slog.New(handler), nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
