// Package logging builds the slog loggers used by linetools.
package logging

import (
	"fmt"
	"io"
	"log/slog"
)

// Log output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New returns a logger writing to w in the given format.
// The level is Debug when debug is set, Info otherwise.
func New(w io.Writer, debug bool, format string) (*slog.Logger, error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	switch format {
	case FormatText, "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (want %s or %s)", format, FormatText, FormatJSON)
	}
}
