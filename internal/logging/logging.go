// Package logging builds the zerolog loggers used by the CLI. Interactive
// commands log to a file because the TUI owns the terminal; plain commands
// log to stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Console returns a human-readable logger writing to w.
func Console(w io.Writer, level string, noColor bool) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: w, NoColor: noColor}
	return zerolog.New(out).Level(parseLevel(level)).With().Timestamp().Logger()
}

// File returns a JSON logger appending to name under logsDir, plus a closer
// for the underlying file.
func File(logsDir, name, level string) (zerolog.Logger, io.Closer, error) {
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create logs directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(logsDir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}
	return zerolog.New(f).Level(parseLevel(level)).With().Timestamp().Logger(), f, nil
}

func parseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(s)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
