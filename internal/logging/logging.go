// Package logging builds the zerolog loggers used by the CLI, the TUI and the server.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// DebugLogPath is the fixed path for TUI debug logs.
const DebugLogPath = "courtside-debug.log"

// Options selects where and how much to log.
type Options struct {
	Level   string    // "debug", "info", "warn", "error"; empty means info
	File    string    // when set, JSON lines are appended to this file
	Console io.Writer // when set and File is empty, human-readable output goes here
}

// New builds a logger for opts. The returned closer releases the log file, if any.
// With neither File nor Console set the logger discards everything, which keeps
// the TUI's alternate screen clean.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		l, err := zerolog.ParseLevel(opts.Level)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("parsing log level: %w", err)
		}
		level = l
	}

	switch {
	case opts.File != "":
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("opening log file: %w", err)
		}
		logger := zerolog.New(f).Level(level).With().Timestamp().Logger()
		return logger, f, nil
	case opts.Console != nil:
		w := zerolog.ConsoleWriter{Out: opts.Console, TimeFormat: time.Kitchen}
		return zerolog.New(w).Level(level).With().Timestamp().Logger(), nopCloser{}, nil
	default:
		return zerolog.Nop(), nopCloser{}, nil
	}
}

// Debug returns the TUI logger: a JSON file when enabled, a no-op otherwise.
func Debug(enabled bool) (zerolog.Logger, io.Closer, error) {
	if !enabled {
		return New(Options{})
	}
	return New(Options{Level: "debug", File: DebugLogPath})
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
