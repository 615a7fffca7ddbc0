// Package logging builds the charmbracelet/log logger shared by the
// store, the gateway and the UI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nhle/todos/internal/model"
)

// Options holds configuration for a logger.
type Options struct {
	Level           log.Level
	Formatter       log.Formatter
	ReportTimestamp bool
	Prefix          string
}

// DefaultOptions returns the options used when the configuration sets
// nothing.
func DefaultOptions() Options {
	return Options{
		Level:           log.InfoLevel,
		Formatter:       log.TextFormatter,
		ReportTimestamp: true,
		Prefix:          "todos",
	}
}

// OptionsFromConfig converts the log section of the configuration.
func OptionsFromConfig(cfg model.LogConfig) (Options, error) {
	opts := DefaultOptions()
	if cfg.Level == "" {
		return opts, nil
	}
	level, err := log.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return opts, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}
	opts.Level = level
	return opts, nil
}

// New creates a logger writing to w.
func New(w io.Writer, opts Options) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          opts.Prefix,
	})
}

// OpenFile creates a logger appending to the configured file. The TUI
// owns the terminal, so the file is the only place logs can go while it
// runs. The returned closer closes the file.
func OpenFile(cfg model.LogConfig) (*log.Logger, io.Closer, error) {
	opts, err := OptionsFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Path == "" {
		return New(io.Discard, opts), nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file %s: %w", cfg.Path, err)
	}
	return New(f, opts), f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
