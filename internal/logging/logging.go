// Package logging sets up the structured log that records every save,
// restore and branch transition, playing the part of an editor output channel.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Options controls where and how much is logged.
type Options struct {
	// Path is the log file. Empty disables file logging.
	Path string

	// Verbose mirrors records to stderr and lowers the level to debug.
	Verbose bool
}

// New returns a logger writing to opts.Path (appending) and, when verbose,
// to stderr. The returned closer releases the log file.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	var writers []io.Writer
	var closer io.Closer = nopCloser{}

	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, f)
		closer = f
	}

	level := slog.LevelInfo
	if opts.Verbose {
		writers = append(writers, os.Stderr)
		level = slog.LevelDebug
	}

	if len(writers) == 0 {
		return Discard(), closer, nil
	}

	handler := slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("pid", os.Getpid()), closer, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
