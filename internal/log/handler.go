package log

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// RunLogFileName is the name of the per-run log file written into the
// output directory.
const RunLogFileName = "crawl.log"

// TeeHandler fans each log record out to multiple underlying handlers.
// It is used to log to the console and the run log file simultaneously.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. Each sink keeps its own level filter and format
//  3. Components only ever see a plain *slog.Logger
type TeeHandler struct {
	handlers []slog.Handler
}

// NewTeeHandler creates a TeeHandler over the given handlers.
// Nil handlers are ignored.
func NewTeeHandler(handlers ...slog.Handler) *TeeHandler {
	hs := make([]slog.Handler, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			hs = append(hs, h)
		}
	}
	return &TeeHandler{handlers: hs}
}

// Enabled reports whether any underlying handler handles the given level.
func (t *TeeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle passes the record to every underlying handler that accepts its
// level. Errors are collected rather than short-circuiting so one broken
// sink does not silence the others.
func (t *TeeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range t.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WithAttrs returns a new handler with the given attributes added to every sink.
func (t *TeeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	hs := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		hs[i] = h.WithAttrs(attrs)
	}
	return &TeeHandler{handlers: hs}
}

// WithGroup returns a new handler with the given group name on every sink.
func (t *TeeHandler) WithGroup(name string) slog.Handler {
	hs := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		hs[i] = h.WithGroup(name)
	}
	return &TeeHandler{handlers: hs}
}

// NewRunLogger creates a logger writing to the console and to a run log
// file inside outputDir. The console sink logs at LevelInfo, or LevelDebug
// when verbose is set; the file sink always records from LevelInfo up so
// the run log is complete regardless of console verbosity.
//
// The caller must close the returned file when the run ends. When the log
// file cannot be created, a console-only logger is returned along with the
// error; logging is never a reason to abort a crawl.
func NewRunLogger(console io.Writer, outputDir string, verbose bool) (*slog.Logger, *os.File, error) {
	consoleLevel := slog.LevelInfo
	if verbose {
		consoleLevel = slog.LevelDebug
	}
	consoleHandler := slog.NewTextHandler(console, &slog.HandlerOptions{Level: consoleLevel})

	f, err := os.OpenFile(
		filepath.Join(outputDir, RunLogFileName),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND,
		0600,
	)
	if err != nil {
		return slog.New(consoleHandler), nil, err
	}

	fileHandler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(NewTeeHandler(consoleHandler, fileHandler)), f, nil
}
