package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/docdown/docdown/internal/model"
)

// SimpleWriter outputs a human-readable text summary for the terminal.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables the per-page listing in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with the per-page listing.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the summary in human-readable format.
func (w *SimpleWriter) Write(summary *model.Summary) (int, error) {
	var sb strings.Builder

	sb.WriteString(strings.Repeat("=", 60) + "\n")
	sb.WriteString("Crawl Summary\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(&sb, "Base URL:   %s\n", summary.BaseURL)
	fmt.Fprintf(&sb, "Method:     %s\n", summary.Method)
	fmt.Fprintf(&sb, "Output:     %s\n", summary.OutputDir)
	fmt.Fprintf(&sb, "Duration:   %s\n", summary.Duration().Round(time.Millisecond))
	fmt.Fprintf(&sb, "Saved:      %d\n", summary.Saved())
	fmt.Fprintf(&sb, "Failed:     %d\n", summary.Failures())
	if summary.Interrupted {
		sb.WriteString("Status:     interrupted (partial results)\n")
	}

	if w.verbose && len(summary.Pages) > 0 {
		sb.WriteString(strings.Repeat("-", 60) + "\n")
		for _, p := range summary.Pages {
			if p.Failed || p.OutputPath == "" {
				fmt.Fprintf(&sb, "  FAIL %s (%s)\n", p.URL, w.failureReason(p))
				continue
			}
			fmt.Fprintf(&sb, "  ok   %s -> %s\n", p.URL, p.OutputPath)
		}
	}
	sb.WriteString(strings.Repeat("=", 60) + "\n")

	return io.WriteString(w.output, sb.String())
}

// failureReason prefers the recorded error over the bare status code.
func (w *SimpleWriter) failureReason(p *model.Page) string {
	if p.Err != "" {
		return p.Err
	}
	return fmt.Sprintf("status %d", p.StatusCode)
}
