package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"

	"github.com/docdown/docdown/internal/model"
)

// MarkdownWriter renders a crawl summary as a Markdown document, suitable
// for committing alongside the downloaded pages.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full summary in Markdown format.
func (w *MarkdownWriter) Write(summary *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeCounts(md, summary)
	w.writePages(md, summary)
	w.writeFailures(md, summary)

	return len(md.String()), md.Build()
}

// writeHeader writes the run information table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.Summary) {
	md.H1("Crawl Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Base URL", "`" + summary.BaseURL + "`"},
			{"Method", summary.Method},
			{"Output Directory", "`" + summary.OutputDir + "`"},
			{"Started", summary.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", summary.Duration().Round(time.Millisecond).String()},
			{"Status", w.statusText(summary)},
		},
	})
	md.PlainText("")
}

// statusText returns the status text based on the run outcome.
func (w *MarkdownWriter) statusText(summary *model.Summary) string {
	if summary.Interrupted {
		return "⚠️ Interrupted (partial results)"
	}
	if summary.Failures() > 0 {
		return "✅ Complete with failures"
	}
	return "✅ Complete"
}

// writeCounts writes the saved/failed totals.
func (w *MarkdownWriter) writeCounts(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Results")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows: [][]string{
			{"🟢 Saved", strconv.Itoa(summary.Saved())},
			{"🔴 Failed", strconv.Itoa(summary.Failures())},
			{"**Total**", "**" + strconv.Itoa(len(summary.Pages)) + "**"},
		},
	})
	md.PlainText("")
}

// writePages writes one table row per saved page.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, summary *model.Summary) {
	if summary.Saved() == 0 {
		return
	}

	md.H2("Saved Pages")
	md.PlainText("")

	rows := make([][]string, 0, summary.Saved())
	for _, p := range summary.Pages {
		if p.Failed || p.OutputPath == "" {
			continue
		}
		rows = append(rows, []string{
			"[" + w.pageTitle(p) + "](" + p.OutputPath + ")",
			"`" + p.URL + "`",
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Page", "Source"},
		Rows:   rows,
	})
	md.PlainText("")
}

// pageTitle falls back to the URL when a page carried no title.
func (w *MarkdownWriter) pageTitle(p *model.Page) string {
	if p.Title != "" {
		return p.Title
	}
	return p.URL
}

// writeFailures lists failed URLs with their errors.
func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, summary *model.Summary) {
	if summary.Failures() == 0 {
		return
	}

	md.H2("Failures")
	md.PlainText("")

	rows := make([][]string, 0, summary.Failures())
	for _, p := range summary.Pages {
		if !p.Failed && p.OutputPath != "" {
			continue
		}
		status := "-"
		if p.StatusCode != 0 {
			status = strconv.Itoa(p.StatusCode)
		}
		rows = append(rows, []string{"`" + p.URL + "`", status, p.Err})
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Status", "Error"},
		Rows:   rows,
	})
	md.PlainText("")
}
