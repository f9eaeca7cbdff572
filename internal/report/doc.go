// Package report renders crawl summaries for humans.
//
// Two formats are provided: a Markdown report written next to the
// downloaded files, and a terse text summary for the terminal. Both
// consume the same model.Summary, so the numbers always agree.
package report
