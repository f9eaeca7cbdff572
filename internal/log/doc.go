// Package log provides structured logging for docdown.
//
// The package wraps log/slog handlers to fan log records out to two sinks:
// the console (level-filtered, for interactive progress) and a per-run log
// file capturing every info, warning, and error event with timestamps.
// The run log lives next to the downloaded Markdown files so a completed
// crawl can be diagnosed without reproducing it.
package log
