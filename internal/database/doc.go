// Package database provides SQLite-backed crawl history.
//
// Every run records its settings and outcome, and every processed page its
// status, so past downloads can be listed and inspected without re-reading
// the output directory. History is strictly additive; a new run never
// rewrites an earlier one.
package database
