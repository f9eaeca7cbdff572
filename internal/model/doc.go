// Package model defines the core data structures shared across docdown.
// It contains the Page type produced by the page processor and the Summary
// type that aggregates the outcome of a crawl run for reporting and storage.
package model
