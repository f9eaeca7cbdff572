// Package storage persists converted pages as Markdown files.
//
// The filesystem layout mirrors the crawled site: URL path segments become
// nested directories and the last segment, slugified, becomes the filename.
// The mapping is deterministic, so the same URL always lands at the same
// path within a run.
package storage
