// Package crawler implements the docdown crawl engine.
//
// # Architecture
//
// The engine is built from small, separately testable pieces:
//
//   - Filter: pure in-scope predicate over discovered URLs
//   - Extractor: boilerplate stripping and content-root selection
//   - Resolver: sitemap and sitemap-index expansion into a flat URL list
//   - Frontier: the visited/pending sets and the URL hand-out order
//   - Processor: per-URL fetch, extract, and convert
//   - Crawler: the run loop tying the pieces together
//
// Two discovery strategies are supported. Sitemap mode seeds the frontier
// with the resolved sitemap and does not follow links; the page budget is
// applied to the sitemap's document order. Recursive mode seeds the
// frontier with the base URL and follows in-scope links; the budget is
// applied in visit order. The two truncation semantics are intentionally
// distinct.
//
// # Politeness
//
// One token-bucket limiter is shared by all workers, so the configured
// delay is a per-host guarantee rather than a per-worker one. The baseline
// configuration runs a single worker: one fetch in flight at a time and a
// fully deterministic FIFO crawl order.
package crawler
