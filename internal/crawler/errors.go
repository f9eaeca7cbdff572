package crawler

import "errors"

// Sitemap resolution errors. These are systemic from the point of view of
// the sitemap strategy: callers react by falling back to recursive
// crawling or aborting, per their configuration.
var (
	// ErrSitemapFetch is returned when the root sitemap document cannot
	// be fetched. Child sitemap fetch failures are logged and skipped
	// instead.
	ErrSitemapFetch = errors.New("sitemap fetch failed")

	// ErrSitemapParse is returned when the root sitemap is not
	// well-formed XML.
	ErrSitemapParse = errors.New("sitemap parse failed")

	// ErrEmptySitemap is returned when no URLs survive filtering. It
	// signals that sitemap-based discovery is unusable for this host and
	// link-following should be used instead.
	ErrEmptySitemap = errors.New("no usable URLs in sitemap")
)
