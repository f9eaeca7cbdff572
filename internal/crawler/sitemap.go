package crawler

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// sitemapDoc is the wire shape shared by sitemap indexes and leaf
// sitemaps. Namespace prefixes vary by sitemap generator; encoding/xml
// resolves element names by namespace, so we match on the local name of
// the root element rather than assuming a fixed prefix.
type sitemapDoc struct {
	XMLName  xml.Name
	Sitemaps []sitemapLoc `xml:"sitemap"`
	URLs     []sitemapLoc `xml:"url"`
}

// sitemapLoc is a single <sitemap> or <url> entry.
type sitemapLoc struct {
	Loc string `xml:"loc"`
}

// rootSitemapIndex is the local name of a sitemap-index root element.
const rootSitemapIndex = "sitemapindex"

// Resolver expands a sitemap URL into a flat, filtered list of page URLs.
type Resolver struct {
	client    *http.Client
	filter    *Filter
	userAgent string
	logger    *slog.Logger

	// maxBodySize bounds each sitemap document read.
	maxBodySize int64
}

// NewResolver creates a sitemap Resolver. The client should carry the
// probe timeout; sitemap fetches are lightweight requests.
func NewResolver(client *http.Client, filter *Filter, userAgent string, logger *slog.Logger) *Resolver {
	return &Resolver{
		client:      client,
		filter:      filter,
		userAgent:   userAgent,
		logger:      logger,
		maxBodySize: 32 * 1024 * 1024,
	}
}

// Resolve fetches sitemapURL and returns the contained page URLs in
// document order, normalized and filtered. A sitemap index is expanded
// one level: each child is fetched as a leaf sitemap, and a child's fetch
// or parse failure is logged and skipped without aborting the resolution.
//
// Returns ErrSitemapFetch or ErrSitemapParse when the root document is
// unusable, and ErrEmptySitemap when no URLs survive filtering. When
// maxPages is positive the result is truncated to the first maxPages
// entries after filtering.
func (r *Resolver) Resolve(ctx context.Context, sitemapURL string, maxPages int) ([]string, error) {
	root, err := r.fetchDoc(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}

	var urls []string
	if root.XMLName.Local == rootSitemapIndex {
		r.logger.Info("sitemap index found", "sitemap", sitemapURL, "children", len(root.Sitemaps))

		for _, child := range root.Sitemaps {
			if child.Loc == "" {
				continue
			}
			leaf, err := r.fetchDoc(ctx, child.Loc)
			if err != nil {
				r.logger.Warn("skipping child sitemap", "sitemap", child.Loc, "error", err)
				continue
			}
			urls = append(urls, r.filterEntries(leaf.URLs)...)
		}
	} else {
		urls = r.filterEntries(root.URLs)
	}

	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySitemap, sitemapURL)
	}

	if maxPages > 0 && len(urls) > maxPages {
		r.logger.Info("limiting sitemap URLs to page budget", "budget", maxPages, "found", len(urls))
		urls = urls[:maxPages]
	}

	return urls, nil
}

// fetchDoc fetches and parses one sitemap document.
func (r *Resolver) fetchDoc(ctx context.Context, sitemapURL string) (*sitemapDoc, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sitemapURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSitemapFetch, sitemapURL, err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSitemapFetch, sitemapURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s: status %d", ErrSitemapFetch, sitemapURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSitemapFetch, sitemapURL, err)
	}

	var doc sitemapDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSitemapParse, sitemapURL, err)
	}

	return &doc, nil
}

// filterEntries normalizes and filters <url><loc> entries, preserving
// document order. Duplicates are kept: the frontier's visited set
// deduplicates downstream.
func (r *Resolver) filterEntries(entries []sitemapLoc) []string {
	urls := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Loc == "" {
			continue
		}
		normalized, err := Normalize(entry.Loc)
		if err != nil {
			continue
		}
		if r.filter.InScope(normalized) {
			urls = append(urls, normalized)
		}
	}
	return urls
}
