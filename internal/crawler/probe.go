package crawler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
)

// sitemapLocations are the conventional sitemap paths probed in order
// during auto-discovery. The WordPress path is common enough to warrant
// its own entry.
var sitemapLocations = []string{
	"/sitemap.xml",
	"/sitemap_index.xml",
	"/wp-sitemap.xml",
	"/sitemap/sitemap.xml",
	"/sitemaps/sitemap.xml",
}

// ProbeSitemap checks the conventional sitemap locations under baseURL
// and returns the first reachable one. ok is false when none responds.
func ProbeSitemap(ctx context.Context, client *http.Client, baseURL, userAgent string, logger *slog.Logger) (string, bool) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", false
	}

	for _, location := range sitemapLocations {
		ref := &url.URL{Path: location}
		candidate := base.ResolveReference(ref).String()

		if Reachable(ctx, client, candidate, userAgent) {
			logger.Info("found sitemap", "url", candidate)
			return candidate, true
		}
		logger.Debug("sitemap not found", "url", candidate)
	}

	return "", false
}

// Reachable performs a lightweight reachability check: a HEAD request,
// falling back to GET when the server rejects HEAD with 405. Any 2xx or
// 3xx status counts as reachable.
func Reachable(ctx context.Context, client *http.Client, rawURL, userAgent string) bool {
	status, err := requestStatus(ctx, client, http.MethodHead, rawURL, userAgent)
	if err != nil {
		return false
	}

	if status == http.StatusMethodNotAllowed {
		status, err = requestStatus(ctx, client, http.MethodGet, rawURL, userAgent)
		if err != nil {
			return false
		}
	}

	return status >= 200 && status < 400
}

// requestStatus issues a single request and returns the status code,
// discarding the body.
func requestStatus(ctx context.Context, client *http.Client, method, rawURL, userAgent string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	// Drain a little so the connection can be reused; we never need the
	// body for a reachability check.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	return resp.StatusCode, nil
}
