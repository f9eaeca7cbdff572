package crawler

import (
	"net/url"
	"strings"

	"github.com/docdown/docdown/internal/robots"
)

// assetExtensions are path suffixes that never denote documentation
// pages: images, archives, stylesheets, scripts, fonts, and feed or data
// formats.
var assetExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".pdf", ".zip",
	".css", ".js", ".ico", ".xml", ".json", ".svg",
	".woff", ".woff2", ".ttf", ".eot",
}

// Filter decides whether a discovered URL is in scope for the crawl.
// It is a pure predicate: no state is mutated and the same input always
// yields the same answer.
type Filter struct {
	// baseHost is the exact host (including port, if any) every in-scope
	// URL must match. No subdomain widening.
	baseHost string

	// policy is the robots policy for the host. A nil or permissive
	// policy allows everything.
	policy *robots.Policy
}

// NewFilter creates a Filter scoped to baseHost under the given robots
// policy.
func NewFilter(baseHost string, policy *robots.Policy) *Filter {
	return &Filter{
		baseHost: strings.ToLower(baseHost),
		policy:   policy,
	}
}

// InScope reports whether the URL should be crawled. All of the
// following must hold: the URL parses as an absolute http(s) URL, its
// host equals the base host exactly, its path is not a static asset, it
// carries no fragment, and the robots policy permits it.
func (f *Filter) InScope(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	if !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return false
	}

	if !strings.EqualFold(u.Host, f.baseHost) {
		return false
	}

	// Same-page anchors are never distinct targets.
	if u.Fragment != "" {
		return false
	}

	path := strings.ToLower(u.Path)
	for _, ext := range assetExtensions {
		if strings.HasSuffix(path, ext) {
			return false
		}
	}

	return f.policy.Allowed(rawURL)
}
