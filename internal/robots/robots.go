package robots

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/temoto/robotstxt"
)

// Policy evaluates robots.txt rules for a single host.
//
// Design decision: Unlike general-purpose crawlers we hold exactly one
// host's rules with no cache or TTL. A docdown run targets one host, and
// the policy's lifecycle is the run itself.
type Policy struct {
	userAgent string
	group     *robotstxt.Group
}

// Permissive returns a policy that allows every URL. Used when robots
// enforcement is disabled or the robots.txt could not be loaded.
func Permissive(userAgent string) *Policy {
	return &Policy{userAgent: userAgent}
}

// Load fetches and parses robots.txt for the host of baseURL.
// The returned error is informational: callers should log it and fall back
// to Permissive rather than aborting.
func Load(ctx context.Context, client *http.Client, baseURL, userAgent string) (*Policy, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}

	robotsURL := base.Scheme + "://" + base.Host + "/robots.txt"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build robots request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	group := data.FindGroup(userAgent)
	if group == nil {
		group = data.FindGroup("*")
	}

	return &Policy{userAgent: userAgent, group: group}, nil
}

// Allowed reports whether the given URL path may be fetched.
func (p *Policy) Allowed(rawURL string) bool {
	if p == nil || p.group == nil {
		return true
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	// Rules can match on the query string too (e.g. "Disallow: /*?print=").
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return p.group.Test(path)
}
