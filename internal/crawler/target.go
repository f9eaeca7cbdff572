package crawler

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidTarget is returned when a URL cannot be normalized into a
// crawl target.
var ErrInvalidTarget = errors.New("invalid crawl target")

// Normalize canonicalizes a URL into its crawl-target form: absolute,
// http(s) scheme, lowercase scheme and host, no fragment, and an explicit
// "/" for the empty path. Two URLs naming the same page normalize to the
// same string, which is what the visited and pending sets key on.
//
// Design decision: We normalize because the same page can have several
// URL spellings, a fragment never changes the fetched content, and
// http://example.com and http://example.com/ must be one target, not two.
func Normalize(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}

	if !u.IsAbs() || u.Host == "" {
		return "", fmt.Errorf("%w: not an absolute URL: %q", ErrInvalidTarget, raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidTarget, u.Scheme)
	}

	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String(), nil
}
