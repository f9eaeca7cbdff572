package config

import "errors"

// Configuration validation errors returned by Config.Validate.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate. This allows callers to use
// errors.Is for programmatic handling while still providing readable
// messages.
var (
	// ErrNoBaseURL is returned when no base documentation URL is provided.
	ErrNoBaseURL = errors.New("no base URL specified: provide --url or run interactively")

	// ErrInvalidBaseURL is returned when the base URL is not an absolute
	// http or https URL.
	ErrInvalidBaseURL = errors.New("invalid base URL: must be an absolute http(s) URL")

	// ErrInvalidMethod is returned for an unknown discovery method.
	ErrInvalidMethod = errors.New("invalid method: must be auto, recursive, or sitemap")

	// ErrNoSitemapURL is returned when --method sitemap is used without --sitemap.
	ErrNoSitemapURL = errors.New("sitemap method requires a sitemap URL (--sitemap)")

	// ErrNoOutputDir is returned when the output directory is empty.
	ErrNoOutputDir = errors.New("no output directory specified")

	// ErrInvalidDelay is returned when the politeness delay is negative.
	// Use 0 for no delay between requests.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrInvalidMaxPages is returned when the page budget is negative.
	// Use 0 for an unlimited crawl.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be non-negative")

	// ErrInvalidTimeout is returned when a timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")
)
