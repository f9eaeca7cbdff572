package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. These mirror the behavior most
// documentation hosts tolerate well; everything is overridable via
// CLI flags or the config file.
const (
	// DefaultOutputDir is where converted Markdown files are written.
	DefaultOutputDir = "markdown_docs"

	// DefaultDelay is the politeness delay between consecutive requests
	// to the target host. One second is conservative and keeps load on
	// the crawled server predictable.
	DefaultDelay = 1 * time.Second

	// DefaultTimeout is the per-page fetch timeout. Documentation pages
	// are small; 30 seconds covers slow hosts without hanging the run.
	DefaultTimeout = 30 * time.Second

	// DefaultProbeTimeout bounds lightweight requests: robots.txt,
	// sitemap fetches, and sitemap reachability checks.
	DefaultProbeTimeout = 10 * time.Second

	// DefaultUserAgent identifies docdown in HTTP requests. A descriptive
	// User-Agent lets operators identify crawler traffic in their logs.
	DefaultUserAgent = "docdown/1.0 (+https://github.com/docdown/docdown)"

	// DefaultWorkers is the number of concurrent fetch workers. The
	// baseline is single-threaded: one fetch in flight at a time, which
	// makes crawl order fully deterministic.
	DefaultWorkers = 1

	// DefaultMaxBodySize limits the response body size read per page.
	// 10MB is generous for HTML while preventing memory exhaustion.
	DefaultMaxBodySize = 10 * 1024 * 1024

	// AppName is the application name used for XDG directory paths.
	AppName = "docdown"
)

// Discovery methods accepted by the --method flag.
const (
	// MethodAuto probes conventional sitemap locations and falls back to
	// recursive link-following when none is reachable.
	MethodAuto = "auto"

	// MethodRecursive follows in-scope links starting from the base URL.
	MethodRecursive = "recursive"

	// MethodSitemap resolves a sitemap (index or leaf) into a page list.
	MethodSitemap = "sitemap"
)

// Config holds all options for one crawl run. It is populated from CLI
// flags or interactive prompts and passed through the application by
// dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// for simplicity. The number of options is manageable, and nesting would
// add complexity without significant benefit.
type Config struct {
	// BaseURL is the documentation root to crawl. Required.
	BaseURL string

	// SitemapURL is an explicit sitemap URL, used when Method is
	// MethodSitemap or discovered during auto-probing.
	SitemapURL string

	// Method is the discovery strategy: MethodAuto, MethodRecursive, or
	// MethodSitemap.
	Method string

	// OutputDir is the directory Markdown files are written to. The URL
	// path structure of the site is mirrored beneath it.
	OutputDir string

	// Delay is the politeness delay between consecutive requests.
	// Shared across workers: it is a per-host gate, not a per-worker one.
	Delay time.Duration

	// MaxPages limits the number of pages downloaded. Zero means
	// unlimited.
	MaxPages int

	// Timeout is the per-page fetch timeout.
	Timeout time.Duration

	// ProbeTimeout bounds robots.txt, sitemap, and reachability requests.
	ProbeTimeout time.Duration

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// Workers is the number of concurrent fetch workers. One (the
	// default) gives the fully deterministic single-threaded crawl.
	Workers int

	// RespectRobots enables robots.txt enforcement. Disabled by the
	// --no-robots flag. A robots.txt that fails to load never blocks the
	// crawl; enforcement is best effort by design.
	RespectRobots bool

	// MaxBodySize limits the response body size read per page.
	MaxBodySize int64

	// Verbose enables debug-level console logging.
	Verbose bool

	// ConfigFilePath is the path to the optional .docdown config file.
	ConfigFilePath string

	// SiteConfigs holds per-host overrides loaded from the config file.
	SiteConfigs *File

	// DBDir is the directory holding the crawl history database.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB records the run and its pages in the history database.
	SaveToDB bool
}

// NewConfig creates a Config with default values.
//
// Design decision: We use a constructor instead of relying on zero values
// because many defaults are non-zero (delay, timeouts, user agent). The
// constructor also documents what the defaults are.
func NewConfig() *Config {
	return &Config{
		Method:        MethodAuto,
		OutputDir:     DefaultOutputDir,
		Delay:         DefaultDelay,
		Timeout:       DefaultTimeout,
		ProbeTimeout:  DefaultProbeTimeout,
		UserAgent:     DefaultUserAgent,
		Workers:       DefaultWorkers,
		MaxBodySize:   DefaultMaxBodySize,
		RespectRobots: true,
		SaveToDB:      true,
		DBDir:         XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for docdown.
// On Linux: ~/.local/share/docdown
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for docdown.
// On Linux: ~/.config/docdown
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
// It is called once after flag parsing, before any network activity.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrNoBaseURL
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidBaseURL
	}

	switch c.Method {
	case MethodAuto, MethodRecursive, MethodSitemap:
	default:
		return ErrInvalidMethod
	}

	if c.Method == MethodSitemap && c.SitemapURL == "" {
		return ErrNoSitemapURL
	}

	if c.OutputDir == "" {
		return ErrNoOutputDir
	}

	if c.Delay < 0 {
		return ErrInvalidDelay
	}

	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}

	if c.Timeout <= 0 || c.ProbeTimeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}

	return nil
}

// Host returns the host component of BaseURL. Validate must have passed.
func (c *Config) Host() string {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return ""
	}
	return u.Host
}
