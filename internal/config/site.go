package config

// SiteConfig holds per-host overrides for crawl behavior. Documentation
// generators differ in how they mark up the main content region, so the
// selector lists are the most common override.
type SiteConfig struct {
	// ContentSelectors are CSS selectors tried before the built-in
	// content-root candidates (main, article, ...). First match wins.
	ContentSelectors []string `yaml:"contentSelectors,omitempty"`

	// StripSelectors are CSS selectors removed from the document in
	// addition to the built-in boilerplate set (nav, footer, ...).
	StripSelectors []string `yaml:"stripSelectors,omitempty"`

	// Delay overrides the politeness delay for this host.
	Delay Duration `yaml:"delay,omitempty"`

	// MaxPages overrides the page budget for this host. Zero keeps the
	// global setting.
	MaxPages int `yaml:"maxPages,omitempty"`
}

// File represents the structure of the .docdown configuration file.
type File struct {
	// Sites maps hostnames to their overrides (e.g. "docs.example.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains overrides applied to every host unless the
	// site-specific entry overrides them again.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the merged configuration for a host.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults

	if siteConfig, ok := cf.Sites[host]; ok {
		if len(siteConfig.ContentSelectors) > 0 {
			result.ContentSelectors = siteConfig.ContentSelectors
		}
		if len(siteConfig.StripSelectors) > 0 {
			result.StripSelectors = siteConfig.StripSelectors
		}
		if siteConfig.Delay.Duration > 0 {
			result.Delay = siteConfig.Delay
		}
		if siteConfig.MaxPages > 0 {
			result.MaxPages = siteConfig.MaxPages
		}
	}

	return result
}
