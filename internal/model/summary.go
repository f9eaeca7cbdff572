package model

import "time"

// Crawl discovery methods.
const (
	// MethodSitemap discovers pages by resolving the site's sitemap into a
	// flat URL list before visiting any page.
	MethodSitemap = "sitemap"

	// MethodRecursive discovers pages by following in-scope links from the
	// base URL.
	MethodRecursive = "recursive"
)

// Summary aggregates the outcome of one crawl run. It is rendered by the
// report package and persisted by the database package.
type Summary struct {
	// BaseURL is the documentation root the crawl started from.
	BaseURL string `json:"base_url"`

	// Method is the discovery strategy used: MethodSitemap or MethodRecursive.
	Method string `json:"method"`

	// OutputDir is the directory Markdown files were written to.
	OutputDir string `json:"output_dir"`

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Pages holds one entry per visited URL, in visit order.
	Pages []*Page `json:"pages"`

	// Interrupted reports whether the run was cancelled before reaching a
	// terminal state (budget reached or frontier exhausted).
	Interrupted bool `json:"interrupted,omitempty"`
}

// NewSummary creates a Summary for a run starting now.
func NewSummary(baseURL, method, outputDir string) *Summary {
	return &Summary{
		BaseURL:   baseURL,
		Method:    method,
		OutputDir: outputDir,
		StartedAt: time.Now(),
	}
}

// AddPage appends a page outcome to the summary.
func (s *Summary) AddPage(p *Page) {
	s.Pages = append(s.Pages, p)
}

// Saved returns the number of pages written to disk.
func (s *Summary) Saved() int {
	n := 0
	for _, p := range s.Pages {
		if !p.Failed && p.OutputPath != "" {
			n++
		}
	}
	return n
}

// Failures returns the number of pages that could not be fetched or saved.
func (s *Summary) Failures() int {
	n := 0
	for _, p := range s.Pages {
		if p.Failed || p.OutputPath == "" {
			n++
		}
	}
	return n
}

// Duration returns the elapsed wall-clock time of the run.
func (s *Summary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return time.Since(s.StartedAt)
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
