package model

import "time"

// Page represents the result of processing a single documentation page.
// It is produced by the page processor and consumed by the frontier, which
// persists successful pages and records failures.
//
// Design decision: We model failure as a field on Page rather than returning
// an error from the processor because a failed page is still a meaningful
// result: it must be counted, logged, and never retried within the run.
type Page struct {
	// URL is the normalized absolute URL of the page.
	URL string `json:"url"`

	// Title is the page title from the <title> element, or the URL path
	// when the document has no title.
	Title string `json:"title,omitempty"`

	// Markdown is the converted page body. When conversion fails this holds
	// a placeholder body containing the error and the source URL, so the
	// page is still recorded rather than retried endlessly.
	Markdown string `json:"-"`

	// Links are the in-scope outbound links discovered within the content
	// root, already normalized and filtered.
	Links []string `json:"links,omitempty"`

	// StatusCode is the HTTP response status code. Zero when the request
	// never completed (timeout, connection failure).
	StatusCode int `json:"status_code"`

	// Failed reports whether the page could not be fetched or parsed.
	// Failed pages are counted as visited but produce no output file.
	Failed bool `json:"failed"`

	// Err holds a human-readable description of the failure, if any.
	Err string `json:"error,omitempty"`

	// FetchedAt is the time the page was fetched.
	FetchedAt time.Time `json:"fetched_at"`

	// OutputPath is the relative path of the saved Markdown file.
	// Empty for failed pages. Set by the frontier after persistence.
	OutputPath string `json:"output_path,omitempty"`
}

// FailedPage creates a Page marking a failure for the given URL.
func FailedPage(url string, statusCode int, err error) *Page {
	p := &Page{
		URL:        url,
		StatusCode: statusCode,
		Failed:     true,
		FetchedAt:  time.Now(),
	}
	if err != nil {
		p.Err = err.Error()
	}
	return p
}
