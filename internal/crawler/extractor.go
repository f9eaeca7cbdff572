package crawler

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// defaultStripSelectors are the boilerplate regions removed before
// content selection: navigation chrome, scripts, and the class names
// documentation themes commonly use for sidebars, menus, and comments.
var defaultStripSelectors = []string{
	"nav", "footer", "script", "style", "header",
	".header", ".footer", ".navigation", ".sidebar", ".menu", ".comments",
}

// defaultContentSelectors locate the main content region, in priority
// order: semantic landmarks first, then the container class and id names
// common across documentation generators.
var defaultContentSelectors = []string{
	"main", "article",
	".content", "#content", ".documentation", ".doc-content", ".markdown-body",
}

// Extraction is the result of extracting a page: its title, the HTML of
// the selected content root, and the in-scope outbound links found within
// that root.
type Extraction struct {
	Title       string
	ContentHTML string
	Links       []string
}

// Extractor selects the main content subtree of an HTML document and
// collects its outbound links.
//
// Design decision: We use goquery rather than walking the node tree by
// hand because the content heuristics are CSS-selector shaped: an ordered
// list of matcher expressions evaluated in priority order, first match
// wins.
type Extractor struct {
	filter           *Filter
	stripSelectors   []string
	contentSelectors []string
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithContentSelectors prepends site-specific selectors to the built-in
// content-root candidates.
func WithContentSelectors(selectors []string) ExtractorOption {
	return func(e *Extractor) {
		e.contentSelectors = append(append([]string{}, selectors...), e.contentSelectors...)
	}
}

// WithStripSelectors adds site-specific selectors to the built-in
// boilerplate set.
func WithStripSelectors(selectors []string) ExtractorOption {
	return func(e *Extractor) {
		e.stripSelectors = append(e.stripSelectors, selectors...)
	}
}

// NewExtractor creates an Extractor whose discovered links are filtered
// through the given Filter.
func NewExtractor(filter *Filter, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		filter:           filter,
		stripSelectors:   append([]string{}, defaultStripSelectors...),
		contentSelectors: append([]string{}, defaultContentSelectors...),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses the document, removes boilerplate, selects the content
// root, and collects outbound links. A document with no content-root
// match still yields a usable (if noisier) extraction: the whole stripped
// document becomes the root.
//
// Removal is destructive on the parsed working copy only; the caller's
// HTML string is untouched.
func (e *Extractor) Extract(htmlDocument, pageURL string) (*Extraction, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page URL: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlDocument))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	doc.Find(strings.Join(e.stripSelectors, ", ")).Remove()

	title := collapseWhitespace(doc.Find("title").First().Text())
	if title == "" {
		title = base.Path
	}

	root := e.contentRoot(doc)

	contentHTML, err := goquery.OuterHtml(root)
	if err != nil {
		return nil, fmt.Errorf("render content root: %w", err)
	}

	return &Extraction{
		Title:       title,
		ContentHTML: contentHTML,
		Links:       e.collectLinks(root, base),
	}, nil
}

// contentRoot returns the first selection matching a content selector,
// falling back to the whole stripped document.
func (e *Extractor) contentRoot(doc *goquery.Document) *goquery.Selection {
	for _, sel := range e.contentSelectors {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			return s
		}
	}

	if s := doc.Find("html").First(); s.Length() > 0 {
		return s
	}
	return doc.Selection
}

// collectLinks gathers every in-scope anchor within the content root.
// Links outside the root are not collected; navigation and footers are
// already removed anyway. Order follows document order, deduplicated.
func (e *Extractor) collectLinks(root *goquery.Selection, base *url.URL) []string {
	seen := make(map[string]bool)
	links := make([]string, 0)

	root.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "javascript:") {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}

		resolved := base.ResolveReference(ref)
		if resolved.Fragment != "" {
			// Same-page anchors are never distinct targets.
			return
		}

		normalized, err := Normalize(resolved.String())
		if err != nil {
			return
		}

		if seen[normalized] || !e.filter.InScope(normalized) {
			return
		}
		seen[normalized] = true
		links = append(links, normalized)
	})

	return links
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// collapseWhitespace squeezes internal whitespace to single spaces and
// trims the result.
func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}
