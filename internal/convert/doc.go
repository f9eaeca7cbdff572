// Package convert defines the HTML to Markdown conversion boundary.
//
// The crawl engine treats conversion as an external collaborator: a pure
// function from an HTML string to a Markdown string. The default
// implementation wraps the html-to-markdown library; tests substitute
// failing converters to exercise the degradation path.
package convert
