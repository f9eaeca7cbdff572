// Package main provides the entry point for the docdown CLI.
//
// docdown downloads documentation websites and converts every page to
// Markdown, mirroring the site's URL structure as a local directory tree.
//
// Usage:
//
//	docdown crawl --url https://docs.example.com
//	docdown crawl
//
// See --help for all available options.
package main

// main is the entry point for docdown.
func main() {
	Execute()
}
