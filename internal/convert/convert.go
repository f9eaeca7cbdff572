package convert

import (
	"fmt"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// Converter turns an HTML fragment into Markdown.
type Converter interface {
	// Convert returns the Markdown rendition of the given HTML.
	Convert(html string) (string, error)
}

// Markdown is the default Converter backed by html-to-markdown.
type Markdown struct{}

// NewMarkdown creates the default HTML to Markdown converter.
func NewMarkdown() *Markdown {
	return &Markdown{}
}

// Convert renders HTML as Markdown.
func (m *Markdown) Convert(html string) (string, error) {
	out, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("convert to markdown: %w", err)
	}
	return out, nil
}

// excessBlankLines matches runs of three or more consecutive newlines,
// a common artifact of converting deeply nested markup.
var excessBlankLines = regexp.MustCompile(`\n{3,}`)

// CollapseBlankLines normalizes converter output by collapsing runs of
// three or more newlines to exactly one blank line.
func CollapseBlankLines(markdown string) string {
	return excessBlankLines.ReplaceAllString(markdown, "\n\n")
}

// Placeholder returns the body recorded for a page whose conversion
// failed. The page is still persisted so it counts as visited and is
// never retried within the run.
func Placeholder(sourceURL string, err error) string {
	var b strings.Builder
	b.WriteString("Error converting content: ")
	b.WriteString(err.Error())
	b.WriteString("\n\nOriginal URL: ")
	b.WriteString(sourceURL)
	b.WriteString("\n")
	return b.String()
}
