package storage

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Writer writes Markdown files under a root output directory.
type Writer struct {
	// root is the output directory. Created on first save if missing.
	root string

	// now supplies timestamps for front matter. Overridable in tests.
	now func() time.Time
}

// Option configures a Writer.
type Option func(*Writer)

// WithClock overrides the timestamp source used in front matter.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) {
		w.now = now
	}
}

// NewWriter creates a Writer rooted at dir.
func NewWriter(dir string, opts ...Option) *Writer {
	w := &Writer{
		root: dir,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Root returns the output directory.
func (w *Writer) Root() string {
	return w.root
}

// PathFor derives the relative output path for a source URL.
// Path segments become directories; the last segment is slugified into the
// filename; an empty or root path maps to "index"; ".md" is appended when
// absent.
func (w *Writer) PathFor(sourceURL string) (string, error) {
	u, err := url.Parse(sourceURL)
	if err != nil {
		return "", fmt.Errorf("parse source URL: %w", err)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) == 1 && parts[0] == "" {
		parts = nil
	}

	var filename string
	if len(parts) == 0 {
		filename = "index"
	} else {
		filename = Slugify(parts[len(parts)-1])
		if filename == "" {
			filename = "index"
		}
	}
	if !strings.HasSuffix(filename, ".md") {
		filename += ".md"
	}

	if len(parts) > 1 {
		return filepath.Join(filepath.Join(parts[:len(parts)-1]...), filename), nil
	}
	return filename, nil
}

// Save writes the page body with a front-matter header and returns the
// relative path of the written file. Parent directories are created as
// needed.
func (w *Writer) Save(title, markdown, sourceURL string) (string, error) {
	relPath, err := w.PathFor(sourceURL)
	if err != nil {
		return "", err
	}

	fullPath := filepath.Join(w.root, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0750); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %s\n", title)
	fmt.Fprintf(&b, "source_url: %s\n", sourceURL)
	fmt.Fprintf(&b, "date_downloaded: %s\n", w.now().Format("2006-01-02 15:04:05"))
	b.WriteString("---\n\n")
	b.WriteString(markdown)

	if err := os.WriteFile(fullPath, []byte(b.String()), 0600); err != nil {
		return "", fmt.Errorf("write %s: %w", fullPath, err)
	}

	return relPath, nil
}

// EnsureRoot creates the output directory if it does not exist.
// Called once at crawl start; an uncreatable output directory is one of
// the few failures that aborts a run.
func (w *Writer) EnsureRoot() error {
	if err := os.MkdirAll(w.root, 0750); err != nil {
		return fmt.Errorf("create output directory %s: %w", w.root, err)
	}
	return nil
}
