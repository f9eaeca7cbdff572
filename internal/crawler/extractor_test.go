package crawler

import (
	"strings"
	"testing"

	"github.com/docdown/docdown/internal/robots"
)

func newTestExtractor(opts ...ExtractorOption) *Extractor {
	return NewExtractor(NewFilter("docs.example.com", robots.Permissive("docdown/1.0")), opts...)
}

func TestExtractTitle(t *testing.T) {
	t.Parallel()

	t.Run("from title element with whitespace collapsed", func(t *testing.T) {
		t.Parallel()

		html := "<html><head><title>\n  Install   Guide \t</title></head><body><main>x</main></body></html>"
		got, err := newTestExtractor().Extract(html, "https://docs.example.com/guide/install")
		if err != nil {
			t.Fatalf("Extract: %v", err)
		}
		if got.Title != "Install Guide" {
			t.Errorf("Title = %q, want %q", got.Title, "Install Guide")
		}
	})

	t.Run("falls back to URL path", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><main>no title here</main></body></html>`
		got, err := newTestExtractor().Extract(html, "https://docs.example.com/guide/install")
		if err != nil {
			t.Fatalf("Extract: %v", err)
		}
		if got.Title != "/guide/install" {
			t.Errorf("Title = %q, want URL path fallback", got.Title)
		}
	})
}

func TestExtractRemovesBoilerplate(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<nav><a href="/nav-link">Nav</a></nav>
		<header>Site header</header>
		<div class="sidebar"><a href="/sidebar-link">Sidebar</a></div>
		<main><h1>Content</h1><p>Body text.</p></main>
		<div class="comments">Comment spam</div>
		<footer><a href="/footer-link">Footer</a></footer>
	</body></html>`

	got, err := newTestExtractor().Extract(html, "https://docs.example.com/page")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	for _, boilerplate := range []string{"Site header", "Sidebar", "Comment spam", "Footer"} {
		if strings.Contains(got.ContentHTML, boilerplate) {
			t.Errorf("content root still contains boilerplate %q", boilerplate)
		}
	}
	if !strings.Contains(got.ContentHTML, "Body text.") {
		t.Errorf("content root missing body text: %q", got.ContentHTML)
	}
}

func TestExtractContentRootPriority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "main beats content class",
			html: `<body><main>landmark</main><div class="content">container</div></body>`,
			want: "landmark",
		},
		{
			name: "article when no main",
			html: `<body><article>article text</article><div id="content">container</div></body>`,
			want: "article text",
		},
		{
			name: "content class when no landmark",
			html: `<body><div class="content">container text</div><p>outside</p></body>`,
			want: "container text",
		},
		{
			name: "markdown-body container",
			html: `<body><div class="markdown-body">gh style</div></body>`,
			want: "gh style",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := newTestExtractor().Extract(tt.html, "https://docs.example.com/page")
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if !strings.Contains(got.ContentHTML, tt.want) {
				t.Errorf("content root %q does not contain %q", got.ContentHTML, tt.want)
			}
		})
	}
}

func TestExtractFallsBackToWholeDocument(t *testing.T) {
	t.Parallel()

	html := `<html><body><p>Plain page without any known container.</p></body></html>`
	got, err := newTestExtractor().Extract(html, "https://docs.example.com/page")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !strings.Contains(got.ContentHTML, "Plain page without any known container.") {
		t.Errorf("fallback extraction lost content: %q", got.ContentHTML)
	}
}

func TestExtractSiteSelectorsTakePriority(t *testing.T) {
	t.Parallel()

	html := `<body><main>generic</main><div class="theme-doc">themed</div></body>`
	e := newTestExtractor(WithContentSelectors([]string{".theme-doc"}))

	got, err := e.Extract(html, "https://docs.example.com/page")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !strings.Contains(got.ContentHTML, "themed") {
		t.Errorf("site selector should win: %q", got.ContentHTML)
	}
}

func TestExtractLinks(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<nav><a href="/ignored-nav">nav</a></nav>
		<main>
			<a href="/guide/install">relative</a>
			<a href="https://docs.example.com/guide/config">absolute same host</a>
			<a href="https://other.example.com/external">external</a>
			<a href="/guide/install#section">anchor</a>
			<a href="/assets/logo.png">asset</a>
			<a href="javascript:void(0)">script link</a>
			<a href="">empty</a>
			<a href="/guide/install">duplicate</a>
		</main>
	</body></html>`

	got, err := newTestExtractor().Extract(html, "https://docs.example.com/guide/")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	want := []string{
		"https://docs.example.com/guide/install",
		"https://docs.example.com/guide/config",
	}
	if len(got.Links) != len(want) {
		t.Fatalf("Links = %v, want %v", got.Links, want)
	}
	for i, w := range want {
		if got.Links[i] != w {
			t.Errorf("Links[%d] = %q, want %q", i, got.Links[i], w)
		}
	}
}

func TestExtractLinksOutsideContentRootNotCollected(t *testing.T) {
	t.Parallel()

	html := `<body>
		<main><a href="/inside">inside</a></main>
		<div class="related"><a href="/outside">outside root, not boilerplate</a></div>
	</body>`

	got, err := newTestExtractor().Extract(html, "https://docs.example.com/")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if len(got.Links) != 1 || got.Links[0] != "https://docs.example.com/inside" {
		t.Errorf("Links = %v, want only the in-root link", got.Links)
	}
}
