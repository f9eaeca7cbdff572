package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/docdown/docdown/internal/convert"
	"github.com/docdown/docdown/internal/model"
	"github.com/docdown/docdown/internal/robots"
	"github.com/docdown/docdown/internal/storage"
)

// docsSite is a small documentation site served over httptest:
//
//	/            -> links to /guide/ and /api/
//	/guide/      -> links to /guide/install and /guide/config
//	/guide/install
//	/guide/config -> links back to / (cycle)
//	/api/        -> links to /api/secret (robots-disallowed)
//	/api/secret
func docsSite(t *testing.T) *httptest.Server {
	t.Helper()

	page := func(title, body string) http.HandlerFunc {
		return func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(
				"<html><head><title>" + title + "</title></head><body><main>" + body + "</main></body></html>"))
		}
	}

	mux := http.NewServeMux()
	mux.Handle("/{$}", page("Home", `<p>Welcome.</p><a href="/guide/">Guide</a><a href="/api/">API</a>`))
	mux.Handle("/guide/{$}", page("Guide", `<a href="/guide/install">Install</a><a href="/guide/config">Config</a>`))
	mux.Handle("/guide/install", page("Install", `<p>Run the installer.</p>`))
	mux.Handle("/guide/config", page("Config", `<p>Edit the file.</p><a href="/">Home</a>`))
	mux.Handle("/api/{$}", page("API", `<a href="/api/secret">Secret</a>`))
	mux.Handle("/api/secret", page("Secret", `<p>Internal.</p>`))
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /api/secret\n"))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type testCrawl struct {
	crawler *Crawler
	summary *model.Summary
	outDir  string
}

func newTestCrawl(t *testing.T, srv *httptest.Server, policy *robots.Policy, maxPages int, follow bool, opts ...CrawlerOption) *testCrawl {
	t.Helper()

	host := strings.TrimPrefix(srv.URL, "http://")
	filter := NewFilter(host, policy)
	processor := NewProcessor(
		&http.Client{},
		NewExtractor(filter),
		convert.NewMarkdown(),
		"docdown/1.0",
		5*time.Second,
		10*1024*1024,
		discardLogger(),
	)

	outDir := t.TempDir()
	method := model.MethodSitemap
	if follow {
		method = model.MethodRecursive
	}

	return &testCrawl{
		crawler: New(
			NewFrontier(maxPages),
			processor,
			storage.NewWriter(outDir),
			0, // no politeness delay in tests
			discardLogger(),
			append([]CrawlerOption{WithFollowLinks(follow)}, opts...)...,
		),
		summary: model.NewSummary(srv.URL, method, outDir),
		outDir:  outDir,
	}
}

func TestCrawlerRecursiveVisitsWholeSite(t *testing.T) {
	t.Parallel()

	srv := docsSite(t)
	tc := newTestCrawl(t, srv, robots.Permissive("docdown/1.0"), 0, true)

	if err := tc.crawler.Run(context.Background(), []string{srv.URL + "/"}, tc.summary); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// All six pages are reachable from the root without a robots policy.
	if got := len(tc.summary.Pages); got != 6 {
		t.Fatalf("crawled %d pages, want 6: %+v", got, tc.summary.Pages)
	}
	if tc.summary.Failures() != 0 {
		t.Errorf("Failures() = %d, want 0", tc.summary.Failures())
	}
	if tc.summary.Interrupted {
		t.Error("Interrupted = true, want false")
	}

	// Output mirrors the URL structure.
	for _, rel := range []string{"index.md", "guide/install.md", "guide/config.md", "api/secret.md"} {
		if _, err := os.Stat(filepath.Join(tc.outDir, rel)); err != nil {
			t.Errorf("missing output file %s: %v", rel, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(tc.outDir, "guide", "install.md"))
	if err != nil {
		t.Fatalf("read install.md: %v", err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "---\ntitle: Install\n") {
		t.Errorf("front matter missing or wrong:\n%s", content)
	}
	if !strings.Contains(content, "Run the installer.") {
		t.Errorf("body missing:\n%s", content)
	}
}

func TestCrawlerHonorsPageBudget(t *testing.T) {
	t.Parallel()

	srv := docsSite(t)
	tc := newTestCrawl(t, srv, robots.Permissive("docdown/1.0"), 2, true)

	if err := tc.crawler.Run(context.Background(), []string{srv.URL + "/"}, tc.summary); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := len(tc.summary.Pages); got != 2 {
		t.Errorf("crawled %d pages, want 2", got)
	}
	// Single worker and FIFO order: the root and its first link.
	if tc.summary.Pages[0].URL != srv.URL+"/" {
		t.Errorf("first page = %q, want root", tc.summary.Pages[0].URL)
	}
	if tc.summary.Pages[1].URL != srv.URL+"/guide/" {
		t.Errorf("second page = %q, want /guide/", tc.summary.Pages[1].URL)
	}
}

func TestCrawlerExcludesRobotsDisallowed(t *testing.T) {
	t.Parallel()

	srv := docsSite(t)
	ctx := context.Background()
	policy, err := robots.Load(ctx, &http.Client{}, srv.URL, "docdown/1.0")
	if err != nil {
		t.Fatalf("robots.Load: %v", err)
	}

	tc := newTestCrawl(t, srv, policy, 0, true)
	if err := tc.crawler.Run(ctx, []string{srv.URL + "/"}, tc.summary); err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, p := range tc.summary.Pages {
		if strings.HasSuffix(p.URL, "/api/secret") {
			t.Errorf("crawled robots-disallowed URL %s", p.URL)
		}
	}
	if got := len(tc.summary.Pages); got != 5 {
		t.Errorf("crawled %d pages, want 5", got)
	}
	if _, err := os.Stat(filepath.Join(tc.outDir, "api", "secret.md")); !os.IsNotExist(err) {
		t.Errorf("api/secret.md exists, want absent (stat err = %v)", err)
	}
}

func TestCrawlerSitemapModeDoesNotFollowLinks(t *testing.T) {
	t.Parallel()

	srv := docsSite(t)
	tc := newTestCrawl(t, srv, robots.Permissive("docdown/1.0"), 0, false)

	seeds := []string{srv.URL + "/guide/install", srv.URL + "/guide/config"}
	if err := tc.crawler.Run(context.Background(), seeds, tc.summary); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// /guide/config links to the root, but sitemap runs crawl only what
	// the sitemap seeded.
	if got := len(tc.summary.Pages); got != 2 {
		t.Errorf("crawled %d pages, want 2: %+v", got, tc.summary.Pages)
	}
}

func TestCrawlerRecordsFailuresAndContinues(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/{$}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>Home</title></head><body><main>
			<a href="/missing">Gone</a><a href="/ok">OK</a></main></body></html>`))
	})
	mux.HandleFunc("/ok", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>OK</title></head><body><main><p>fine</p></main></body></html>`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	tc := newTestCrawl(t, srv, robots.Permissive("docdown/1.0"), 0, true)
	if err := tc.crawler.Run(context.Background(), []string{srv.URL + "/"}, tc.summary); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := len(tc.summary.Pages); got != 3 {
		t.Fatalf("crawled %d pages, want 3", got)
	}
	if tc.summary.Failures() != 1 {
		t.Errorf("Failures() = %d, want 1", tc.summary.Failures())
	}
	if tc.summary.Saved() != 2 {
		t.Errorf("Saved() = %d, want 2", tc.summary.Saved())
	}
}

// memoryRecorder collects recorded pages for assertions.
type memoryRecorder struct {
	mu    sync.Mutex
	pages []*model.Page
}

func (r *memoryRecorder) RecordPage(_ context.Context, page *model.Page) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages = append(r.pages, page)
	return nil
}

func TestCrawlerNotifiesRecorder(t *testing.T) {
	t.Parallel()

	srv := docsSite(t)
	rec := &memoryRecorder{}
	tc := newTestCrawl(t, srv, robots.Permissive("docdown/1.0"), 0, true, WithRecorder(rec))

	if err := tc.crawler.Run(context.Background(), []string{srv.URL + "/"}, tc.summary); err != nil {
		t.Fatalf("Run: %v", err)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.pages) != len(tc.summary.Pages) {
		t.Errorf("recorded %d pages, summary has %d", len(rec.pages), len(tc.summary.Pages))
	}
}

func TestCrawlerCancellationInterruptsRun(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("/{$}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>Home</title></head><body><main>
			<a href="/slow">Slow</a></main></body></html>`))
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	tc := newTestCrawl(t, srv, robots.Permissive("docdown/1.0"), 0, true)
	if err := tc.crawler.Run(ctx, []string{srv.URL + "/"}, tc.summary); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !tc.summary.Interrupted {
		t.Error("Interrupted = false, want true after cancellation")
	}
}
