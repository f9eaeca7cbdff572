package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestProbeSitemap(t *testing.T) {
	t.Parallel()

	t.Run("finds first conventional location", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/sitemap.xml", func(http.ResponseWriter, *http.Request) {})
		mux.HandleFunc("/sitemap_index.xml", func(http.ResponseWriter, *http.Request) {})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		got, ok := ProbeSitemap(context.Background(), &http.Client{}, srv.URL, "docdown/1.0", discardLogger())
		if !ok {
			t.Fatal("ProbeSitemap ok=false, want true")
		}
		if want := srv.URL + "/sitemap.xml"; got != want {
			t.Errorf("ProbeSitemap() = %q, want %q", got, want)
		}
	})

	t.Run("falls through to later location", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/wp-sitemap.xml", func(http.ResponseWriter, *http.Request) {})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		got, ok := ProbeSitemap(context.Background(), &http.Client{}, srv.URL, "docdown/1.0", discardLogger())
		if !ok {
			t.Fatal("ProbeSitemap ok=false, want true")
		}
		if want := srv.URL + "/wp-sitemap.xml"; got != want {
			t.Errorf("ProbeSitemap() = %q, want %q", got, want)
		}
	})

	t.Run("reports absence", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()

		if got, ok := ProbeSitemap(context.Background(), &http.Client{}, srv.URL, "docdown/1.0", discardLogger()); ok {
			t.Errorf("ProbeSitemap() = %q, ok=true, want none", got)
		}
	})
}

func TestReachable(t *testing.T) {
	t.Parallel()

	t.Run("HEAD success", func(t *testing.T) {
		t.Parallel()

		var method string
		srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			method = r.Method
		}))
		defer srv.Close()

		if !Reachable(context.Background(), &http.Client{}, srv.URL, "docdown/1.0") {
			t.Error("Reachable() = false, want true")
		}
		if method != http.MethodHead {
			t.Errorf("server saw %s, want HEAD", method)
		}
	})

	t.Run("falls back to GET on 405", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodHead {
				w.WriteHeader(http.StatusMethodNotAllowed)
			}
		}))
		defer srv.Close()

		if !Reachable(context.Background(), &http.Client{}, srv.URL, "docdown/1.0") {
			t.Error("Reachable() = false, want true after GET fallback")
		}
	})

	t.Run("error status is unreachable", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		if Reachable(context.Background(), &http.Client{}, srv.URL, "docdown/1.0") {
			t.Error("Reachable() = true, want false for 500")
		}
	})

	t.Run("connection failure is unreachable", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		srv.Close()

		if Reachable(context.Background(), &http.Client{}, srv.URL, "docdown/1.0") {
			t.Error("Reachable() = true, want false when nothing listens")
		}
	})
}
