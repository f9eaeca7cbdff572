package robots

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLoadAndAllowed(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
	}))
	defer srv.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	policy, err := Load(context.Background(), client, srv.URL, "docdown/1.0")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !policy.Allowed(srv.URL + "/docs/intro") {
		t.Error("public path should be allowed")
	}
	if policy.Allowed(srv.URL + "/private/secret") {
		t.Error("disallowed path should be blocked")
	}
}

func TestLoadPrefersSpecificAgentGroup(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("User-agent: docdown\nDisallow: /drafts/\n\nUser-agent: *\nDisallow: /\n"))
	}))
	defer srv.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	policy, err := Load(context.Background(), client, srv.URL, "docdown")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !policy.Allowed(srv.URL + "/docs/intro") {
		t.Error("docdown group should apply, not the catch-all disallow")
	}
	if policy.Allowed(srv.URL + "/drafts/wip") {
		t.Error("docdown group disallow should be honored")
	}
}

func TestLoadFailureIsReported(t *testing.T) {
	t.Parallel()

	client := &http.Client{Timeout: 200 * time.Millisecond}
	_, err := Load(context.Background(), client, "http://127.0.0.1:1", "docdown/1.0")
	if err == nil {
		t.Fatal("expected error for unreachable host")
	}
}

func TestPermissiveAllowsEverything(t *testing.T) {
	t.Parallel()

	policy := Permissive("docdown/1.0")
	if !policy.Allowed("https://docs.example.com/anything") {
		t.Error("permissive policy should allow all URLs")
	}

	// A nil policy behaves the same, so callers need no nil checks.
	var nilPolicy *Policy
	if !nilPolicy.Allowed("https://docs.example.com/anything") {
		t.Error("nil policy should allow all URLs")
	}
}

func TestAllowedEmptyPathTreatedAsRoot(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /\n"))
	}))
	defer srv.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	policy, err := Load(context.Background(), client, srv.URL, "docdown/1.0")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if policy.Allowed(srv.URL) {
		t.Error("URL without path should be checked as the root path")
	}
}

func TestAllowedMatchesQueryString(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /*?print=\n"))
	}))
	defer srv.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	policy, err := Load(context.Background(), client, srv.URL, "docdown/1.0")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if policy.Allowed(srv.URL + "/guide?print=1") {
		t.Error("query-string rule should block the printable variant")
	}
	if !policy.Allowed(srv.URL + "/guide") {
		t.Error("plain page should stay allowed")
	}
}
