package enrich

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/errors"
)

func TestFetchReturnsBodyOn200(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		_, _ = w.Write([]byte("<rdf>...</rdf>"))
	}))
	defer srv.Close()

	f := NewFetcher(time.Second, nil)
	body, err := f.Fetch(context.Background(), URL(srv.URL, "/datasets", "abc-123", "catalogrecords=true"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != "<rdf>...</rdf>" {
		t.Fatalf("body = %q", body)
	}
	if gotPath != "/datasets/abc-123" || gotQuery != "catalogrecords=true" {
		t.Fatalf("unexpected request %s?%s", gotPath, gotQuery)
	}
}

func TestFetchNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewFetcher(time.Second, nil).Fetch(context.Background(), srv.URL+"/concepts/missing")
	if !stderrors.Is(err, errors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !stderrors.Is(err, errors.ErrEnrichment) {
		t.Fatalf("expected ErrEnrichment, got %v", err)
	}
}

func TestFetchOtherStatusIncludesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "database on fire", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewFetcher(time.Second, nil).Fetch(context.Background(), srv.URL+"/events/x")
	if !stderrors.Is(err, errors.ErrEnrichment) {
		t.Fatalf("expected ErrEnrichment, got %v", err)
	}
	if stderrors.Is(err, errors.ErrNotFound) {
		t.Fatal("500 must not be reported as not found")
	}
	if !strings.Contains(err.Error(), "500 - database on fire") {
		t.Fatalf("expected status and body in error, got %q", err)
	}
}

func TestFetchTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewFetcher(50*time.Millisecond, nil).Fetch(context.Background(), srv.URL)
	if !stderrors.Is(err, errors.ErrEnrichment) {
		t.Fatalf("expected ErrEnrichment on timeout, got %v", err)
	}
}

func TestFetchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := NewFetcherWithClient(srv.Client()).Fetch(context.Background(), addr)
	if !stderrors.Is(err, errors.ErrEnrichment) {
		t.Fatalf("expected ErrEnrichment, got %v", err)
	}
}

func TestFetchInvalidURL(t *testing.T) {
	_, err := NewFetcherWithClient(nil).Fetch(context.Background(), "://bad")
	if !stderrors.Is(err, errors.ErrEnrichment) {
		t.Fatalf("expected ErrEnrichment, got %v", err)
	}
}

func TestURL(t *testing.T) {
	tests := []struct {
		base, path, id, query string
		want                  string
	}{
		{"http://h", "/datasets", "abc", "catalogrecords=true", "http://h/datasets/abc?catalogrecords=true"},
		{"http://h/", "concepts", "abc", "", "http://h/concepts/abc"},
		{"http://h/api", "/data-services/", "a b", "", "http://h/api/data-services/a%20b"},
	}
	for _, tt := range tests {
		if got := URL(tt.base, tt.path, tt.id, tt.query); got != tt.want {
			t.Errorf("URL(%q, %q, %q, %q) = %q, want %q", tt.base, tt.path, tt.id, tt.query, got, tt.want)
		}
	}
}
