// Package enrich fetches the RDF graph of a resource from the harvester and
// reasoning APIs.
package enrich

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/errors"
)

// maxErrorBody bounds how much of a failed response ends up in the error.
const maxErrorBody = 1 << 10

// Fetcher performs bounded GET requests against the enrichment APIs. It is
// safe for concurrent use.
type Fetcher struct {
	client *http.Client
}

// NewFetcher returns a Fetcher whose requests time out after timeout. A nil
// base transport means http.DefaultTransport.
func NewFetcher(timeout time.Duration, base http.RoundTripper) *Fetcher {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Fetcher{
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(base),
		},
	}
}

// NewFetcherWithClient wraps an existing client as is.
func NewFetcherWithClient(client *http.Client) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{client: client}
}

// Fetch returns the body of a 200 response. A 404 fails with ErrNotFound and
// every other outcome with ErrEnrichment; both wrap ErrEnrichment.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: building request for %s: %v", errors.ErrEnrichment, rawURL, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: GET %s: %v", errors.ErrEnrichment, rawURL, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("%w: reading %s: %v", errors.ErrEnrichment, rawURL, err)
		}
		return string(body), nil
	case http.StatusNotFound:
		return "", fmt.Errorf("%w: %w: %s", errors.ErrEnrichment, errors.ErrNotFound, rawURL)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("%w: invalid http response: %d - %s", errors.ErrEnrichment, resp.StatusCode, strings.TrimSpace(string(body)))
	}
}

// URL joins base, path and the escaped id, appending query when set:
// URL("http://h", "/datasets", "abc", "catalogrecords=true") is
// "http://h/datasets/abc?catalogrecords=true".
func URL(base, path, id, query string) string {
	u := strings.TrimRight(base, "/") + "/" + strings.Trim(path, "/") + "/" + url.PathEscape(id)
	if query != "" {
		u += "?" + query
	}
	return u
}
