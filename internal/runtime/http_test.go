package runtime

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestHealthRouter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	if err := m.Register(); err != nil {
		t.Fatalf("Register: %v", err)
	}
	m.ObserveMessage(statusSuccess, 0)

	var ready atomic.Bool
	srv := httptest.NewServer(NewHealthRouter(reg, ready.Load))
	t.Cleanup(srv.Close)

	get := func(path string) (int, string) {
		t.Helper()
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(body)
	}

	if status, body := get("/ping"); status != http.StatusOK || body != "pong" {
		t.Errorf("/ping = %d %q", status, body)
	}
	if status, _ := get("/ready"); status != http.StatusServiceUnavailable {
		t.Errorf("/ready before start = %d, want 503", status)
	}
	ready.Store(true)
	if status, body := get("/ready"); status != http.StatusOK || body != "ok" {
		t.Errorf("/ready = %d %q", status, body)
	}

	status, body := get("/metrics")
	if status != http.StatusOK {
		t.Fatalf("/metrics = %d", status)
	}
	for _, want := range []string{`processed_messages{status="success"} 1`, "processing_time_bucket", `le="100"`} {
		if !strings.Contains(body, want) {
			t.Errorf("/metrics missing %q", want)
		}
	}

	if status, _ := get("/nope"); status != http.StatusNotFound {
		t.Errorf("/nope = %d", status)
	}
}
