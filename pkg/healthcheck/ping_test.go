package healthcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPing(t *testing.T) {
	var gotPath, gotRID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRID = r.URL.Query().Get("rid")
	}))
	defer srv.Close()

	p := NewPinger(srv.URL, "job-123")
	if !p.Enabled() {
		t.Fatal("Enabled = false with base and job configured")
	}
	if err := p.Ping(context.Background(), "run-abc"); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if gotPath != "/job-123" {
		t.Errorf("path = %q, want /job-123", gotPath)
	}
	if gotRID != "run-abc" {
		t.Errorf("rid = %q, want run-abc", gotRID)
	}
}

func TestPingErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if err := NewPinger(srv.URL, "job-123").Ping(context.Background(), "run"); err == nil {
		t.Fatal("Ping succeeded on 503")
	}
}

func TestPingUnconfiguredIsNoop(t *testing.T) {
	p := NewPinger("", "")
	if p.Enabled() {
		t.Error("Enabled = true without configuration")
	}
	if err := p.Ping(context.Background(), "run"); err != nil {
		t.Errorf("Ping on unconfigured pinger: %v", err)
	}
}
