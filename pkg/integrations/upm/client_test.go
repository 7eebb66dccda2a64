package upm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/upmeta/upmeta/pkg/httputil"
	"github.com/upmeta/upmeta/pkg/integrations"
)

func testClient(t *testing.T, baseURL, downloadsURL string) *Client {
	t.Helper()
	cache, err := httputil.NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	return &Client{
		Client:       integrations.NewClient(cache, nil),
		baseURL:      baseURL,
		downloadsURL: downloadsURL,
	}
}

func TestGetPackageMeta(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/com.example.pkg" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"name":      "com.example.pkg",
			"dist-tags": map[string]string{"latest": "1.0.0"},
			"versions": map[string]any{
				"1.0.0": map[string]any{
					"version":      "1.0.0",
					"unity":        "2020.3",
					"dependencies": map[string]string{"com.example.dep": "1.0.0"},
				},
			},
			"time": map[string]string{"1.0.0": "2025-01-02T03:04:05Z"},
		})
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, "")
	meta, err := c.GetPackageMeta(context.Background(), "com.example.pkg", true)
	if err != nil {
		t.Fatalf("GetPackageMeta: %v", err)
	}
	if meta.LatestVersion() != "1.0.0" {
		t.Errorf("LatestVersion = %q, want 1.0.0", meta.LatestVersion())
	}
	if meta.Versions["1.0.0"].Unity != "2020.3" {
		t.Errorf("Unity = %q, want 2020.3", meta.Versions["1.0.0"].Unity)
	}
	want := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	if !meta.UpdatedTime("1.0.0").Equal(want) {
		t.Errorf("UpdatedTime = %v, want %v", meta.UpdatedTime("1.0.0"), want)
	}
}

func TestGetPackageMetaNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, "")
	_, err := c.GetPackageMeta(context.Background(), "com.example.missing", true)
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestGetPackageMetaUsesCache(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(map[string]any{"name": "com.example.pkg"})
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, "")
	if _, err := c.GetPackageMeta(context.Background(), "com.example.pkg", false); err != nil {
		t.Fatalf("GetPackageMeta: %v", err)
	}
	if _, err := c.GetPackageMeta(context.Background(), "com.example.pkg", false); err != nil {
		t.Fatalf("GetPackageMeta: %v", err)
	}
	if calls != 1 {
		t.Errorf("registry calls = %d, want 1", calls)
	}
}

func TestGetMonthlyDownloads(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/downloads/point/last-month/com.example.pkg" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]int{"downloads": 1234})
	}))
	defer srv.Close()

	c := testClient(t, "", srv.URL)
	n, err := c.GetMonthlyDownloads(context.Background(), "com.example.pkg")
	if err != nil {
		t.Fatalf("GetMonthlyDownloads: %v", err)
	}
	if n != 1234 {
		t.Errorf("downloads = %d, want 1234", n)
	}

	// No data yet is not an error.
	n, err = c.GetMonthlyDownloads(context.Background(), "com.example.unknown")
	if err != nil {
		t.Fatalf("GetMonthlyDownloads (missing): %v", err)
	}
	if n != 0 {
		t.Errorf("downloads = %d, want 0 for missing package", n)
	}
}

func TestGetMonthlyDownloadsDisabled(t *testing.T) {
	c := testClient(t, "", "")
	n, err := c.GetMonthlyDownloads(context.Background(), "com.example.pkg")
	if err != nil || n != 0 {
		t.Errorf("disabled downloads API = (%d, %v), want (0, nil)", n, err)
	}
}
