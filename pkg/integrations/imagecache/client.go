// Package imagecache implements the client for the image cache service,
// which stores resized copies of package cover images and user avatars.
// The service owns fetching, resizing and storage; this client only asks
// whether an image is cached and submits new source URLs.
package imagecache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/upmeta/upmeta/pkg/integrations"
)

// Query identifies one cached image.
type Query struct {
	Type   string `json:"type"` // "package" or "avatar"
	ID     string `json:"id"`   // package name or username
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Fit    string `json:"fit,omitempty"`
}

// PackageQuery builds the query descriptor for a package's cover image.
func PackageQuery(name string) Query {
	return Query{Type: "package", ID: name, Width: 600, Height: 300, Fit: "cover"}
}

// AvatarQuery builds the query descriptor for a user's avatar image.
func AvatarQuery(username string, size int) Query {
	return Query{Type: "avatar", ID: username, Width: size, Height: size, Fit: "cover"}
}

// Status reports whether an image is present in the cache.
type Status struct {
	Available bool   `json:"available"`
	Filename  string `json:"filename,omitempty"`
}

// Request asks the service to fetch and cache an image.
type Request struct {
	Query
	URL      string        `json:"url"`                // source image URL
	Duration time.Duration `json:"-"`                  // cache lifetime
	Filename string        `json:"filename,omitempty"` // optional stored name
	Force    bool          `json:"force"`              // re-fetch even if cached
}

// Client talks to the image cache service over HTTP.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient creates an image cache client for the given service URL.
func NewClient(baseURL string) *Client {
	return &Client{
		http:    integrations.NewHTTPClient(),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// GetImage reports whether the image identified by q is cached.
func (c *Client) GetImage(ctx context.Context, q Query) (*Status, error) {
	u := fmt.Sprintf("%s/images?%s", c.baseURL, queryValues(q).Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", integrations.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &Status{Available: false}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", integrations.ErrNetwork, resp.StatusCode)
	}

	var status Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, err
	}
	return &status, nil
}

// AddImage submits an image to the cache service for fetching and storage.
func (c *Client) AddImage(ctx context.Context, r Request) error {
	payload := struct {
		Request
		DurationSeconds int `json:"duration"`
	}{Request: r, DurationSeconds: int(r.Duration.Seconds())}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", integrations.ErrNetwork, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("%w: status %d", integrations.ErrNetwork, resp.StatusCode)
	}
	return nil
}

func queryValues(q Query) url.Values {
	v := url.Values{}
	v.Set("type", q.Type)
	v.Set("id", q.ID)
	v.Set("width", strconv.Itoa(q.Width))
	v.Set("height", strconv.Itoa(q.Height))
	if q.Fit != "" {
		v.Set("fit", q.Fit)
	}
	return v
}
