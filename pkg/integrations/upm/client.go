package upm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/upmeta/upmeta/pkg/integrations"
)

// DefaultBaseURL is the production registry endpoint.
const DefaultBaseURL = "https://registry.upmeta.dev"

// Client fetches package metadata documents from the UPM registry.
type Client struct {
	*integrations.Client
	baseURL      string
	downloadsURL string
}

// Config holds the registry endpoints for a Client.
type Config struct {
	BaseURL      string // registry root; DefaultBaseURL if empty
	DownloadsURL string // downloads API root; disabled if empty
}

// NewClient creates a registry client with a shared response cache.
func NewClient(cfg Config, cacheTTL time.Duration) (*Client, error) {
	cache, err := integrations.NewCache(cacheTTL)
	if err != nil {
		return nil, err
	}
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		Client:       integrations.NewClient(cache.Namespace("upm:"), nil),
		baseURL:      strings.TrimSuffix(base, "/"),
		downloadsURL: strings.TrimSuffix(cfg.DownloadsURL, "/"),
	}, nil
}

// GetPackageMeta fetches the metadata document for a package by name.
// Returns integrations.ErrNotFound if the registry has no such package;
// other failures wrap integrations.ErrNetwork.
func (c *Client) GetPackageMeta(ctx context.Context, name string, refresh bool) (*PackageMeta, error) {
	name = strings.TrimSpace(name)

	var meta PackageMeta
	err := c.Cached(ctx, name, refresh, &meta, func() error {
		if err := c.Get(ctx, c.baseURL+"/"+name, &meta); err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return fmt.Errorf("%w: package %s", err, name)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

// GetMonthlyDownloads fetches the package's install count over the last
// month. Returns 0 with no error if the downloads API is not configured
// or has no data for the package yet.
func (c *Client) GetMonthlyDownloads(ctx context.Context, name string) (int, error) {
	if c.downloadsURL == "" {
		return 0, nil
	}

	var resp struct {
		Downloads int `json:"downloads"`
	}
	url := fmt.Sprintf("%s/downloads/point/last-month/%s", c.downloadsURL, strings.TrimSpace(name))
	if err := c.Get(ctx, url, &resp); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return resp.Downloads, nil
}
