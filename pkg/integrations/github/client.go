package github

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/upmeta/upmeta/pkg/integrations"
)

// DefaultBaseURL is the GitHub REST v3 endpoint.
const DefaultBaseURL = "https://api.github.com"

// RepoInfo holds the repository signals recorded against a package.
type RepoInfo struct {
	Stars       int        `json:"stars"`
	Fork        bool       `json:"fork"`
	ParentStars int        `json:"parent_stars"` // 0 unless the repo is a fork
	PushedAt    *time.Time `json:"pushed_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// Client fetches repository metadata from the GitHub API.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a GitHub API client. Pass an empty token for
// unauthenticated requests (lower rate limits).
func NewClient(token string, cacheTTL time.Duration) (*Client, error) {
	cache, err := integrations.NewCache(cacheTTL)
	if err != nil {
		return nil, err
	}

	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}

	return &Client{
		Client:  integrations.NewClient(cache.Namespace("github:"), headers),
		baseURL: DefaultBaseURL,
	}, nil
}

// FetchRepo retrieves stars, fork parent stars and activity timestamps for
// owner/repo. If refresh is true the response cache is bypassed.
func (c *Client) FetchRepo(ctx context.Context, owner, repo string, refresh bool) (*RepoInfo, error) {
	key := owner + "/" + repo

	var info RepoInfo
	err := c.Cached(ctx, key, refresh, &info, func() error {
		return c.fetchRepo(ctx, owner, repo, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetchRepo(ctx context.Context, owner, repo string, info *RepoInfo) error {
	var data repoResponse
	url := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, owner, repo)
	if err := c.Get(ctx, url, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: github repo %s/%s", err, owner, repo)
		}
		return err
	}

	*info = RepoInfo{
		Stars:     data.Stars,
		Fork:      data.Fork,
		PushedAt:  data.PushedAt,
		UpdatedAt: data.UpdatedAt,
	}
	if data.Fork && data.Parent != nil {
		info.ParentStars = data.Parent.Stars
	}
	return nil
}

type repoResponse struct {
	Stars     int        `json:"stargazers_count"`
	Fork      bool       `json:"fork"`
	PushedAt  *time.Time `json:"pushed_at"`
	UpdatedAt *time.Time `json:"updated_at"`
	Parent    *struct {
		Stars int `json:"stargazers_count"`
	} `json:"parent"`
}
