package github

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/upmeta/upmeta/pkg/integrations"
)

// ContentClient fetches raw file contents from repositories.
//
// Readme fetches are gated by the cache key stored against the package, so
// responses are not cached again here.
type ContentClient struct {
	client  *integrations.Client
	baseURL string
}

// NewContentClient creates a content client with an optional bearer token.
func NewContentClient(token string) *ContentClient {
	headers := map[string]string{"Accept": "application/vnd.github.v3.raw"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return &ContentClient{
		client:  integrations.NewClient(nil, headers),
		baseURL: DefaultBaseURL,
	}
}

// FetchFileRaw retrieves the raw text content of a file at path in
// owner/repo, optionally pinned to a branch. Returns "" with no error when
// the file does not exist.
func (c *ContentClient) FetchFileRaw(ctx context.Context, owner, repo, branch, path string) (string, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, owner, repo, strings.TrimPrefix(path, "/"))
	if branch != "" {
		u += "?ref=" + url.QueryEscape(branch)
	}

	text, err := c.client.GetText(ctx, u, nil)
	if err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return text, nil
}
