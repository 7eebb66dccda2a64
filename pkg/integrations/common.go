package integrations

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/upmeta/upmeta/pkg/httputil"
)

// httpTimeout bounds every outbound call. A call that exceeds it is
// cancelled and surfaces as ErrNetwork.
const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a package or resource doesn't exist upstream.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// NewHTTPClient creates an HTTP client with the standard request timeout.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// NewCache creates a file-based response cache with the given TTL in the
// default cache directory. See [httputil.NewCache].
func NewCache(ttl time.Duration) (*httputil.Cache, error) {
	return httputil.NewCache("", ttl)
}

var githubRepoPattern = regexp.MustCompile(`^(?:git\+)?(?:https?://|git@|git://)github\.com[:/]([^/]+)/([^/]+?)(?:\.git)?/?$`)

// ParseRepoURL extracts the GitHub owner and repo name from a repository
// URL in any of the common forms (https, git, git@, trailing .git).
// Returns ok=false if the URL does not point at GitHub.
func ParseRepoURL(raw string) (owner, repo string, ok bool) {
	m := githubRepoPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if len(m) < 3 {
		return "", "", false
	}
	return m[1], m[2], true
}
