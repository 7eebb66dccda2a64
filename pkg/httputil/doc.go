// Package httputil provides HTTP client plumbing shared by the outbound
// API clients: a file-based response cache and retry with exponential
// backoff for transient failures.
//
// # Caching
//
// [Cache] keeps JSON-marshaled responses on disk (~/.cache/upmeta/ by
// default) with a TTL derived from file modification time, so repeated
// refresh runs do not hammer the registry or GitHub. Namespacing keeps
// keys from different clients apart:
//
//	cache, _ := httputil.NewCache("", 24*time.Hour)
//	reg := cache.Namespace("upm:")
//	gh := cache.Namespace("github:")
//
// The cache can be cleared via `upmeta cache clear` or by deleting the
// cache directory.
//
// # Retry
//
// [Retry] re-attempts only errors wrapped in [RetryableError] (network
// failures, 5xx responses); everything else, such as 404s or malformed
// payloads, returns immediately. The delay doubles after each failed
// attempt.
package httputil
