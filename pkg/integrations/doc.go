// Package integrations provides the shared HTTP client used by the
// outbound API clients (UPM registry, GitHub, image cache service).
//
// The shared [Client] layers response caching and retry with backoff on
// top of net/http and classifies failures into the two sentinel errors the
// refresh job cares about:
//
//   - [ErrNotFound]: the resource does not exist (HTTP 404). Expected for
//     fast-moving dependency graphs and tolerated silently by callers.
//   - [ErrNetwork]: transport failures, timeouts and 5xx responses. Logged
//     by callers, and retried automatically when transient.
//
// Concrete clients live in the subpackages (upm, github, imagecache) and
// embed [Client] for the shared behavior.
package integrations
