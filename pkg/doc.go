// Package pkg provides the core libraries for the upmeta metadata job.
//
// # Overview
//
// Upmeta keeps the derived metadata behind a UPM package listing fresh:
// registry versions, transitive dependency scopes, repository stats,
// rendered readmes, cached images and download counts. The pkg directory
// is organized into four main areas:
//
//  1. [catalog] - Curated package records (what to refresh)
//  2. [integrations] - External API clients (registry, GitHub, image cache)
//  3. [scopes] / [refresh] - Domain logic (resolution and orchestration)
//  4. [store] - Persistence (Redis metadata, MongoDB readmes)
//
// # Architecture
//
// The typical data flow through a refresh run:
//
//	Catalog record
//	         ↓
//	    [integrations/upm] (registry metadata, downloads)
//	    [integrations/github] (repo stats, raw readme files)
//	         ↓
//	    [scopes] (transitive dependency closure)
//	    [markdown] (readme HTML with rewritten links)
//	         ↓
//	    [store] (Redis hash per package, MongoDB readme documents)
//
// # Main Packages
//
// [catalog] - Curated per-package YAML records: repository URL, cover
// image, readme location, hunter and owner.
//
// [scopes] - The transitive dependency resolver. Walks the registry
// breadth-first from a root package, tolerating stale version pins,
// unpublished dependencies and registry hiccups, and persists the sorted
// scope list.
//
// [refresh] - Orchestration. Runs the per-package step sequence and the
// batch driver that validates names, processes packages in order and
// pings the healthcheck service on completion.
//
// [integrations] - Shared HTTP client plumbing (response cache, retries,
// error classification) with per-service clients in subpackages:
// [integrations/upm], [integrations/github], [integrations/imagecache].
//
// [store] - Persistence interfaces with Redis, MongoDB and in-memory
// implementations.
//
// [markdown] - Readme rendering with repository-aware link rewriting.
//
// [httputil] - File-backed response cache and retry helpers.
//
// [healthcheck] - Completion pings for run monitoring.
//
// [observability] - Optional instrumentation hooks for runs, caches and
// HTTP traffic.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/scopes/...   # Specific package
//
// [catalog]: https://pkg.go.dev/github.com/upmeta/upmeta/pkg/catalog
// [scopes]: https://pkg.go.dev/github.com/upmeta/upmeta/pkg/scopes
// [refresh]: https://pkg.go.dev/github.com/upmeta/upmeta/pkg/refresh
// [integrations]: https://pkg.go.dev/github.com/upmeta/upmeta/pkg/integrations
// [integrations/upm]: https://pkg.go.dev/github.com/upmeta/upmeta/pkg/integrations/upm
// [integrations/github]: https://pkg.go.dev/github.com/upmeta/upmeta/pkg/integrations/github
// [integrations/imagecache]: https://pkg.go.dev/github.com/upmeta/upmeta/pkg/integrations/imagecache
// [store]: https://pkg.go.dev/github.com/upmeta/upmeta/pkg/store
// [markdown]: https://pkg.go.dev/github.com/upmeta/upmeta/pkg/markdown
// [httputil]: https://pkg.go.dev/github.com/upmeta/upmeta/pkg/httputil
// [healthcheck]: https://pkg.go.dev/github.com/upmeta/upmeta/pkg/healthcheck
// [observability]: https://pkg.go.dev/github.com/upmeta/upmeta/pkg/observability
package pkg
