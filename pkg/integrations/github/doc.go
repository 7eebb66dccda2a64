// Package github implements the clients for upstream repository signals.
//
// [Client] fetches repository metrics used to enrich package records:
// star count, parent repository stars for forks, and the last push and
// update timestamps. [ContentClient] fetches raw file contents (readmes)
// from a repository. Both use the REST v3 API and accept an optional
// bearer token for higher rate limits.
package github
