// Package scopes computes the transitive dependency closure of a package
// against the registry.
//
// A "scope" is a package name reachable from a root package through the
// dependency graph, resolved at fetch time. The scope list a [Resolver]
// produces is what a client needs to configure a scoped registry entry
// covering everything the root package pulls in.
//
// Resolution is a strictly sequential breadth-first worklist. Each queue
// entry is fully fetched and expanded before the next is dequeued, and
// duplicates are suppressed when dequeued rather than when enqueued, so a
// name can sit in the queue twice but is never fetched twice. Per-node
// failures never abort a run: packages missing from the registry are
// skipped silently, other fetch failures are logged and skipped. The only
// error a run surfaces is the final persistence write failing.
package scopes
