package scopes

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/upmeta/upmeta/pkg/integrations"
	"github.com/upmeta/upmeta/pkg/integrations/upm"
)

// DefaultBuiltinPattern matches environment-provided builtin modules.
// They have no registry entry and are excluded from traversal entirely.
var DefaultBuiltinPattern = regexp.MustCompile(`^com\.unity\.modules\.`)

// Fetcher retrieves package metadata from the registry.
// *upm.Client satisfies this interface.
type Fetcher interface {
	GetPackageMeta(ctx context.Context, name string, refresh bool) (*upm.PackageMeta, error)
}

// Store persists the computed scope list for a root package.
type Store interface {
	SetScopes(ctx context.Context, name string, scopes []string) error
}

// Options configures a Resolver.
type Options struct {
	// BuiltinPattern matches module names that must never be queried or
	// listed. DefaultBuiltinPattern if nil.
	BuiltinPattern *regexp.Regexp

	// Refresh bypasses the registry client's HTTP response cache.
	Refresh bool

	// Logger receives per-node fetch failures. log.Default() if nil.
	Logger *log.Logger
}

// Resolver computes and persists dependency scope lists.
type Resolver struct {
	fetcher Fetcher
	store   Store
	builtin *regexp.Regexp
	refresh bool
	logger  *log.Logger
}

// NewResolver creates a Resolver over the given fetcher and store.
func NewResolver(fetcher Fetcher, store Store, opts Options) *Resolver {
	builtin := opts.BuiltinPattern
	if builtin == nil {
		builtin = DefaultBuiltinPattern
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{
		fetcher: fetcher,
		store:   store,
		builtin: builtin,
		refresh: opts.Refresh,
		logger:  logger,
	}
}

// packageRef is one worklist entry. An empty version means "resolve to
// the package's latest version at processing time".
type packageRef struct {
	name    string
	version string
}

// Resolve computes the transitive dependency closure of root, persists it
// as a lexicographically sorted list, and returns it.
//
// All traversal state (queue, processed set, memo cache, scope set) is
// allocated fresh per call; nothing survives between runs. Per-node fetch
// and parse failures are absorbed, so the returned error is non-nil only
// when the persistence write fails.
func (r *Resolver) Resolve(ctx context.Context, root string) ([]string, error) {
	queue := []packageRef{{name: root}}
	processed := make(map[string]bool)
	memo := make(map[string]*upm.PackageMeta) // nil value = known missing
	scope := make(map[string]struct{})

	for len(queue) > 0 {
		entry := queue[0]
		queue = queue[1:]

		// Dedup happens at processing time, not enqueue time: a name can
		// sit in the queue more than once but is expanded at most once.
		if processed[entry.name] {
			continue
		}
		processed[entry.name] = true

		if r.builtin.MatchString(entry.name) {
			continue
		}

		meta, seen := memo[entry.name]
		if !seen {
			meta = r.fetch(ctx, root, entry.name)
			memo[entry.name] = meta
		}
		if meta == nil {
			continue
		}

		// The root's own processing does not list it; only names reached
		// as dependencies belong to the scope output.
		if entry.name != root {
			scope[entry.name] = struct{}{}
		}

		version := EffectiveVersion(meta, entry.version)
		info, ok := meta.Versions[version]
		if !ok {
			r.logger.Warn("no usable version entry",
				"package", root, "dependency", entry.name, "version", entry.version)
			continue
		}
		for _, dep := range sortedKeys(info.Dependencies) {
			queue = append(queue, packageRef{name: dep, version: info.Dependencies[dep]})
		}
	}

	names := make([]string, 0, len(scope))
	for name := range scope {
		names = append(names, name)
	}
	sort.Strings(names)

	if err := r.store.SetScopes(ctx, root, names); err != nil {
		return nil, fmt.Errorf("persist scopes for %s: %w", root, err)
	}
	return names, nil
}

// fetch retrieves metadata for one node, absorbing failures. A nil result
// means the node is skipped: silently for packages missing from the
// registry, with a log line for anything else.
func (r *Resolver) fetch(ctx context.Context, root, name string) *upm.PackageMeta {
	meta, err := r.fetcher.GetPackageMeta(ctx, name, r.refresh)
	if err == nil {
		return meta
	}
	if errors.Is(err, integrations.ErrNotFound) {
		r.logger.Debug("dependency missing from registry", "package", root, "dependency", name)
		return nil
	}
	r.logger.Warn("dependency fetch failed", "package", root, "dependency", name, "err", err)
	return nil
}

// sortedKeys orders dependency names so traversal order is deterministic.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
