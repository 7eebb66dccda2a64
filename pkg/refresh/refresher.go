// Package refresh recomputes the derived metadata for curated packages:
// registry fields, dependency scopes, repository stats, rendered readmes,
// cached images and download counts.
//
// A package refresh is a fixed sequence of steps. Every step runs even
// when an earlier one fails; failures are logged against the step and the
// run moves on. Stored values therefore age per field rather than per
// package.
package refresh

import (
	"context"
	"fmt"
	gopath "path"
	"time"

	"github.com/charmbracelet/log"

	"github.com/upmeta/upmeta/pkg/catalog"
	"github.com/upmeta/upmeta/pkg/integrations/github"
	"github.com/upmeta/upmeta/pkg/integrations/imagecache"
	"github.com/upmeta/upmeta/pkg/integrations/upm"
	"github.com/upmeta/upmeta/pkg/markdown"
	"github.com/upmeta/upmeta/pkg/observability"
	"github.com/upmeta/upmeta/pkg/store"
)

// imageDuration is how long the image cache service keeps a fetched copy
// before it is eligible for re-fetching.
const imageDuration = 48 * time.Hour

const avatarSize = 128

// Registry is the subset of the registry client used by the refresher.
type Registry interface {
	GetPackageMeta(ctx context.Context, name string, refresh bool) (*upm.PackageMeta, error)
	GetMonthlyDownloads(ctx context.Context, name string) (int, error)
}

// RepoFetcher fetches repository metadata.
type RepoFetcher interface {
	FetchRepo(ctx context.Context, owner, repo string, refresh bool) (*github.RepoInfo, error)
}

// ContentFetcher fetches raw files from a repository.
type ContentFetcher interface {
	FetchFileRaw(ctx context.Context, owner, repo, branch, path string) (string, error)
}

// ImageCache is the subset of the image cache client used by the refresher.
type ImageCache interface {
	GetImage(ctx context.Context, q imagecache.Query) (*imagecache.Status, error)
	AddImage(ctx context.Context, r imagecache.Request) error
}

// ScopeResolver computes and persists a package's dependency scopes.
type ScopeResolver interface {
	Resolve(ctx context.Context, root string) ([]string, error)
}

// Refresher runs the per-package refresh sequence.
type Refresher struct {
	registry Registry
	repos    RepoFetcher
	content  ContentFetcher
	images   ImageCache
	resolver ScopeResolver
	store    store.Store
	readmes  store.ReadmeStore
	logger   *log.Logger
}

// Deps bundles the collaborators a Refresher needs. Images may be nil
// when no image cache service is configured; the image steps are then
// skipped.
type Deps struct {
	Registry Registry
	Repos    RepoFetcher
	Content  ContentFetcher
	Images   ImageCache
	Resolver ScopeResolver
	Store    store.Store
	Readmes  store.ReadmeStore
	Logger   *log.Logger
}

// New creates a Refresher.
func New(d Deps) *Refresher {
	logger := d.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Refresher{
		registry: d.Registry,
		repos:    d.Repos,
		content:  d.Content,
		images:   d.Images,
		resolver: d.Resolver,
		store:    d.Store,
		readmes:  d.Readmes,
		logger:   logger,
	}
}

// RefreshPackage runs every refresh step for one curated package. force
// bypasses the HTTP response cache and the readme freshness gate.
//
// The returned error is always nil today; steps absorb their own
// failures. The signature keeps room for a future fatal condition.
func (r *Refresher) RefreshPackage(ctx context.Context, rec *catalog.Record, force bool) error {
	name := rec.Name
	logger := r.logger.With("pkg", name)

	var repoInfo *github.RepoInfo

	steps := []struct {
		name string
		run  func() error
	}{
		{"registry", func() error { return r.refreshRegistryInfo(ctx, name, force) }},
		{"scopes", func() error {
			_, err := r.resolver.Resolve(ctx, name)
			return err
		}},
		{"repo", func() error {
			info, err := r.refreshRepoInfo(ctx, rec, force)
			repoInfo = info
			return err
		}},
		{"readme", func() error { return r.refreshReadmes(ctx, rec, repoInfo, force) }},
		{"cover", func() error { return r.refreshCoverImage(ctx, rec, force) }},
		{"avatars", func() error { return r.refreshAvatars(ctx, rec, force) }},
		{"downloads", func() error { return r.refreshDownloads(ctx, name) }},
	}

	for _, step := range steps {
		err := step.run()
		observability.Job().OnStepComplete(ctx, name, step.name, err)
		if err != nil {
			logger.Warn("refresh step failed", "step", step.name, "err", err)
		}
	}
	return nil
}

// refreshRegistryInfo stores the latest version, its publish time and its
// minimum editor version.
func (r *Refresher) refreshRegistryInfo(ctx context.Context, name string, force bool) error {
	meta, err := r.registry.GetPackageMeta(ctx, name, force)
	if err != nil {
		return err
	}

	version := meta.LatestVersion()
	if version == "" {
		return fmt.Errorf("no publishable version for %s", name)
	}
	if err := r.store.SetVersion(ctx, name, version); err != nil {
		return err
	}
	if t := meta.UpdatedTime(version); !t.IsZero() {
		if err := r.store.SetUpdatedTime(ctx, name, t); err != nil {
			return err
		}
	}
	return r.store.SetUnityVersion(ctx, name, meta.Versions[version].Unity)
}

// refreshRepoInfo stores star counts and activity times. The fetched info
// is returned for the readme step's freshness gate.
func (r *Refresher) refreshRepoInfo(ctx context.Context, rec *catalog.Record, force bool) (*github.RepoInfo, error) {
	owner, repo, err := rec.RepoRef()
	if err != nil {
		return nil, err
	}
	info, err := r.repos.FetchRepo(ctx, owner, repo, force)
	if err != nil {
		return nil, err
	}

	name := rec.Name
	if err := r.store.SetStars(ctx, name, info.Stars); err != nil {
		return info, err
	}
	parentStars := 0
	if info.Fork {
		parentStars = info.ParentStars
	}
	if err := r.store.SetParentStars(ctx, name, parentStars); err != nil {
		return info, err
	}
	if info.PushedAt != nil {
		if err := r.store.SetRepoPushedTime(ctx, name, *info.PushedAt); err != nil {
			return info, err
		}
	}
	if info.UpdatedAt != nil {
		if err := r.store.SetRepoUpdatedTime(ctx, name, *info.UpdatedAt); err != nil {
			return info, err
		}
	}
	return info, nil
}

// refreshReadmes fetches, renders and stores each readme variant. A
// variant is skipped while its cache key still matches, so a repository
// with no new pushes costs no content requests.
func (r *Refresher) refreshReadmes(ctx context.Context, rec *catalog.Record, repoInfo *github.RepoInfo, force bool) error {
	owner, repo, err := rec.RepoRef()
	if err != nil {
		return err
	}

	var pushed int64
	if repoInfo != nil && repoInfo.PushedAt != nil {
		pushed = repoInfo.PushedAt.Unix()
	}

	variants := []struct {
		lang    string
		locator string
	}{
		{"en", rec.Readme},
		{"zh-cn", rec.ReadmeZhCN},
	}

	var firstErr error
	for _, v := range variants {
		if v.lang != "en" && v.locator == "" {
			continue
		}
		if err := r.refreshReadmeVariant(ctx, rec.Name, owner, repo, v.lang, v.locator, pushed, force); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Refresher) refreshReadmeVariant(ctx context.Context, name, owner, repo, lang, locator string, pushed int64, force bool) error {
	branch, path := catalog.ReadmeRef(locator)
	cacheKey := fmt.Sprintf("v2:%s:%d", path, pushed)

	if !force {
		stored, err := r.store.ReadmeCacheKey(ctx, name, lang)
		if err == nil && stored == cacheKey {
			return nil
		}
	}

	text, err := r.content.FetchFileRaw(ctx, owner, repo, branch, path)
	if err != nil {
		return err
	}
	if text == "" {
		return nil
	}

	dir := gopath.Dir(path)
	if dir == "." {
		dir = ""
	}
	html := markdown.Render(text, markdown.Context{
		Owner:  owner,
		Repo:   repo,
		Branch: branch,
		Dir:    dir,
	})

	if err := r.readmes.SetReadme(ctx, name, lang, text); err != nil {
		return err
	}
	if err := r.readmes.SetReadmeHTML(ctx, name, lang, html); err != nil {
		return err
	}
	return r.store.SetReadmeCacheKey(ctx, name, lang, cacheKey)
}

// refreshCoverImage asks the image cache service to hold the package's
// cover image. Submitting is cheap; the service no-ops on a fresh copy
// unless forced.
func (r *Refresher) refreshCoverImage(ctx context.Context, rec *catalog.Record, force bool) error {
	if r.images == nil || rec.Image == "" {
		return nil
	}

	q := imagecache.PackageQuery(rec.Name)
	if !force {
		status, err := r.images.GetImage(ctx, q)
		if err == nil && status.Available {
			return nil
		}
	}
	return r.images.AddImage(ctx, imagecache.Request{
		Query:    q,
		URL:      rec.Image,
		Duration: imageDuration,
		Force:    force,
	})
}

// refreshAvatars caches the avatars of the repository owner and the
// package hunter.
func (r *Refresher) refreshAvatars(ctx context.Context, rec *catalog.Record, force bool) error {
	if r.images == nil {
		return nil
	}

	users := make([]string, 0, 2)
	if rec.Owner != "" {
		users = append(users, rec.Owner)
	}
	if rec.Hunter != "" && rec.Hunter != rec.Owner {
		users = append(users, rec.Hunter)
	}

	var firstErr error
	for _, user := range users {
		q := imagecache.AvatarQuery(user, avatarSize)
		if !force {
			status, err := r.images.GetImage(ctx, q)
			if err == nil && status.Available {
				continue
			}
		}
		err := r.images.AddImage(ctx, imagecache.Request{
			Query:    q,
			URL:      fmt.Sprintf("https://github.com/%s.png?size=%d", user, avatarSize),
			Duration: imageDuration,
			Force:    force,
		})
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Refresher) refreshDownloads(ctx context.Context, name string) error {
	downloads, err := r.registry.GetMonthlyDownloads(ctx, name)
	if err != nil {
		return err
	}
	return r.store.SetMonthlyDownloads(ctx, name, downloads)
}
