package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/upmeta/upmeta/internal/config"
	"github.com/upmeta/upmeta/pkg/catalog"
	"github.com/upmeta/upmeta/pkg/healthcheck"
	"github.com/upmeta/upmeta/pkg/integrations/github"
	"github.com/upmeta/upmeta/pkg/integrations/imagecache"
	"github.com/upmeta/upmeta/pkg/integrations/upm"
	"github.com/upmeta/upmeta/pkg/refresh"
	"github.com/upmeta/upmeta/pkg/scopes"
	"github.com/upmeta/upmeta/pkg/store"
)

// refreshOpts holds the command-line flags for the refresh command.
type refreshOpts struct {
	all   bool // refresh every curated package
	force bool // bypass HTTP cache and readme freshness gate
}

// refreshCommand creates the refresh command.
//
// Packages are named positionally; --all takes the whole catalog in
// most-recently-curated order instead.
func (c *CLI) refreshCommand() *cobra.Command {
	opts := refreshOpts{}

	cmd := &cobra.Command{
		Use:   "refresh [package...]",
		Short: "Recompute derived metadata for curated packages",
		Long: `Refresh recomputes the stored metadata for the named packages: registry
version info, dependency scopes, repository stats, rendered readmes,
cached images and download counts. Failures of individual steps are
logged and skipped so one broken source never blocks the run.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.all && len(args) == 0 {
				return errors.New("name at least one package or pass --all")
			}
			if opts.all && len(args) > 0 {
				return errors.New("--all does not take package names")
			}

			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			return c.runRefresh(cmd.Context(), cfg, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.all, "all", false, "refresh every package in the catalog")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "bypass caches and refetch everything")

	return cmd
}

// runRefresh wires the clients and stores together and drives the run.
func (c *CLI) runRefresh(ctx context.Context, cfg *config.Config, names []string, opts refreshOpts) error {
	ttl, err := cfg.CacheTTL()
	if err != nil {
		return err
	}
	builtin, err := cfg.BuiltinPattern()
	if err != nil {
		return err
	}

	registry, err := upm.NewClient(upm.Config{
		BaseURL:      cfg.Registry.BaseURL,
		DownloadsURL: cfg.Registry.DownloadsURL,
	}, ttl)
	if err != nil {
		return fmt.Errorf("registry client: %w", err)
	}
	repos, err := github.NewClient(cfg.GitHub.Token, ttl)
	if err != nil {
		return fmt.Errorf("github client: %w", err)
	}
	content := github.NewContentClient(cfg.GitHub.Token)

	metaStore, err := store.NewRedisStore(ctx, store.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer metaStore.Close(ctx)

	readmes, err := store.NewMongoReadmes(ctx, store.MongoConfig{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return err
	}
	defer readmes.Close(ctx)

	deps := refresh.Deps{
		Registry: registry,
		Repos:    repos,
		Content:  content,
		Resolver: scopes.NewResolver(registry, metaStore, scopes.Options{
			BuiltinPattern: builtin,
			Refresh:        opts.force,
			Logger:         c.Logger,
		}),
		Store:   metaStore,
		Readmes: readmes,
		Logger:  c.Logger,
	}
	if cfg.Images.BaseURL != "" {
		deps.Images = imagecache.NewClient(cfg.Images.BaseURL)
	}

	cat := catalog.New(cfg.Catalog.Dir)
	if opts.all {
		names, err = cat.AllNames()
		if err != nil {
			return err
		}
	}

	pinger := healthcheck.NewPinger(cfg.Healthcheck.BaseURL, cfg.Healthcheck.JobID)
	runner := refresh.NewRunner(refresh.New(deps), cat, pinger, c.Logger)

	prog := newProgress(c.Logger)
	if err := runner.RunBatch(ctx, names, opts.force); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Refreshed %d packages", len(names)))
	return nil
}
