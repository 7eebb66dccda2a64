package refresh

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/upmeta/upmeta/pkg/catalog"
	"github.com/upmeta/upmeta/pkg/healthcheck"
	"github.com/upmeta/upmeta/pkg/observability"
)

// Runner drives a refresh run over a list of curated packages.
type Runner struct {
	refresher *Refresher
	catalog   *catalog.Catalog
	pinger    *healthcheck.Pinger
	logger    *log.Logger
}

// NewRunner creates a Runner. pinger may be an unconfigured Pinger;
// completion pings are then skipped.
func NewRunner(refresher *Refresher, cat *catalog.Catalog, pinger *healthcheck.Pinger, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		refresher: refresher,
		catalog:   cat,
		pinger:    pinger,
		logger:    logger,
	}
}

// RunBatch refreshes the named packages in order. Names without a
// catalog record are skipped with a warning. Per-package failures never
// stop the run; only context cancellation does. Each run gets a fresh
// ID that tags the completion ping.
func (r *Runner) RunBatch(ctx context.Context, names []string, force bool) error {
	valid := make([]string, 0, len(names))
	for _, name := range names {
		if !r.catalog.Exists(name) {
			r.logger.Warn("no catalog record, skipping", "pkg", name)
			continue
		}
		valid = append(valid, name)
	}
	if len(valid) == 0 {
		return fmt.Errorf("no known packages to refresh")
	}

	runID := uuid.NewString()
	start := time.Now()
	r.logger.Info("starting refresh run", "run", runID, "packages", len(valid), "force", force)
	observability.Job().OnRunStart(ctx, runID, len(valid))

	var runErr error
	for i, name := range valid {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		rec, err := r.catalog.Load(name)
		if err != nil {
			r.logger.Warn("catalog record unreadable, skipping", "pkg", name, "err", err)
			continue
		}

		observability.Job().OnPackageStart(ctx, name)
		pkgStart := time.Now()
		err = r.refresher.RefreshPackage(ctx, rec, force)
		observability.Job().OnPackageComplete(ctx, name, time.Since(pkgStart), err)
		r.logger.Info("refreshed", "pkg", name, "progress", fmt.Sprintf("%d/%d", i+1, len(valid)),
			"elapsed", time.Since(pkgStart).Round(time.Millisecond))
	}

	observability.Job().OnRunComplete(ctx, runID, time.Since(start), runErr)
	if runErr != nil {
		return runErr
	}

	r.logger.Info("refresh run complete", "run", runID, "elapsed", time.Since(start).Round(time.Millisecond))
	if err := r.pinger.Ping(ctx, runID); err != nil {
		r.logger.Warn("healthcheck ping failed", "err", err)
	}
	return nil
}
