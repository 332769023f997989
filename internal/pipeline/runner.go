// Package pipeline runs batches of captured signal bundles through
// resolution and into the profile store, recording each batch in the
// run ledger.
package pipeline

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/profile-cli/internal/model"
	"github.com/sells-group/profile-cli/internal/resolve"
	"github.com/sells-group/profile-cli/internal/signal"
	"github.com/sells-group/profile-cli/internal/store"
)

const defaultConcurrency = 4

// Runner resolves signal bundles and persists the resulting records.
type Runner struct {
	reconciler  *resolve.Reconciler
	profiles    *store.ProfileStore
	ledger      store.Ledger
	concurrency int
}

// NewRunner wires a Runner. ledger may be nil when no run bookkeeping
// is wanted (e.g. the HTTP server's single-bundle path).
func NewRunner(rec *resolve.Reconciler, profiles *store.ProfileStore, ledger store.Ledger, concurrency int) *Runner {
	if rec == nil {
		rec = resolve.NewReconciler(nil)
	}
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Runner{
		reconciler:  rec,
		profiles:    profiles,
		ledger:      ledger,
		concurrency: concurrency,
	}
}

// Run resolves every bundle concurrently. Per-bundle failures are
// counted and logged, never aborting the batch; duplicates are gated by
// the store's seen set. The ledger row is created before the first
// bundle and completed with final counters even when the batch fails.
func (r *Runner) Run(ctx context.Context, bundles []signal.Bundle, input, query string) (*model.Run, error) {
	var run *model.Run
	if r.ledger != nil {
		var err error
		run, err = r.ledger.CreateRun(ctx, input, query)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: create run")
		}
	}

	start := time.Now()
	log := zap.L().With(zap.String("input", input))
	log.Info("starting batch resolution",
		zap.Int("bundles", len(bundles)),
		zap.Int("concurrency", r.concurrency),
	)

	var processed, resolved, duplicates, failed int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i := range bundles {
		b := &bundles[i]
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			atomic.AddInt64(&processed, 1)

			rec := r.reconciler.Reconcile(b)
			if rec.URL == "" {
				zap.L().Warn("bundle has no usable url, skipping",
					zap.String("query", b.SearchQuery))
				atomic.AddInt64(&failed, 1)
				return nil // don't abort other bundles
			}

			appended, err := r.profiles.Append(*rec)
			if err != nil {
				zap.L().Error("append failed",
					zap.String("url", rec.URL),
					zap.Error(err))
				atomic.AddInt64(&failed, 1)
				return nil
			}
			if !appended {
				zap.L().Debug("duplicate record skipped", zap.String("url", rec.URL))
				atomic.AddInt64(&duplicates, 1)
				return nil
			}
			atomic.AddInt64(&resolved, 1)
			return nil
		})
	}

	waitErr := g.Wait()

	counters := model.RunCounters{
		Processed:  int(processed),
		Resolved:   int(resolved),
		Duplicates: int(duplicates),
		Failed:     int(failed),
	}
	status := model.RunStatusComplete
	if waitErr != nil {
		status = model.RunStatusFailed
	}

	if r.ledger != nil && run != nil {
		if err := r.ledger.CompleteRun(ctx, run.ID, status, counters); err != nil {
			log.Warn("failed to finalize run row", zap.Error(err))
		}
		run.Status = status
		run.Counters = counters
	}

	log.Info("batch resolution complete",
		zap.Int("processed", counters.Processed),
		zap.Int("resolved", counters.Resolved),
		zap.Int("duplicates", counters.Duplicates),
		zap.Int("failed", counters.Failed),
		zap.Duration("elapsed", time.Since(start)),
	)

	if waitErr != nil {
		return run, eris.Wrap(waitErr, "pipeline: batch run")
	}
	return run, nil
}

// ResolveOne resolves a single bundle and persists it. Used by the HTTP
// server's synchronous path.
func (r *Runner) ResolveOne(b *signal.Bundle) (*model.ProfileRecord, bool, error) {
	rec := r.reconciler.Reconcile(b)
	if rec.URL == "" {
		return nil, false, eris.New("pipeline: bundle has no usable url")
	}
	appended, err := r.profiles.Append(*rec)
	if err != nil {
		return nil, false, err
	}
	return rec, appended, nil
}
