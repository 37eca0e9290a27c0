package worker

import (
	"context"
	"sync"
	"time"

	"github.com/Abhi-0930/food-delivery-platform/internal/logger"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// Reconciler is the maintenance surface the sweep drives
type Reconciler interface {
	// Run executes one duplicate-resolution pass
	Run(ctx context.Context) (int, error)
	// Purge hard-deletes delivered orders outside the retention window
	Purge(ctx context.Context, retention time.Duration) (int64, error)
}

// SweepWorker periodically runs the reconciliation pass and purges delivered
// orders that fell out of the retention window. List reads already run their
// own pass; the sweep bounds storage growth while reads are idle.
type SweepWorker struct {
	rec       Reconciler
	interval  time.Duration
	retention time.Duration
	quit      chan struct{}
	wg        sync.WaitGroup
}

// NewSweepWorker creates new sweep worker. retention should be the longest
// configured view retention, so a purge never removes a row some list read
// would still show.
func NewSweepWorker(rec Reconciler, interval, retention time.Duration) *SweepWorker {
	return &SweepWorker{
		rec:       rec,
		interval:  interval,
		retention: retention,
		quit:      make(chan struct{}),
	}
}

// Start runs the worker in the background
func (w *SweepWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.run(ctx)
}

// Stop gracefully stops the worker
func (w *SweepWorker) Stop() {
	close(w.quit)
	w.wg.Wait()
}

func (w *SweepWorker) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Debug("sweep worker is done")
			return
		case <-w.quit:
			logger.Log.Debug("sweep worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// sweep runs one maintenance pass, retrying transient store failures with
// backoff. An aborted pass leaves completed deletions in place and is
// repaired by the next tick.
func (w *SweepWorker) sweep(ctx context.Context) {
	backoff := retry.WithMaxRetries(3, retry.NewExponential(500*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		removed, err := w.rec.Run(ctx)
		if err != nil {
			return retry.RetryableError(err)
		}
		if removed > 0 {
			logger.Log.Info("duplicate orders removed", zap.Int("count", removed))
		}

		purged, err := w.rec.Purge(ctx, w.retention)
		if err != nil {
			return retry.RetryableError(err)
		}
		if purged > 0 {
			logger.Log.Info("expired delivered orders purged", zap.Int64("count", purged))
		}

		return nil
	})
	if err != nil {
		logger.Log.Error("sweep failed", zap.Error(err))
	}
}
