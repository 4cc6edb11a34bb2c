package worker

import (
	"context"
	"time"

	"contest-entry/internal/infrastructure/storage"
	"contest-entry/internal/metrics"

	"go.uber.org/zap"
)

type ObjectStore interface {
	List(ctx context.Context, before time.Time) ([]storage.Object, error)
	Delete(ctx context.Context, key string) error
}

type FileIndex interface {
	ReferencesFile(ctx context.Context, key string) (bool, error)
}

// OrphanSweeper reconciles the bucket against the submissions table. Objects
// older than grace that no submission references are left over from failed
// compensating deletes, and are removed. Keys not shaped like
// storage.ObjectKey were not written by the upload path and are never touched.
type OrphanSweeper struct {
	store    ObjectStore
	index    FileIndex
	metrics  *metrics.Metrics
	log      *zap.Logger
	interval time.Duration
	grace    time.Duration
	now      func() time.Time
}

func NewOrphanSweeper(
	store ObjectStore,
	index FileIndex,
	m *metrics.Metrics,
	log *zap.Logger,
	interval, grace time.Duration,
) *OrphanSweeper {
	return &OrphanSweeper{
		store:    store,
		index:    index,
		metrics:  m,
		log:      log,
		interval: interval,
		grace:    grace,
		now:      time.Now,
	}
}

func (w *OrphanSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("orphan sweeper started", zap.Duration("interval", w.interval), zap.Duration("grace", w.grace))

	for {
		select {
		case <-ctx.Done():
			w.log.Info("orphan sweeper stopped")
			return
		case <-ticker.C:
			if _, err := w.Sweep(ctx); err != nil {
				w.log.Error("orphan sweep failed", zap.Error(err))
			}
		}
	}
}

// Sweep runs one pass and returns the number of objects removed. A failure on
// a single object is logged and skipped; the next pass retries it.
func (w *OrphanSweeper) Sweep(ctx context.Context) (int, error) {
	objects, err := w.store.List(ctx, w.now().Add(-w.grace))
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, obj := range objects {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if !storage.IsObjectKey(obj.Key) {
			continue
		}
		referenced, err := w.index.ReferencesFile(ctx, obj.Key)
		if err != nil {
			w.log.Warn("orphan check failed", zap.String("key", obj.Key), zap.Error(err))
			continue
		}
		if referenced {
			continue
		}
		if err := w.store.Delete(ctx, obj.Key); err != nil {
			w.log.Warn("orphan delete failed", zap.String("key", obj.Key), zap.Error(err))
			continue
		}
		removed++
		w.metrics.OrphansSwept.Inc()
		w.log.Info("orphaned blob removed", zap.String("key", obj.Key), zap.Time("last_modified", obj.LastModified))
	}
	return removed, nil
}
