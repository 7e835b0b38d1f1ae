package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-pipeline/internal/pipeline"
)

type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshWorker periodically reconciles the board with the backend so that
// changes made outside this service show up without a user action.
type RefreshWorker struct {
	store        Refresher
	tickInterval time.Duration
	logger       *zap.Logger
}

func NewRefreshWorker(store Refresher, interval time.Duration, logger *zap.Logger) *RefreshWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RefreshWorker{
		store:        store,
		tickInterval: interval,
		logger:       logger,
	}
}

// Start blocks until ctx is done. The first refresh runs immediately.
func (w *RefreshWorker) Start(ctx context.Context) {
	w.logger.Info("board refresh worker started", zap.Duration("interval", w.tickInterval))

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("board refresh worker stopped")
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *RefreshWorker) refresh(ctx context.Context) {
	err := w.store.Refresh(ctx)
	switch {
	case err == nil:
	case errors.Is(err, pipeline.ErrSuperseded), errors.Is(err, context.Canceled):
	default:
		// The store already notified; keep ticking.
		w.logger.Warn("periodic board refresh failed", zap.Error(err))
	}
}
