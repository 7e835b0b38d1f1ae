package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-pipeline/internal/infra/queue"
	"github.com/xavierca1/lead-pipeline/internal/pipeline"
)

// reconcile discards local assumptions after a successful mutation: the
// board is refetched and the open detail is refetched when it shows leadID.
// A superseded refresh counts as reconciled since a newer one is in flight.
func reconcile(ctx context.Context, store PipelineStore, leadID string, logger *zap.Logger) bool {
	ok := true
	if err := store.Refresh(ctx); err != nil && !errors.Is(err, pipeline.ErrSuperseded) {
		logger.Warn("board reconciliation failed", zap.String("lead_id", leadID), zap.Error(err))
		ok = false
	}
	if _, err := store.RefreshDetail(ctx, leadID); err != nil && !errors.Is(err, pipeline.ErrSuperseded) {
		logger.Warn("detail reconciliation failed", zap.String("lead_id", leadID), zap.Error(err))
		ok = false
	}
	return ok
}

func publish(ctx context.Context, publisher EventPublisher, event queue.LeadEvent, logger *zap.Logger) {
	if publisher == nil {
		return
	}
	if err := publisher.PublishLeadEvent(ctx, event); err != nil {
		// The backend already holds the change; other boards catch up on their next refresh.
		logger.Error("lead event not published",
			zap.String("type", event.Type),
			zap.String("lead_id", event.LeadID),
			zap.Error(err))
	}
}
