package usecase

import (
	"context"

	"github.com/xavierca1/lead-pipeline/internal/entity"
	"github.com/xavierca1/lead-pipeline/internal/infra/queue"
	"github.com/xavierca1/lead-pipeline/internal/pipeline"
)

// PipelineStore is the part of *pipeline.Store the use cases reconcile.
type PipelineStore interface {
	Refresh(ctx context.Context) error
	RefreshDetail(ctx context.Context, id string) (*entity.Lead, error)
}

type EventPublisher interface {
	PublishLeadEvent(ctx context.Context, event queue.LeadEvent) error
}

type Notifier = pipeline.Notifier
