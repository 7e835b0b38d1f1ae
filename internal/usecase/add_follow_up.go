package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-pipeline/internal/entity"
	"github.com/xavierca1/lead-pipeline/internal/infra/queue"
)

// AddFollowUpUseCase appends a note to a lead. The backend assigns the
// sequence number.
type AddFollowUpUseCase struct {
	Gateway   entity.LeadGateway
	Store     PipelineStore
	Publisher EventPublisher
	Notifier  Notifier
	logger    *zap.Logger
}

func NewAddFollowUpUseCase(
	gateway entity.LeadGateway,
	store PipelineStore,
	publisher EventPublisher,
	notifier Notifier,
	logger *zap.Logger,
) *AddFollowUpUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AddFollowUpUseCase{
		Gateway:   gateway,
		Store:     store,
		Publisher: publisher,
		Notifier:  notifier,
		logger:    logger,
	}
}

func (uc *AddFollowUpUseCase) Execute(ctx context.Context, input AddFollowUpInput) (AddFollowUpOutput, error) {
	if strings.TrimSpace(input.LeadID) == "" {
		return AddFollowUpOutput{}, &DomainError{Code: CodeLeadIDRequired, Message: "lead id is required"}
	}
	conclusion := strings.TrimSpace(input.Conclusion)
	if conclusion == "" {
		return AddFollowUpOutput{}, &DomainError{Code: CodeConclusionRequired, Message: "conclusion is required"}
	}

	lead, err := uc.Gateway.AddFollowUp(ctx, input.LeadID, conclusion)
	if err != nil {
		uc.Notifier.Failure(MsgFollowUpFailed, err)
		return AddFollowUpOutput{}, &TechnicalError{Code: CodeFollowUpFailed, Message: MsgFollowUpFailed, Err: err}
	}

	reconciled := reconcile(ctx, uc.Store, input.LeadID, uc.logger)

	publish(ctx, uc.Publisher, queue.LeadEvent{
		Type:   queue.EventFollowUpAdded,
		LeadID: input.LeadID,
	}, uc.logger)

	uc.Notifier.Success("follow-up added")
	return AddFollowUpOutput{Lead: lead, Reconciled: reconciled}, nil
}
