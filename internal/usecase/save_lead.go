package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-pipeline/internal/entity"
	"github.com/xavierca1/lead-pipeline/internal/infra/queue"
)

// SaveLeadUseCase creates and edits leads, then reconciles the board.
type SaveLeadUseCase struct {
	Gateway   entity.LeadGateway
	Store     PipelineStore
	Publisher EventPublisher
	Notifier  Notifier
	logger    *zap.Logger
}

func NewSaveLeadUseCase(
	gateway entity.LeadGateway,
	store PipelineStore,
	publisher EventPublisher,
	notifier Notifier,
	logger *zap.Logger,
) *SaveLeadUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaveLeadUseCase{
		Gateway:   gateway,
		Store:     store,
		Publisher: publisher,
		Notifier:  notifier,
		logger:    logger,
	}
}

func (uc *SaveLeadUseCase) Create(ctx context.Context, input entity.LeadInput) (SaveLeadOutput, error) {
	if input.Status == "" {
		input.Status = entity.StatusNew
	}
	if errs := ValidateLeadInput(input); len(errs) > 0 {
		return SaveLeadOutput{}, &DomainError{Code: CodeValidation, Message: validationMessage(errs)}
	}

	lead, err := uc.Gateway.CreateLead(ctx, input)
	if err != nil {
		uc.Notifier.Failure(MsgCreateLeadFailed, err)
		return SaveLeadOutput{}, &TechnicalError{Code: CodeCreateLeadFailed, Message: MsgCreateLeadFailed, Err: err}
	}

	reconciled := reconcile(ctx, uc.Store, lead.ID, uc.logger)

	publish(ctx, uc.Publisher, queue.LeadEvent{
		Type:   queue.EventLeadCreated,
		LeadID: lead.ID,
		Status: lead.Status,
	}, uc.logger)

	uc.Notifier.Success("lead created")
	return SaveLeadOutput{Lead: lead, Reconciled: reconciled}, nil
}

func (uc *SaveLeadUseCase) Update(ctx context.Context, id string, input entity.LeadInput) (SaveLeadOutput, error) {
	if strings.TrimSpace(id) == "" {
		return SaveLeadOutput{}, &DomainError{Code: CodeLeadIDRequired, Message: "lead id is required"}
	}
	if errs := ValidateLeadInput(input); len(errs) > 0 {
		return SaveLeadOutput{}, &DomainError{Code: CodeValidation, Message: validationMessage(errs)}
	}

	lead, err := uc.Gateway.UpdateLead(ctx, id, input)
	if err != nil {
		uc.Notifier.Failure(MsgUpdateLeadFailed, err)
		return SaveLeadOutput{}, &TechnicalError{Code: CodeUpdateLeadFailed, Message: MsgUpdateLeadFailed, Err: err}
	}

	reconciled := reconcile(ctx, uc.Store, id, uc.logger)

	publish(ctx, uc.Publisher, queue.LeadEvent{
		Type:   queue.EventLeadUpdated,
		LeadID: id,
		Status: lead.Status,
	}, uc.logger)

	uc.Notifier.Success("lead updated")
	return SaveLeadOutput{Lead: lead, Reconciled: reconciled}, nil
}
