package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-pipeline/internal/entity"
	"github.com/xavierca1/lead-pipeline/internal/infra/queue"
)

// MoveLeadUseCase handles a card dropped on another stage column. Nothing is
// changed locally before the backend accepts the move; on success the board
// is refetched instead of patched.
type MoveLeadUseCase struct {
	Gateway   entity.LeadGateway
	Store     PipelineStore
	Publisher EventPublisher
	Notifier  Notifier
	Policy    *entity.TransitionPolicy
	logger    *zap.Logger

	mu    sync.Mutex
	moves map[string]*leadMoves
}

// leadMoves tracks the status updates of one lead. The newest successful
// update reconciles; an older success defers only while a newer update is
// still in flight, and the deferred refetch happens if that one fails.
type leadMoves struct {
	latest   uint64
	lastOK   uint64
	inflight int
	pending  bool
}

func NewMoveLeadUseCase(
	gateway entity.LeadGateway,
	store PipelineStore,
	publisher EventPublisher,
	notifier Notifier,
	policy *entity.TransitionPolicy,
	logger *zap.Logger,
) *MoveLeadUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MoveLeadUseCase{
		Gateway:   gateway,
		Store:     store,
		Publisher: publisher,
		Notifier:  notifier,
		Policy:    policy,
		logger:    logger,
		moves:     make(map[string]*leadMoves),
	}
}

func (uc *MoveLeadUseCase) Execute(ctx context.Context, input MoveLeadInput) (MoveLeadOutput, error) {
	if input.From == input.To {
		return MoveLeadOutput{}, nil
	}
	if strings.TrimSpace(input.LeadID) == "" {
		return MoveLeadOutput{}, &DomainError{Code: CodeLeadIDRequired, Message: "lead id is required"}
	}
	if !input.To.IsStage() {
		return MoveLeadOutput{}, &DomainError{
			Code:    CodeInvalidStage,
			Message: fmt.Sprintf("unknown stage %q", input.To),
		}
	}
	if !uc.Policy.CanTransition(input.From, input.To) {
		return MoveLeadOutput{}, &DomainError{
			Code:    CodeTransitionNotAllowed,
			Message: fmt.Sprintf("cannot move a lead from %s to %s", input.From, input.To),
		}
	}

	token := uc.issue(input.LeadID)

	uc.logger.Debug("moving lead",
		zap.String("lead_id", input.LeadID),
		zap.String("from", string(input.From)),
		zap.String("to", string(input.To)))

	if _, err := uc.Gateway.UpdateLeadStatus(ctx, input.LeadID, input.To); err != nil {
		if uc.failed(input.LeadID) {
			// An older update of this lead succeeded and deferred to this one.
			reconcile(ctx, uc.Store, input.LeadID, uc.logger)
		}
		uc.Notifier.Failure(MsgStatusUpdateFailed, err)
		return MoveLeadOutput{}, &TechnicalError{Code: CodeStatusUpdateFailed, Message: MsgStatusUpdateFailed, Err: err}
	}

	if !uc.succeeded(input.LeadID, token) {
		uc.logger.Debug("move superseded, skipping reconciliation", zap.String("lead_id", input.LeadID))
		return MoveLeadOutput{Moved: true, Superseded: true}, nil
	}

	reconciled := reconcile(ctx, uc.Store, input.LeadID, uc.logger)

	publish(ctx, uc.Publisher, queue.LeadEvent{
		Type:   queue.EventLeadStatusChanged,
		LeadID: input.LeadID,
		Status: input.To,
	}, uc.logger)

	uc.Notifier.Success(fmt.Sprintf("lead moved to %s", input.To))
	return MoveLeadOutput{Moved: true, Reconciled: reconciled}, nil
}

func (uc *MoveLeadUseCase) issue(leadID string) uint64 {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	m, ok := uc.moves[leadID]
	if !ok {
		m = &leadMoves{}
		uc.moves[leadID] = m
	}
	m.latest++
	m.inflight++
	return m.latest
}

// succeeded records a successful update and reports whether the caller
// should reconcile.
func (uc *MoveLeadUseCase) succeeded(leadID string, token uint64) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	m := uc.moves[leadID]
	m.inflight--
	defer uc.forget(leadID, m)

	if token < m.lastOK {
		return false
	}
	m.lastOK = token
	if token < m.latest && m.inflight > 0 {
		m.pending = true
		return false
	}
	m.pending = false
	return true
}

// failed records a failed update and reports whether a deferred
// reconciliation is now due.
func (uc *MoveLeadUseCase) failed(leadID string) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	m := uc.moves[leadID]
	m.inflight--
	defer uc.forget(leadID, m)

	if m.pending && m.inflight == 0 {
		m.pending = false
		return true
	}
	return false
}

func (uc *MoveLeadUseCase) forget(leadID string, m *leadMoves) {
	if m.inflight == 0 && !m.pending {
		delete(uc.moves, leadID)
	}
}
