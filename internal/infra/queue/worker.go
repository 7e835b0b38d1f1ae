package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-pipeline/internal/entity"
	"github.com/xavierca1/lead-pipeline/internal/pipeline"
)

// Refresher is the part of the pipeline store the worker drives.
type Refresher interface {
	Refresh(ctx context.Context) error
	RefreshDetail(ctx context.Context, id string) (*entity.Lead, error)
}

type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// Worker reconciles the local board when another instance changes a lead.
type Worker struct {
	Channel Consumer
	Store   Refresher
	Origin  string
	logger  *zap.Logger
}

func NewWorker(ch Consumer, store Refresher, origin string, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		Channel: ch,
		Store:   store,
		Origin:  origin,
		logger:  logger,
	}
}

// Start consumes queueName until ctx is done or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack
		true,      // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	w.logger.Info("lead event worker listening", zap.String("queue", queueName))
	w.Serve(ctx, msgs)
	return nil
}

func (w *Worker) Serve(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("lead event worker stopped")
			return
		case d, ok := <-msgs:
			if !ok {
				w.logger.Warn("lead event channel closed")
				return
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var event LeadEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		w.logger.Warn("invalid lead event", zap.Error(err))
		// Malformed: dead-letter it, never requeue.
		d.Nack(false, false)
		return
	}

	if event.Origin == w.Origin {
		d.Ack(false)
		return
	}

	w.logger.Debug("lead event received",
		zap.String("type", event.Type),
		zap.String("lead_id", event.LeadID),
		zap.String("origin", event.Origin))

	if err := w.process(ctx, event); err != nil {
		w.logger.Warn("lead event reconciliation failed", zap.String("lead_id", event.LeadID), zap.Error(err))
		d.Nack(false, false)
		return
	}
	d.Ack(false)
}

func (w *Worker) process(ctx context.Context, event LeadEvent) error {
	if err := w.Store.Refresh(ctx); err != nil && !errors.Is(err, pipeline.ErrSuperseded) {
		return err
	}
	if event.LeadID == "" {
		return nil
	}
	if _, err := w.Store.RefreshDetail(ctx, event.LeadID); err != nil && !errors.Is(err, pipeline.ErrSuperseded) {
		return err
	}
	return nil
}
