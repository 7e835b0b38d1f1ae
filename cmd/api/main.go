package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-pipeline/internal/config"
	"github.com/xavierca1/lead-pipeline/internal/entity"
	"github.com/xavierca1/lead-pipeline/internal/infra/http/handlers"
	"github.com/xavierca1/lead-pipeline/internal/infra/integration/crm"
	"github.com/xavierca1/lead-pipeline/internal/infra/logging"
	"github.com/xavierca1/lead-pipeline/internal/infra/notify"
	"github.com/xavierca1/lead-pipeline/internal/infra/queue"
	"github.com/xavierca1/lead-pipeline/internal/infra/worker"
	"github.com/xavierca1/lead-pipeline/internal/pipeline"
	"github.com/xavierca1/lead-pipeline/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, !cfg.IsProduction())
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	instanceID := uuid.New().String()

	// 1. Gateway, notifications and the board store
	gateway := crm.NewClient(cfg.CRMBaseURL, cfg.CRMAPIToken, cfg.CRMTimeout, logger.Named("crm"))
	notices := notify.NewCenter(50, logger.Named("notify"))
	store := pipeline.NewStore(gateway, notices, logger.Named("store"))

	// 2. Lead events (optional)
	var publisher usecase.EventPublisher = queue.NopProducer{}
	var amqpConn *amqp091.Connection
	if cfg.AMQPURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.AMQPURL, instanceID)
		if err != nil {
			logger.Fatal("rabbitmq unavailable", zap.Error(err))
		}
		defer rabbitMQ.Close()
		amqpConn = rabbitMQ.Conn

		publisher = queue.NewProducer(rabbitMQ.Ch, instanceID)
		eventWorker := queue.NewWorker(rabbitMQ.Ch, store, instanceID, logger.Named("events"))
		go func() {
			if err := eventWorker.Start(ctx, rabbitMQ.Queue); err != nil {
				logger.Error("lead event worker failed", zap.Error(err))
			}
		}()
	}

	// 3. UseCases
	policy := entity.NewTransitionPolicy(cfg.TerminalStages...)
	moveUC := usecase.NewMoveLeadUseCase(gateway, store, publisher, notices, policy, logger.Named("move"))
	followUpUC := usecase.NewAddFollowUpUseCase(gateway, store, publisher, notices, logger.Named("follow_up"))
	saveUC := usecase.NewSaveLeadUseCase(gateway, store, publisher, notices, logger.Named("save"))

	// 4. Handlers
	hub := handlers.NewBoardHub(store, cfg.AllowedOrigins, logger.Named("ws"))
	defer hub.Close()

	router := newRouter(routes{
		board:  handlers.NewBoardHandler(store, notices),
		leads:  handlers.NewLeadHandler(moveUC, followUpUC, saveUC),
		hub:    hub,
		health: handlers.NewHealthHandler(store, amqpConn, gateway.BaseURL(), 3*cfg.RefreshInterval),
	}, cfg.AllowedOrigins, logger.Named("http"))

	// 5. Initial load and periodic reconciliation
	if cfg.RefreshInterval > 0 {
		go worker.NewRefreshWorker(store, cfg.RefreshInterval, logger.Named("refresh")).Start(ctx)
	} else if err := store.Refresh(ctx); err != nil {
		logger.Warn("initial board load failed", zap.Error(err))
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	logger.Info("lead pipeline listening",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
		zap.String("instance", instanceID),
		zap.Strings("terminal_stages", stageNames(policy.Terminal())))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func stageNames(stages []entity.Status) []string {
	out := make([]string, len(stages))
	for i, s := range stages {
		out[i] = string(s)
	}
	return out
}
