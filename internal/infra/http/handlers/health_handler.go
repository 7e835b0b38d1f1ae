package handlers

import (
	"net/http"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/lead-pipeline/internal/pipeline"
)

type HealthHandler struct {
	Store      *pipeline.Store
	RabbitMQ   *amqp091.Connection
	CRMBaseURL string
	StartTime  time.Time
	// StaleAfter marks the board degraded when the last accepted fetch is
	// older than this. Zero disables the check.
	StaleAfter time.Duration
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

func NewHealthHandler(store *pipeline.Store, rabbitMQ *amqp091.Connection, crmBaseURL string, staleAfter time.Duration) *HealthHandler {
	return &HealthHandler{
		Store:      store,
		RabbitMQ:   rabbitMQ,
		CRMBaseURL: crmBaseURL,
		StartTime:  time.Now(),
		StaleAfter: staleAfter,
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)

	if h.CRMBaseURL != "" {
		deps["crm"] = "configured"
	} else {
		deps["crm"] = "unhealthy: CRM_BASE_URL not set"
	}

	if h.RabbitMQ != nil {
		if h.RabbitMQ.IsClosed() {
			deps["rabbitmq"] = "unhealthy: connection closed"
		} else {
			deps["rabbitmq"] = "healthy"
		}
	} else {
		deps["rabbitmq"] = "not configured"
	}

	fetchedAt := h.Store.Snapshot().FetchedAt
	switch {
	case fetchedAt.IsZero():
		deps["board"] = "not loaded"
	case h.StaleAfter > 0 && time.Since(fetchedAt) > h.StaleAfter:
		deps["board"] = "unhealthy: last refresh " + fetchedAt.Format(time.RFC3339)
	default:
		deps["board"] = "healthy"
	}

	status := "healthy"
	for _, v := range deps {
		if v != "healthy" && v != "configured" && v != "not configured" && v != "not loaded" {
			status = "degraded"
			break
		}
	}

	response := HealthResponse{
		Status:       status,
		Version:      "1.0.0",
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	}

	if status == "degraded" {
		writeJSON(w, http.StatusServiceUnavailable, response)
		return
	}
	writeJSON(w, http.StatusOK, response)
}
