package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-pipeline/internal/infra/http/handlers"
	"github.com/xavierca1/lead-pipeline/internal/infra/http/middleware"
)

type routes struct {
	board  *handlers.BoardHandler
	leads  *handlers.LeadHandler
	hub    *handlers.BoardHub
	health *handlers.HealthHandler
}

func newRouter(rt routes, allowedOrigins []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.Metrics)

	r.Get("/health", rt.health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/board", rt.board.GetBoard)
	r.Put("/board/filters", rt.board.SetFilters)
	r.Post("/board/refresh", rt.board.Refresh)
	r.Get("/notifications", rt.board.Notifications)

	r.Get("/detail", rt.board.GetDetail)
	r.Delete("/detail", rt.board.CloseDetail)

	r.Post("/leads", rt.leads.Create)
	r.Get("/leads/{id}", rt.board.GetLead)
	r.Put("/leads/{id}", rt.leads.Update)
	r.Post("/leads/{id}/move", rt.leads.Move)
	r.Post("/leads/{id}/follow-ups", rt.leads.AddFollowUp)

	r.Get("/ws/board", rt.hub.ServeHTTP)

	return r
}
