package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_http_requests_total",
			Help: "HTTP requests by route pattern and status",
		},
		[]string{"method", "route", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	requestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pipeline_http_requests_in_flight",
			Help: "HTTP requests being served, board sockets included",
		},
	)

	leadMoves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_lead_moves_total",
			Help: "Stage transitions by outcome",
		},
		[]string{"to", "result"},
	)

	leadMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_lead_mutations_total",
			Help: "Lead create, update and follow-up calls by outcome",
		},
		[]string{"operation", "result"},
	)

	boardRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_board_refreshes_total",
			Help: "Lead list fetches by outcome (ok, error, superseded)",
		},
		[]string{"trigger", "result"},
	)

	wsClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pipeline_board_ws_clients",
			Help: "Connected board WebSocket clients",
		},
	)
)

// Metrics records every request under its chi route pattern, so lead ids
// never become label values.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestsInFlight.Inc()
		defer requestsInFlight.Dec()

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := routePattern(r)
		requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(statusOf(ww))).Inc()
		requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// statusOf treats a handler that never wrote a header as 200.
func statusOf(ww chimw.WrapResponseWriter) int {
	if ww.Status() == 0 {
		return http.StatusOK
	}
	return ww.Status()
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

func RecordLeadMove(to, result string) {
	leadMoves.WithLabelValues(to, result).Inc()
}

func RecordLeadMutation(operation, result string) {
	leadMutations.WithLabelValues(operation, result).Inc()
}

func RecordBoardRefresh(trigger, result string) {
	boardRefreshes.WithLabelValues(trigger, result).Inc()
}

func WSClientConnected() {
	wsClients.Inc()
}

func WSClientDisconnected() {
	wsClients.Dec()
}
