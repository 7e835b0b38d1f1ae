package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/lead-pipeline/internal/entity"
	"github.com/xavierca1/lead-pipeline/internal/infra/http/middleware"
	"github.com/xavierca1/lead-pipeline/internal/infra/notify"
	"github.com/xavierca1/lead-pipeline/internal/pipeline"
)

type BoardHandler struct {
	Store   *pipeline.Store
	Notices *notify.Center
}

func NewBoardHandler(store *pipeline.Store, notifications *notify.Center) *BoardHandler {
	return &BoardHandler{
		Store:   store,
		Notices: notifications,
	}
}

// GetBoard (GET /board?q=term). The search term is applied to the caller's
// session only when q is present, so plain reloads keep the current search.
func (h *BoardHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	sess := sessionFor(h.Store, w, r)
	if q, ok := r.URL.Query()["q"]; ok {
		term := ""
		if len(q) > 0 {
			term = q[0]
		}
		writeJSON(w, http.StatusOK, sess.ApplyFilter(term))
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

// SetFilters (PUT /board/filters) changes the server-side filters and refetches.
func (h *BoardHandler) SetFilters(w http.ResponseWriter, r *http.Request) {
	var filters entity.ServerFilters
	if err := json.NewDecoder(r.Body).Decode(&filters); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON body")
		return
	}

	sess := sessionFor(h.Store, w, r)
	h.refreshed(w, sess, "filters", h.Store.SetServerFilters(r.Context(), filters))
}

// Refresh (POST /board/refresh)
func (h *BoardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	sess := sessionFor(h.Store, w, r)
	h.refreshed(w, sess, "manual", h.Store.Refresh(r.Context()))
}

func (h *BoardHandler) refreshed(w http.ResponseWriter, sess *pipeline.Session, trigger string, err error) {
	switch {
	case err == nil:
		middleware.RecordBoardRefresh(trigger, "ok")
		writeJSON(w, http.StatusOK, sess.View())
	case errors.Is(err, pipeline.ErrSuperseded):
		// A newer fetch owns the board; report what is there now.
		middleware.RecordBoardRefresh(trigger, "superseded")
		writeJSON(w, http.StatusOK, sess.View())
	default:
		middleware.RecordBoardRefresh(trigger, "error")
		writeError(w, http.StatusBadGateway, "FETCH_FAILED", pipeline.MsgFetchLeadsFailed)
	}
}

// GetLead (GET /leads/{id}) opens the lead detail.
func (h *BoardHandler) GetLead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "LEAD_ID_REQUIRED", "lead id is required")
		return
	}

	lead, err := sessionFor(h.Store, w, r).OpenDetail(r.Context(), id)
	if err != nil {
		if errors.Is(err, pipeline.ErrSuperseded) {
			writeError(w, http.StatusConflict, "SUPERSEDED", "another lead was opened")
			return
		}
		writeError(w, http.StatusBadGateway, "FETCH_FAILED", pipeline.MsgFetchLeadFailed)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// GetDetail (GET /detail) returns the lead the caller has open, if any.
func (h *BoardHandler) GetDetail(w http.ResponseWriter, r *http.Request) {
	lead, ok := sessionFor(h.Store, w, r).Detail()
	if !ok {
		writeError(w, http.StatusNotFound, "NO_DETAIL", "no lead detail open")
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// CloseDetail (DELETE /detail)
func (h *BoardHandler) CloseDetail(w http.ResponseWriter, r *http.Request) {
	sessionFor(h.Store, w, r).CloseDetail()
	w.WriteHeader(http.StatusNoContent)
}

// Notifications (GET /notifications)
func (h *BoardHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Notices.Recent())
}
