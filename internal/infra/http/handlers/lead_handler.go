package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/lead-pipeline/internal/entity"
	"github.com/xavierca1/lead-pipeline/internal/infra/http/middleware"
	"github.com/xavierca1/lead-pipeline/internal/usecase"
)

type LeadHandler struct {
	MoveLeadUC    *usecase.MoveLeadUseCase
	AddFollowUpUC *usecase.AddFollowUpUseCase
	SaveLeadUC    *usecase.SaveLeadUseCase
}

func NewLeadHandler(
	moveUC *usecase.MoveLeadUseCase,
	followUpUC *usecase.AddFollowUpUseCase,
	saveUC *usecase.SaveLeadUseCase,
) *LeadHandler {
	return &LeadHandler{
		MoveLeadUC:    moveUC,
		AddFollowUpUC: followUpUC,
		SaveLeadUC:    saveUC,
	}
}

type MoveLeadRequest struct {
	From entity.Status `json:"from"`
	To   entity.Status `json:"to"`
}

type AddFollowUpRequest struct {
	Conclusion string `json:"conclusion"`
}

// Move (POST /leads/{id}/move)
func (h *LeadHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req MoveLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON body")
		return
	}

	output, err := h.MoveLeadUC.Execute(r.Context(), usecase.MoveLeadInput{
		LeadID: chi.URLParam(r, "id"),
		From:   req.From,
		To:     req.To,
	})
	if err != nil {
		middleware.RecordLeadMove(string(req.To), "error")
		writeUseCaseError(w, err)
		return
	}

	switch {
	case !output.Moved:
		middleware.RecordLeadMove(string(req.To), "noop")
	case output.Superseded:
		middleware.RecordLeadMove(string(req.To), "superseded")
	default:
		middleware.RecordLeadMove(string(req.To), "ok")
	}
	writeJSON(w, http.StatusOK, output)
}

// AddFollowUp (POST /leads/{id}/follow-ups)
func (h *LeadHandler) AddFollowUp(w http.ResponseWriter, r *http.Request) {
	var req AddFollowUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON body")
		return
	}

	output, err := h.AddFollowUpUC.Execute(r.Context(), usecase.AddFollowUpInput{
		LeadID:     chi.URLParam(r, "id"),
		Conclusion: req.Conclusion,
	})
	if err != nil {
		middleware.RecordLeadMutation("follow_up", "error")
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordLeadMutation("follow_up", "ok")
	writeJSON(w, http.StatusCreated, output)
}

// Create (POST /leads)
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input entity.LeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON body")
		return
	}

	output, err := h.SaveLeadUC.Create(r.Context(), input)
	if err != nil {
		middleware.RecordLeadMutation("create", "error")
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordLeadMutation("create", "ok")
	writeJSON(w, http.StatusCreated, output)
}

// Update (PUT /leads/{id})
func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input entity.LeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON body")
		return
	}

	output, err := h.SaveLeadUC.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		middleware.RecordLeadMutation("update", "error")
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordLeadMutation("update", "ok")
	writeJSON(w, http.StatusOK, output)
}
