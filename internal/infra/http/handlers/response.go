package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xavierca1/lead-pipeline/internal/usecase"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeUseCaseError maps use case errors to HTTP statuses. Technical errors
// expose only their notification message.
func writeUseCaseError(w http.ResponseWriter, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		status := http.StatusBadRequest
		if de.Code == usecase.CodeValidation || de.Code == usecase.CodeTransitionNotAllowed {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, de.Code, de.Message)
		return
	}

	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		writeError(w, http.StatusBadGateway, te.Code, te.Message)
		return
	}

	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "unexpected error")
}
