package crm

import (
	"encoding/json"
	"fmt"

	"github.com/xavierca1/lead-pipeline/internal/entity"
)

// envelope is the response wrapper of every backend endpoint.
type envelope struct {
	Success *bool           `json:"success,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data"`
}

type updateStatusRequest struct {
	Status entity.Status `json:"status"`
}

type followUpRequest struct {
	Conclusion string `json:"conclusion"`
}

// APIError is a non-success answer from the backend: a non-2xx status or a
// body with "success": false (validation rejection).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("crm api error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("crm api error (status %d): %s", e.StatusCode, e.Message)
}
