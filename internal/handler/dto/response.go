package dto

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// HealthResponse represents the response for GET /healthz.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// DeleteResponse represents the response for DELETE /api/contacts/{id}.
type DeleteResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes a standard error response.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, NewErrorResponse(code, message))
}
