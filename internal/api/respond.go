package api

import (
	"encoding/json"
	"log"
	"net/http"
)

// errorResponse is the error body shape for every endpoint.
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Message: message})
}

// respondInternal reports an unexpected failure with a generic message.
// Internal detail is logged, never sent to the caller.
func respondInternal(w http.ResponseWriter, err error) {
	log.Printf("[API] Internal error: %v", err)
	respondError(w, http.StatusInternalServerError, "Server error")
}
