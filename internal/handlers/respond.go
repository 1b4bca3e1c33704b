package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mintora/mintora-api/internal/apperr"
)

// errorResponse is the JSON body for failed requests
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// writeError maps a service error onto its HTTP status and writes the
// error body. Internal error details stay out of the response.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperr.StatusCode(err), errorResponse{Error: apperr.MessageOf(err)})
}

// writeBadRequest writes a 400 with the given message
func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: message})
}
