// Package response holds the JSON response helpers shared by all handlers,
// so every endpoint returns the same envelope for errors.
package response

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorResponse is the error envelope returned by every endpoint. Details
// carries optional context, typically the offending value or per-field
// validation messages.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// RespondJSON writes data as JSON with the given status code. A nil data
// writes only the status, which is how 204 No Content is sent.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("failed to encode JSON response: %v", err)
		}
	}
}

// RespondError writes the error envelope with the given status code.
//
//	response.RespondError(w, http.StatusNotFound, apperrors.ErrPortfolioNotFound.Error(), id)
func RespondError(w http.ResponseWriter, status int, message string, details any) {
	RespondJSON(w, status, ErrorResponse{Error: message, Details: details})
}
