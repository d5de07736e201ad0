package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/NullMeDev/mediabias/internal/apperrors"
)

// errorResponse is the body of every non-2xx reply
type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Failed to marshal JSON response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondWithError sends an error message
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, errorResponse{Error: message})
}

// respondWithAppError maps err to a status and its user-facing message
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	respondWithJSON(w, status, errorResponse{
		Error:     apperrors.UserMessage(err),
		Code:      apperrors.Code(err),
		RequestID: requestIDFrom(r.Context()),
	})
}

func statusFor(err error) int {
	switch {
	case apperrors.IsType(err, apperrors.ErrorTypeInput):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
