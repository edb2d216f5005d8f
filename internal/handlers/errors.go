package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"watchnest/internal/service"
	"watchnest/internal/validation"
)

// errorResponse is the JSON envelope for all error replies
type errorResponse struct {
	Error string `json:"error"`
}

// respondJSON writes a JSON response with the given status
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// respondError writes a JSON error response. Server-side detail goes to the
// log, never to the client.
func respondError(w http.ResponseWriter, status int, userMsg string, err error) {
	if err != nil {
		log.Printf("%s: %v", userMsg, err)
	}
	respondJSON(w, status, errorResponse{Error: userMsg})
}

// respondServiceError maps known service errors onto HTTP statuses. Unknown
// errors become a generic 500.
func respondServiceError(w http.ResponseWriter, err error) {
	var validationErr *validation.Error
	if errors.As(err, &validationErr) {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: validationErr.Error()})
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrSessionExpired):
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrGroupNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrDuplicateTitle),
		errors.Is(err, service.ErrAlreadyInGroup),
		errors.Is(err, service.ErrNotInGroup),
		errors.Is(err, service.ErrInvalidInviteCode),
		errors.Is(err, service.ErrNoCandidates),
		errors.Is(err, service.ErrInvalidResetToken):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		respondError(w, http.StatusInternalServerError, ErrInternalServerError, err)
	}
}
