package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"watchnest/internal/service"
	"watchnest/internal/validation"
)

func TestRespondJSONWritesStatusAndBody(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondJSON(recorder, http.StatusCreated, map[string]string{"status": "ok"})

	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", recorder.Code)
	}
	if ct := recorder.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type, got %q", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestRespondErrorLogsDetail(t *testing.T) {
	var buf bytes.Buffer
	logger := log.Default()
	originalOutput := logger.Writer()
	logger.SetOutput(&buf)
	defer logger.SetOutput(originalOutput)

	recorder := httptest.NewRecorder()

	respondError(recorder, http.StatusInternalServerError, "Internal server error", errors.New("boom"))

	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", recorder.Code)
	}

	logOutput := buf.String()
	if !strings.Contains(logOutput, "boom") {
		t.Errorf("expected log to include error detail, got %q", logOutput)
	}
	if strings.Contains(recorder.Body.String(), "boom") {
		t.Errorf("error detail leaked to the client: %q", recorder.Body.String())
	}
}

func TestRespondServiceErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"session expired", service.ErrSessionExpired, http.StatusUnauthorized},
		{"item not found", service.ErrItemNotFound, http.StatusNotFound},
		{"duplicate title", service.ErrDuplicateTitle, http.StatusBadRequest},
		{"already in group", service.ErrAlreadyInGroup, http.StatusBadRequest},
		{"invalid invite code", service.ErrInvalidInviteCode, http.StatusBadRequest},
		{"not in group", service.ErrNotInGroup, http.StatusBadRequest},
		{"no candidates", service.ErrNoCandidates, http.StatusBadRequest},
		{"email taken", service.ErrEmailTaken, http.StatusBadRequest},
		{"validation failure", validation.ValidateEmail("not-an-email"), http.StatusBadRequest},
		{"unknown error", errors.New("database on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			respondServiceError(recorder, tt.err)
			if recorder.Code != tt.want {
				t.Errorf("status = %d, want %d", recorder.Code, tt.want)
			}

			var body errorResponse
			if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
				t.Fatalf("response is not valid JSON: %v", err)
			}
			if body.Error == "" {
				t.Error("expected a non-empty error message")
			}
		})
	}
}

func TestRespondServiceErrorHidesUnknownDetail(t *testing.T) {
	recorder := httptest.NewRecorder()

	var buf bytes.Buffer
	logger := log.Default()
	originalOutput := logger.Writer()
	logger.SetOutput(&buf)
	defer logger.SetOutput(originalOutput)

	respondServiceError(recorder, errors.New("secret internal detail"))

	if strings.Contains(recorder.Body.String(), "secret internal detail") {
		t.Errorf("internal detail leaked to the client: %q", recorder.Body.String())
	}
}
