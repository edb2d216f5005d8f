package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"watchnest/internal/metadata"
	"watchnest/internal/repository"
)

// MetadataHandler handles movie metadata search and its settings
type MetadataHandler struct {
	client       *metadata.Client
	settingsRepo *repository.SettingsRepository
}

// NewMetadataHandler creates a new metadata handler
func NewMetadataHandler(client *metadata.Client, settingsRepo *repository.SettingsRepository) *MetadataHandler {
	return &MetadataHandler{
		client:       client,
		settingsRepo: settingsRepo,
	}
}

// Search handles GET /api/metadata/search?query=...&media_type=...
func (h *MetadataHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	mediaType := r.URL.Query().Get("media_type")
	if mediaType == "" {
		mediaType = "movie"
	}

	results, err := h.client.Search(r.Context(), query, mediaType)
	if err != nil {
		if errors.Is(err, metadata.ErrNotConfigured) {
			respondError(w, http.StatusServiceUnavailable, err.Error(), nil)
			return
		}
		respondError(w, http.StatusBadGateway, "Metadata search failed", err)
		return
	}

	respondJSON(w, http.StatusOK, results)
}

// GetSettings handles GET /api/metadata/settings, returning a masked view
// of the configured API key.
func (h *MetadataHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"configured": h.client.IsConfigured(),
		"api_key":    h.client.MaskedKey(),
	})
}

type updateSettingsRequest struct {
	APIKey string `json:"api_key"`
}

// UpdateSettings handles PUT /api/metadata/settings, storing a new API key
func (h *MetadataHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidRequestBody, err)
		return
	}
	if req.APIKey == "" {
		respondError(w, http.StatusBadRequest, "API key is required", nil)
		return
	}

	if err := h.settingsRepo.SetTMDBAPIKey(req.APIKey); err != nil {
		respondError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		return
	}
	h.client.SetAPIKey(req.APIKey)

	respondJSON(w, http.StatusOK, map[string]any{
		"configured": true,
		"api_key":    h.client.MaskedKey(),
	})
}
