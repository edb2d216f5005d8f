package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"watchnest/internal/models"
	"watchnest/internal/service"
)

// WatchlistHandler handles watchlist endpoints
type WatchlistHandler struct {
	watchlistService *service.WatchlistService
}

// NewWatchlistHandler creates a new watchlist handler
func NewWatchlistHandler(watchlistService *service.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{watchlistService: watchlistService}
}

// List handles GET /api/watchlist with optional media_type and status filters
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	filters := models.ListFilters{
		MediaType: r.URL.Query().Get("media_type"),
		Status:    r.URL.Query().Get("status"),
	}

	items, err := h.watchlistService.List(user.ID, filters)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, itemViews(items, false))
}

type addItemRequest struct {
	Title       string `json:"title"`
	MediaType   string `json:"media_type"`
	Status      string `json:"status"`
	Year        *int   `json:"year"`
	PosterURL   string `json:"poster_url"`
	Description string `json:"description"`
	Rating      *int   `json:"rating"`
	Notes       string `json:"notes"`
	IsPrivate   bool   `json:"is_private"`
}

// Add handles POST /api/watchlist
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidRequestBody, err)
		return
	}

	item := &models.WatchlistItem{
		Title:       req.Title,
		MediaType:   req.MediaType,
		Status:      req.Status,
		Year:        req.Year,
		PosterURL:   req.PosterURL,
		Description: req.Description,
		Rating:      req.Rating,
		Notes:       req.Notes,
		IsPrivate:   req.IsPrivate,
	}

	created, err := h.watchlistService.Add(user.ID, item)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, itemView(created, false))
}

type updateItemRequest struct {
	Status    *string `json:"status"`
	Rating    *int    `json:"rating"`
	Notes     *string `json:"notes"`
	IsPrivate *bool   `json:"is_private"`
}

// Update handles PATCH /api/watchlist/{id}
func (h *WatchlistHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	itemID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid item ID", nil)
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidRequestBody, err)
		return
	}

	updates := models.ItemUpdates{
		Status:    req.Status,
		Rating:    req.Rating,
		Notes:     req.Notes,
		IsPrivate: req.IsPrivate,
	}

	item, err := h.watchlistService.Update(user.ID, itemID, updates)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, itemView(item, false))
}

// Delete handles DELETE /api/watchlist/{id}
func (h *WatchlistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	itemID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid item ID", nil)
		return
	}

	if err := h.watchlistService.Delete(user.ID, itemID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Shared handles GET /api/watchlist/shared, the group's combined
// want-to-watch list with private items filtered out.
func (h *WatchlistHandler) Shared(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	items, err := h.watchlistService.SharedWatchlist(user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, itemViews(items, true))
}

// RandomPick handles GET /api/watchlist/shared/pick
func (h *WatchlistHandler) RandomPick(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	item, err := h.watchlistService.RandomPick(user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, itemView(item, true))
}
