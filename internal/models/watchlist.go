package models

import "time"

// Media types for watchlist items
const (
	MediaTypeMovie = "movie"
	MediaTypeTV    = "tv"
)

// Watch statuses for watchlist items
const (
	StatusWantToWatch = "want_to_watch"
	StatusWatching    = "watching"
	StatusWatched     = "watched"
)

// WatchlistItem represents a movie or TV show on a user's watchlist
type WatchlistItem struct {
	ID          int64
	UserID      int64
	Title       string
	MediaType   string
	Status      string
	Year        *int
	PosterURL   string
	Description string
	Rating      *int
	Notes       string
	IsPrivate   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// OwnerName is populated on shared views via JOIN
	OwnerName string
}

// ValidMediaType reports whether t is a recognized media type
func ValidMediaType(t string) bool {
	return t == MediaTypeMovie || t == MediaTypeTV
}

// ValidStatus reports whether s is a recognized watch status
func ValidStatus(s string) bool {
	return s == StatusWantToWatch || s == StatusWatching || s == StatusWatched
}

// IsWatched reports whether the item has been watched
func (i *WatchlistItem) IsWatched() bool {
	return i.Status == StatusWatched
}

// ListFilters narrows a watchlist query; nil-equivalent zero values mean "any"
type ListFilters struct {
	MediaType string
	Status    string
}

// ItemUpdates is a partial update to a watchlist item. Nil fields are
// left unchanged.
type ItemUpdates struct {
	Status    *string
	Rating    *int
	Notes     *string
	IsPrivate *bool
}
