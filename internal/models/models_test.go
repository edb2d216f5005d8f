package models

import (
	"testing"
	"time"
)

func TestSessionIsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{
			name:      "future expiration",
			expiresAt: time.Now().Add(1 * time.Hour),
			want:      false,
		},
		{
			name:      "just expired",
			expiresAt: time.Now().Add(-1 * time.Second),
			want:      true,
		},
		{
			name:      "expired yesterday",
			expiresAt: time.Now().Add(-24 * time.Hour),
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := Session{
				ID:        "test-session",
				UserID:    1,
				ExpiresAt: tt.expiresAt,
				CreatedAt: time.Now().Add(-1 * time.Hour),
			}
			result := session.IsExpired()
			if result != tt.want {
				t.Errorf("Session.IsExpired() = %v, want %v", result, tt.want)
			}
		})
	}
}

func TestValidMediaType(t *testing.T) {
	tests := []struct {
		name      string
		mediaType string
		want      bool
	}{
		{name: "movie", mediaType: MediaTypeMovie, want: true},
		{name: "tv", mediaType: MediaTypeTV, want: true},
		{name: "empty", mediaType: "", want: false},
		{name: "unknown", mediaType: "podcast", want: false},
		{name: "wrong case", mediaType: "Movie", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidMediaType(tt.mediaType); got != tt.want {
				t.Errorf("ValidMediaType(%q) = %v, want %v", tt.mediaType, got, tt.want)
			}
		})
	}
}

func TestValidStatus(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   bool
	}{
		{name: "want to watch", status: StatusWantToWatch, want: true},
		{name: "watching", status: StatusWatching, want: true},
		{name: "watched", status: StatusWatched, want: true},
		{name: "empty", status: "", want: false},
		{name: "unknown", status: "abandoned", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidStatus(tt.status); got != tt.want {
				t.Errorf("ValidStatus(%q) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestItemIsWatched(t *testing.T) {
	item := WatchlistItem{Title: "Heat", Status: StatusWantToWatch}
	if item.IsWatched() {
		t.Error("want_to_watch item should not report watched")
	}

	item.Status = StatusWatched
	if !item.IsWatched() {
		t.Error("watched item should report watched")
	}
}

func TestUserHasGroup(t *testing.T) {
	groupID := int64(7)

	user := User{ID: 1, Email: "a@example.com"}
	if user.HasGroup() {
		t.Error("expected user without group reference to have no group")
	}

	user.FamilyGroupID = &groupID
	if !user.HasGroup() {
		t.Error("expected user with group reference to have a group")
	}
}

func TestGroupIsOwner(t *testing.T) {
	group := FamilyGroup{ID: 1, OwnerID: 42}

	if !group.IsOwner(42) {
		t.Error("expected owner to be recognized")
	}
	if group.IsOwner(43) {
		t.Error("expected non-owner to be rejected")
	}
}
