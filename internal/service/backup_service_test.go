package service

import (
	"bytes"
	"testing"

	"watchnest/internal/models"
	"watchnest/internal/repository"
)

func TestBackupRoundTrip(t *testing.T) {
	source := setupServices(t)

	owner := registerUser(t, source, "owner@example.com", "Owner")
	member := registerUser(t, source, "member@example.com", "Member")

	group, err := source.groups.CreateGroup(owner.ID, "Movie Night")
	if err != nil {
		t.Fatalf("failed to create group: %v", err)
	}
	if _, err := source.groups.JoinGroup(member.ID, group.InviteCode); err != nil {
		t.Fatalf("failed to join group: %v", err)
	}

	if _, err := source.watchlist.Add(owner.ID, &models.WatchlistItem{
		Title:     "Alien",
		MediaType: models.MediaTypeMovie,
		Status:    models.StatusWantToWatch,
	}); err != nil {
		t.Fatalf("failed to add item: %v", err)
	}
	if _, err := source.watchlist.Add(member.ID, &models.WatchlistItem{
		Title:     "Severance",
		MediaType: models.MediaTypeTV,
		Status:    models.StatusWatching,
		IsPrivate: true,
	}); err != nil {
		t.Fatalf("failed to add second item: %v", err)
	}

	settings := repository.NewSettingsRepository(source.db)
	if err := settings.SetTMDBAPIKey("backup-test-key"); err != nil {
		t.Fatalf("failed to store setting: %v", err)
	}

	var buf bytes.Buffer
	if err := NewBackupService(source.db).ExportToWriter(&buf); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	// Restore into an empty database and compare what came through
	target := setupServices(t)
	if err := NewBackupService(target.db).ImportFromReader(&buf); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	restored, err := target.groups.GetGroup(owner.ID)
	if err != nil {
		t.Fatalf("failed to load restored group: %v", err)
	}
	if restored.Group.InviteCode != group.InviteCode {
		t.Errorf("restored invite code = %q, want %q", restored.Group.InviteCode, group.InviteCode)
	}
	if len(restored.Members) != 2 {
		t.Errorf("restored group has %d members, want 2", len(restored.Members))
	}

	items, err := target.watchlist.List(owner.ID, models.ListFilters{})
	if err != nil {
		t.Fatalf("failed to list restored items: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Alien" {
		t.Errorf("restored owner items = %+v, want only Alien", items)
	}

	memberItems, err := target.watchlist.List(member.ID, models.ListFilters{})
	if err != nil {
		t.Fatalf("failed to list restored member items: %v", err)
	}
	if len(memberItems) != 1 || !memberItems[0].IsPrivate {
		t.Errorf("restored member items = %+v, want one private item", memberItems)
	}

	targetSettings := repository.NewSettingsRepository(target.db)
	if got := targetSettings.GetTMDBAPIKey(); got != "backup-test-key" {
		t.Errorf("restored setting = %q, want %q", got, "backup-test-key")
	}
}
