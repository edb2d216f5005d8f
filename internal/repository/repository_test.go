package repository

import (
	"errors"
	"path/filepath"
	"testing"

	"watchnest/internal/database"
	"watchnest/internal/models"
)

// setupTestDB opens a throwaway SQLite database with the full schema applied
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database-backed test in short mode")
	}

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, repo *UserRepository, email, name string) *models.User {
	t.Helper()
	user, err := repo.CreateUser(email, "hashed-password", name)
	if err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}

func TestUserNotFoundReturnsNil(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user, err := repo.GetUserByEmail("nobody@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil for unknown email, got %+v", user)
	}

	user, err = repo.GetUserByID(9999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil for unknown id, got %+v", user)
	}
}

func TestDuplicateInviteCodeDetection(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	groups := NewGroupRepository(db)

	alice := createTestUser(t, users, "alice@example.com", "Alice")
	bob := createTestUser(t, users, "bob@example.com", "Bob")

	if _, err := groups.CreateGroup("Alice's Group", "AAAA1111", alice.ID); err != nil {
		t.Fatalf("failed to create first group: %v", err)
	}

	_, err := groups.CreateGroup("Bob's Group", "AAAA1111", bob.ID)
	if !errors.Is(err, ErrDuplicateInviteCode) {
		t.Errorf("expected ErrDuplicateInviteCode for colliding code, got %v", err)
	}

	group, err := groups.CreateGroup("Bob's Group", "BBBB2222", bob.ID)
	if err != nil {
		t.Fatalf("failed to create group with fresh code: %v", err)
	}

	if err := groups.SetInviteCode(group.ID, "AAAA1111"); !errors.Is(err, ErrDuplicateInviteCode) {
		t.Errorf("expected ErrDuplicateInviteCode from SetInviteCode, got %v", err)
	}
}

func TestGroupMembership(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	groups := NewGroupRepository(db)

	owner := createTestUser(t, users, "owner@example.com", "Owner")
	member := createTestUser(t, users, "member@example.com", "Member")
	outsider := createTestUser(t, users, "outsider@example.com", "Outsider")

	group, err := groups.CreateGroup("Movie Night", "CAFE0123", owner.ID)
	if err != nil {
		t.Fatalf("failed to create group: %v", err)
	}

	if err := groups.AddMember(group.ID, member.ID); err != nil {
		t.Fatalf("failed to add member: %v", err)
	}

	for _, tc := range []struct {
		userID int64
		want   bool
	}{
		{owner.ID, true},
		{member.ID, true},
		{outsider.ID, false},
	} {
		got, err := groups.IsMember(group.ID, tc.userID)
		if err != nil {
			t.Fatalf("IsMember failed for user %d: %v", tc.userID, err)
		}
		if got != tc.want {
			t.Errorf("IsMember(user %d) = %v, want %v", tc.userID, got, tc.want)
		}
	}

	ids, err := groups.MemberIDs(group.ID)
	if err != nil {
		t.Fatalf("MemberIDs failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != owner.ID || ids[1] != member.ID {
		t.Errorf("MemberIDs = %v, want [%d %d] in join order", ids, owner.ID, member.ID)
	}

	// Joining updates the user's group reference
	reloaded, err := users.GetUserByID(member.ID)
	if err != nil {
		t.Fatalf("failed to reload member: %v", err)
	}
	if reloaded.FamilyGroupID == nil || *reloaded.FamilyGroupID != group.ID {
		t.Errorf("member group reference = %v, want %d", reloaded.FamilyGroupID, group.ID)
	}

	if err := groups.DisbandGroup(group.ID); err != nil {
		t.Fatalf("failed to disband group: %v", err)
	}

	gone, err := groups.GetGroupByID(group.ID)
	if err != nil {
		t.Fatalf("unexpected error after disband: %v", err)
	}
	if gone != nil {
		t.Errorf("expected group to be gone after disband, got %+v", gone)
	}
	reloaded, err = users.GetUserByID(owner.ID)
	if err != nil {
		t.Fatalf("failed to reload owner: %v", err)
	}
	if reloaded.FamilyGroupID != nil {
		t.Errorf("owner group reference should be cleared after disband, got %d", *reloaded.FamilyGroupID)
	}
}

func TestTitleExistsIgnoresCase(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	items := NewWatchlistRepository(db)

	user := createTestUser(t, users, "cinephile@example.com", "Cinephile")
	other := createTestUser(t, users, "other@example.com", "Other")

	if _, err := items.CreateItem(&models.WatchlistItem{
		UserID:    user.ID,
		Title:     "The Matrix",
		MediaType: models.MediaTypeMovie,
		Status:    models.StatusWantToWatch,
	}); err != nil {
		t.Fatalf("failed to create item: %v", err)
	}

	for _, tc := range []struct {
		name   string
		userID int64
		title  string
		want   bool
	}{
		{"exact match", user.ID, "The Matrix", true},
		{"different case", user.ID, "the MATRIX", true},
		{"surrounding whitespace", user.ID, "  The Matrix  ", true},
		{"different title", user.ID, "The Matrix Reloaded", false},
		{"other user", other.ID, "The Matrix", false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := items.TitleExists(tc.userID, tc.title)
			if err != nil {
				t.Fatalf("TitleExists failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("TitleExists(%q) = %v, want %v", tc.title, got, tc.want)
			}
		})
	}
}

func TestWatchlistItemLookupAndCount(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	items := NewWatchlistRepository(db)

	user := createTestUser(t, users, "viewer@example.com", "Viewer")

	created, err := items.CreateItem(&models.WatchlistItem{
		UserID:    user.ID,
		Title:     "Spirited Away",
		MediaType: models.MediaTypeMovie,
		Status:    models.StatusWantToWatch,
	})
	if err != nil {
		t.Fatalf("failed to create item: %v", err)
	}

	got, err := items.GetItemByID(created.ID)
	if err != nil {
		t.Fatalf("GetItemByID failed: %v", err)
	}
	if got == nil || got.Title != "Spirited Away" || got.UserID != user.ID {
		t.Errorf("GetItemByID = %+v, want created item", got)
	}

	missing, err := items.GetItemByID(created.ID + 1000)
	if err != nil {
		t.Fatalf("unexpected error for missing item: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing item, got %+v", missing)
	}

	count, err := items.CountItems(user.ID)
	if err != nil {
		t.Fatalf("CountItems failed: %v", err)
	}
	if count != 1 {
		t.Errorf("CountItems = %d, want 1", count)
	}

	deleted, err := items.DeleteItem(created.ID, user.ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteItem = (%v, %v), want (true, nil)", deleted, err)
	}
	count, err = items.CountItems(user.ID)
	if err != nil {
		t.Fatalf("CountItems failed after delete: %v", err)
	}
	if count != 0 {
		t.Errorf("CountItems after delete = %d, want 0", count)
	}
}
