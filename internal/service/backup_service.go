package service

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"watchnest/internal/database"
)

// BackupData represents the complete database backup structure
type BackupData struct {
	Version    string                `json:"version"`
	ExportedAt time.Time             `json:"exported_at"`
	Users      []UserBackup          `json:"users"`
	Groups     []GroupBackup         `json:"groups"`
	Items      []WatchlistItemBackup `json:"items"`
	Settings   []SettingBackup       `json:"settings"`
}

// SettingBackup represents an application setting for backup
type SettingBackup struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// UserBackup represents a user record for backup
type UserBackup struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"password_hash"`
	Name          string    `json:"name"`
	OAuthProvider string    `json:"oauth_provider"`
	OAuthSubject  string    `json:"oauth_subject"`
	FamilyGroupID *int64    `json:"family_group_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// GroupBackup represents a family group record for backup
type GroupBackup struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	OwnerID    int64     `json:"owner_id"`
	InviteCode string    `json:"invite_code"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	MemberIDs  []int64   `json:"member_ids"`
}

// WatchlistItemBackup represents a watchlist item record for backup
type WatchlistItemBackup struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	MediaType   string    `json:"media_type"`
	Status      string    `json:"status"`
	Year        *int      `json:"year"`
	PosterURL   string    `json:"poster_url"`
	Description string    `json:"description"`
	Rating      *int      `json:"rating"`
	Notes       string    `json:"notes"`
	IsPrivate   bool      `json:"is_private"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export writes the complete database to a JSON backup file
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting database export...")

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(file); err != nil {
		return err
	}

	log.Printf("Database exported successfully to %s", outputPath)
	return nil
}

// ExportToWriter exports the database to an io.Writer (useful for HTTP responses)
func (s *BackupService) ExportToWriter(w io.Writer) error {
	backup := &BackupData{
		Version:    "1.0",
		ExportedAt: time.Now(),
	}

	if err := s.exportUsers(backup); err != nil {
		return fmt.Errorf("failed to export users: %w", err)
	}
	if err := s.exportGroups(backup); err != nil {
		return fmt.Errorf("failed to export groups: %w", err)
	}
	if err := s.exportItems(backup); err != nil {
		return fmt.Errorf("failed to export items: %w", err)
	}
	if err := s.exportSettings(backup); err != nil {
		return fmt.Errorf("failed to export settings: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(backup)
}

// Import restores a database from a backup file
func (s *BackupService) Import(inputPath string) error {
	log.Printf("Starting database import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a database from a backup reader
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	var backup BackupData
	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	// Import in dependency order. Group references on users are applied
	// after groups exist.
	if err := s.importUsers(backup.Users); err != nil {
		return fmt.Errorf("failed to import users: %w", err)
	}
	if err := s.importGroups(backup.Groups); err != nil {
		return fmt.Errorf("failed to import groups: %w", err)
	}
	if err := s.applyUserGroupRefs(backup.Users); err != nil {
		return fmt.Errorf("failed to apply user group references: %w", err)
	}
	if err := s.importItems(backup.Items); err != nil {
		return fmt.Errorf("failed to import items: %w", err)
	}
	if err := s.importSettings(backup.Settings); err != nil {
		return fmt.Errorf("failed to import settings: %w", err)
	}

	log.Println("Database import completed successfully")
	return nil
}

func (s *BackupService) exportUsers(backup *BackupData) error {
	query := "SELECT id, email, password_hash, name, COALESCE(oauth_provider, ''), COALESCE(oauth_subject, ''), family_group_id, created_at, updated_at FROM users ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var u UserBackup
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.OAuthProvider, &u.OAuthSubject, &u.FamilyGroupID, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return err
		}
		backup.Users = append(backup.Users, u)
	}
	return rows.Err()
}

func (s *BackupService) exportGroups(backup *BackupData) error {
	query := "SELECT id, name, owner_id, invite_code, created_at, updated_at FROM family_groups ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var g GroupBackup
		if err := rows.Scan(&g.ID, &g.Name, &g.OwnerID, &g.InviteCode, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return err
		}
		backup.Groups = append(backup.Groups, g)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range backup.Groups {
		memberRows, err := s.db.Query("SELECT user_id FROM group_members WHERE group_id = ? ORDER BY joined_at ASC", backup.Groups[i].ID)
		if err != nil {
			return err
		}
		for memberRows.Next() {
			var id int64
			if err := memberRows.Scan(&id); err != nil {
				memberRows.Close()
				return err
			}
			backup.Groups[i].MemberIDs = append(backup.Groups[i].MemberIDs, id)
		}
		if err := memberRows.Err(); err != nil {
			memberRows.Close()
			return err
		}
		memberRows.Close()
	}

	return nil
}

func (s *BackupService) exportItems(backup *BackupData) error {
	query := "SELECT id, user_id, title, media_type, status, year, COALESCE(poster_url, ''), COALESCE(description, ''), rating, COALESCE(notes, ''), is_private, created_at, updated_at FROM watchlist_items ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item WatchlistItemBackup
		if err := rows.Scan(&item.ID, &item.UserID, &item.Title, &item.MediaType, &item.Status, &item.Year, &item.PosterURL, &item.Description, &item.Rating, &item.Notes, &item.IsPrivate, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return err
		}
		backup.Items = append(backup.Items, item)
	}
	return rows.Err()
}

func (s *BackupService) exportSettings(backup *BackupData) error {
	rows, err := s.db.Query("SELECT key, value FROM settings ORDER BY key")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var setting SettingBackup
		if err := rows.Scan(&setting.Key, &setting.Value); err != nil {
			return err
		}
		backup.Settings = append(backup.Settings, setting)
	}
	return rows.Err()
}

func (s *BackupService) importUsers(users []UserBackup) error {
	log.Printf("Importing %d users...", len(users))
	for _, u := range users {
		query := "INSERT INTO users (id, email, password_hash, name, oauth_provider, oauth_subject, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, u.ID, u.Email, u.PasswordHash, u.Name, nullIfEmpty(u.OAuthProvider), nullIfEmpty(u.OAuthSubject), u.CreatedAt, u.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import user %d: %w", u.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importGroups(groups []GroupBackup) error {
	log.Printf("Importing %d groups...", len(groups))
	for _, g := range groups {
		query := "INSERT INTO family_groups (id, name, owner_id, invite_code, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, g.ID, g.Name, g.OwnerID, g.InviteCode, g.CreatedAt, g.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import group %d: %w", g.ID, err)
		}

		for _, userID := range g.MemberIDs {
			memberQuery := "INSERT INTO group_members (group_id, user_id) VALUES (?, ?)"
			if _, err := s.db.Exec(memberQuery, g.ID, userID); err != nil {
				return fmt.Errorf("failed to import member %d for group %d: %w", userID, g.ID, err)
			}
		}
	}
	return nil
}

func (s *BackupService) applyUserGroupRefs(users []UserBackup) error {
	for _, u := range users {
		if u.FamilyGroupID == nil {
			continue
		}
		query := "UPDATE users SET family_group_id = ? WHERE id = ?"
		if _, err := s.db.Exec(query, *u.FamilyGroupID, u.ID); err != nil {
			return fmt.Errorf("failed to set group reference for user %d: %w", u.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importItems(items []WatchlistItemBackup) error {
	log.Printf("Importing %d watchlist items...", len(items))
	for _, item := range items {
		query := "INSERT INTO watchlist_items (id, user_id, title, media_type, status, year, poster_url, description, rating, notes, is_private, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, item.ID, item.UserID, item.Title, item.MediaType, item.Status, item.Year, nullIfEmpty(item.PosterURL), nullIfEmpty(item.Description), item.Rating, nullIfEmpty(item.Notes), item.IsPrivate, item.CreatedAt, item.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import item %d: %w", item.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importSettings(settings []SettingBackup) error {
	if len(settings) == 0 {
		return nil
	}
	log.Printf("Importing %d settings...", len(settings))
	query := s.db.Dialect.UpsertSettingQuery()
	for _, setting := range settings {
		if _, err := s.db.Exec(query, setting.Key, setting.Value); err != nil {
			return fmt.Errorf("failed to import setting %q: %w", setting.Key, err)
		}
	}
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
