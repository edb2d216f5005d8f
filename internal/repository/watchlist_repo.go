package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"watchnest/internal/database"
	"watchnest/internal/models"
)

// WatchlistRepository handles database operations for watchlist items
type WatchlistRepository struct {
	db *database.DB
}

// NewWatchlistRepository creates a new watchlist repository
func NewWatchlistRepository(db *database.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

const itemColumns = `id, user_id, title, media_type, status, year, COALESCE(poster_url, ''), COALESCE(description, ''), rating, COALESCE(notes, ''), is_private, created_at, updated_at`

func scanItem(row interface{ Scan(...any) error }) (*models.WatchlistItem, error) {
	item := &models.WatchlistItem{}
	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.Title,
		&item.MediaType,
		&item.Status,
		&item.Year,
		&item.PosterURL,
		&item.Description,
		&item.Rating,
		&item.Notes,
		&item.IsPrivate,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// CreateItem inserts a new watchlist item
func (r *WatchlistRepository) CreateItem(item *models.WatchlistItem) (*models.WatchlistItem, error) {
	query := `
		INSERT INTO watchlist_items (user_id, title, media_type, status, year, poster_url, description, rating, notes, is_private)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		item.UserID, item.Title, item.MediaType, item.Status, item.Year,
		item.PosterURL, item.Description, item.Rating, item.Notes, item.IsPrivate)
	if err != nil {
		return nil, fmt.Errorf("failed to create watchlist item: %w", err)
	}

	created := *item
	created.ID = id
	created.CreatedAt = time.Now()
	created.UpdatedAt = time.Now()

	return &created, nil
}

// GetItemByID retrieves a watchlist item by ID
func (r *WatchlistRepository) GetItemByID(id int64) (*models.WatchlistItem, error) {
	query := `SELECT ` + itemColumns + ` FROM watchlist_items WHERE id = ?`
	item, err := scanItem(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get watchlist item: %w", err)
	}
	return item, nil
}

// ListItems retrieves a user's watchlist items, newest first, with optional
// media type and status filters.
func (r *WatchlistRepository) ListItems(userID int64, filters models.ListFilters) ([]models.WatchlistItem, error) {
	query := `SELECT ` + itemColumns + ` FROM watchlist_items WHERE user_id = ?`
	args := []any{userID}

	if filters.MediaType != "" {
		query += " AND media_type = ?"
		args = append(args, filters.MediaType)
	}
	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// TitleExists checks whether a user already has an item with the same title,
// compared case-insensitively.
func (r *WatchlistRepository) TitleExists(userID int64, title string) (bool, error) {
	query := "SELECT COUNT(*) FROM watchlist_items WHERE user_id = ? AND LOWER(title) = LOWER(?)"
	var count int
	err := r.db.QueryRow(query, userID, strings.TrimSpace(title)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check for duplicate title: %w", err)
	}
	return count > 0, nil
}

// UpdateItem applies non-nil field updates to an item owned by userID.
// Returns the refreshed item, or nil if no such item belongs to the user.
func (r *WatchlistRepository) UpdateItem(id, userID int64, updates models.ItemUpdates) (*models.WatchlistItem, error) {
	var sets []string
	var args []any

	if updates.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *updates.Status)
	}
	if updates.Rating != nil {
		sets = append(sets, "rating = ?")
		args = append(args, *updates.Rating)
	}
	if updates.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *updates.Notes)
	}
	if updates.IsPrivate != nil {
		sets = append(sets, "is_private = ?")
		args = append(args, *updates.IsPrivate)
	}

	if len(sets) > 0 {
		sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
		query := "UPDATE watchlist_items SET " + strings.Join(sets, ", ") + " WHERE id = ? AND user_id = ?"
		args = append(args, id, userID)

		result, err := r.db.Exec(query, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to update watchlist item: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to read update result: %w", err)
		}
		if affected == 0 {
			return nil, nil
		}
	}

	query := `SELECT ` + itemColumns + ` FROM watchlist_items WHERE id = ? AND user_id = ?`
	item, err := scanItem(r.db.QueryRow(query, id, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to reload watchlist item: %w", err)
	}
	return item, nil
}

// DeleteItem removes an item owned by userID. Returns false if no matching
// item existed.
func (r *WatchlistRepository) DeleteItem(id, userID int64) (bool, error) {
	query := "DELETE FROM watchlist_items WHERE id = ? AND user_id = ?"
	result, err := r.db.Exec(query, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete watchlist item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return affected > 0, nil
}

// SharedItems retrieves the combined want-to-watch items of a group's
// members, excluding private items, newest first. Each row carries the
// owner's display name.
func (r *WatchlistRepository) SharedItems(groupID int64) ([]models.WatchlistItem, error) {
	query := `
		SELECT w.id, w.user_id, w.title, w.media_type, w.status, w.year,
		       COALESCE(w.poster_url, ''), COALESCE(w.description, ''), w.rating,
		       COALESCE(w.notes, ''), w.is_private, w.created_at, w.updated_at,
		       u.name
		FROM watchlist_items w
		INNER JOIN group_members gm ON w.user_id = gm.user_id
		INNER JOIN users u ON w.user_id = u.id
		WHERE gm.group_id = ? AND w.status = ? AND w.is_private = ?
		ORDER BY w.created_at DESC, w.id DESC
	`
	rows, err := r.db.Query(query, groupID, models.StatusWantToWatch, false)
	if err != nil {
		return nil, fmt.Errorf("failed to query shared watchlist: %w", err)
	}
	defer rows.Close()

	var items []models.WatchlistItem
	for rows.Next() {
		var item models.WatchlistItem
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.Title, &item.MediaType, &item.Status,
			&item.Year, &item.PosterURL, &item.Description, &item.Rating,
			&item.Notes, &item.IsPrivate, &item.CreatedAt, &item.UpdatedAt,
			&item.OwnerName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan shared item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// CountSharedItems counts the group's non-private want-to-watch items
func (r *WatchlistRepository) CountSharedItems(groupID int64) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM watchlist_items w
		INNER JOIN group_members gm ON w.user_id = gm.user_id
		WHERE gm.group_id = ? AND w.status = ? AND w.is_private = ?
	`
	var count int64
	err := r.db.QueryRow(query, groupID, models.StatusWantToWatch, false).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count shared items: %w", err)
	}
	return count, nil
}

// SharedItemAt retrieves the shared item at a fixed offset under a stable
// ordering by ID. Used for random selection without loading the full pool.
func (r *WatchlistRepository) SharedItemAt(groupID, offset int64) (*models.WatchlistItem, error) {
	query := `
		SELECT w.id, w.user_id, w.title, w.media_type, w.status, w.year,
		       COALESCE(w.poster_url, ''), COALESCE(w.description, ''), w.rating,
		       COALESCE(w.notes, ''), w.is_private, w.created_at, w.updated_at,
		       u.name
		FROM watchlist_items w
		INNER JOIN group_members gm ON w.user_id = gm.user_id
		INNER JOIN users u ON w.user_id = u.id
		WHERE gm.group_id = ? AND w.status = ? AND w.is_private = ?
		ORDER BY w.id ASC
		LIMIT 1 OFFSET ?
	`
	item := &models.WatchlistItem{}
	err := r.db.QueryRow(query, groupID, models.StatusWantToWatch, false, offset).Scan(
		&item.ID, &item.UserID, &item.Title, &item.MediaType, &item.Status,
		&item.Year, &item.PosterURL, &item.Description, &item.Rating,
		&item.Notes, &item.IsPrivate, &item.CreatedAt, &item.UpdatedAt,
		&item.OwnerName,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shared item at offset: %w", err)
	}

	return item, nil
}

// CountItems counts all items owned by a user
func (r *WatchlistRepository) CountItems(userID int64) (int64, error) {
	query := "SELECT COUNT(*) FROM watchlist_items WHERE user_id = ?"
	var count int64
	err := r.db.QueryRow(query, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}

// CountUserItemsByStatus counts a user's items in the given status
func (r *WatchlistRepository) CountUserItemsByStatus(userID int64, status string) (int64, error) {
	query := "SELECT COUNT(*) FROM watchlist_items WHERE user_id = ? AND status = ?"
	var count int64
	err := r.db.QueryRow(query, userID, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count items by status: %w", err)
	}
	return count, nil
}

// UserItemAt retrieves the user's item in the given status at a fixed offset
// under a stable ordering by ID. Used for random selection from a personal pool.
func (r *WatchlistRepository) UserItemAt(userID int64, status string, offset int64) (*models.WatchlistItem, error) {
	query := `SELECT ` + itemColumns + ` FROM watchlist_items
		WHERE user_id = ? AND status = ?
		ORDER BY id ASC
		LIMIT 1 OFFSET ?`
	item, err := scanItem(r.db.QueryRow(query, userID, status, offset))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item at offset: %w", err)
	}
	return item, nil
}

func collectItems(rows *sql.Rows) ([]models.WatchlistItem, error) {
	var items []models.WatchlistItem
	for rows.Next() {
		var item models.WatchlistItem
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.Title, &item.MediaType, &item.Status,
			&item.Year, &item.PosterURL, &item.Description, &item.Rating,
			&item.Notes, &item.IsPrivate, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
