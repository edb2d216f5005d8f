package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"watchnest/internal/database"
	"watchnest/internal/models"
)

// ErrDuplicateInviteCode is returned when a generated invite code collides
// with an existing group. Callers are expected to retry with a fresh code.
var ErrDuplicateInviteCode = errors.New("invite code already in use")

// GroupRepository handles database operations for family groups
type GroupRepository struct {
	db *database.DB
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *database.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// CreateGroup creates a new family group, adds the owner as its first member
// and points the owner's user record at the group, all in one transaction.
func (r *GroupRepository) CreateGroup(name, inviteCode string, ownerID int64) (*models.FamilyGroup, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := "INSERT INTO family_groups (name, owner_id, invite_code) VALUES (?, ?, ?)"
	groupID, err := tx.ExecReturningID(query, name, ownerID, inviteCode)
	if err != nil {
		if r.db.GetDialect().IsUniqueViolation(err) {
			return nil, ErrDuplicateInviteCode
		}
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	query = "INSERT INTO group_members (group_id, user_id) VALUES (?, ?)"
	if _, err := tx.Exec(query, groupID, ownerID); err != nil {
		return nil, fmt.Errorf("failed to add group member: %w", err)
	}

	query = "UPDATE users SET family_group_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := tx.Exec(query, groupID, ownerID); err != nil {
		return nil, fmt.Errorf("failed to update user group reference: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	group := &models.FamilyGroup{
		ID:         groupID,
		Name:       name,
		OwnerID:    ownerID,
		InviteCode: inviteCode,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	return group, nil
}

// GetGroupByID retrieves a family group by ID
func (r *GroupRepository) GetGroupByID(groupID int64) (*models.FamilyGroup, error) {
	query := `
		SELECT id, name, owner_id, invite_code, created_at, updated_at
		FROM family_groups
		WHERE id = ?
	`
	group := &models.FamilyGroup{}
	err := r.db.QueryRow(query, groupID).Scan(
		&group.ID,
		&group.Name,
		&group.OwnerID,
		&group.InviteCode,
		&group.CreatedAt,
		&group.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	return group, nil
}

// GetGroupByInviteCode retrieves a family group by its invite code
func (r *GroupRepository) GetGroupByInviteCode(code string) (*models.FamilyGroup, error) {
	query := `
		SELECT id, name, owner_id, invite_code, created_at, updated_at
		FROM family_groups
		WHERE invite_code = ?
	`
	group := &models.FamilyGroup{}
	err := r.db.QueryRow(query, code).Scan(
		&group.ID,
		&group.Name,
		&group.OwnerID,
		&group.InviteCode,
		&group.CreatedAt,
		&group.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group by invite code: %w", err)
	}

	return group, nil
}

// AddMember adds a user to a group and updates the user's group reference
func (r *GroupRepository) AddMember(groupID, userID int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := "INSERT INTO group_members (group_id, user_id) VALUES (?, ?)"
	if _, err := tx.Exec(query, groupID, userID); err != nil {
		return fmt.Errorf("failed to add group member: %w", err)
	}

	query = "UPDATE users SET family_group_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := tx.Exec(query, groupID, userID); err != nil {
		return fmt.Errorf("failed to update user group reference: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// RemoveMember removes a user from a group and clears the user's group reference
func (r *GroupRepository) RemoveMember(groupID, userID int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := "DELETE FROM group_members WHERE group_id = ? AND user_id = ?"
	if _, err := tx.Exec(query, groupID, userID); err != nil {
		return fmt.Errorf("failed to remove group member: %w", err)
	}

	query = "UPDATE users SET family_group_id = NULL, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := tx.Exec(query, userID); err != nil {
		return fmt.Errorf("failed to clear user group reference: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DisbandGroup deletes a group, its memberships, and every member's group
// reference. Used when the owner leaves.
func (r *GroupRepository) DisbandGroup(groupID int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := "UPDATE users SET family_group_id = NULL, updated_at = CURRENT_TIMESTAMP WHERE family_group_id = ?"
	if _, err := tx.Exec(query, groupID); err != nil {
		return fmt.Errorf("failed to clear member group references: %w", err)
	}

	query = "DELETE FROM group_members WHERE group_id = ?"
	if _, err := tx.Exec(query, groupID); err != nil {
		return fmt.Errorf("failed to delete group members: %w", err)
	}

	query = "DELETE FROM family_groups WHERE id = ?"
	if _, err := tx.Exec(query, groupID); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// SetInviteCode assigns an invite code to a group
func (r *GroupRepository) SetInviteCode(groupID int64, code string) error {
	query := "UPDATE family_groups SET invite_code = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	_, err := r.db.Exec(query, code, groupID)
	if err != nil {
		if r.db.GetDialect().IsUniqueViolation(err) {
			return ErrDuplicateInviteCode
		}
		return fmt.Errorf("failed to set invite code: %w", err)
	}
	return nil
}

// IsMember checks if a user is a member of a group
func (r *GroupRepository) IsMember(groupID, userID int64) (bool, error) {
	query := "SELECT COUNT(*) FROM group_members WHERE group_id = ? AND user_id = ?"
	var count int
	err := r.db.QueryRow(query, groupID, userID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check group membership: %w", err)
	}
	return count > 0, nil
}

// GetMembers retrieves the display identities of all members of a group
func (r *GroupRepository) GetMembers(groupID int64) ([]models.MemberInfo, error) {
	query := `
		SELECT u.id, u.name, u.email
		FROM group_members gm
		INNER JOIN users u ON gm.user_id = u.id
		WHERE gm.group_id = ?
		ORDER BY gm.joined_at ASC
	`
	rows, err := r.db.Query(query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query group members: %w", err)
	}
	defer rows.Close()

	var members []models.MemberInfo
	for rows.Next() {
		var member models.MemberInfo
		if err := rows.Scan(&member.ID, &member.Name, &member.Email); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		members = append(members, member)
	}

	return members, rows.Err()
}

// MemberIDs retrieves the user IDs of all members of a group
func (r *GroupRepository) MemberIDs(groupID int64) ([]int64, error) {
	query := "SELECT user_id FROM group_members WHERE group_id = ? ORDER BY joined_at ASC"
	rows, err := r.db.Query(query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query member ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan member id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
