package service

import (
	"context"
	"errors"
	"fmt"

	"watchnest/internal/invite"
	"watchnest/internal/models"
	"watchnest/internal/repository"
	"watchnest/internal/validation"
)

var (
	ErrAlreadyInGroup    = errors.New("user already belongs to a family group")
	ErrNotInGroup        = errors.New("user does not belong to a family group")
	ErrInvalidInviteCode = errors.New("invalid invite code")
	ErrGroupNotFound     = errors.New("family group not found")
)

// inviteCodeRetries bounds retry attempts when a generated code collides
const inviteCodeRetries = 5

// GroupService handles family group business logic
type GroupService struct {
	groupRepo    *repository.GroupRepository
	userRepo     *repository.UserRepository
	emailService *EmailService
}

// NewGroupService creates a new group service
func NewGroupService(groupRepo *repository.GroupRepository, userRepo *repository.UserRepository, emailService *EmailService) *GroupService {
	return &GroupService{
		groupRepo:    groupRepo,
		userRepo:     userRepo,
		emailService: emailService,
	}
}

// CreateGroup creates a new family group owned by the given user. The user
// must not already belong to a group. Invite code collisions are retried
// with a fresh code.
func (s *GroupService) CreateGroup(ownerID int64, name string) (*models.FamilyGroup, error) {
	if err := validation.ValidateGroupName(name); err != nil {
		return nil, err
	}

	owner, err := s.userRepo.GetUserByID(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if owner == nil {
		return nil, errors.New("user not found")
	}
	if owner.HasGroup() {
		return nil, ErrAlreadyInGroup
	}

	for attempt := 0; attempt < inviteCodeRetries; attempt++ {
		code, err := invite.Generate()
		if err != nil {
			return nil, fmt.Errorf("failed to generate invite code: %w", err)
		}

		group, err := s.groupRepo.CreateGroup(name, code, ownerID)
		if err == repository.ErrDuplicateInviteCode {
			continue
		}
		if err != nil {
			return nil, err
		}
		return group, nil
	}

	return nil, fmt.Errorf("failed to create group: could not find a free invite code after %d attempts", inviteCodeRetries)
}

// JoinGroup adds a user to the group identified by an invite code
func (s *GroupService) JoinGroup(userID int64, code string) (*models.FamilyGroup, error) {
	code = invite.Normalize(code)
	if code == "" {
		return nil, ErrInvalidInviteCode
	}

	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	if user.HasGroup() {
		return nil, ErrAlreadyInGroup
	}

	group, err := s.groupRepo.GetGroupByInviteCode(code)
	if err != nil {
		return nil, fmt.Errorf("failed to look up invite code: %w", err)
	}
	if group == nil {
		return nil, ErrInvalidInviteCode
	}

	if err := s.groupRepo.AddMember(group.ID, userID); err != nil {
		return nil, err
	}

	return group, nil
}

// LeaveGroup removes a user from their group. When the owner leaves the
// whole group is disbanded and every member's group reference is cleared.
func (s *GroupService) LeaveGroup(userID int64) error {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !user.HasGroup() {
		return ErrNotInGroup
	}

	group, err := s.groupRepo.GetGroupByID(*user.FamilyGroupID)
	if err != nil {
		return fmt.Errorf("failed to get group: %w", err)
	}
	if group == nil {
		return ErrNotInGroup
	}

	if group.IsOwner(userID) {
		return s.groupRepo.DisbandGroup(group.ID)
	}
	return s.groupRepo.RemoveMember(group.ID, userID)
}

// GetGroup returns the user's group with its resolved member list
func (s *GroupService) GetGroup(userID int64) (*models.GroupWithMembers, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !user.HasGroup() {
		return nil, ErrNotInGroup
	}

	group, err := s.groupRepo.GetGroupByID(*user.FamilyGroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	if err := s.ensureInviteCode(group); err != nil {
		return nil, err
	}

	members, err := s.groupRepo.GetMembers(group.ID)
	if err != nil {
		return nil, err
	}

	result := &models.GroupWithMembers{
		Group:   *group,
		Members: members,
	}
	for _, m := range members {
		if m.ID == group.OwnerID {
			result.Owner = m
			break
		}
	}

	return result, nil
}

// ensureInviteCode assigns a code to a group that does not have one yet.
// Codes are assigned once and never rotated.
func (s *GroupService) ensureInviteCode(group *models.FamilyGroup) error {
	for attempt := 0; attempt < inviteCodeRetries; attempt++ {
		code, err := invite.Ensure(group.InviteCode)
		if err != nil {
			return fmt.Errorf("failed to generate invite code: %w", err)
		}
		if code == group.InviteCode {
			return nil
		}

		err = s.groupRepo.SetInviteCode(group.ID, code)
		if err == repository.ErrDuplicateInviteCode {
			continue
		}
		if err != nil {
			return err
		}
		group.InviteCode = code
		return nil
	}

	return fmt.Errorf("failed to assign invite code after %d attempts", inviteCodeRetries)
}

// InviteByEmail sends the group's invite code to an email address. Only
// current members may send invitations.
func (s *GroupService) InviteByEmail(ctx context.Context, userID int64, email string) error {
	if err := validation.ValidateEmail(email); err != nil {
		return err
	}

	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !user.HasGroup() {
		return ErrNotInGroup
	}

	group, err := s.groupRepo.GetGroupByID(*user.FamilyGroupID)
	if err != nil {
		return fmt.Errorf("failed to get group: %w", err)
	}
	if group == nil {
		return ErrGroupNotFound
	}

	if err := s.ensureInviteCode(group); err != nil {
		return err
	}

	if s.emailService == nil || !s.emailService.IsEnabled() {
		return errors.New("email sending is not configured")
	}

	return s.emailService.SendGroupInviteEmail(ctx, email, user.Name, group.Name, group.InviteCode)
}
