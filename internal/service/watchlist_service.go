package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"watchnest/internal/models"
	"watchnest/internal/repository"
	"watchnest/internal/validation"
)

var (
	ErrDuplicateTitle = errors.New("title already on your watchlist")
	ErrItemNotFound   = errors.New("watchlist item not found")
	ErrNoCandidates   = errors.New("no eligible items to pick from")
)

// WatchlistService handles watchlist business logic
type WatchlistService struct {
	watchlistRepo *repository.WatchlistRepository
	userRepo      *repository.UserRepository
}

// NewWatchlistService creates a new watchlist service
func NewWatchlistService(watchlistRepo *repository.WatchlistRepository, userRepo *repository.UserRepository) *WatchlistService {
	return &WatchlistService{
		watchlistRepo: watchlistRepo,
		userRepo:      userRepo,
	}
}

// List retrieves a user's items, newest first, with optional filters
func (s *WatchlistService) List(userID int64, filters models.ListFilters) ([]models.WatchlistItem, error) {
	if filters.MediaType != "" {
		if err := validation.ValidateMediaType(filters.MediaType); err != nil {
			return nil, err
		}
	}
	if filters.Status != "" {
		if err := validation.ValidateStatus(filters.Status); err != nil {
			return nil, err
		}
	}
	return s.watchlistRepo.ListItems(userID, filters)
}

// Add creates a new watchlist item for a user. Titles are unique per user,
// compared case-insensitively.
func (s *WatchlistService) Add(userID int64, item *models.WatchlistItem) (*models.WatchlistItem, error) {
	item.Title = strings.TrimSpace(item.Title)

	if err := validation.ValidateTitle(item.Title); err != nil {
		return nil, err
	}
	if err := validation.ValidateMediaType(item.MediaType); err != nil {
		return nil, err
	}
	if item.Status == "" {
		item.Status = models.StatusWantToWatch
	}
	if err := validation.ValidateStatus(item.Status); err != nil {
		return nil, err
	}
	if err := validation.ValidateYear(item.Year); err != nil {
		return nil, err
	}
	if err := validation.ValidateRating(item.Rating); err != nil {
		return nil, err
	}
	if err := validation.ValidateNotes(item.Notes); err != nil {
		return nil, err
	}

	exists, err := s.watchlistRepo.TitleExists(userID, item.Title)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateTitle
	}

	item.UserID = userID
	return s.watchlistRepo.CreateItem(item)
}

// Update applies a partial update to an item owned by the user
func (s *WatchlistService) Update(userID, itemID int64, updates models.ItemUpdates) (*models.WatchlistItem, error) {
	if updates.Status != nil {
		if err := validation.ValidateStatus(*updates.Status); err != nil {
			return nil, err
		}
	}
	if err := validation.ValidateRating(updates.Rating); err != nil {
		return nil, err
	}
	if updates.Notes != nil {
		if err := validation.ValidateNotes(*updates.Notes); err != nil {
			return nil, err
		}
	}

	item, err := s.watchlistRepo.UpdateItem(itemID, userID, updates)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}

// Delete removes an item owned by the user
func (s *WatchlistService) Delete(userID, itemID int64) error {
	deleted, err := s.watchlistRepo.DeleteItem(itemID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrItemNotFound
	}
	return nil
}

// SharedWatchlist returns the combined want-to-watch items of the user's
// family group, with private items filtered out.
func (s *WatchlistService) SharedWatchlist(userID int64) ([]models.WatchlistItem, error) {
	groupID, err := s.userGroupID(userID)
	if err != nil {
		return nil, err
	}
	return s.watchlistRepo.SharedItems(groupID)
}

// RandomPick selects one item uniformly at random. Group members draw from
// the group's shared want-to-watch pool; users without a group draw from
// their own want-to-watch items, private ones included.
func (s *WatchlistService) RandomPick(userID int64) (*models.WatchlistItem, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrNotInGroup
	}

	if user.HasGroup() {
		return s.pickShared(*user.FamilyGroupID)
	}
	return s.pickPersonal(user)
}

func (s *WatchlistService) pickShared(groupID int64) (*models.WatchlistItem, error) {
	count, err := s.watchlistRepo.CountSharedItems(groupID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNoCandidates
	}

	offset, err := randomOffset(count)
	if err != nil {
		return nil, err
	}

	item, err := s.watchlistRepo.SharedItemAt(groupID, offset)
	if err != nil {
		return nil, err
	}
	if item == nil {
		// Pool shrank between count and fetch
		return nil, ErrNoCandidates
	}
	return item, nil
}

func (s *WatchlistService) pickPersonal(user *models.User) (*models.WatchlistItem, error) {
	count, err := s.watchlistRepo.CountUserItemsByStatus(user.ID, models.StatusWantToWatch)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNoCandidates
	}

	offset, err := randomOffset(count)
	if err != nil {
		return nil, err
	}

	item, err := s.watchlistRepo.UserItemAt(user.ID, models.StatusWantToWatch, offset)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNoCandidates
	}
	item.OwnerName = user.Name
	return item, nil
}

// randomOffset draws a uniform integer in [0, count)
func randomOffset(count int64) (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(count))
	if err != nil {
		return 0, fmt.Errorf("failed to draw random offset: %w", err)
	}
	return n.Int64(), nil
}

func (s *WatchlistService) userGroupID(userID int64) (int64, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !user.HasGroup() {
		return 0, ErrNotInGroup
	}
	return *user.FamilyGroupID, nil
}
