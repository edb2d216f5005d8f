package handlers

import (
	"watchnest/internal/models"
)

// UserView is the JSON shape of a user, without credential fields
type UserView struct {
	ID            int64  `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	FamilyGroupID *int64 `json:"family_group_id"`
}

// MemberView is another group member's visible identity
type MemberView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// GroupView is the JSON shape of a family group with its members
type GroupView struct {
	ID         int64        `json:"id"`
	Name       string       `json:"name"`
	OwnerID    int64        `json:"owner_id"`
	InviteCode string       `json:"invite_code"`
	Members    []MemberView `json:"members"`
}

// ItemView is the JSON shape of a watchlist item. OwnerName is only set on
// shared views.
type ItemView struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	MediaType   string `json:"media_type"`
	Status      string `json:"status"`
	Year        *int   `json:"year,omitempty"`
	PosterURL   string `json:"poster_url,omitempty"`
	Description string `json:"description,omitempty"`
	Rating      *int   `json:"rating,omitempty"`
	Notes       string `json:"notes,omitempty"`
	IsPrivate   bool   `json:"is_private"`
	OwnerName   string `json:"owner_name,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func userView(u *models.User) UserView {
	return UserView{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		FamilyGroupID: u.FamilyGroupID,
	}
}

func groupView(g *models.GroupWithMembers) GroupView {
	view := GroupView{
		ID:         g.Group.ID,
		Name:       g.Group.Name,
		OwnerID:    g.Group.OwnerID,
		InviteCode: g.Group.InviteCode,
		Members:    make([]MemberView, 0, len(g.Members)),
	}
	for _, m := range g.Members {
		view.Members = append(view.Members, MemberView{ID: m.ID, Name: m.Name, Email: m.Email})
	}
	return view
}

func itemView(item *models.WatchlistItem, includeOwner bool) ItemView {
	view := ItemView{
		ID:          item.ID,
		Title:       item.Title,
		MediaType:   item.MediaType,
		Status:      item.Status,
		Year:        item.Year,
		PosterURL:   item.PosterURL,
		Description: item.Description,
		Rating:      item.Rating,
		Notes:       item.Notes,
		IsPrivate:   item.IsPrivate,
		CreatedAt:   item.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	if includeOwner {
		view.OwnerName = item.OwnerName
	}
	return view
}

func itemViews(items []models.WatchlistItem, includeOwner bool) []ItemView {
	views := make([]ItemView, 0, len(items))
	for i := range items {
		views = append(views, itemView(&items[i], includeOwner))
	}
	return views
}
