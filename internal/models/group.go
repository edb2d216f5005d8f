package models

import "time"

// FamilyGroup represents a group of users sharing their watchlists
type FamilyGroup struct {
	ID         int64
	Name       string
	OwnerID    int64
	InviteCode string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// GroupMember represents the relationship between a user and a family group
type GroupMember struct {
	ID       int64
	GroupID  int64
	UserID   int64
	JoinedAt time.Time
}

// MemberInfo is a member's display identity, safe to expose to other members
type MemberInfo struct {
	ID    int64
	Name  string
	Email string
}

// GroupWithMembers combines a group with its resolved member identities
type GroupWithMembers struct {
	Group   FamilyGroup
	Owner   MemberInfo
	Members []MemberInfo
}

// IsOwner reports whether the given user owns the group
func (g *FamilyGroup) IsOwner(userID int64) bool {
	return g.OwnerID == userID
}
