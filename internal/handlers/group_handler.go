package handlers

import (
	"encoding/json"
	"net/http"

	"watchnest/internal/service"
)

// GroupHandler handles family group endpoints
type GroupHandler struct {
	groupService *service.GroupService
}

// NewGroupHandler creates a new group handler
func NewGroupHandler(groupService *service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

type createGroupRequest struct {
	Name string `json:"name"`
}

// Create handles POST /api/groups
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidRequestBody, err)
		return
	}

	group, err := h.groupService.CreateGroup(user.ID, req.Name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, GroupView{
		ID:         group.ID,
		Name:       group.Name,
		OwnerID:    group.OwnerID,
		InviteCode: group.InviteCode,
		Members:    []MemberView{{ID: user.ID, Name: user.Name, Email: user.Email}},
	})
}

type joinGroupRequest struct {
	InviteCode string `json:"invite_code"`
}

// Join handles POST /api/groups/join
func (h *GroupHandler) Join(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req joinGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidRequestBody, err)
		return
	}

	if _, err := h.groupService.JoinGroup(user.ID, req.InviteCode); err != nil {
		respondServiceError(w, err)
		return
	}

	group, err := h.groupService.GetGroup(user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, groupView(group))
}

// Leave handles POST /api/groups/leave. Owners disband the whole group;
// other members just remove themselves.
func (h *GroupHandler) Leave(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	if err := h.groupService.LeaveGroup(user.ID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "left group"})
}

// Get handles GET /api/groups/mine
func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	group, err := h.groupService.GetGroup(user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, groupView(group))
}

type inviteRequest struct {
	Email string `json:"email"`
}

// Invite handles POST /api/groups/invite, emailing the invite code
func (h *GroupHandler) Invite(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidRequestBody, err)
		return
	}

	if err := h.groupService.InviteByEmail(r.Context(), user.ID, req.Email); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "invitation sent"})
}
