package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"dinner-planner/internal/services"
	"dinner-planner/internal/status"
)

type CommunityHandler struct {
	app          *pocketbase.PocketBase
	communities  *services.CommunityService
	eventService *services.EventService
}

func NewCommunityHandler(app *pocketbase.PocketBase, communities *services.CommunityService, eventService *services.EventService) *CommunityHandler {
	return &CommunityHandler{
		app:          app,
		communities:  communities,
		eventService: eventService,
	}
}

// ListCommunities - List all communities
func (h *CommunityHandler) ListCommunities(e *core.RequestEvent) error {
	communities, err := h.communities.List(e.Request.Context())
	if err != nil {
		return apis.NewBadRequestError("Failed to list communities", err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"communities": communities,
		"total":       len(communities),
	})
}

// GetCommunity - Get one community with the caller's membership flags
func (h *CommunityHandler) GetCommunity(e *core.RequestEvent) error {
	communityID := e.Request.PathValue("communityId")

	community, err := h.communities.Get(e.Request.Context(), communityID)
	if err != nil {
		if errors.Is(err, status.ErrCommunityNotFound) {
			return apis.NewNotFoundError("Community not found", err)
		}
		return apis.NewBadRequestError("Failed to get community", err)
	}

	isMember := false
	isAdmin := false
	if e.Auth != nil {
		isMember = community.IsMember(e.Auth.Id)
		isAdmin = community.IsAdmin(e.Auth.Id)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"community":    community,
		"member_count": len(community.Members),
		"is_member":    isMember,
		"is_admin":     isAdmin,
	})
}

// CreateCommunity - Create a community with the caller as first admin
func (h *CommunityHandler) CreateCommunity(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	if req.Name == "" {
		return apis.NewBadRequestError("Name is required", nil)
	}

	community, err := h.communities.Create(e.Request.Context(), e.Auth.Id, req.Name, req.Description)
	if err != nil {
		return apis.NewBadRequestError("Failed to create community", err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"community": community,
	})
}

// JoinCommunity - Add the caller to the community's members
func (h *CommunityHandler) JoinCommunity(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	communityID := e.Request.PathValue("communityId")

	community, err := h.communities.Join(e.Request.Context(), communityID, e.Auth.Id)
	if err != nil {
		if errors.Is(err, status.ErrCommunityNotFound) {
			return apis.NewNotFoundError("Community not found", err)
		}
		return apis.NewBadRequestError("Failed to join community", err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"message":      "Joined community",
		"community_id": community.ID,
		"member_count": len(community.Members),
	})
}

// GetCommunityEvents - List a community's events; community-visibility
// details are reserved for members
func (h *CommunityHandler) GetCommunityEvents(e *core.RequestEvent) error {
	communityID := e.Request.PathValue("communityId")

	community, err := h.communities.Get(e.Request.Context(), communityID)
	if err != nil {
		if errors.Is(err, status.ErrCommunityNotFound) {
			return apis.NewNotFoundError("Community not found", err)
		}
		return apis.NewBadRequestError("Failed to get community", err)
	}

	isMember := e.Auth != nil && (community.IsMember(e.Auth.Id) || community.IsAdmin(e.Auth.Id))
	if !isMember {
		return apis.NewForbiddenError("Only community members can view community events", nil)
	}

	events, err := h.eventService.ListByCommunity(e.Request.Context(), communityID)
	if err != nil {
		return apis.NewBadRequestError("Failed to list community events", err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"events": events,
		"total":  len(events),
	})
}
