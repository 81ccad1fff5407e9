package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"dinner-planner/internal/services"
	"dinner-planner/internal/status"
	"dinner-planner/models"
)

type RSVPHandler struct {
	app         *pocketbase.PocketBase
	rsvpService *services.RSVPService
}

func NewRSVPHandler(app *pocketbase.PocketBase, rsvpService *services.RSVPService) *RSVPHandler {
	return &RSVPHandler{
		app:         app,
		rsvpService: rsvpService,
	}
}

// Submit - Submit or change the caller's RSVP for an event
func (h *RSVPHandler) Submit(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	eventID := e.Request.PathValue("eventId")
	if eventID == "" {
		return apis.NewBadRequestError("Event ID is required", nil)
	}

	var req struct {
		Name       string `json:"name"`
		Email      string `json:"email"`
		Status     string `json:"status"`
		InviteCode string `json:"invite_code"`
	}

	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	if req.Name == "" || req.Email == "" {
		return apis.NewBadRequestError("Name and email are required", nil)
	}

	rsvpStatus, err := models.ParseRSVPStatus(req.Status)
	if err != nil {
		return apis.NewBadRequestError("Status must be going, maybe or not_going", err)
	}

	event, err := h.rsvpService.SubmitRSVP(e.Request.Context(), eventID, services.SubmitRSVPRequest{
		AttendeeID: e.Auth.Id,
		Name:       req.Name,
		Email:      req.Email,
		Status:     rsvpStatus,
		InviteCode: req.InviteCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, status.ErrEventNotFound):
			return apis.NewNotFoundError("Event not found", err)
		case errors.Is(err, status.ErrInvalidInviteCode):
			return apis.NewForbiddenError("Invalid invite code", err)
		case errors.Is(err, status.ErrNotCommunityMember):
			return apis.NewForbiddenError("Only community members can RSVP to this event", err)
		case errors.Is(err, status.ErrRSVPInProgress):
			return apis.NewApiError(http.StatusConflict, "Another RSVP for this event is in progress, try again", err)
		default:
			return apis.NewBadRequestError("Failed to submit RSVP", err)
		}
	}

	response := map[string]any{
		"message":         "RSVP saved",
		"status":          rsvpStatus,
		"attendee_count":  event.AttendeeCount(),
		"available_spots": event.AvailableSpots(),
		"is_full":         event.IsFull(),
	}

	if event.IsPaid && rsvpStatus == models.StatusGoing {
		payee := h.rsvpService.HostPaymentHandle(e.Request.Context(), event)
		response["payment_instructions"] = paymentInstructions(event, payee)
	}

	return e.JSON(http.StatusOK, response)
}

// paymentInstructions renders the out-of-band settlement text for a paid
// event, addressed to the host's Venmo handle or display name.
func paymentInstructions(event *models.Event, payee string) string {
	return fmt.Sprintf(
		"This is a paid event. Please send $%s via Venmo to %s to confirm your spot.",
		event.Price.StringFixed(2), payee,
	)
}
