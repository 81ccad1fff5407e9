package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"dinner-planner/internal/services"
	"dinner-planner/internal/status"
	"dinner-planner/models"
)

type EventHandler struct {
	app          *pocketbase.PocketBase
	eventService *services.EventService
	communities  *services.CommunityService
}

func NewEventHandler(app *pocketbase.PocketBase, eventService *services.EventService, communities *services.CommunityService) *EventHandler {
	return &EventHandler{
		app:          app,
		eventService: eventService,
		communities:  communities,
	}
}

// CreateEvent - Create a new dinner event hosted by the caller
func (h *EventHandler) CreateEvent(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		DateTime    string  `json:"date_time"`
		Date        string  `json:"date"`
		Time        string  `json:"time"`
		Location    string  `json:"location"`
		Capacity    int     `json:"capacity"`
		Visibility  string  `json:"visibility"`
		CommunityID string  `json:"community_id"`
		IsPaid      bool    `json:"is_paid"`
		Price       float64 `json:"price"`
		Image       string  `json:"image"`
	}

	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	if req.Title == "" || req.Description == "" || req.Location == "" {
		return apis.NewBadRequestError("Title, description and location are required", nil)
	}

	dateTime, err := parseEventDateTime(req.DateTime, req.Date, req.Time)
	if err != nil {
		return apis.NewBadRequestError("Invalid date/time", err)
	}

	if req.Capacity < 1 {
		return apis.NewBadRequestError("Capacity must be a positive number", nil)
	}

	if req.IsPaid && req.Price < 0 {
		return apis.NewBadRequestError("Price must not be negative", nil)
	}

	visibility := models.ParseVisibility(req.Visibility)

	if visibility == models.VisibilityCommunity {
		if req.CommunityID == "" {
			return apis.NewBadRequestError("Community events need a community", nil)
		}
		isMember, err := h.communities.IsMember(e.Request.Context(), req.CommunityID, e.Auth.Id)
		if err != nil {
			return apis.NewBadRequestError("Invalid community", err)
		}
		if !isMember {
			return apis.NewForbiddenError("Only community members can create community events", nil)
		}
	}

	event, err := h.eventService.Create(e.Request.Context(), e.Auth, services.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		DateTime:    dateTime,
		Location:    req.Location,
		Capacity:    req.Capacity,
		Visibility:  visibility,
		CommunityID: req.CommunityID,
		IsPaid:      req.IsPaid,
		Price:       decimal.NewFromFloat(req.Price),
		Image:       req.Image,
	})
	if err != nil {
		return apis.NewBadRequestError("Failed to create event", err)
	}

	response := map[string]any{
		"event": event,
	}
	if event.Visibility == models.VisibilityPrivate {
		// Only the host ever sees the code; guests get it out-of-band.
		response["invite_code"] = event.InviteCode
	}

	return e.JSON(http.StatusOK, response)
}

// GetEvent - Get one event with derived availability
func (h *EventHandler) GetEvent(e *core.RequestEvent) error {
	eventID := e.Request.PathValue("eventId")
	if eventID == "" {
		return apis.NewBadRequestError("Event ID is required", nil)
	}

	event, err := h.eventService.Get(e.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, status.ErrEventNotFound) {
			return apis.NewNotFoundError("Event not found", err)
		}
		return apis.NewBadRequestError("Failed to get event", err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"event":           event,
		"attendee_count":  event.AttendeeCount(),
		"available_spots": event.AvailableSpots(),
		"is_full":         event.IsFull(),
		"rsvp_action":     event.RSVPAction(),
	})
}

// ListEvents - List upcoming public events
func (h *EventHandler) ListEvents(e *core.RequestEvent) error {
	summaries, err := h.eventService.ListUpcoming(e.Request.Context())
	if err != nil {
		return apis.NewBadRequestError("Failed to list events", err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"events": summaries,
		"total":  len(summaries),
	})
}

// GetAttendees - List an event's attendees grouped by RSVP status
func (h *EventHandler) GetAttendees(e *core.RequestEvent) error {
	eventID := e.Request.PathValue("eventId")

	event, err := h.eventService.Get(e.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, status.ErrEventNotFound) {
			return apis.NewNotFoundError("Event not found", err)
		}
		return apis.NewBadRequestError("Failed to get event", err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"attendees_by_status": event.Attendees,
		"counts": map[string]int{
			"going":     len(event.Attendees.Going),
			"maybe":     len(event.Attendees.Maybe),
			"not_going": len(event.Attendees.NotGoing),
		},
		"attendee_count":  event.AttendeeCount(),
		"available_spots": event.AvailableSpots(),
	})
}

// parseEventDateTime accepts either a single RFC3339 value or separate
// date and time inputs as submitted by the create form.
func parseEventDateTime(dateTime, date, timeOfDay string) (time.Time, error) {
	if dateTime != "" {
		return time.Parse(time.RFC3339, dateTime)
	}
	if date == "" || timeOfDay == "" {
		return time.Time{}, errors.New("date and time are required")
	}
	return time.Parse("2006-01-02 15:04", date+" "+timeOfDay)
}
