package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Visibility is an event's discovery scope.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"    // anyone
	VisibilityPrivate   Visibility = "private"   // invitation only
	VisibilityCommunity Visibility = "community" // community members
)

// ParseVisibility narrows a raw string to a Visibility. Anything outside
// the closed set falls back to public; callers cannot observe that the
// coercion happened.
func ParseVisibility(raw string) Visibility {
	switch Visibility(raw) {
	case VisibilityPublic, VisibilityPrivate, VisibilityCommunity:
		return Visibility(raw)
	}
	return VisibilityPublic
}

type Event struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	DateTime    time.Time       `json:"date_time"`
	Location    string          `json:"location"`
	Capacity    int             `json:"capacity"`
	Visibility  Visibility      `json:"visibility"`
	HostID      string          `json:"host_id"`
	HostName    string          `json:"host_name"`
	CommunityID string          `json:"community_id,omitempty"`
	IsPaid      bool            `json:"is_paid"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
	InviteCode  string          `json:"-"` // shared out-of-band for private events
	Attendees   StatusGroups    `json:"attendees_by_status"`
	Created     time.Time       `json:"created"`
	Updated     time.Time       `json:"updated"`
}

func (e *Event) AttendeeCount() int {
	return e.Attendees.AttendeeCount()
}

func (e *Event) AvailableSpots() int {
	return e.Attendees.AvailableSpots(e.Capacity)
}

func (e *Event) IsFull() bool {
	return e.Attendees.IsFull(e.Capacity)
}

// RSVPAction is the label the client should offer: a full event funnels
// newcomers to the waitlist instead of a plain RSVP.
func (e *Event) RSVPAction() string {
	if e.IsFull() {
		return "join_waitlist"
	}
	return "rsvp"
}
