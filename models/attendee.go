package models

import (
	"fmt"
)

// RSVPStatus is a person's declared attendance intent for an event.
type RSVPStatus string

const (
	StatusGoing    RSVPStatus = "going"
	StatusMaybe    RSVPStatus = "maybe"
	StatusNotGoing RSVPStatus = "not_going"
)

// ParseRSVPStatus validates a raw status string from a request body.
func ParseRSVPStatus(raw string) (RSVPStatus, error) {
	switch RSVPStatus(raw) {
	case StatusGoing, StatusMaybe, StatusNotGoing:
		return RSVPStatus(raw), nil
	}
	return "", fmt.Errorf("unknown rsvp status %q", raw)
}

type Attendee struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	PaymentStatus string     `json:"paymentStatus,omitempty"` // pending, confirmed
	RSVPStatus    RSVPStatus `json:"rsvpStatus,omitempty"`
}

// JSONToAttendees narrows a decoded JSON value into attendee records.
// Elements that are not objects carrying string id, name and email are
// silently dropped; nil or non-array input yields an empty slice. The
// function is total: malformed storage data degrades to "nobody" instead
// of an error, so callers cannot tell empty from broken.
func JSONToAttendees(value any) []Attendee {
	raw, ok := value.([]any)
	if !ok {
		return []Attendee{}
	}

	attendees := make([]Attendee, 0, len(raw))
	for _, el := range raw {
		obj, ok := el.(map[string]any)
		if !ok {
			continue
		}

		id, okID := obj["id"].(string)
		name, okName := obj["name"].(string)
		email, okEmail := obj["email"].(string)
		if !okID || !okName || !okEmail {
			continue
		}

		a := Attendee{ID: id, Name: name, Email: email}
		if ps, ok := obj["paymentStatus"].(string); ok {
			a.PaymentStatus = ps
		}
		if rs, ok := obj["rsvpStatus"].(string); ok {
			a.RSVPStatus = RSVPStatus(rs)
		}
		attendees = append(attendees, a)
	}

	return attendees
}
