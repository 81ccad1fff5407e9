package models

// StatusGroups is the per-status partition of an event's attendees. It is
// stored as a single JSON column on the event record and always written
// back in full: the store has no partial update for this field, so the
// last completed write wins wholesale.
type StatusGroups struct {
	Going    []Attendee `json:"going"`
	Maybe    []Attendee `json:"maybe"`
	NotGoing []Attendee `json:"not_going"`
}

func NewStatusGroups() StatusGroups {
	return StatusGroups{
		Going:    []Attendee{},
		Maybe:    []Attendee{},
		NotGoing: []Attendee{},
	}
}

// StatusGroupsFromAny coerces a decoded JSON value into status groups.
// Each bucket degrades to empty on its own when missing or malformed.
func StatusGroupsFromAny(value any) StatusGroups {
	obj, ok := value.(map[string]any)
	if !ok {
		return NewStatusGroups()
	}

	return StatusGroups{
		Going:    JSONToAttendees(obj["going"]),
		Maybe:    JSONToAttendees(obj["maybe"]),
		NotGoing: JSONToAttendees(obj["not_going"]),
	}
}

// LegacyStatusGroups folds the flat attendee arrays that predate the
// grouped column: confirmed guests become going, waitlisted guests
// become maybe, each with the status denormalized onto the record.
func LegacyStatusGroups(attendees, waitlist any) StatusGroups {
	groups := NewStatusGroups()
	for _, a := range JSONToAttendees(attendees) {
		a.RSVPStatus = StatusGoing
		groups.Going = append(groups.Going, a)
	}
	for _, a := range JSONToAttendees(waitlist) {
		a.RSVPStatus = StatusMaybe
		groups.Maybe = append(groups.Maybe, a)
	}
	return groups
}

// SetStatus returns a copy of g where attendeeID occupies exactly the
// status bucket and no other. The attendee is first removed from every
// bucket (a no-op for non-members), then rec is appended to the target
// bucket with the status denormalized onto it, which makes the operation
// idempotent for a given (attendeeID, status) pair. A status outside the
// closed set leaves g unchanged.
func (g StatusGroups) SetStatus(attendeeID string, status RSVPStatus, rec Attendee) StatusGroups {
	switch status {
	case StatusGoing, StatusMaybe, StatusNotGoing:
	default:
		// An unknown status must not evict the attendee from their
		// current bucket.
		return g
	}

	out := StatusGroups{
		Going:    removeAttendee(g.Going, attendeeID),
		Maybe:    removeAttendee(g.Maybe, attendeeID),
		NotGoing: removeAttendee(g.NotGoing, attendeeID),
	}

	rec.ID = attendeeID
	rec.RSVPStatus = status

	switch status {
	case StatusGoing:
		out.Going = append(out.Going, rec)
	case StatusMaybe:
		out.Maybe = append(out.Maybe, rec)
	case StatusNotGoing:
		out.NotGoing = append(out.NotGoing, rec)
	}

	return out
}

func removeAttendee(bucket []Attendee, id string) []Attendee {
	out := make([]Attendee, 0, len(bucket))
	for _, a := range bucket {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}

// Find reports the bucket an attendee currently occupies.
func (g StatusGroups) Find(attendeeID string) (Attendee, RSVPStatus, bool) {
	for _, a := range g.Going {
		if a.ID == attendeeID {
			return a, StatusGoing, true
		}
	}
	for _, a := range g.Maybe {
		if a.ID == attendeeID {
			return a, StatusMaybe, true
		}
	}
	for _, a := range g.NotGoing {
		if a.ID == attendeeID {
			return a, StatusNotGoing, true
		}
	}
	return Attendee{}, "", false
}

// AttendeeCount counts occupancy: going plus maybe. Declining attendees
// never take up a spot.
func (g StatusGroups) AttendeeCount() int {
	return len(g.Going) + len(g.Maybe)
}

// AvailableSpots is clamped at zero so an over-subscribed event never
// reports negative capacity.
func (g StatusGroups) AvailableSpots(capacity int) int {
	spots := capacity - g.AttendeeCount()
	if spots < 0 {
		return 0
	}
	return spots
}

func (g StatusGroups) IsFull(capacity int) bool {
	return g.AvailableSpots(capacity) == 0
}
