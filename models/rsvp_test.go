package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attendee(id, name string) Attendee {
	return Attendee{ID: id, Name: name, Email: name + "@example.com"}
}

func TestStatusGroups_SetStatus_NewAttendee(t *testing.T) {
	groups := NewStatusGroups()
	groups.Going = append(groups.Going, attendee("user-a", "Alice"))

	updated := groups.SetStatus("user-b", StatusGoing, attendee("user-b", "Bob"))

	require.Len(t, updated.Going, 2)
	assert.Equal(t, "user-a", updated.Going[0].ID)
	assert.Equal(t, "user-b", updated.Going[1].ID)

	// Other buckets stay untouched.
	assert.Empty(t, updated.Maybe)
	assert.Empty(t, updated.NotGoing)
}

func TestStatusGroups_SetStatus_DenormalizesStatus(t *testing.T) {
	groups := NewStatusGroups()

	updated := groups.SetStatus("user-a", StatusMaybe, attendee("user-a", "Alice"))

	require.Len(t, updated.Maybe, 1)
	assert.Equal(t, StatusMaybe, updated.Maybe[0].RSVPStatus)
}

func TestStatusGroups_SetStatus_MovesBetweenBuckets(t *testing.T) {
	groups := NewStatusGroups()
	groups = groups.SetStatus("user-a", StatusGoing, attendee("user-a", "Alice"))
	groups = groups.SetStatus("user-b", StatusGoing, attendee("user-b", "Bob"))

	updated := groups.SetStatus("user-a", StatusNotGoing, attendee("user-a", "Alice"))

	// user-a occupies exactly the not_going bucket.
	require.Len(t, updated.NotGoing, 1)
	assert.Equal(t, "user-a", updated.NotGoing[0].ID)

	require.Len(t, updated.Going, 1)
	assert.Equal(t, "user-b", updated.Going[0].ID)
	assert.Empty(t, updated.Maybe)
}

func TestStatusGroups_SetStatus_UniquenessAcrossBuckets(t *testing.T) {
	groups := NewStatusGroups()
	// Simulate drifted storage where the same id ended up in two buckets.
	groups.Going = append(groups.Going, attendee("user-a", "Alice"))
	groups.Maybe = append(groups.Maybe, attendee("user-a", "Alice"))

	updated := groups.SetStatus("user-a", StatusMaybe, attendee("user-a", "Alice"))

	occurrences := 0
	for _, bucket := range [][]Attendee{updated.Going, updated.Maybe, updated.NotGoing} {
		for _, a := range bucket {
			if a.ID == "user-a" {
				occurrences++
			}
		}
	}
	assert.Equal(t, 1, occurrences)

	_, status, found := updated.Find("user-a")
	require.True(t, found)
	assert.Equal(t, StatusMaybe, status)
}

func TestStatusGroups_SetStatus_Idempotent(t *testing.T) {
	groups := NewStatusGroups()
	groups = groups.SetStatus("user-b", StatusMaybe, attendee("user-b", "Bob"))

	once := groups.SetStatus("user-a", StatusGoing, attendee("user-a", "Alice"))
	twice := once.SetStatus("user-a", StatusGoing, attendee("user-a", "Alice"))

	assert.Equal(t, once, twice)
}

func TestStatusGroups_SetStatus_DoesNotMutateInput(t *testing.T) {
	groups := NewStatusGroups()
	groups = groups.SetStatus("user-a", StatusGoing, attendee("user-a", "Alice"))

	_ = groups.SetStatus("user-a", StatusNotGoing, attendee("user-a", "Alice"))

	// The original value is unchanged; the caller persists the returned copy.
	require.Len(t, groups.Going, 1)
	assert.Empty(t, groups.NotGoing)
}

func TestStatusGroups_AttendeeCount_ExcludesNotGoing(t *testing.T) {
	groups := NewStatusGroups()
	groups = groups.SetStatus("user-a", StatusGoing, attendee("user-a", "Alice"))
	groups = groups.SetStatus("user-b", StatusMaybe, attendee("user-b", "Bob"))
	groups = groups.SetStatus("user-c", StatusNotGoing, attendee("user-c", "Cara"))

	assert.Equal(t, 2, groups.AttendeeCount())
}

func TestStatusGroups_AvailableSpots_NeverNegative(t *testing.T) {
	groups := NewStatusGroups()
	for _, id := range []string{"a", "b", "c", "d"} {
		groups = groups.SetStatus(id, StatusGoing, attendee(id, id))
	}

	assert.Equal(t, 0, groups.AvailableSpots(2))
	assert.True(t, groups.IsFull(2))
	assert.Equal(t, 6, groups.AvailableSpots(10))
	assert.False(t, groups.IsFull(10))
}

func TestStatusGroups_IsFull_AtExactCapacity(t *testing.T) {
	groups := NewStatusGroups()
	groups = groups.SetStatus("user-a", StatusGoing, attendee("user-a", "Alice"))
	groups = groups.SetStatus("user-b", StatusMaybe, attendee("user-b", "Bob"))

	assert.True(t, groups.IsFull(2))
	assert.False(t, groups.IsFull(3))
}

// Capacity 2, A going. B joins, the event fills up, then A backs out.
func TestStatusGroups_WaitlistScenario(t *testing.T) {
	const capacity = 2

	groups := NewStatusGroups()
	groups = groups.SetStatus("user-a", StatusGoing, attendee("user-a", "Alice"))

	groups = groups.SetStatus("user-b", StatusGoing, attendee("user-b", "Bob"))
	assert.Equal(t, 2, groups.AttendeeCount())
	assert.True(t, groups.IsFull(capacity))

	groups = groups.SetStatus("user-a", StatusNotGoing, attendee("user-a", "Alice"))

	require.Len(t, groups.Going, 1)
	assert.Equal(t, "user-b", groups.Going[0].ID)
	require.Len(t, groups.NotGoing, 1)
	assert.Equal(t, "user-a", groups.NotGoing[0].ID)
	assert.Equal(t, 1, groups.AttendeeCount())
	assert.False(t, groups.IsFull(capacity))
}

func TestStatusGroups_SetStatus_UnknownStatusIsNoOp(t *testing.T) {
	groups := NewStatusGroups()
	groups = groups.SetStatus("user-a", StatusGoing, attendee("user-a", "Alice"))

	updated := groups.SetStatus("user-a", RSVPStatus("waitlist"), attendee("user-a", "Alice"))

	// The attendee keeps their bucket instead of vanishing from all three.
	assert.Equal(t, groups, updated)
	_, status, found := updated.Find("user-a")
	require.True(t, found)
	assert.Equal(t, StatusGoing, status)
}

func TestLegacyStatusGroups(t *testing.T) {
	attendees := []any{
		map[string]any{"id": "u1", "name": "Alice", "email": "alice@example.com"},
		map[string]any{"id": "u2", "name": "Bob", "email": "bob@example.com"},
		"not an object",
	}
	waitlist := []any{
		map[string]any{"id": "u3", "name": "Cara", "email": "cara@example.com"},
	}

	groups := LegacyStatusGroups(attendees, waitlist)

	require.Len(t, groups.Going, 2)
	assert.Equal(t, StatusGoing, groups.Going[0].RSVPStatus)
	require.Len(t, groups.Maybe, 1)
	assert.Equal(t, "u3", groups.Maybe[0].ID)
	assert.Equal(t, StatusMaybe, groups.Maybe[0].RSVPStatus)
	assert.Empty(t, groups.NotGoing)
}

func TestLegacyStatusGroups_NilColumns(t *testing.T) {
	assert.Equal(t, NewStatusGroups(), LegacyStatusGroups(nil, nil))
}

func TestStatusGroupsFromAny_Defaults(t *testing.T) {
	assert.Equal(t, NewStatusGroups(), StatusGroupsFromAny(nil))
	assert.Equal(t, NewStatusGroups(), StatusGroupsFromAny("not an object"))
	assert.Equal(t, NewStatusGroups(), StatusGroupsFromAny([]any{"array", "not", "object"}))
}

func TestStatusGroupsFromAny_BucketsDegradeIndividually(t *testing.T) {
	groups := StatusGroupsFromAny(map[string]any{
		"going": []any{
			map[string]any{"id": "user-a", "name": "Alice", "email": "alice@example.com"},
		},
		"maybe": "corrupted",
		// not_going absent entirely
	})

	require.Len(t, groups.Going, 1)
	assert.Equal(t, "user-a", groups.Going[0].ID)
	assert.Empty(t, groups.Maybe)
	assert.Empty(t, groups.NotGoing)
}
