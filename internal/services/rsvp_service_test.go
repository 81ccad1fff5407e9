package services

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinner-planner/config"
	"dinner-planner/internal/status"
	"dinner-planner/models"
	"dinner-planner/utils"
)

func setupTestRSVPService() (*RSVPService, redismock.ClientMock) {
	db, mock := redismock.NewClientMock()
	cfg := &config.Config{
		RSVPLockTTL:          10 * time.Second,
		AvailabilityCacheTTL: 24 * time.Hour,
		InviteCodeLength:     4,
	}

	events := &EventService{Redis: db, Config: cfg}
	communities := &CommunityService{}

	service := &RSVPService{
		Redis:         db,
		Events:        events,
		Communities:   communities,
		Config:        cfg,
		notifyBreaker: utils.NewCircuitBreaker("host-notify-test"),
	}

	return service, mock
}

func TestRSVPService_SubmitRSVP_LockContended(t *testing.T) {
	service, mock := setupTestRSVPService()
	defer mock.ClearExpect()

	ctx := context.Background()

	mock.ExpectSetNX("rsvp:lock:event-1", "user-a", service.Config.RSVPLockTTL).SetVal(false)

	_, err := service.SubmitRSVP(ctx, "event-1", SubmitRSVPRequest{
		AttendeeID: "user-a",
		Name:       "Alice",
		Email:      "alice@example.com",
		Status:     models.StatusGoing,
	})

	assert.ErrorIs(t, err, status.ErrRSVPInProgress)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRSVPService_CheckAccess_PrivateEvent(t *testing.T) {
	service, _ := setupTestRSVPService()
	ctx := context.Background()

	event := &models.Event{
		ID:         "event-1",
		Visibility: models.VisibilityPrivate,
		InviteCode: "AB12",
	}

	err := service.checkAccess(ctx, event, SubmitRSVPRequest{AttendeeID: "user-a", InviteCode: "AB12"})
	assert.NoError(t, err)

	// Codes are generated uppercase but guests type them however.
	err = service.checkAccess(ctx, event, SubmitRSVPRequest{AttendeeID: "user-a", InviteCode: "ab12"})
	assert.NoError(t, err)

	err = service.checkAccess(ctx, event, SubmitRSVPRequest{AttendeeID: "user-a", InviteCode: "WRONG"})
	assert.ErrorIs(t, err, status.ErrInvalidInviteCode)

	err = service.checkAccess(ctx, event, SubmitRSVPRequest{AttendeeID: "user-a"})
	assert.ErrorIs(t, err, status.ErrInvalidInviteCode)
}

func TestRSVPService_CheckAccess_PrivateEventWithoutStoredCode(t *testing.T) {
	service, _ := setupTestRSVPService()
	ctx := context.Background()

	// A private event that somehow lost its code admits nobody.
	event := &models.Event{
		ID:         "event-1",
		Visibility: models.VisibilityPrivate,
	}

	err := service.checkAccess(ctx, event, SubmitRSVPRequest{AttendeeID: "user-a"})
	assert.ErrorIs(t, err, status.ErrInvalidInviteCode)
}

func TestRSVPService_CheckAccess_PublicEvent(t *testing.T) {
	service, _ := setupTestRSVPService()
	ctx := context.Background()

	event := &models.Event{ID: "event-1", Visibility: models.VisibilityPublic}

	err := service.checkAccess(ctx, event, SubmitRSVPRequest{AttendeeID: "user-a"})
	assert.NoError(t, err)
}

func TestRSVPService_ReleaseLockSurvivesRequestCancel(t *testing.T) {
	service, mock := setupTestRSVPService()
	defer mock.ClearExpect()

	// The RSVP handler's request context is canceled when the client
	// disconnects; the lock must still be released immediately.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mock.ExpectDel("rsvp:lock:event-1").SetVal(1)

	service.releaseLock(ctx, "rsvp:lock:event-1")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVenmoPayee(t *testing.T) {
	assert.Equal(t, "@alex-chen", venmoPayee("alex-chen", "Alex Chen"))
	assert.Equal(t, "@alex-chen", venmoPayee("@alex-chen", "Alex Chen"))
	assert.Equal(t, "Alex Chen", venmoPayee("", "Alex Chen"))
}

func TestEventService_RefreshAvailability(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer mock.ClearExpect()

	cfg := &config.Config{AvailabilityCacheTTL: 24 * time.Hour}
	service := &EventService{Redis: db, Config: cfg}

	event := &models.Event{ID: "event-1", Capacity: 4}
	event.Attendees = models.NewStatusGroups()
	event.Attendees = event.Attendees.SetStatus("user-a", models.StatusGoing, models.Attendee{ID: "user-a", Name: "Alice", Email: "a@example.com"})
	event.Attendees = event.Attendees.SetStatus("user-b", models.StatusMaybe, models.Attendee{ID: "user-b", Name: "Bob", Email: "b@example.com"})

	mock.ExpectHSet("event:avail:event-1", "going", 1, "maybe", 1, "capacity", 4, "spots", 2).SetVal(4)
	mock.ExpectExpire("event:avail:event-1", cfg.AvailabilityCacheTTL).SetVal(true)
	mock.ExpectSAdd("events:active", "event-1").SetVal(1)

	service.RefreshAvailability(context.Background(), event)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventService_AvailabilitySnapshot(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer mock.ClearExpect()

	service := &EventService{Redis: db, Config: &config.Config{}}
	ctx := context.Background()

	mock.ExpectHMGet("event:avail:event-1", "going", "maybe").SetVal([]interface{}{"3", "1"})

	going, maybe, ok := service.availabilitySnapshot(ctx, "event-1")

	require.True(t, ok)
	assert.Equal(t, 3, going)
	assert.Equal(t, 1, maybe)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventService_AvailabilitySnapshot_CacheMiss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer mock.ClearExpect()

	service := &EventService{Redis: db, Config: &config.Config{}}

	mock.ExpectHMGet("event:avail:event-1", "going", "maybe").SetVal([]interface{}{nil, nil})

	_, _, ok := service.availabilitySnapshot(context.Background(), "event-1")

	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventService_DropAvailability(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer mock.ClearExpect()

	service := &EventService{Redis: db, Config: &config.Config{}}

	mock.ExpectDel("event:avail:event-1").SetVal(1)
	mock.ExpectSRem("events:active", "event-1").SetVal(1)

	service.DropAvailability(context.Background(), "event-1")

	assert.NoError(t, mock.ExpectationsWereMet())
}
