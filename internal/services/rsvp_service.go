package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	pubnub "github.com/pubnub/go"
	"github.com/redis/go-redis/v9"

	"dinner-planner/config"
	"dinner-planner/internal/status"
	"dinner-planner/models"
	"dinner-planner/monitoring"
	"dinner-planner/utils"
)

type RSVPService struct {
	App         core.App
	Redis       *redis.Client
	PubNub      *pubnub.PubNub
	Events      *EventService
	Communities *CommunityService
	Config      *config.Config

	notifyBreaker *utils.CircuitBreaker
}

func NewRSVPService(app core.App, redisClient *redis.Client, pn *pubnub.PubNub, events *EventService, communities *CommunityService, cfg *config.Config) *RSVPService {
	return &RSVPService{
		App:           app,
		Redis:         redisClient,
		PubNub:        pn,
		Events:        events,
		Communities:   communities,
		Config:        cfg,
		notifyBreaker: utils.NewCircuitBreaker("host-notify"),
	}
}

type SubmitRSVPRequest struct {
	AttendeeID string
	Name       string
	Email      string
	Status     models.RSVPStatus
	InviteCode string
}

// SubmitRSVP runs the read-modify-write cycle for one attendee's status.
//
// The status groups column is always replaced in full, so two writers
// racing on the same event overwrite each other wholesale. A short
// per-event Redis lock serializes writers that go through this server;
// when Redis itself is unavailable the cycle proceeds unlocked and the
// last completed write wins, which is the store's baseline behavior
// anyway.
func (s *RSVPService) SubmitRSVP(ctx context.Context, eventID string, req SubmitRSVPRequest) (*models.Event, error) {
	lockKey := fmt.Sprintf("rsvp:lock:%s", eventID)

	acquired, err := s.Redis.SetNX(ctx, lockKey, req.AttendeeID, s.Config.RSVPLockTTL).Result()
	if err != nil {
		slog.Error("RSVP lock unavailable, proceeding unlocked", "event_id", eventID, "error", err)
	} else if !acquired {
		monitoring.TrackRSVP(eventID, string(req.Status), "contended")
		return nil, status.ErrRSVPInProgress
	} else {
		defer s.releaseLock(ctx, lockKey)
	}

	record, err := s.App.FindRecordById("events", eventID)
	if err != nil {
		return nil, status.ErrEventNotFound
	}

	event := s.Events.EventFromRecord(record)

	if err := s.checkAccess(ctx, event, req); err != nil {
		monitoring.TrackRSVP(eventID, string(req.Status), "denied")
		return nil, err
	}

	attendee := models.Attendee{
		ID:    req.AttendeeID,
		Name:  req.Name,
		Email: req.Email,
	}
	if event.IsPaid && req.Status == models.StatusGoing {
		attendee.PaymentStatus = "pending"
	}

	groups := event.Attendees.SetStatus(req.AttendeeID, req.Status, attendee)

	// Full replacement of the stored groups value, never a partial patch.
	record.Set("attendees_by_status", groups)
	if err := s.App.Save(record); err != nil {
		monitoring.TrackRSVP(eventID, string(req.Status), "error")
		return nil, fmt.Errorf("save rsvp: %w", err)
	}

	event.Attendees = groups
	s.Events.RefreshAvailability(ctx, event)
	monitoring.TrackRSVP(eventID, string(req.Status), "success")

	go s.notifyHost(event, attendee, req.Status)

	return event, nil
}

// releaseLock deletes the per-event lock on a detached context: the
// caller disconnecting must not leave the lock to expire by TTL.
func (s *RSVPService) releaseLock(ctx context.Context, key string) {
	s.Redis.Del(context.WithoutCancel(ctx), key)
}

// HostPaymentHandle resolves where guests send money for a paid event:
// the host profile's Venmo handle when one is set, the host display
// name otherwise.
func (s *RSVPService) HostPaymentHandle(ctx context.Context, event *models.Event) string {
	profile, err := s.App.FindRecordById("profiles", event.HostID)
	if err != nil {
		return event.HostName
	}
	return venmoPayee(profile.GetString("venmo_handle"), event.HostName)
}

func venmoPayee(handle, hostName string) string {
	if handle == "" {
		return hostName
	}
	return "@" + strings.TrimPrefix(handle, "@")
}

func (s *RSVPService) checkAccess(ctx context.Context, event *models.Event, req SubmitRSVPRequest) error {
	switch event.Visibility {
	case models.VisibilityPrivate:
		if !strings.EqualFold(req.InviteCode, event.InviteCode) || event.InviteCode == "" {
			return status.ErrInvalidInviteCode
		}
	case models.VisibilityCommunity:
		if event.CommunityID == "" {
			return nil
		}
		isMember, err := s.Communities.IsMember(ctx, event.CommunityID, req.AttendeeID)
		if err != nil {
			return err
		}
		if !isMember {
			return status.ErrNotCommunityMember
		}
	}
	return nil
}

// notifyHost publishes a fire-and-forget RSVP notice to the host's
// channel. Nothing client-facing depends on it and failures only get
// logged.
func (s *RSVPService) notifyHost(event *models.Event, attendee models.Attendee, rsvpStatus models.RSVPStatus) {
	if s.PubNub == nil {
		return
	}

	channel := fmt.Sprintf("host-rsvp-%s", event.HostID)
	message := map[string]any{
		"event_id":      event.ID,
		"event_title":   event.Title,
		"attendee_name": attendee.Name,
		"status":        string(rsvpStatus),
		"going_count":   len(event.Attendees.Going),
		"spots_left":    event.AvailableSpots(),
	}

	_, err := s.notifyBreaker.Execute(context.Background(), func() (any, error) {
		_, _, err := s.PubNub.Publish().
			Channel(channel).
			Message(message).
			Execute()
		return nil, err
	})
	if err != nil {
		monitoring.TrackNotifyFailure()
		slog.Error("Failed to notify host", "event_id", event.ID, "host_id", event.HostID, "error", err)
	}
}
