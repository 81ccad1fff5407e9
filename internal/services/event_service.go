package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"dinner-planner/config"
	"dinner-planner/internal/status"
	"dinner-planner/models"
	"dinner-planner/utils"
)

type EventService struct {
	App    core.App
	Redis  *redis.Client
	Config *config.Config
}

func NewEventService(app core.App, redisClient *redis.Client, cfg *config.Config) *EventService {
	return &EventService{
		App:    app,
		Redis:  redisClient,
		Config: cfg,
	}
}

// EventFromRecord maps a raw stored event record to the typed in-memory
// representation. Loosely typed JSON columns are narrowed here, in one
// place: the visibility string is coerced against the closed set and the
// status groups degrade bucket-by-bucket when the stored value is absent
// or malformed.
func (s *EventService) EventFromRecord(record *core.Record) *models.Event {
	var rawGroups any
	if err := record.UnmarshalJSONField("attendees_by_status", &rawGroups); err != nil {
		rawGroups = nil
	}

	attendeeGroups := models.StatusGroupsFromAny(rawGroups)
	if rawGroups == nil {
		// Rows written before the grouped column existed carry flat
		// attendees and waitlist arrays instead.
		var legacyAttendees, legacyWaitlist any
		_ = record.UnmarshalJSONField("attendees", &legacyAttendees)
		_ = record.UnmarshalJSONField("waitlist", &legacyWaitlist)
		attendeeGroups = models.LegacyStatusGroups(legacyAttendees, legacyWaitlist)
	}

	return &models.Event{
		ID:          record.Id,
		Title:       record.GetString("title"),
		Description: record.GetString("description"),
		DateTime:    record.GetDateTime("date_time").Time(),
		Location:    record.GetString("location"),
		Capacity:    record.GetInt("capacity"),
		Visibility:  models.ParseVisibility(record.GetString("visibility")),
		HostID:      record.GetString("host_id"),
		HostName:    record.GetString("host_name"),
		CommunityID: record.GetString("community_id"),
		IsPaid:      record.GetBool("is_paid"),
		Price:       decimal.NewFromFloat(record.GetFloat("price")),
		Image:       record.GetString("image"),
		InviteCode:  record.GetString("invite_code"),
		Attendees:   attendeeGroups,
		Created:     record.GetDateTime("created").Time(),
		Updated:     record.GetDateTime("updated").Time(),
	}
}

type CreateEventInput struct {
	Title       string
	Description string
	DateTime    time.Time
	Location    string
	Capacity    int
	Visibility  models.Visibility
	CommunityID string
	IsPaid      bool
	Price       decimal.Decimal
	Image       string
}

// Create inserts a new event hosted by the authenticated user. The host
// display name comes from the profiles collection when one exists, and
// private events get an invite code to share out-of-band.
func (s *EventService) Create(ctx context.Context, host *core.Record, input CreateEventInput) (*models.Event, error) {
	hostName := host.GetString("name")
	if profile, err := s.App.FindRecordById("profiles", host.Id); err == nil {
		if name := profile.GetString("name"); name != "" {
			hostName = name
		}
	}
	if hostName == "" {
		hostName = host.GetString("email")
	}

	collection, err := s.App.FindCollectionByNameOrId("events")
	if err != nil {
		return nil, fmt.Errorf("find events collection: %w", err)
	}

	record := core.NewRecord(collection)
	record.Set("title", input.Title)
	record.Set("description", input.Description)
	record.Set("date_time", input.DateTime)
	record.Set("location", input.Location)
	record.Set("capacity", input.Capacity)
	record.Set("visibility", string(input.Visibility))
	record.Set("host_id", host.Id)
	record.Set("host_name", hostName)
	record.Set("community_id", input.CommunityID)
	record.Set("is_paid", input.IsPaid)
	record.Set("image", input.Image)
	record.Set("attendees_by_status", models.NewStatusGroups())

	if input.IsPaid {
		price, _ := input.Price.Float64()
		record.Set("price", price)
	}

	if input.Visibility == models.VisibilityPrivate {
		code, err := utils.GenerateInviteCode(s.Config.InviteCodeLength)
		if err != nil {
			return nil, fmt.Errorf("generate invite code: %w", err)
		}
		record.Set("invite_code", code)
	}

	if err := s.App.Save(record); err != nil {
		return nil, fmt.Errorf("save event: %w", err)
	}

	event := s.EventFromRecord(record)
	s.RefreshAvailability(ctx, event)

	return event, nil
}

func (s *EventService) Get(ctx context.Context, eventID string) (*models.Event, error) {
	record, err := s.App.FindRecordById("events", eventID)
	if err != nil {
		return nil, status.ErrEventNotFound
	}
	return s.EventFromRecord(record), nil
}

// EventSummary is the lightweight listing row: occupancy comes from the
// Redis availability snapshot with a record fallback on cache miss.
type EventSummary struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	DateTime       string     `json:"date_time"`
	Location       string     `json:"location"`
	Capacity       int        `json:"capacity"`
	Visibility     string     `json:"visibility"`
	HostName       string     `json:"host_name"`
	IsPaid         bool       `json:"is_paid"`
	Price          float64    `json:"price"`
	AttendeeCount  int        `json:"attendee_count"`
	AvailableSpots int        `json:"available_spots"`
	IsFull         bool       `json:"is_full"`
}

type eventRow struct {
	ID         string  `db:"id"`
	Title      string  `db:"title"`
	DateTime   string  `db:"date_time"`
	Location   string  `db:"location"`
	Capacity   int     `db:"capacity"`
	Visibility string  `db:"visibility"`
	HostName   string  `db:"host_name"`
	IsPaid     bool    `db:"is_paid"`
	Price      float64 `db:"price"`
}

// ListUpcoming returns public events that have not started yet, soonest
// first.
func (s *EventService) ListUpcoming(ctx context.Context) ([]EventSummary, error) {
	rows := []eventRow{}
	err := s.App.DB().
		Select("id", "title", "date_time", "location", "capacity", "visibility", "host_name", "is_paid", "price").
		From("events").
		Where(dbx.HashExp{"visibility": string(models.VisibilityPublic)}).
		AndWhere(dbx.NewExp("date_time >= {:now}", dbx.Params{"now": upcomingCutoff(time.Now())})).
		OrderBy("date_time ASC").
		All(&rows)
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}

	summaries := make([]EventSummary, 0, len(rows))
	for _, row := range rows {
		going, maybe, ok := s.availabilitySnapshot(ctx, row.ID)
		if !ok {
			// Cache miss: fall back to the record and repopulate.
			event, err := s.Get(ctx, row.ID)
			if err != nil {
				continue
			}
			going = len(event.Attendees.Going)
			maybe = len(event.Attendees.Maybe)
			s.RefreshAvailability(ctx, event)
		}

		attendeeCount := going + maybe
		spots := row.Capacity - attendeeCount
		if spots < 0 {
			spots = 0
		}

		summaries = append(summaries, EventSummary{
			ID:             row.ID,
			Title:          row.Title,
			DateTime:       row.DateTime,
			Location:       row.Location,
			Capacity:       row.Capacity,
			Visibility:     row.Visibility,
			HostName:       row.HostName,
			IsPaid:         row.IsPaid,
			Price:          row.Price,
			AttendeeCount:  attendeeCount,
			AvailableSpots: spots,
			IsFull:         spots == 0,
		})
	}

	return summaries, nil
}

// ListByCommunity returns a community's events ordered by date.
func (s *EventService) ListByCommunity(ctx context.Context, communityID string) ([]*models.Event, error) {
	records, err := s.App.FindRecordsByFilter(
		"events",
		"community_id = {:communityId}",
		"date_time",
		-1,
		0,
		map[string]any{"communityId": communityID},
	)
	if err != nil {
		return nil, fmt.Errorf("list community events: %w", err)
	}

	events := make([]*models.Event, 0, len(records))
	for _, record := range records {
		events = append(events, s.EventFromRecord(record))
	}
	return events, nil
}

// RefreshAvailability writes the occupancy snapshot used by listings and
// the metrics collector. Failures are logged, never surfaced: the cache
// is a convenience, the record stays authoritative.
func (s *EventService) RefreshAvailability(ctx context.Context, event *models.Event) {
	key := availabilityKey(event.ID)

	err := s.Redis.HSet(ctx, key,
		"going", len(event.Attendees.Going),
		"maybe", len(event.Attendees.Maybe),
		"capacity", event.Capacity,
		"spots", event.AvailableSpots(),
	).Err()
	if err != nil {
		slog.Error("Failed to refresh availability cache", "event_id", event.ID, "error", err)
		return
	}

	s.Redis.Expire(ctx, key, s.Config.AvailabilityCacheTTL)
	s.Redis.SAdd(ctx, "events:active", event.ID)
}

// DropAvailability removes a deleted event from the cache and the active
// set.
func (s *EventService) DropAvailability(ctx context.Context, eventID string) {
	s.Redis.Del(ctx, availabilityKey(eventID))
	s.Redis.SRem(ctx, "events:active", eventID)
}

func (s *EventService) availabilitySnapshot(ctx context.Context, eventID string) (going, maybe int, ok bool) {
	vals, err := s.Redis.HMGet(ctx, availabilityKey(eventID), "going", "maybe").Result()
	if err != nil || len(vals) != 2 || vals[0] == nil || vals[1] == nil {
		return 0, 0, false
	}

	going, err1 := toInt(vals[0])
	maybe, err2 := toInt(vals[1])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return going, maybe, true
}

func toInt(v any) (int, error) {
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("unexpected value %v", v)
	}
	var n int
	_, err := fmt.Sscanf(s, "%d", &n)
	return n, err
}

func availabilityKey(eventID string) string {
	return fmt.Sprintf("event:avail:%s", eventID)
}

// upcomingCutoff renders now in the stored date layout. The date_time
// column holds "2006-01-02 15:04:05.000Z" strings and the database
// compares them as text, so the parameter must use the same layout.
func upcomingCutoff(now time.Time) string {
	dt, err := types.ParseDateTime(now.UTC())
	if err != nil {
		return types.NowDateTime().String()
	}
	return dt.String()
}
