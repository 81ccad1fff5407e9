package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/pocketbase/pocketbase/core"

	"dinner-planner/internal/status"
	"dinner-planner/models"
)

type CommunityService struct {
	App core.App
}

func NewCommunityService(app core.App) *CommunityService {
	return &CommunityService{App: app}
}

// CommunityFromRecord narrows the stored member and admin id arrays,
// each degrading to empty on malformed data.
func (s *CommunityService) CommunityFromRecord(record *core.Record) *models.Community {
	return &models.Community{
		ID:          record.Id,
		Name:        record.GetString("name"),
		Description: record.GetString("description"),
		Members:     stringsFromJSONField(record, "members"),
		Admins:      stringsFromJSONField(record, "admins"),
		Created:     record.GetDateTime("created").Time(),
		Updated:     record.GetDateTime("updated").Time(),
	}
}

func stringsFromJSONField(record *core.Record, field string) []string {
	var ids []string
	if err := record.UnmarshalJSONField(field, &ids); err != nil || ids == nil {
		return []string{}
	}
	return ids
}

func (s *CommunityService) Get(ctx context.Context, communityID string) (*models.Community, error) {
	record, err := s.App.FindRecordById("communities", communityID)
	if err != nil {
		return nil, status.ErrCommunityNotFound
	}
	return s.CommunityFromRecord(record), nil
}

func (s *CommunityService) List(ctx context.Context) ([]*models.Community, error) {
	records, err := s.App.FindRecordsByFilter("communities", "id != ''", "name", -1, 0)
	if err != nil {
		return nil, fmt.Errorf("list communities: %w", err)
	}

	communities := make([]*models.Community, 0, len(records))
	for _, record := range records {
		communities = append(communities, s.CommunityFromRecord(record))
	}
	return communities, nil
}

// Create inserts a community with the creator as first member and admin.
func (s *CommunityService) Create(ctx context.Context, creatorID, name, description string) (*models.Community, error) {
	collection, err := s.App.FindCollectionByNameOrId("communities")
	if err != nil {
		return nil, fmt.Errorf("find communities collection: %w", err)
	}

	record := core.NewRecord(collection)
	record.Set("name", name)
	record.Set("description", description)
	record.Set("members", []string{creatorID})
	record.Set("admins", []string{creatorID})

	if err := s.App.Save(record); err != nil {
		return nil, fmt.Errorf("save community: %w", err)
	}

	return s.CommunityFromRecord(record), nil
}

// Join appends the user to the member array and writes the whole array
// back. Like the RSVP groups this is a full-value replacement with no
// merge: two concurrent joins race and the later write wins. Joining a
// community the user already belongs to is a no-op.
func (s *CommunityService) Join(ctx context.Context, communityID, userID string) (*models.Community, error) {
	record, err := s.App.FindRecordById("communities", communityID)
	if err != nil {
		return nil, status.ErrCommunityNotFound
	}

	community := s.CommunityFromRecord(record)
	if slices.Contains(community.Members, userID) {
		return community, nil
	}

	members := append(community.Members, userID)
	record.Set("members", members)

	if err := s.App.Save(record); err != nil {
		return nil, fmt.Errorf("save community members: %w", err)
	}

	community.Members = members
	return community, nil
}

func (s *CommunityService) IsMember(ctx context.Context, communityID, userID string) (bool, error) {
	community, err := s.Get(ctx, communityID)
	if err != nil {
		return false, err
	}
	return community.IsMember(userID) || community.IsAdmin(userID), nil
}
