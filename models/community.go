package models

import (
	"slices"
	"time"
)

// Community groups events and membership. Admins are tracked separately
// and are not guaranteed to be a subset of members.
type Community struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Members     []string  `json:"members"`
	Admins      []string  `json:"admins"`
	Created     time.Time `json:"created"`
	Updated     time.Time `json:"updated"`
}

func (c *Community) IsMember(userID string) bool {
	return userID != "" && slices.Contains(c.Members, userID)
}

func (c *Community) IsAdmin(userID string) bool {
	return userID != "" && slices.Contains(c.Admins, userID)
}
