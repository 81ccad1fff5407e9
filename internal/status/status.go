package status

import "errors"

var (
	ErrEventNotFound      = errors.New("event: event not found")
	ErrCommunityNotFound  = errors.New("community: community not found")
	ErrInvalidInviteCode  = errors.New("event: invalid invite code")
	ErrNotCommunityMember = errors.New("community: user is not a member")
	ErrRSVPInProgress     = errors.New("rsvp: another update is in progress")
)
