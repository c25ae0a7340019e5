package domain

import "time"

// ResourceLink binds an identity to a resource. At most one active link
// exists per (IdentityID, ResourceID).
type ResourceLink struct {
	ID         string
	IdentityID string
	ResourceID string
	InviteID   string // empty when not created through an invite
	IsActive   bool
	CreatedAt  time.Time
}
