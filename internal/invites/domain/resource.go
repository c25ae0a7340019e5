package domain

import "time"

// Resource is the thing an invite grants access to (a property). Only the
// fields invites need are modelled here.
type Resource struct {
	ID        string
	OwnerID   string
	Name      string
	CreatedAt time.Time
}
