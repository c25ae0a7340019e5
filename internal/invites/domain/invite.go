package domain

import (
	"errors"
	"time"
)

// Reasons an invite cannot be redeemed. Check reports them in this order.
var (
	ErrRevoked   = errors.New("invite revoked")
	ErrExpired   = errors.New("invite expired")
	ErrExhausted = errors.New("invite exhausted")
)

type InviteStatus string

const (
	InviteActive    InviteStatus = "active"
	InviteRevoked   InviteStatus = "revoked"
	InviteExpired   InviteStatus = "expired"
	InviteExhausted InviteStatus = "exhausted"
)

// Invite grants Role on ResourceID to whoever redeems its secret, up to
// MaxUses times before ExpiresAt. Only the secret's fingerprint is stored.
type Invite struct {
	ID         string
	TokenHash  string
	ResourceID string
	IssuerID   string
	Role       Role
	MaxUses    int
	UseCount   int
	ExpiresAt  time.Time
	RevokedAt  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// ArchivedAt is set by housekeeping once the invite is long expired.
	ArchivedAt *time.Time
}

// Check returns nil if the invite is redeemable at now, otherwise the first
// failing reason: revoked, then expired, then exhausted.
func (i *Invite) Check(now time.Time) error {
	switch {
	case i.RevokedAt != nil:
		return ErrRevoked
	case !now.Before(i.ExpiresAt):
		return ErrExpired
	case i.UseCount >= i.MaxUses:
		return ErrExhausted
	}
	return nil
}

func (i *Invite) Status(now time.Time) InviteStatus {
	switch i.Check(now) {
	case ErrRevoked:
		return InviteRevoked
	case ErrExpired:
		return InviteExpired
	case ErrExhausted:
		return InviteExhausted
	}
	return InviteActive
}

// RemainingUses never goes negative.
func (i *Invite) RemainingUses() int {
	return max(i.MaxUses-i.UseCount, 0)
}
