package service

import (
	"errors"

	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/domain"
)

// Redemption outcomes. The redeemability reasons are the domain's own
// sentinels so Invite.Check results can be returned as-is.
var (
	ErrNotFound  = errors.New("invite not found")
	ErrExpired   = domain.ErrExpired
	ErrRevoked   = domain.ErrRevoked
	ErrExhausted = domain.ErrExhausted

	// ErrTimeout means storage stayed contended after a retry. The outcome
	// of the last attempt was rolled back; callers may retry.
	ErrTimeout = errors.New("redemption timed out")
)

var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrUnauthorized      = errors.New("not authorized for resource")
	ErrIdentityNotFound  = errors.New("identity not found")
	ErrResourceNotFound  = errors.New("resource not found")
	ErrRoleAlreadySet    = errors.New("role already set")
	ErrInvalidRole       = domain.ErrInvalidRole
	ErrInviteTTLTooLong  = errors.New("invite ttl exceeds maximum")
	ErrInviteUsesTooMany = errors.New("invite max uses exceeds maximum")
)
