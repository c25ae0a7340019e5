package store

import (
	"context"
	"errors"
	"time"

	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrBusy reports lock contention (SQLITE_BUSY/LOCKED or equivalent).
	// The operation did not apply and may be retried.
	ErrBusy = errors.New("store: busy")
)

// IsTransient reports whether err is a storage failure worth retrying:
// contention, or a uniqueness race lost to a concurrent writer.
func IsTransient(err error) bool {
	return errors.Is(err, ErrBusy) || errors.Is(err, ErrAlreadyExists)
}

// Store is the root data access interface. Drivers implement it and expose
// sub-repositories as methods, so a Tx-scoped store can hand out the same
// repos bound to the transaction.
type Store interface {
	Invites() Invites
	Identities() Identities
	Resources() Resources
	Links() Links

	ApplyMigrations() error

	// Tx starts a read/write transaction that holds the write lock from its
	// first statement. The caller MUST call Commit() or Rollback().
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Invites interface {
	// CreateInvite writes a new invite. token_hash is unique.
	CreateInvite(ctx context.Context, inv domain.Invite) error

	GetInviteByID(ctx context.Context, id string) (domain.Invite, error)

	// GetInviteByTokenHash looks an invite up by its secret's fingerprint,
	// regardless of status.
	GetInviteByTokenHash(ctx context.Context, hash string) (domain.Invite, error)

	// ListInvitesByResource returns all invites for a resource, newest first.
	ListInvitesByResource(ctx context.Context, resourceID string) ([]domain.Invite, error)

	// ConsumeInviteUse increments use_count only while the invite is still
	// redeemable at now. It reports false when no row changed.
	ConsumeInviteUse(ctx context.Context, id string, now time.Time) (bool, error)

	// RevokeInvite sets revoked_at if it is not already set. Reports whether
	// this call revoked it.
	RevokeInvite(ctx context.Context, id string, now time.Time) (bool, error)

	// ArchiveInvitesExpiredBefore stamps archived_at on invites that expired
	// before cutoff. Archived rows stay readable by id and hash but drop out
	// of listings. Housekeeping only; never runs inside a redemption.
	ArchiveInvitesExpiredBefore(ctx context.Context, cutoff, now time.Time) (int64, error)
}

type Identities interface {
	// CreateIdentity inserts an identity. external_auth_id is unique.
	CreateIdentity(ctx context.Context, id domain.Identity) error

	GetIdentityByID(ctx context.Context, id string) (domain.Identity, error)
	GetIdentityByExternalAuthID(ctx context.Context, externalAuthID string) (domain.Identity, error)

	// SetRoleIfUnset assigns role only when the identity has none. Reports
	// whether the role changed.
	SetRoleIfUnset(ctx context.Context, id string, role domain.Role, now time.Time) (bool, error)

	MarkOnboardingComplete(ctx context.Context, id string, now time.Time) error
}

type Resources interface {
	CreateResource(ctx context.Context, r domain.Resource) error
	GetResourceByID(ctx context.Context, id string) (domain.Resource, error)
}

type Links interface {
	// CreateLink inserts a link. A second active link for the same
	// (identity, resource) fails with ErrAlreadyExists.
	CreateLink(ctx context.Context, l domain.ResourceLink) error

	GetActiveLink(ctx context.Context, identityID, resourceID string) (domain.ResourceLink, error)
	ListActiveLinksByIdentity(ctx context.Context, identityID string) ([]domain.ResourceLink, error)
}
