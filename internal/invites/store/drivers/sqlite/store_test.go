package sqlite_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/domain"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/store"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/store/drivers/sqlite"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/cryptox"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

type fixture struct {
	owner    domain.Identity
	resource domain.Resource
}

func seed(t *testing.T, s store.Store) fixture {
	t.Helper()
	ctx := t.Context()
	now := time.Now().UTC()

	owner := domain.Identity{ID: idx.New().String(), ExternalAuthID: "owner-" + idx.New().String(), Role: domain.RoleLandlord, OnboardingComplete: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.Identities().CreateIdentity(ctx, owner))

	res := domain.Resource{ID: idx.New().String(), OwnerID: owner.ID, Name: "12 Harbour St", CreatedAt: now}
	require.NoError(t, s.Resources().CreateResource(ctx, res))

	return fixture{owner: owner, resource: res}
}

func newInvite(f fixture, maxUses int, expiresAt time.Time) domain.Invite {
	now := time.Now().UTC()
	return domain.Invite{
		ID:         idx.New().String(),
		TokenHash:  cryptox.FingerprintToken(cryptox.MustGenerateToken(cryptox.TokenSize256)),
		ResourceID: f.resource.ID,
		IssuerID:   f.owner.ID,
		Role:       domain.RoleTenant,
		MaxUses:    maxUses,
		ExpiresAt:  expiresAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(t.Context()))
}

func TestInvites(t *testing.T) {
	s := newStore(t)
	ctx := t.Context()
	f := seed(t, s)

	inv := newInvite(f, 2, time.Now().UTC().Add(time.Hour))
	require.NoError(t, s.Invites().CreateInvite(ctx, inv))

	t.Run("lookup by hash and id", func(t *testing.T) {
		got, err := s.Invites().GetInviteByTokenHash(ctx, inv.TokenHash)
		require.NoError(t, err)
		require.Equal(t, inv.ID, got.ID)
		require.Equal(t, domain.RoleTenant, got.Role)
		require.WithinDuration(t, inv.ExpiresAt, got.ExpiresAt, time.Microsecond)
		require.Nil(t, got.RevokedAt)

		_, err = s.Invites().GetInviteByID(ctx, inv.ID)
		require.NoError(t, err)

		_, err = s.Invites().GetInviteByTokenHash(ctx, "missing")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate hash", func(t *testing.T) {
		dup := newInvite(f, 1, time.Now().UTC().Add(time.Hour))
		dup.TokenHash = inv.TokenHash
		require.ErrorIs(t, s.Invites().CreateInvite(ctx, dup), store.ErrAlreadyExists)
	})

	t.Run("consume stops at max uses", func(t *testing.T) {
		now := time.Now().UTC()
		for range 2 {
			ok, err := s.Invites().ConsumeInviteUse(ctx, inv.ID, now)
			require.NoError(t, err)
			require.True(t, ok)
		}
		ok, err := s.Invites().ConsumeInviteUse(ctx, inv.ID, now)
		require.NoError(t, err)
		require.False(t, ok)

		got, err := s.Invites().GetInviteByID(ctx, inv.ID)
		require.NoError(t, err)
		require.Equal(t, 2, got.UseCount)
	})

	var expiredHash string
	t.Run("consume refuses expired and revoked", func(t *testing.T) {
		expired := newInvite(f, 1, time.Now().UTC().Add(-time.Second))
		expiredHash = expired.TokenHash
		require.NoError(t, s.Invites().CreateInvite(ctx, expired))
		ok, err := s.Invites().ConsumeInviteUse(ctx, expired.ID, time.Now().UTC())
		require.NoError(t, err)
		require.False(t, ok)

		revoked := newInvite(f, 1, time.Now().UTC().Add(time.Hour))
		require.NoError(t, s.Invites().CreateInvite(ctx, revoked))
		changed, err := s.Invites().RevokeInvite(ctx, revoked.ID, time.Now().UTC())
		require.NoError(t, err)
		require.True(t, changed)

		changed, err = s.Invites().RevokeInvite(ctx, revoked.ID, time.Now().UTC())
		require.NoError(t, err)
		require.False(t, changed, "second revoke is a no-op")

		ok, err = s.Invites().ConsumeInviteUse(ctx, revoked.ID, time.Now().UTC())
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("list newest first", func(t *testing.T) {
		list, err := s.Invites().ListInvitesByResource(ctx, f.resource.ID)
		require.NoError(t, err)
		require.Len(t, list, 3)
		for i := 1; i < len(list); i++ {
			require.False(t, list[i].CreatedAt.After(list[i-1].CreatedAt))
		}
	})

	t.Run("archive keeps rows and hides them from listings", func(t *testing.T) {
		now := time.Now().UTC()
		n, err := s.Invites().ArchiveInvitesExpiredBefore(ctx, now, now)
		require.NoError(t, err)
		require.Equal(t, int64(1), n)

		list, err := s.Invites().ListInvitesByResource(ctx, f.resource.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		for _, l := range list {
			require.Nil(t, l.ArchivedAt)
		}

		got, err := s.Invites().GetInviteByTokenHash(ctx, expiredHash)
		require.NoError(t, err)
		require.NotNil(t, got.ArchivedAt)
		require.Equal(t, domain.InviteExpired, got.Status(now))

		_, err = s.Invites().GetInviteByID(ctx, inv.ID)
		require.NoError(t, err)

		n, err = s.Invites().ArchiveInvitesExpiredBefore(ctx, now, now)
		require.NoError(t, err)
		require.Zero(t, n, "already archived")
	})
}

func TestIdentities(t *testing.T) {
	s := newStore(t)
	ctx := t.Context()
	now := time.Now().UTC()

	id := domain.Identity{ID: idx.New().String(), ExternalAuthID: "auth|123", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.Identities().CreateIdentity(ctx, id))

	dup := id
	dup.ID = idx.New().String()
	require.ErrorIs(t, s.Identities().CreateIdentity(ctx, dup), store.ErrAlreadyExists)

	got, err := s.Identities().GetIdentityByExternalAuthID(ctx, "auth|123")
	require.NoError(t, err)
	require.Equal(t, domain.RoleUnset, got.Role)
	require.False(t, got.OnboardingComplete)

	changed, err := s.Identities().SetRoleIfUnset(ctx, id.ID, domain.RoleTenant, now)
	require.NoError(t, err)
	require.True(t, changed)

	changed, err = s.Identities().SetRoleIfUnset(ctx, id.ID, domain.RoleLandlord, now)
	require.NoError(t, err)
	require.False(t, changed, "role is never overwritten")

	require.NoError(t, s.Identities().MarkOnboardingComplete(ctx, id.ID, now))
	require.ErrorIs(t, s.Identities().MarkOnboardingComplete(ctx, "missing", now), store.ErrNotFound)

	got, err = s.Identities().GetIdentityByID(ctx, id.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleTenant, got.Role)
	require.True(t, got.OnboardingComplete)
}

func TestLinksActiveUniqueness(t *testing.T) {
	s := newStore(t)
	ctx := t.Context()
	f := seed(t, s)
	now := time.Now().UTC()

	link := domain.ResourceLink{ID: idx.New().String(), IdentityID: f.owner.ID, ResourceID: f.resource.ID, IsActive: true, CreatedAt: now}
	require.NoError(t, s.Links().CreateLink(ctx, link))

	second := link
	second.ID = idx.New().String()
	require.ErrorIs(t, s.Links().CreateLink(ctx, second), store.ErrAlreadyExists)

	inactive := link
	inactive.ID = idx.New().String()
	inactive.IsActive = false
	require.NoError(t, s.Links().CreateLink(ctx, inactive), "inactive history rows are allowed")

	got, err := s.Links().GetActiveLink(ctx, f.owner.ID, f.resource.ID)
	require.NoError(t, err)
	require.Equal(t, link.ID, got.ID)
	require.Empty(t, got.InviteID)

	list, err := s.Links().ListActiveLinksByIdentity(ctx, f.owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestWithTxRollsBack(t *testing.T) {
	s := newStore(t)
	ctx := t.Context()
	now := time.Now().UTC()

	id := domain.Identity{ID: idx.New().String(), ExternalAuthID: "rollback", CreatedAt: now, UpdatedAt: now}
	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Identities().CreateIdentity(ctx, id))
		return store.ErrBusy
	})
	require.ErrorIs(t, err, store.ErrBusy)

	_, err = s.Identities().GetIdentityByID(ctx, id.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestFileStoreConcurrentWriters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invites.db")
	s, err := sqlite.NewStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	ctx := t.Context()
	f := seed(t, s)
	inv := newInvite(f, 1, time.Now().UTC().Add(time.Hour))
	require.NoError(t, s.Invites().CreateInvite(ctx, inv))

	results := make(chan bool, 8)
	for range 8 {
		go func() {
			var won bool
			err := s.WithTx(ctx, func(tx store.Tx) error {
				ok, err := tx.Invites().ConsumeInviteUse(ctx, inv.ID, time.Now().UTC())
				won = ok
				return err
			})
			results <- err == nil && won
		}()
	}

	wins := 0
	for range 8 {
		if <-results {
			wins++
		}
	}
	require.Equal(t, 1, wins)
}
