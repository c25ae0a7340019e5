package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/domain"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/store"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/store/drivers/sqlite"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type env struct {
	store      *sqlite.Store
	clock      *testClock
	invites    *InviteService
	identities *IdentityService
	owner      domain.Identity
	resource   domain.Resource
}

func newEnv(t *testing.T, path string) *env {
	t.Helper()

	s, err := sqlite.NewStore(path)
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })

	clock := &testClock{now: time.Now().UTC()}
	e := &env{
		store:      s,
		clock:      clock,
		invites:    &InviteService{Store: s, Clock: clock.Now, Retry: RetryPolicy{MaxRetries: 1, InitialInterval: time.Millisecond}},
		identities: &IdentityService{Store: s, Clock: clock.Now},
	}

	ctx := t.Context()
	owner, err := e.identities.EnsureIdentity(ctx, "auth|owner")
	require.NoError(t, err)
	owner, err = e.identities.SelectRole(ctx, owner.ID, domain.RoleLandlord)
	require.NoError(t, err)
	e.owner = owner

	e.resource, err = e.identities.CreateResource(ctx, owner.ID, "Flat 4, 12 Harbour St")
	require.NoError(t, err)
	return e
}

func newMemEnv(t *testing.T) *env { return newEnv(t, ":memory:") }

func (e *env) issue(t *testing.T, ttl time.Duration, maxUses int) (domain.Invite, string) {
	t.Helper()
	inv, secret, err := e.invites.Issue(t.Context(), e.resource.ID, e.owner.ID, ttl, maxUses, domain.RoleTenant)
	require.NoError(t, err)
	return inv, secret
}

func (e *env) newcomer(t *testing.T, sub string) domain.Identity {
	t.Helper()
	ident, err := e.identities.EnsureIdentity(t.Context(), sub)
	require.NoError(t, err)
	require.Equal(t, domain.RoleUnset, ident.Role)
	return ident
}

func (e *env) invite(t *testing.T, id string) domain.Invite {
	t.Helper()
	inv, err := e.store.Invites().GetInviteByID(t.Context(), id)
	require.NoError(t, err)
	return inv
}

func (e *env) links(t *testing.T, identityID string) []domain.ResourceLink {
	t.Helper()
	links, err := e.identities.Links(t.Context(), identityID)
	require.NoError(t, err)
	return links
}

func TestIssue(t *testing.T) {
	e := newMemEnv(t)
	ctx := t.Context()

	t.Run("defaults", func(t *testing.T) {
		inv, secret, err := e.invites.Issue(ctx, e.resource.ID, e.owner.ID, 0, 0, "")
		require.NoError(t, err)
		require.Len(t, secret, 43)
		require.Equal(t, 1, inv.MaxUses)
		require.Equal(t, 0, inv.UseCount)
		require.Equal(t, domain.RoleTenant, inv.Role)
		require.Equal(t, e.clock.Now().Add(DefaultInviteTTL), inv.ExpiresAt)
		require.NotEqual(t, secret, inv.TokenHash, "only the fingerprint is stored")
	})

	t.Run("non-owner is unauthorized", func(t *testing.T) {
		stranger := e.newcomer(t, "auth|stranger")
		_, _, err := e.invites.Issue(ctx, e.resource.ID, stranger.ID, 0, 0, "")
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("bounds", func(t *testing.T) {
		_, _, err := e.invites.Issue(ctx, e.resource.ID, e.owner.ID, MaxInviteTTL+time.Second, 1, "")
		require.ErrorIs(t, err, ErrInviteTTLTooLong)

		_, _, err = e.invites.Issue(ctx, e.resource.ID, e.owner.ID, time.Hour, MaxInviteUses+1, "")
		require.ErrorIs(t, err, ErrInviteUsesTooMany)

		_, _, err = e.invites.Issue(ctx, e.resource.ID, e.owner.ID, -time.Hour, 1, "")
		require.ErrorIs(t, err, ErrInvalidRequest)

		_, _, err = e.invites.Issue(ctx, e.resource.ID, e.owner.ID, time.Hour, 1, "admin")
		require.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("unknown resource", func(t *testing.T) {
		_, _, err := e.invites.Issue(ctx, "nope", e.owner.ID, time.Hour, 1, "")
		require.ErrorIs(t, err, ErrResourceNotFound)
	})
}

func TestValidate(t *testing.T) {
	e := newMemEnv(t)
	ctx := t.Context()

	inv, secret := e.issue(t, time.Hour, 1)

	p, err := e.invites.Validate(ctx, secret)
	require.NoError(t, err)
	require.Equal(t, inv.ID, p.Invite.ID)
	require.Equal(t, e.resource.Name, p.ResourceName)
	require.Equal(t, 0, e.invite(t, inv.ID).UseCount, "validate never consumes")

	_, err = e.invites.Validate(ctx, "not a token")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = e.invites.Validate(ctx, cryptox.MustGenerateToken(cryptox.TokenSize256))
	require.ErrorIs(t, err, ErrNotFound)
}

// Token T, maxUses 1. A (no role) redeems and gains the link and role; B is
// then refused with EXHAUSTED.
func TestRedeemSingleUseScenario(t *testing.T) {
	e := newMemEnv(t)
	ctx := t.Context()

	inv, secret := e.issue(t, time.Hour, 1)
	a := e.newcomer(t, "auth|a")
	b := e.newcomer(t, "auth|b")

	got, err := e.invites.Redeem(ctx, secret, a.ID)
	require.NoError(t, err)
	require.Equal(t, e.resource.ID, got.ResourceID)
	require.Equal(t, domain.RoleTenant, got.Role)
	require.False(t, got.AlreadyLinked)

	require.Equal(t, 1, e.invite(t, inv.ID).UseCount)
	a, err = e.identities.GetIdentity(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleTenant, a.Role)
	require.True(t, a.OnboardingComplete)

	links := e.links(t, a.ID)
	require.Len(t, links, 1)
	require.True(t, links[0].IsActive)
	require.Equal(t, inv.ID, links[0].InviteID)

	_, err = e.invites.Redeem(ctx, secret, b.ID)
	require.ErrorIs(t, err, ErrExhausted)
	require.Empty(t, e.links(t, b.ID))

	b, err = e.identities.GetIdentity(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleUnset, b.Role)
}

func TestRedeemIsIdempotent(t *testing.T) {
	e := newMemEnv(t)
	ctx := t.Context()

	inv, secret := e.issue(t, time.Hour, 1)
	a := e.newcomer(t, "auth|a")

	first, err := e.invites.Redeem(ctx, secret, a.ID)
	require.NoError(t, err)
	require.False(t, first.AlreadyLinked)

	second, err := e.invites.Redeem(ctx, secret, a.ID)
	require.NoError(t, err, "retry after the single use was consumed by the same identity")
	require.True(t, second.AlreadyLinked)
	require.Equal(t, first.ResourceID, second.ResourceID)

	require.Equal(t, 1, e.invite(t, inv.ID).UseCount)
	require.Len(t, e.links(t, a.ID), 1)
}

// A is already linked to R and retries a still-valid multi-use token.
func TestRedeemAlreadyLinkedDoesNotConsume(t *testing.T) {
	e := newMemEnv(t)
	ctx := t.Context()

	inv, secret := e.issue(t, time.Hour, 3)
	a := e.newcomer(t, "auth|a")

	_, err := e.invites.Redeem(ctx, secret, a.ID)
	require.NoError(t, err)
	require.Equal(t, 1, e.invite(t, inv.ID).UseCount)

	got, err := e.invites.Redeem(ctx, secret, a.ID)
	require.NoError(t, err)
	require.True(t, got.AlreadyLinked)
	require.Equal(t, 1, e.invite(t, inv.ID).UseCount)
}

func TestRedeemNeverOverwritesRole(t *testing.T) {
	e := newMemEnv(t)
	ctx := t.Context()

	_, secret := e.issue(t, time.Hour, 1)

	landlord := e.newcomer(t, "auth|other-landlord")
	_, err := e.identities.SelectRole(ctx, landlord.ID, domain.RoleLandlord)
	require.NoError(t, err)

	got, err := e.invites.Redeem(ctx, secret, landlord.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleLandlord, got.Role)

	after, err := e.identities.GetIdentity(ctx, landlord.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleLandlord, after.Role)
	require.Len(t, e.links(t, landlord.ID), 1, "the link is still created")
}

func TestRedeemAbortLeavesNoPartialWrites(t *testing.T) {
	e := newMemEnv(t)
	ctx := t.Context()

	inv, secret := e.issue(t, time.Hour, 1)
	a := e.newcomer(t, "auth|a")

	boom := context.Canceled
	e.invites.afterApply = func(ctx context.Context, tx store.Tx) error {
		// The writes are visible inside the transaction...
		cur, err := tx.Invites().GetInviteByID(ctx, inv.ID)
		require.NoError(t, err)
		require.Equal(t, 1, cur.UseCount)
		return boom
	}

	_, err := e.invites.Redeem(ctx, secret, a.ID)
	require.ErrorIs(t, err, boom)

	// ...and none of them survive the abort.
	require.Equal(t, 0, e.invite(t, inv.ID).UseCount)
	require.Empty(t, e.links(t, a.ID))
	after, err := e.identities.GetIdentity(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleUnset, after.Role)
	require.False(t, after.OnboardingComplete)
}

func TestRedeemRetriesTransientFailureOnce(t *testing.T) {
	e := newMemEnv(t)
	ctx := t.Context()

	t.Run("succeeds on retry", func(t *testing.T) {
		inv, secret := e.issue(t, time.Hour, 1)
		a := e.newcomer(t, "auth|retry-ok")

		calls := 0
		e.invites.afterApply = func(context.Context, store.Tx) error {
			calls++
			if calls == 1 {
				return store.ErrBusy
			}
			return nil
		}
		t.Cleanup(func() { e.invites.afterApply = nil })

		got, err := e.invites.Redeem(ctx, secret, a.ID)
		require.NoError(t, err)
		require.False(t, got.AlreadyLinked)
		require.Equal(t, 2, calls)
		require.Equal(t, 1, e.invite(t, inv.ID).UseCount)
	})

	t.Run("persistent contention surfaces as timeout", func(t *testing.T) {
		inv, secret := e.issue(t, time.Hour, 1)
		a := e.newcomer(t, "auth|retry-fail")

		calls := 0
		e.invites.afterApply = func(context.Context, store.Tx) error {
			calls++
			return store.ErrBusy
		}
		t.Cleanup(func() { e.invites.afterApply = nil })

		_, err := e.invites.Redeem(ctx, secret, a.ID)
		require.ErrorIs(t, err, ErrTimeout)
		require.Equal(t, 2, calls, "one attempt plus one retry")
		require.Equal(t, 0, e.invite(t, inv.ID).UseCount)
	})

	t.Run("terminal errors are not retried", func(t *testing.T) {
		_, secret := e.issue(t, time.Hour, 1)
		a := e.newcomer(t, "auth|retry-terminal")

		calls := 0
		e.invites.afterApply = func(context.Context, store.Tx) error {
			calls++
			return ErrUnauthorized
		}
		t.Cleanup(func() { e.invites.afterApply = nil })

		_, err := e.invites.Redeem(ctx, secret, a.ID)
		require.ErrorIs(t, err, ErrUnauthorized)
		require.Equal(t, 1, calls)
	})
}

// Token T2 expired one second ago.
func TestExpiredInviteScenario(t *testing.T) {
	e := newMemEnv(t)
	ctx := t.Context()

	inv, secret := e.issue(t, time.Hour, 1)
	a := e.newcomer(t, "auth|a")
	e.clock.Advance(time.Hour + time.Second)

	_, err := e.invites.Validate(ctx, secret)
	require.ErrorIs(t, err, ErrExpired)

	_, err = e.invites.Redeem(ctx, secret, a.ID)
	require.ErrorIs(t, err, ErrExpired)

	require.Equal(t, 0, e.invite(t, inv.ID).UseCount)
	require.Empty(t, e.links(t, a.ID))
	after, err := e.identities.GetIdentity(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleUnset, after.Role)
}

func TestRevoke(t *testing.T) {
	e := newMemEnv(t)
	ctx := t.Context()

	inv, secret := e.issue(t, time.Hour, 5)
	a := e.newcomer(t, "auth|a")
	_, err := e.invites.Redeem(ctx, secret, a.ID)
	require.NoError(t, err)

	stranger := e.newcomer(t, "auth|stranger")
	require.ErrorIs(t, e.invites.Revoke(ctx, inv.ID, stranger.ID), ErrUnauthorized)
	require.ErrorIs(t, e.invites.Revoke(ctx, "missing", e.owner.ID), ErrNotFound)

	require.NoError(t, e.invites.Revoke(ctx, inv.ID, e.owner.ID))
	require.NoError(t, e.invites.Revoke(ctx, inv.ID, e.owner.ID), "revoking twice is fine")

	_, err = e.invites.Validate(ctx, secret)
	require.ErrorIs(t, err, ErrRevoked)

	_, err = e.invites.Redeem(ctx, secret, e.newcomer(t, "auth|late").ID)
	require.ErrorIs(t, err, ErrRevoked)

	_, err = e.invites.Redeem(ctx, secret, a.ID)
	require.ErrorIs(t, err, ErrRevoked, "revoked wins even for a linked identity")

	require.Len(t, e.links(t, a.ID), 1, "revocation is not retroactive")
}

// A revocation that arrives while a redemption holds the write lock waits
// for it. The in-flight redemption commits; later ones see REVOKED.
func TestRevokeDuringRedemption(t *testing.T) {
	e := newEnv(t, filepath.Join(t.TempDir(), "revoke.db"))
	ctx := t.Context()

	inv, secret := e.issue(t, time.Hour, 5)
	a := e.newcomer(t, "auth|in-flight")
	late := e.newcomer(t, "auth|late")

	entered := make(chan struct{})
	release := make(chan struct{})
	e.invites.afterApply = func(context.Context, store.Tx) error {
		close(entered)
		<-release
		return nil
	}

	redeemErr := make(chan error, 1)
	go func() {
		_, err := e.invites.Redeem(ctx, secret, a.ID)
		redeemErr <- err
	}()
	<-entered

	revokeErr := make(chan error, 1)
	go func() { revokeErr <- e.invites.Revoke(ctx, inv.ID, e.owner.ID) }()

	time.Sleep(100 * time.Millisecond)
	select {
	case err := <-revokeErr:
		t.Fatalf("revoke finished while the redemption held the lock: %v", err)
	default:
	}

	close(release)
	require.NoError(t, <-redeemErr)
	require.NoError(t, <-revokeErr)
	e.invites.afterApply = nil

	require.Len(t, e.links(t, a.ID), 1)
	got := e.invite(t, inv.ID)
	require.Equal(t, 1, got.UseCount)
	require.NotNil(t, got.RevokedAt)

	_, err := e.invites.Redeem(ctx, secret, late.ID)
	require.ErrorIs(t, err, ErrRevoked)
	require.Empty(t, e.links(t, late.ID))
}

func TestRedeemUnknownIdentity(t *testing.T) {
	e := newMemEnv(t)
	_, secret := e.issue(t, time.Hour, 1)

	_, err := e.invites.Redeem(t.Context(), secret, "01HZZZZZZZZZZZZZZZZZZZZZZZ")
	require.ErrorIs(t, err, ErrIdentityNotFound)
}

// Two identities race for the last use on a file-backed database. Exactly
// one wins; the other sees EXHAUSTED.
func TestConcurrentRedeemExhaustion(t *testing.T) {
	e := newEnv(t, filepath.Join(t.TempDir(), "race.db"))
	ctx := t.Context()

	for round := range 5 {
		inv, secret := e.issue(t, time.Hour, 1)
		ids := []domain.Identity{
			e.newcomer(t, "auth|race-a-"+string(rune('0'+round))),
			e.newcomer(t, "auth|race-b-"+string(rune('0'+round))),
		}

		var wg sync.WaitGroup
		errs := make([]error, len(ids))
		start := make(chan struct{})
		for i, ident := range ids {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				_, errs[i] = e.invites.Redeem(ctx, secret, ident.ID)
			}()
		}
		close(start)
		wg.Wait()

		var ok, exhausted int
		for _, err := range errs {
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrExhausted):
				exhausted++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		require.Equal(t, 1, ok)
		require.Equal(t, 1, exhausted)
		require.Equal(t, 1, e.invite(t, inv.ID).UseCount)
	}
}

func TestListInvites(t *testing.T) {
	e := newMemEnv(t)
	ctx := t.Context()

	first, _ := e.issue(t, time.Hour, 1)
	e.clock.Advance(time.Millisecond)
	second, _ := e.issue(t, time.Hour, 1)

	list, err := e.invites.ListInvites(ctx, e.resource.ID, e.owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, second.ID, list[0].ID)
	require.Equal(t, first.ID, list[1].ID)

	stranger := e.newcomer(t, "auth|stranger")
	_, err = e.invites.ListInvites(ctx, e.resource.ID, stranger.ID)
	require.ErrorIs(t, err, ErrUnauthorized)
}
