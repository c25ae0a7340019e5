package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/domain"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/store"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/cryptox"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/idx"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/slogx"
)

const (
	DefaultInviteTTL = 24 * time.Hour
	MaxInviteTTL     = 30 * 24 * time.Hour
	DefaultMaxUses   = 1
	MaxInviteUses    = 100
)

// Preview is what an unauthenticated redeemer may see about an invite.
type Preview struct {
	Invite       domain.Invite
	ResourceName string
}

// Redemption is the outcome of a successful Redeem. Role is the identity's
// role after the call, which is the invite's role only if none was set.
type Redemption struct {
	ResourceID    string
	InviteID      string
	Role          domain.Role
	AlreadyLinked bool
}

type InviteService struct {
	Store store.Store

	// Clock overrides time.Now, for tests.
	Clock func() time.Time

	// Retry bounds retries of transient storage failures in Redeem. Zero
	// value means DefaultRetryPolicy.
	Retry RetryPolicy

	// afterApply runs inside the redemption transaction after all writes and
	// before commit. Returning an error aborts the transaction.
	afterApply func(ctx context.Context, tx store.Tx) error
}

func (s *InviteService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

func (s *InviteService) retryPolicy() RetryPolicy {
	if s.Retry == (RetryPolicy{}) {
		return DefaultRetryPolicy
	}
	return s.Retry
}

// Issue creates an invite for resourceID. Only the resource's owner may
// issue. Zero ttl, maxUses and role take their defaults. The returned secret
// is shown once; only its fingerprint is stored.
func (s *InviteService) Issue(
	ctx context.Context,
	resourceID string,
	issuerID string,
	ttl time.Duration,
	maxUses int,
	role domain.Role,
) (inv domain.Invite, secret string, err error) {
	ctx, span := startSpan(ctx, "invites.Issue", attribute.String("resource_id", resourceID))
	defer func() { endSpan(span, err) }()

	log := slogx.FromContext(ctx)

	// 1. Apply defaults and bounds
	if resourceID == "" || issuerID == "" || ttl < 0 || maxUses < 0 {
		return domain.Invite{}, "", ErrInvalidRequest
	}
	if ttl == 0 {
		ttl = DefaultInviteTTL
	}
	if ttl > MaxInviteTTL {
		return domain.Invite{}, "", ErrInviteTTLTooLong
	}
	if maxUses == 0 {
		maxUses = DefaultMaxUses
	}
	if maxUses > MaxInviteUses {
		return domain.Invite{}, "", ErrInviteUsesTooMany
	}
	if role == domain.RoleUnset {
		role = domain.RoleTenant
	}
	if _, err := domain.ParseRole(string(role)); err != nil {
		return domain.Invite{}, "", ErrInvalidRole
	}

	// 2. Only the owner administers a resource
	res, err := s.Store.Resources().GetResourceByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invite{}, "", ErrResourceNotFound
		}
		log.Error("failed to fetch resource", slog.String("resource_id", resourceID), slog.Any("error", err))
		return domain.Invite{}, "", err
	}
	if res.OwnerID != issuerID {
		log.Warn("invite issuance by non-owner",
			slog.String("resource_id", resourceID),
			slog.String("issuer_id", issuerID),
		)
		return domain.Invite{}, "", ErrUnauthorized
	}

	// 3. Generate the secret
	secret, err = cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate invite secret", slog.Any("error", err))
		return domain.Invite{}, "", err
	}

	// 4. One durable write
	now := s.now()
	inv = domain.Invite{
		ID:         idx.NewAt(now).String(),
		TokenHash:  cryptox.FingerprintToken(secret),
		ResourceID: resourceID,
		IssuerID:   issuerID,
		Role:       role,
		MaxUses:    maxUses,
		ExpiresAt:  now.Add(ttl),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Store.Invites().CreateInvite(ctx, inv); err != nil {
		log.Error("failed to create invite", slog.String("invite_id", inv.ID), slog.Any("error", err))
		return domain.Invite{}, "", err
	}

	log.Info("invite issued",
		slog.String("invite_id", inv.ID),
		slog.String("resource_id", resourceID),
		slog.String("role", string(role)),
		slog.Int("max_uses", maxUses),
		slog.Time("expires_at", inv.ExpiresAt),
		slogx.Secret("token", secret),
	)

	return inv, secret, nil
}

// Validate looks the secret up without consuming a use.
func (s *InviteService) Validate(ctx context.Context, secret string) (p Preview, err error) {
	ctx, span := startSpan(ctx, "invites.Validate")
	defer func() { endSpan(span, err) }()

	log := slogx.FromContext(ctx)

	inv, err := s.lookup(ctx, s.Store, secret)
	if err != nil {
		return Preview{}, err
	}
	span.SetAttributes(attribute.String("invite_id", inv.ID))

	if err := inv.Check(s.now()); err != nil {
		log.Debug("invite not redeemable",
			slog.String("invite_id", inv.ID),
			slog.String("reason", err.Error()),
		)
		return Preview{}, err
	}

	res, err := s.Store.Resources().GetResourceByID(ctx, inv.ResourceID)
	if err != nil {
		log.Error("failed to fetch invite resource", slog.String("invite_id", inv.ID), slog.Any("error", err))
		return Preview{}, fmt.Errorf("load resource: %w", err)
	}

	return Preview{Invite: inv, ResourceName: res.Name}, nil
}

// Redeem consumes one use of the invite for identityID and applies its
// effects atomically: the use, the resource link, the role (only when the
// identity has none) and onboarding completion.
//
// An identity that already holds an active link to the resource succeeds
// without consuming a use, so retrying after an unknown outcome is safe.
// Revoked and expired invites fail even then. Transient storage failures are
// retried once and then reported as ErrTimeout.
func (s *InviteService) Redeem(ctx context.Context, secret string, identityID string) (out Redemption, err error) {
	ctx, span := startSpan(ctx, "invites.Redeem", attribute.String("identity_id", identityID))
	defer func() { endSpan(span, err) }()

	log := slogx.FromContext(ctx)

	if identityID == "" {
		return Redemption{}, ErrInvalidRequest
	}

	attempts := 0
	err = retryTransient(ctx, s.retryPolicy(), func() error {
		attempts++
		var txErr error
		out, txErr = s.redeemOnce(ctx, secret, identityID)
		if txErr != nil && store.IsTransient(txErr) {
			log.Warn("redemption attempt hit transient storage failure",
				slog.Int("attempt", attempts),
				slog.Any("error", txErr),
			)
		}
		return txErr
	})
	if err != nil {
		if store.IsTransient(err) || errors.Is(err, context.DeadlineExceeded) {
			return Redemption{}, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return Redemption{}, err
	}

	span.SetAttributes(
		attribute.String("invite_id", out.InviteID),
		attribute.Bool("already_linked", out.AlreadyLinked),
	)
	log.Info("invite redeemed",
		slog.String("invite_id", out.InviteID),
		slog.String("identity_id", identityID),
		slog.String("resource_id", out.ResourceID),
		slog.String("role", string(out.Role)),
		slog.Bool("already_linked", out.AlreadyLinked),
		slogx.Secret("token", secret),
	)
	return out, nil
}

func (s *InviteService) redeemOnce(ctx context.Context, secret, identityID string) (Redemption, error) {
	var out Redemption

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		// The transaction holds the write lock from BEGIN, so everything
		// read below stays true until commit.
		now := s.now()

		// 1. Load and check the invite
		inv, err := s.lookup(ctx, tx, secret)
		if err != nil {
			return err
		}
		reason := inv.Check(now)
		if errors.Is(reason, ErrRevoked) || errors.Is(reason, ErrExpired) {
			return reason
		}

		ident, err := tx.Identities().GetIdentityByID(ctx, identityID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrIdentityNotFound
			}
			return err
		}

		out = Redemption{ResourceID: inv.ResourceID, InviteID: inv.ID, Role: ident.Role}

		// 2. Already linked: success without consuming a use
		_, err = tx.Links().GetActiveLink(ctx, identityID, inv.ResourceID)
		switch {
		case err == nil:
			out.AlreadyLinked = true
			if !ident.OnboardingComplete || !ident.Role.IsSet() {
				role, err := s.provision(ctx, tx, ident, inv.Role, now)
				if err != nil {
					return err
				}
				out.Role = role
			}
			return s.hook(ctx, tx)
		case !errors.Is(err, store.ErrNotFound):
			return err
		}

		if reason != nil {
			return reason
		}

		// 3. Consume a use, link, provision
		ok, err := tx.Invites().ConsumeInviteUse(ctx, inv.ID, now)
		if err != nil {
			return err
		}
		if !ok {
			// Only reachable if the row changed under us; report why.
			cur, err := tx.Invites().GetInviteByID(ctx, inv.ID)
			if err != nil {
				return err
			}
			if reason := cur.Check(now); reason != nil {
				return reason
			}
			return ErrExhausted
		}

		link := domain.ResourceLink{
			ID:         idx.NewAt(now).String(),
			IdentityID: identityID,
			ResourceID: inv.ResourceID,
			InviteID:   inv.ID,
			IsActive:   true,
			CreatedAt:  now,
		}
		if err := tx.Links().CreateLink(ctx, link); err != nil {
			return err
		}

		role, err := s.provision(ctx, tx, ident, inv.Role, now)
		if err != nil {
			return err
		}
		out.Role = role

		return s.hook(ctx, tx)
	})
	if err != nil {
		return Redemption{}, err
	}
	return out, nil
}

// provision assigns role if the identity has none and marks onboarding
// complete. It returns the identity's effective role.
func (s *InviteService) provision(ctx context.Context, tx store.Tx, ident domain.Identity, role domain.Role, now time.Time) (domain.Role, error) {
	effective := ident.Role
	if !ident.Role.IsSet() {
		changed, err := tx.Identities().SetRoleIfUnset(ctx, ident.ID, role, now)
		if err != nil {
			return "", err
		}
		if changed {
			effective = role
		}
	}
	if err := tx.Identities().MarkOnboardingComplete(ctx, ident.ID, now); err != nil {
		return "", err
	}
	return effective, nil
}

func (s *InviteService) hook(ctx context.Context, tx store.Tx) error {
	if s.afterApply == nil {
		return nil
	}
	return s.afterApply(ctx, tx)
}

// Revoke marks the invite revoked. Revoking twice is not an error.
// Redemptions already committed are unaffected.
func (s *InviteService) Revoke(ctx context.Context, inviteID, issuerID string) (err error) {
	ctx, span := startSpan(ctx, "invites.Revoke", attribute.String("invite_id", inviteID))
	defer func() { endSpan(span, err) }()

	log := slogx.FromContext(ctx)

	inv, err := s.Store.Invites().GetInviteByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if inv.IssuerID != issuerID {
		log.Warn("invite revocation by non-issuer",
			slog.String("invite_id", inviteID),
			slog.String("issuer_id", issuerID),
		)
		return ErrUnauthorized
	}

	changed, err := s.Store.Invites().RevokeInvite(ctx, inviteID, s.now())
	if err != nil {
		log.Error("failed to revoke invite", slog.String("invite_id", inviteID), slog.Any("error", err))
		return err
	}

	log.Info("invite revoked", slog.String("invite_id", inviteID), slog.Bool("changed", changed))
	return nil
}

// ListInvites returns the resource's invites, newest first. Only the owner
// may list them.
func (s *InviteService) ListInvites(ctx context.Context, resourceID, issuerID string) ([]domain.Invite, error) {
	res, err := s.Store.Resources().GetResourceByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	if res.OwnerID != issuerID {
		return nil, ErrUnauthorized
	}
	return s.Store.Invites().ListInvitesByResource(ctx, resourceID)
}

// lookup resolves a secret to its invite. Malformed secrets are reported as
// not found without touching storage.
func (s *InviteService) lookup(ctx context.Context, st store.Store, secret string) (domain.Invite, error) {
	if !cryptox.LooksLikeToken(secret) {
		return domain.Invite{}, ErrNotFound
	}
	inv, err := st.Invites().GetInviteByTokenHash(ctx, cryptox.FingerprintToken(secret))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invite{}, ErrNotFound
		}
		return domain.Invite{}, err
	}
	return inv, nil
}

// Now is exposed for handlers that render status.
func (s *InviteService) Now() time.Time { return s.now() }
