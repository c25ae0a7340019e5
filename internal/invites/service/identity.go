package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/domain"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/store"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/idx"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/slogx"
)

const maxResourceNameLen = 200

type IdentityService struct {
	Store store.Store
	Clock func() time.Time
}

func (s *IdentityService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// EnsureIdentity returns the identity for externalAuthID, creating it with
// no role on first sight. It never assigns a role.
func (s *IdentityService) EnsureIdentity(ctx context.Context, externalAuthID string) (domain.Identity, error) {
	log := slogx.FromContext(ctx)

	if externalAuthID == "" {
		return domain.Identity{}, ErrInvalidRequest
	}

	ident, err := s.Store.Identities().GetIdentityByExternalAuthID(ctx, externalAuthID)
	if err == nil {
		return ident, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.Identity{}, err
	}

	now := s.now()
	ident = domain.Identity{
		ID:             idx.NewAt(now).String(),
		ExternalAuthID: externalAuthID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Store.Identities().CreateIdentity(ctx, ident); err != nil {
		// Lost a race with a concurrent first request for the same subject.
		if errors.Is(err, store.ErrAlreadyExists) {
			return s.Store.Identities().GetIdentityByExternalAuthID(ctx, externalAuthID)
		}
		log.Error("failed to create identity", slog.Any("error", err))
		return domain.Identity{}, err
	}

	log.Info("identity created", slog.String("identity_id", ident.ID))
	return ident, nil
}

func (s *IdentityService) GetIdentity(ctx context.Context, id string) (domain.Identity, error) {
	ident, err := s.Store.Identities().GetIdentityByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Identity{}, ErrIdentityNotFound
	}
	return ident, err
}

func (s *IdentityService) GetByExternalAuthID(ctx context.Context, externalAuthID string) (domain.Identity, error) {
	ident, err := s.Store.Identities().GetIdentityByExternalAuthID(ctx, externalAuthID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Identity{}, ErrIdentityNotFound
	}
	return ident, err
}

// SelectRole is self-onboarding: an identity with no role picks one. A role
// that is already set is never replaced.
func (s *IdentityService) SelectRole(ctx context.Context, identityID string, role domain.Role) (domain.Identity, error) {
	log := slogx.FromContext(ctx)

	if _, err := domain.ParseRole(string(role)); err != nil {
		return domain.Identity{}, ErrInvalidRole
	}

	var out domain.Identity
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		now := s.now()

		changed, err := tx.Identities().SetRoleIfUnset(ctx, identityID, role, now)
		if err != nil {
			return err
		}
		if !changed {
			if _, err := tx.Identities().GetIdentityByID(ctx, identityID); errors.Is(err, store.ErrNotFound) {
				return ErrIdentityNotFound
			}
			return ErrRoleAlreadySet
		}
		if err := tx.Identities().MarkOnboardingComplete(ctx, identityID, now); err != nil {
			return err
		}

		out, err = tx.Identities().GetIdentityByID(ctx, identityID)
		return err
	})
	if err != nil {
		return domain.Identity{}, err
	}

	log.Info("role selected", slog.String("identity_id", identityID), slog.String("role", string(role)))
	return out, nil
}

// Links returns the identity's active resource links.
func (s *IdentityService) Links(ctx context.Context, identityID string) ([]domain.ResourceLink, error) {
	return s.Store.Links().ListActiveLinksByIdentity(ctx, identityID)
}

// CreateResource registers a resource owned by ownerID. Resource management
// lives elsewhere; this exists so owners have something to invite to.
func (s *IdentityService) CreateResource(ctx context.Context, ownerID, name string) (domain.Resource, error) {
	log := slogx.FromContext(ctx)

	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxResourceNameLen {
		return domain.Resource{}, ErrInvalidRequest
	}

	if _, err := s.GetIdentity(ctx, ownerID); err != nil {
		return domain.Resource{}, err
	}

	now := s.now()
	res := domain.Resource{
		ID:        idx.NewAt(now).String(),
		OwnerID:   ownerID,
		Name:      name,
		CreatedAt: now,
	}
	if err := s.Store.Resources().CreateResource(ctx, res); err != nil {
		log.Error("failed to create resource", slog.Any("error", err))
		return domain.Resource{}, err
	}

	log.Info("resource created", slog.String("resource_id", res.ID), slog.String("owner_id", ownerID))
	return res, nil
}
