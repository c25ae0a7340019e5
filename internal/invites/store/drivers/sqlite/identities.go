package sqlite

import (
	"context"
	"time"

	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/domain"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/store"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/store/drivers/sqlite/gen"
)

type identitiesRepo struct {
	q *gen.Queries
}

func (r *identitiesRepo) CreateIdentity(ctx context.Context, id domain.Identity) error {
	return mapErr(r.q.CreateIdentity(ctx, gen.CreateIdentityParams{
		ID:                 id.ID,
		ExternalAuthID:     id.ExternalAuthID,
		Role:               string(id.Role),
		OnboardingComplete: boolToInt(id.OnboardingComplete),
		CreatedAt:          fmtTime(id.CreatedAt),
		UpdatedAt:          fmtTime(id.UpdatedAt),
	}))
}

func (r *identitiesRepo) GetIdentityByID(ctx context.Context, id string) (domain.Identity, error) {
	row, err := r.q.GetIdentityByID(ctx, id)
	if err != nil {
		return domain.Identity{}, mapNotFound(err)
	}
	return mapIdentity(row)
}

func (r *identitiesRepo) GetIdentityByExternalAuthID(ctx context.Context, externalAuthID string) (domain.Identity, error) {
	row, err := r.q.GetIdentityByExternalAuthID(ctx, externalAuthID)
	if err != nil {
		return domain.Identity{}, mapNotFound(err)
	}
	return mapIdentity(row)
}

func (r *identitiesRepo) SetRoleIfUnset(ctx context.Context, id string, role domain.Role, now time.Time) (bool, error) {
	n, err := r.q.SetIdentityRoleIfUnset(ctx, gen.SetIdentityRoleIfUnsetParams{
		Role:      string(role),
		UpdatedAt: fmtTime(now),
		ID:        id,
	})
	return n == 1, mapErr(err)
}

func (r *identitiesRepo) MarkOnboardingComplete(ctx context.Context, id string, now time.Time) error {
	n, err := r.q.MarkOnboardingComplete(ctx, gen.MarkOnboardingCompleteParams{
		UpdatedAt: fmtTime(now),
		ID:        id,
	})
	if err != nil {
		return mapErr(err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func mapIdentity(row gen.Identity) (domain.Identity, error) {
	id := domain.Identity{
		ID:                 row.ID,
		ExternalAuthID:     row.ExternalAuthID,
		Role:               domain.Role(row.Role),
		OnboardingComplete: row.OnboardingComplete != 0,
	}

	var err error
	if id.CreatedAt, err = parseTime(row.CreatedAt); err != nil {
		return domain.Identity{}, err
	}
	if id.UpdatedAt, err = parseTime(row.UpdatedAt); err != nil {
		return domain.Identity{}, err
	}
	return id, nil
}
