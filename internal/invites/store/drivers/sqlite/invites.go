package sqlite

import (
	"context"
	"time"

	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/domain"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/store/drivers/sqlite/gen"
)

type invitesRepo struct {
	q *gen.Queries
}

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.Invite) error {
	return mapErr(r.q.CreateInvite(ctx, gen.CreateInviteParams{
		ID:         inv.ID,
		TokenHash:  inv.TokenHash,
		ResourceID: inv.ResourceID,
		IssuerID:   inv.IssuerID,
		Role:       string(inv.Role),
		MaxUses:    int64(inv.MaxUses),
		UseCount:   int64(inv.UseCount),
		ExpiresAt:  fmtTime(inv.ExpiresAt),
		RevokedAt:  mapOptionalTime(inv.RevokedAt),
		CreatedAt:  fmtTime(inv.CreatedAt),
		UpdatedAt:  fmtTime(inv.UpdatedAt),
	}))
}

func (r *invitesRepo) GetInviteByID(ctx context.Context, id string) (domain.Invite, error) {
	row, err := r.q.GetInviteByID(ctx, id)
	if err != nil {
		return domain.Invite{}, mapNotFound(err)
	}
	return mapInvite(row)
}

func (r *invitesRepo) GetInviteByTokenHash(ctx context.Context, hash string) (domain.Invite, error) {
	row, err := r.q.GetInviteByTokenHash(ctx, hash)
	if err != nil {
		return domain.Invite{}, mapNotFound(err)
	}
	return mapInvite(row)
}

func (r *invitesRepo) ListInvitesByResource(ctx context.Context, resourceID string) ([]domain.Invite, error) {
	rows, err := r.q.ListInvitesByResource(ctx, resourceID)
	if err != nil {
		return nil, mapErr(err)
	}

	out := make([]domain.Invite, 0, len(rows))
	for _, row := range rows {
		inv, err := mapInvite(row)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, nil
}

func (r *invitesRepo) ConsumeInviteUse(ctx context.Context, id string, now time.Time) (bool, error) {
	n, err := r.q.ConsumeInviteUse(ctx, gen.ConsumeInviteUseParams{Now: fmtTime(now), ID: id})
	return n == 1, mapErr(err)
}

func (r *invitesRepo) RevokeInvite(ctx context.Context, id string, now time.Time) (bool, error) {
	n, err := r.q.RevokeInvite(ctx, gen.RevokeInviteParams{Now: fmtTime(now), ID: id})
	return n == 1, mapErr(err)
}

func (r *invitesRepo) ArchiveInvitesExpiredBefore(ctx context.Context, cutoff, now time.Time) (int64, error) {
	n, err := r.q.ArchiveInvitesExpiredBefore(ctx, gen.ArchiveInvitesExpiredBeforeParams{
		Now:    fmtTime(now),
		Cutoff: fmtTime(cutoff),
	})
	return n, mapErr(err)
}

func mapInvite(row gen.Invite) (domain.Invite, error) {
	inv := domain.Invite{
		ID:         row.ID,
		TokenHash:  row.TokenHash,
		ResourceID: row.ResourceID,
		IssuerID:   row.IssuerID,
		Role:       domain.Role(row.Role),
		MaxUses:    int(row.MaxUses),
		UseCount:   int(row.UseCount),
	}

	var err error
	if inv.ExpiresAt, err = parseTime(row.ExpiresAt); err != nil {
		return domain.Invite{}, err
	}
	if inv.RevokedAt, err = mapNullTimePtr(row.RevokedAt); err != nil {
		return domain.Invite{}, err
	}
	if inv.ArchivedAt, err = mapNullTimePtr(row.ArchivedAt); err != nil {
		return domain.Invite{}, err
	}
	if inv.CreatedAt, err = parseTime(row.CreatedAt); err != nil {
		return domain.Invite{}, err
	}
	if inv.UpdatedAt, err = parseTime(row.UpdatedAt); err != nil {
		return domain.Invite{}, err
	}
	return inv, nil
}
