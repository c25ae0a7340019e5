package sqlite

import (
	"context"

	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/domain"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/store/drivers/sqlite/gen"
)

type linksRepo struct {
	q *gen.Queries
}

func (r *linksRepo) CreateLink(ctx context.Context, l domain.ResourceLink) error {
	return mapErr(r.q.CreateResourceLink(ctx, gen.CreateResourceLinkParams{
		ID:         l.ID,
		IdentityID: l.IdentityID,
		ResourceID: l.ResourceID,
		InviteID:   mapStringNull(l.InviteID),
		IsActive:   boolToInt(l.IsActive),
		CreatedAt:  fmtTime(l.CreatedAt),
	}))
}

func (r *linksRepo) GetActiveLink(ctx context.Context, identityID, resourceID string) (domain.ResourceLink, error) {
	row, err := r.q.GetActiveResourceLink(ctx, gen.GetActiveResourceLinkParams{
		IdentityID: identityID,
		ResourceID: resourceID,
	})
	if err != nil {
		return domain.ResourceLink{}, mapNotFound(err)
	}
	return mapLink(row)
}

func (r *linksRepo) ListActiveLinksByIdentity(ctx context.Context, identityID string) ([]domain.ResourceLink, error) {
	rows, err := r.q.ListActiveResourceLinksByIdentity(ctx, identityID)
	if err != nil {
		return nil, mapErr(err)
	}

	out := make([]domain.ResourceLink, 0, len(rows))
	for _, row := range rows {
		l, err := mapLink(row)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

func mapLink(row gen.ResourceLink) (domain.ResourceLink, error) {
	createdAt, err := parseTime(row.CreatedAt)
	if err != nil {
		return domain.ResourceLink{}, err
	}
	return domain.ResourceLink{
		ID:         row.ID,
		IdentityID: row.IdentityID,
		ResourceID: row.ResourceID,
		InviteID:   row.InviteID.String,
		IsActive:   row.IsActive != 0,
		CreatedAt:  createdAt,
	}, nil
}
