package sqlite

import (
	"context"

	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/domain"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/store/drivers/sqlite/gen"
)

type resourcesRepo struct {
	q *gen.Queries
}

func (r *resourcesRepo) CreateResource(ctx context.Context, res domain.Resource) error {
	return mapErr(r.q.CreateResource(ctx, gen.CreateResourceParams{
		ID:        res.ID,
		OwnerID:   res.OwnerID,
		Name:      res.Name,
		CreatedAt: fmtTime(res.CreatedAt),
	}))
}

func (r *resourcesRepo) GetResourceByID(ctx context.Context, id string) (domain.Resource, error) {
	row, err := r.q.GetResourceByID(ctx, id)
	if err != nil {
		return domain.Resource{}, mapNotFound(err)
	}

	createdAt, err := parseTime(row.CreatedAt)
	if err != nil {
		return domain.Resource{}, err
	}
	return domain.Resource{
		ID:        row.ID,
		OwnerID:   row.OwnerID,
		Name:      row.Name,
		CreatedAt: createdAt,
	}, nil
}
