package http

import (
	"net/http"

	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/domain"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/service"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/httpx"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/slogx"
)

// callerIdentity resolves the bearer subject to an identity, creating it on
// first sight. It must run behind AuthnMiddleware.
func callerIdentity(r *http.Request, ids *service.IdentityService) (domain.Identity, *http.Request, error) {
	sub, ok := httpx.SubjectFromContext(r.Context())
	if !ok {
		return domain.Identity{}, r, service.ErrUnauthorized
	}
	ident, err := ids.EnsureIdentity(r.Context(), sub)
	if err != nil {
		return domain.Identity{}, r, err
	}
	ctx := slogx.With(r.Context(), "identity_id", ident.ID)
	return ident, r.WithContext(ctx), nil
}
