package http

import (
	"net/http"

	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/service"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/httpx"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/invitesdk"
)

type InviteListHandler struct {
	InviteService   *service.InviteService
	IdentityService *service.IdentityService
}

// ServeHTTP godoc
//
//	@Summary		List Invites
//	@Description	List a resource's invites, newest first, with their current status. Tokens are never included.
//	@Tags			Invitations
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string							true	"Resource ID"
//	@Success		200	{object}	invitesdk.ListInvitesResponse	"invites"
//	@Failure		403	{object}	invitesdk.ErrorResponse			"UNAUTHORIZED - caller does not own the resource"
//	@Failure		404	{object}	invitesdk.ErrorResponse			"NOT_FOUND"
//	@Router			/v1/resources/{id}/invites [get].
func (h *InviteListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	caller, r, err := callerIdentity(r, h.IdentityService)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	invites, err := h.InviteService.ListInvites(r.Context(), r.PathValue("id"), caller.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	now := h.InviteService.Now()
	out := invitesdk.ListInvitesResponse{Invites: make([]invitesdk.InviteSummary, 0, len(invites))}
	for _, inv := range invites {
		out.Invites = append(out.Invites, invitesdk.InviteSummary{
			InviteID:   inv.ID,
			ResourceID: inv.ResourceID,
			Role:       string(inv.Role),
			Status:     string(inv.Status(now)),
			MaxUses:    inv.MaxUses,
			UseCount:   inv.UseCount,
			ExpiresAt:  inv.ExpiresAt,
			RevokedAt:  inv.RevokedAt,
			CreatedAt:  inv.CreatedAt,
		})
	}

	httpx.WriteJSON(w, http.StatusOK, out)
}
