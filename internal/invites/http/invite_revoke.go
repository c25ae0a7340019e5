package http

import (
	"net/http"

	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/service"
)

type InviteRevokeHandler struct {
	InviteService   *service.InviteService
	IdentityService *service.IdentityService
}

// ServeHTTP godoc
//
//	@Summary		Revoke Invite
//	@Description	Revoke an invite the caller issued. Idempotent. Redemptions already committed are unaffected.
//	@Tags			Invitations
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Invite ID"
//	@Success		204	"revoked"
//	@Failure		403	{object}	invitesdk.ErrorResponse	"UNAUTHORIZED - caller did not issue the invite"
//	@Failure		404	{object}	invitesdk.ErrorResponse	"NOT_FOUND"
//	@Router			/v1/invites/{id}/revoke [post].
func (h *InviteRevokeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	caller, r, err := callerIdentity(r, h.IdentityService)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.InviteService.Revoke(r.Context(), r.PathValue("id"), caller.ID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
