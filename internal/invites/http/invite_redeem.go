package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/service"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/httpx"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/invitesdk"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/slogx"
)

type InviteRedeemHandler struct {
	InviteService   *service.InviteService
	IdentityService *service.IdentityService
}

// ServeHTTP godoc
//
//	@Summary		Redeem Invite
//	@Description	Redeem an invite for the caller: one use, one resource link, the invite's role if the caller has none,
//	@Description	and onboarding completion, all or nothing. A caller already linked to the resource succeeds with
//	@Description	already_linked=true and consumes nothing, so retrying after an unknown outcome is safe.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			token	path		string							true	"Invite token"
//	@Param			request	body		invitesdk.RedeemInviteRequest	false	"identity_id (optional, must be the caller)"
//	@Success		200		{object}	invitesdk.RedeemInviteResponse	"resource_id, role, already_linked"
//	@Failure		400		{object}	invitesdk.ErrorResponse			"INVALID_REQUEST"
//	@Failure		403		{object}	invitesdk.ErrorResponse			"UNAUTHORIZED - identity_id is not the caller"
//	@Failure		404		{object}	invitesdk.ErrorResponse			"NOT_FOUND"
//	@Failure		410		{object}	invitesdk.ErrorResponse			"EXPIRED, REVOKED or EXHAUSTED"
//	@Failure		503		{object}	invitesdk.ErrorResponse			"TIMEOUT - nothing was applied, retry with the same token"
//	@Router			/v1/invites/{token}/redeem [post].
func (h *InviteRedeemHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req invitesdk.RedeemInviteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeInvalidRequest(w, "invalid JSON body")
		return
	}

	caller, r, err := callerIdentity(r, h.IdentityService)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if req.IdentityID != "" && req.IdentityID != caller.ID {
		slogx.FromContext(r.Context()).Warn("redeem for another identity refused",
			slog.String("requested_identity_id", req.IdentityID),
		)
		writeServiceError(w, r, service.ErrUnauthorized)
		return
	}

	out, err := h.InviteService.Redeem(r.Context(), r.PathValue("token"), caller.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, invitesdk.RedeemInviteResponse{
		ResourceID:    out.ResourceID,
		Role:          string(out.Role),
		AlreadyLinked: out.AlreadyLinked,
	})
}
