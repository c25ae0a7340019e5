package http

import (
	"net/http"

	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/service"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/httpx"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/invitesdk"
)

type InvitePreviewHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP godoc
//
//	@Summary		Preview Invite
//	@Description	Show what an invite grants without consuming it. Public; rate limited by IP.
//	@Tags			Invitations
//	@Produce		json
//	@Param			token	path		string							true	"Invite token"
//	@Success		200		{object}	invitesdk.InvitePreviewResponse	"resource_id, resource_preview, expires_at, remaining_uses"
//	@Failure		404		{object}	invitesdk.ErrorResponse			"NOT_FOUND"
//	@Failure		410		{object}	invitesdk.ErrorResponse			"EXPIRED, REVOKED or EXHAUSTED"
//	@Failure		429		{object}	invitesdk.ErrorResponse			"RATE_LIMITED"
//	@Router			/v1/invites/{token} [get].
func (h *InvitePreviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p, err := h.InviteService.Validate(r.Context(), r.PathValue("token"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, invitesdk.InvitePreviewResponse{
		ResourceID:      p.Invite.ResourceID,
		ResourcePreview: p.ResourceName,
		Role:            string(p.Invite.Role),
		ExpiresAt:       p.Invite.ExpiresAt,
		RemainingUses:   p.Invite.RemainingUses(),
	})
}
