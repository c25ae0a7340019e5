package http

import (
	"net/http"
	"time"

	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/domain"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/service"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/httpx"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/invitesdk"
)

type InviteIssueHandler struct {
	InviteService   *service.InviteService
	IdentityService *service.IdentityService
}

// ServeHTTP godoc
//
//	@Summary		Issue Invite
//	@Description	Issue an invite for a resource the caller owns. The token is returned once and never stored.
//	@Description	Omitted fields default to a 24 hour TTL, one use and the tenant role.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		invitesdk.IssueInviteRequest	true	"resource_id, ttl_seconds, max_uses, role"
//	@Success		201		{object}	invitesdk.IssueInviteResponse	"invite_id, token, resource_id, expires_at, max_uses"
//	@Failure		400		{object}	invitesdk.ErrorResponse			"INVALID_REQUEST"
//	@Failure		401		{object}	invitesdk.ErrorResponse			"UNAUTHORIZED"
//	@Failure		403		{object}	invitesdk.ErrorResponse			"UNAUTHORIZED - caller does not own the resource"
//	@Failure		404		{object}	invitesdk.ErrorResponse			"NOT_FOUND - unknown resource"
//	@Failure		500		{object}	invitesdk.ErrorResponse			"SERVER_ERROR"
//	@Router			/v1/invites [post].
func (h *InviteIssueHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req invitesdk.IssueInviteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeInvalidRequest(w, "invalid JSON body")
		return
	}
	if req.ResourceID == "" {
		writeInvalidRequest(w, "resource_id is required")
		return
	}
	if req.TTLSeconds < 0 || req.MaxUses < 0 {
		writeInvalidRequest(w, "ttl_seconds and max_uses must not be negative")
		return
	}

	caller, r, err := callerIdentity(r, h.IdentityService)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	inv, token, err := h.InviteService.Issue(
		r.Context(),
		req.ResourceID,
		caller.ID,
		time.Duration(req.TTLSeconds)*time.Second,
		req.MaxUses,
		domain.Role(req.Role),
	)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, invitesdk.IssueInviteResponse{
		InviteID:   inv.ID,
		Token:      token,
		ResourceID: inv.ResourceID,
		Role:       string(inv.Role),
		ExpiresAt:  inv.ExpiresAt,
		MaxUses:    inv.MaxUses,
	})
}
