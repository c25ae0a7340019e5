package http

import (
	"context"
	"net/http"

	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/domain"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/service"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/httpx"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/invitesdk"
)

type IdentityHandler struct {
	IdentityService *service.IdentityService
}

// HandleEnsure godoc
//
//	@Summary		Ensure Identity
//	@Description	Create the caller's identity on first use. Never assigns a role.
//	@Tags			Identities
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	invitesdk.IdentityResponse	"identity_id, role, onboarding_complete, links"
//	@Failure		401	{object}	invitesdk.ErrorResponse		"UNAUTHORIZED"
//	@Router			/v1/identities/me [post].
func (h *IdentityHandler) HandleEnsure(w http.ResponseWriter, r *http.Request) {
	h.HandleGet(w, r)
}

// HandleGet godoc
//
//	@Summary		Get Identity
//	@Description	Return the caller's identity and active resource links.
//	@Tags			Identities
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	invitesdk.IdentityResponse	"identity_id, role, onboarding_complete, links"
//	@Failure		401	{object}	invitesdk.ErrorResponse		"UNAUTHORIZED"
//	@Router			/v1/identities/me [get].
func (h *IdentityHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	caller, r, err := callerIdentity(r, h.IdentityService)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.writeIdentity(w, r, caller)
}

// HandleSelectRole godoc
//
//	@Summary		Select Role
//	@Description	Self-onboarding: set the caller's role if none is set. An existing role is never replaced.
//	@Tags			Identities
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		invitesdk.SelectRoleRequest	true	"role (landlord or tenant)"
//	@Success		200		{object}	invitesdk.IdentityResponse	"identity_id, role, onboarding_complete, links"
//	@Failure		400		{object}	invitesdk.ErrorResponse		"INVALID_REQUEST"
//	@Failure		409		{object}	invitesdk.ErrorResponse		"ROLE_ALREADY_SET"
//	@Router			/v1/identities/me/role [post].
func (h *IdentityHandler) HandleSelectRole(w http.ResponseWriter, r *http.Request) {
	var req invitesdk.SelectRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeInvalidRequest(w, "invalid JSON body")
		return
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	caller, r, err := callerIdentity(r, h.IdentityService)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	updated, err := h.IdentityService.SelectRole(r.Context(), caller.ID, role)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.writeIdentity(w, r, updated)
}

func (h *IdentityHandler) writeIdentity(w http.ResponseWriter, r *http.Request, ident domain.Identity) {
	resp, err := h.identityResponse(r.Context(), ident)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *IdentityHandler) identityResponse(ctx context.Context, ident domain.Identity) (invitesdk.IdentityResponse, error) {
	links, err := h.IdentityService.Links(ctx, ident.ID)
	if err != nil {
		return invitesdk.IdentityResponse{}, err
	}

	resp := invitesdk.IdentityResponse{
		IdentityID:         ident.ID,
		Role:               string(ident.Role),
		OnboardingComplete: ident.OnboardingComplete,
		Links:              make([]invitesdk.LinkResponse, 0, len(links)),
	}
	for _, l := range links {
		resp.Links = append(resp.Links, invitesdk.LinkResponse{
			ResourceID: l.ResourceID,
			InviteID:   l.InviteID,
			CreatedAt:  l.CreatedAt,
		})
	}
	return resp, nil
}
