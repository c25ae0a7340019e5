package http

import (
	"net/http"

	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/service"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/httpx"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/invitesdk"
)

type ResourceHandler struct {
	IdentityService *service.IdentityService
}

// HandleCreate godoc
//
//	@Summary		Create Resource
//	@Description	Register a resource (property) owned by the caller so it can be invited to.
//	@Tags			Resources
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		invitesdk.CreateResourceRequest	true	"name"
//	@Success		201		{object}	invitesdk.ResourceResponse		"resource_id, owner_id, name, created_at"
//	@Failure		400		{object}	invitesdk.ErrorResponse			"INVALID_REQUEST"
//	@Router			/v1/resources [post].
func (h *ResourceHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req invitesdk.CreateResourceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeInvalidRequest(w, "invalid JSON body")
		return
	}

	caller, r, err := callerIdentity(r, h.IdentityService)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res, err := h.IdentityService.CreateResource(r.Context(), caller.ID, req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, invitesdk.ResourceResponse{
		ResourceID: res.ID,
		OwnerID:    res.OwnerID,
		Name:       res.Name,
		CreatedAt:  res.CreatedAt,
	})
}
