package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/service"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/httpx"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/invitesdk"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/slogx"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// errorTable is the only place service errors become wire errors. First
// match wins.
var errorTable = []errorMapping{
	{service.ErrNotFound, http.StatusNotFound, invitesdk.ErrorCodeNotFound},
	{service.ErrExpired, http.StatusGone, invitesdk.ErrorCodeExpired},
	{service.ErrRevoked, http.StatusGone, invitesdk.ErrorCodeRevoked},
	{service.ErrExhausted, http.StatusGone, invitesdk.ErrorCodeExhausted},
	{service.ErrTimeout, http.StatusServiceUnavailable, invitesdk.ErrorCodeTimeout},
	{context.DeadlineExceeded, http.StatusServiceUnavailable, invitesdk.ErrorCodeTimeout},
	{service.ErrUnauthorized, http.StatusForbidden, invitesdk.ErrorCodeUnauthorized},
	{service.ErrIdentityNotFound, http.StatusNotFound, invitesdk.ErrorCodeNotFound},
	{service.ErrResourceNotFound, http.StatusNotFound, invitesdk.ErrorCodeNotFound},
	{service.ErrRoleAlreadySet, http.StatusConflict, invitesdk.ErrorCodeRoleAlreadySet},
	{service.ErrInvalidRole, http.StatusBadRequest, invitesdk.ErrorCodeInvalidRequest},
	{service.ErrInviteTTLTooLong, http.StatusBadRequest, invitesdk.ErrorCodeInvalidRequest},
	{service.ErrInviteUsesTooMany, http.StatusBadRequest, invitesdk.ErrorCodeInvalidRequest},
	{service.ErrInvalidRequest, http.StatusBadRequest, invitesdk.ErrorCodeInvalidRequest},
}

// writeServiceError maps err through errorTable. Anything unmapped is logged
// and reported as SERVER_ERROR without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			if m.status == http.StatusServiceUnavailable {
				w.Header().Set("Retry-After", "1")
			}
			httpx.WriteError(w, m.status, m.code, m.err.Error())
			return
		}
	}

	slogx.FromContext(r.Context()).Error("unhandled service error", slog.Any("error", err))
	httpx.WriteError(w, http.StatusInternalServerError, invitesdk.ErrorCodeServerError, "internal server error")
}

func writeInvalidRequest(w http.ResponseWriter, desc string) {
	httpx.WriteError(w, http.StatusBadRequest, invitesdk.ErrorCodeInvalidRequest, desc)
}
