package invitesdk

import (
	"context"
	"net/http"
	"net/url"
)

// IssueInvite creates an invite for a resource the caller owns.
// Requires: invites:write scope
func (s *Session) IssueInvite(ctx context.Context, req IssueInviteRequest) (*IssueInviteResponse, error) {
	resp, err := s.doAuthJSON(ctx, http.MethodPost, "/v1/invites", req)
	if err != nil {
		return nil, err
	}

	var out IssueInviteResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}

	return &out, nil
}

// RedeemInvite redeems token for the caller. identityID may be empty; when
// set it must be the caller's own identity. Retrying after an unknown
// outcome is safe: an identity already linked by this invite gets
// AlreadyLinked=true instead of an error.
func (s *Session) RedeemInvite(ctx context.Context, token, identityID string) (*RedeemInviteResponse, error) {
	resp, err := s.doAuthJSON(ctx, http.MethodPost,
		"/v1/invites/"+url.PathEscape(token)+"/redeem",
		RedeemInviteRequest{IdentityID: identityID},
	)
	if err != nil {
		return nil, err
	}

	var out RedeemInviteResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}

	return &out, nil
}

// RevokeInvite revokes an invite the caller issued. Revoking twice succeeds.
// Requires: invites:write scope
func (s *Session) RevokeInvite(ctx context.Context, inviteID string) error {
	resp, err := s.doAuthJSON(ctx, http.MethodPost, "/v1/invites/"+url.PathEscape(inviteID)+"/revoke", nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// ListInvites lists the invites of a resource the caller owns, newest first.
// Requires: invites:read scope
func (s *Session) ListInvites(ctx context.Context, resourceID string) (*ListInvitesResponse, error) {
	resp, err := s.doAuthJSON(ctx, http.MethodGet, "/v1/resources/"+url.PathEscape(resourceID)+"/invites", nil)
	if err != nil {
		return nil, err
	}

	var out ListInvitesResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}

	return &out, nil
}
