package invitesdk

import (
	"context"
	"net/http"
)

// EnsureIdentity creates the caller's identity on first use. It never
// assigns a role.
func (s *Session) EnsureIdentity(ctx context.Context) (*IdentityResponse, error) {
	return s.identityCall(ctx, http.MethodPost, "/v1/identities/me", nil)
}

// Me returns the caller's identity with its active resource links.
func (s *Session) Me(ctx context.Context) (*IdentityResponse, error) {
	return s.identityCall(ctx, http.MethodGet, "/v1/identities/me", nil)
}

// SelectRole sets the caller's role if none is set yet. It fails with
// ErrRoleAlreadySet otherwise.
func (s *Session) SelectRole(ctx context.Context, role string) (*IdentityResponse, error) {
	return s.identityCall(ctx, http.MethodPost, "/v1/identities/me/role", SelectRoleRequest{Role: role})
}

func (s *Session) identityCall(ctx context.Context, method, path string, in any) (*IdentityResponse, error) {
	resp, err := s.doAuthJSON(ctx, method, path, in)
	if err != nil {
		return nil, err
	}

	var out IdentityResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}

	return &out, nil
}
