package invitesdk

import (
	"context"
	"net/http"
	"net/url"
)

// PreviewInvite shows what an invite grants without consuming it. It needs
// no session, so it can run before the redeemer has signed in.
func (c *SDKClient) PreviewInvite(ctx context.Context, token string) (*InvitePreviewResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/invites/"+url.PathEscape(token), nil, nil)
	if err != nil {
		return nil, err
	}

	var preview InvitePreviewResponse
	if err := decodeJSON(resp, &preview, http.StatusOK); err != nil {
		return nil, err
	}

	return &preview, nil
}
