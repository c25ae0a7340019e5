/*
Package invitesdk is a client for the invites service.

# SDKClient vs Session

SDKClient covers the public endpoints: health and invite preview. A Session
carries the caller's bearer token from the auth provider and covers the rest:

	client := invitesdk.NewSDKClient("https://invites.example.com")

	// Anyone holding the link may look before signing in
	preview, err := client.PreviewInvite(ctx, token)

	session := client.NewSession(invitesdk.StaticToken(accessToken))

	// Landlord side (requires invites:write)
	inv, err := session.IssueInvite(ctx, invitesdk.IssueInviteRequest{ResourceID: propertyID})

	// Tenant side
	res, err := session.RedeemInvite(ctx, token, "")

# Errors

Every non-2xx response becomes an *APIError. Compare with errors.Is against
the package sentinels, which match on the error code:

	switch {
	case errors.Is(err, invitesdk.ErrExpired):
	case errors.Is(err, invitesdk.ErrTimeout):
		// safe to retry with the same token
	}

IsTerminal reports whether retrying the same redemption can ever succeed.
*/
package invitesdk
