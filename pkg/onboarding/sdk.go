package onboarding

import (
	"context"

	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/invitesdk"
)

// SDKBackend adapts an invitesdk.Session to Redeemer, IdentityRefresher
// and ProfileWriter.
type SDKBackend struct {
	Session *invitesdk.Session
}

var (
	_ Redeemer          = SDKBackend{}
	_ IdentityRefresher = SDKBackend{}
	_ ProfileWriter     = SDKBackend{}
)

func (b SDKBackend) Redeem(ctx context.Context, token, identityID string) (Result, error) {
	out, err := b.Session.RedeemInvite(ctx, token, identityID)
	if err != nil {
		return Result{}, err
	}
	return Result{ResourceID: out.ResourceID, Role: out.Role, AlreadyLinked: out.AlreadyLinked}, nil
}

func (b SDKBackend) Refresh(ctx context.Context) (IdentityView, error) {
	return viewOf(b.Session.Me(ctx))
}

func (b SDKBackend) EnsureIdentity(ctx context.Context) (IdentityView, error) {
	return viewOf(b.Session.EnsureIdentity(ctx))
}

func (b SDKBackend) SelectRole(ctx context.Context, role string) (IdentityView, error) {
	return viewOf(b.Session.SelectRole(ctx, role))
}

func viewOf(r *invitesdk.IdentityResponse, err error) (IdentityView, error) {
	if err != nil {
		return IdentityView{}, err
	}
	return IdentityView{IdentityID: r.IdentityID, Role: r.Role, OnboardingComplete: r.OnboardingComplete}, nil
}
