package onboarding

import (
	"context"
	"errors"
)

// ErrRedemptionInFlight is returned instead of writing while a redemption
// may still assign the role.
var ErrRedemptionInFlight = errors.New("onboarding: redemption in flight")

// Guard is consulted before any write to the identity's role.
type Guard interface {
	InFlight() bool
}

// ProfileWriter is the server side of self-onboarding.
type ProfileWriter interface {
	EnsureIdentity(ctx context.Context) (IdentityView, error)
	SelectRole(ctx context.Context, role string) (IdentityView, error)
}

// Provisioner is the app's "make sure a profile exists" routine. It runs
// on every sign-in, so it must step aside while an invite is being
// redeemed or it could give the identity a role the invite would then be
// unable to set.
type Provisioner struct {
	Guard  Guard
	Writer ProfileWriter
}

// EnsureProfile creates the identity if needed and, when defaultRole is not
// empty and the identity has no role, assigns it.
func (p *Provisioner) EnsureProfile(ctx context.Context, defaultRole string) (IdentityView, error) {
	if p.Guard.InFlight() {
		return IdentityView{}, ErrRedemptionInFlight
	}

	v, err := p.Writer.EnsureIdentity(ctx)
	if err != nil || defaultRole == "" || v.Role != "" {
		return v, err
	}
	return p.SelectRole(ctx, defaultRole)
}

// SelectRole assigns role to an identity without one.
func (p *Provisioner) SelectRole(ctx context.Context, role string) (IdentityView, error) {
	if p.Guard.InFlight() {
		return IdentityView{}, ErrRedemptionInFlight
	}
	return p.Writer.SelectRole(ctx, role)
}
