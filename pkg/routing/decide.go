// Package routing maps a point-in-time view of the client's session to the
// screen it should show.
package routing

// Target is a destination screen.
type Target string

const (
	TargetRedeem       Target = "redeem"
	TargetLoading      Target = "loading"
	TargetLandlordHome Target = "landlord_home"
	TargetTenantHome   Target = "tenant_home"
	TargetOnboarding   Target = "onboarding"
	TargetAuth         Target = "auth"
)

const (
	RoleLandlord = "landlord"
	RoleTenant   = "tenant"
)

// Snapshot is everything Decide looks at. Compose one from all observers
// (auth, identity, coordinator) and decide once per change.
type Snapshot struct {
	Authenticated bool

	// Loading is true while any of identity, role or onboarding status is
	// still being fetched.
	Loading bool

	// IntentPending is true while an invite is waiting to be redeemed.
	IntentPending bool

	Role               string
	OnboardingComplete bool
}

// Decide is total and keeps no state: equal snapshots always give the same
// target.
//
// A pending invite wins over everything once the user is signed in, even a
// fully loaded identity with a role, so the role home never flashes before
// the redemption screen.
func Decide(s Snapshot) Target {
	switch {
	case s.IntentPending && s.Authenticated:
		return TargetRedeem
	case s.Loading:
		return TargetLoading
	case s.Authenticated && s.OnboardingComplete && s.Role == RoleLandlord:
		return TargetLandlordHome
	case s.Authenticated && s.OnboardingComplete && s.Role == RoleTenant:
		return TargetTenantHome
	case s.Authenticated:
		return TargetOnboarding
	default:
		return TargetAuth
	}
}
