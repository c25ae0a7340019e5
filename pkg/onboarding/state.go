package onboarding

import (
	"context"
	"errors"
	"net/http"

	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/invitesdk"
)

// Phase is where the coordinator is in the redemption flow.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePendingAuth
	PhaseRedeeming
	PhaseSettling
	PhaseDone
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePendingAuth:
		return "pending_auth"
	case PhaseRedeeming:
		return "redeeming"
	case PhaseSettling:
		return "settling"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Reason qualifies PhaseFailed, and PhaseSettling when the post-redemption
// refresh is stuck. Values match the service's error codes where one exists.
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonNotFound       Reason = invitesdk.ErrorCodeNotFound
	ReasonExpired        Reason = invitesdk.ErrorCodeExpired
	ReasonRevoked        Reason = invitesdk.ErrorCodeRevoked
	ReasonExhausted      Reason = invitesdk.ErrorCodeExhausted
	ReasonTimeout        Reason = invitesdk.ErrorCodeTimeout
	ReasonUnauthorized   Reason = invitesdk.ErrorCodeUnauthorized
	ReasonReauthRequired Reason = "REAUTH_REQUIRED"
	ReasonRefreshFailed  Reason = "REFRESH_FAILED"
	ReasonPersistFailed  Reason = "PERSIST_FAILED"
)

// State is the coordinator's tagged state. Reason is empty except as noted
// on Reason.
type State struct {
	Phase  Phase
	Reason Reason
}

func (s State) String() string {
	if s.Reason == ReasonNone {
		return s.Phase.String()
	}
	return s.Phase.String() + "(" + string(s.Reason) + ")"
}

// Terminal reports whether retrying the same token cannot help. The user
// should be offered a new invite instead.
func (r Reason) Terminal() bool {
	switch r {
	case ReasonNotFound, ReasonExpired, ReasonRevoked, ReasonExhausted, ReasonUnauthorized:
		return true
	}
	return false
}

// classify maps a Redeemer error to a Reason. ok is true for outcomes that
// count as success. Transport failures and deadlines are TIMEOUT: the
// server may or may not have committed. A 401 means the caller's session
// lapsed, not the invite, and is REAUTH_REQUIRED; a 403 stays UNAUTHORIZED.
func classify(err error) (reason Reason, ok bool) {
	if err == nil || errors.Is(err, invitesdk.ErrAlreadyLinked) {
		return ReasonNone, true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout, false
	}

	var apiErr *invitesdk.APIError
	if !errors.As(err, &apiErr) {
		return ReasonTimeout, false
	}
	if apiErr.StatusCode == http.StatusUnauthorized {
		return ReasonReauthRequired, false
	}
	return Reason(apiErr.Code), false
}
