package invitesdk

import "time"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	// Error is one of the ErrorCode constants
	Error string `json:"error"`

	// ErrorDescription is for humans; branch on Error instead
	ErrorDescription string `json:"error_description"`
}

// ============================================================================
// Invites
// ============================================================================

// IssueInviteRequest is the body of POST /v1/invites. Zero values take
// server defaults (24h, one use, tenant).
type IssueInviteRequest struct {
	ResourceID string `json:"resource_id"`
	TTLSeconds int64  `json:"ttl_seconds,omitempty"`
	MaxUses    int    `json:"max_uses,omitempty"`
	Role       string `json:"role,omitempty"`
}

// IssueInviteResponse carries the secret. It is returned exactly once.
type IssueInviteResponse struct {
	InviteID   string    `json:"invite_id"`
	Token      string    `json:"token"`
	ResourceID string    `json:"resource_id"`
	Role       string    `json:"role"`
	ExpiresAt  time.Time `json:"expires_at"`
	MaxUses    int       `json:"max_uses"`
}

// InvitePreviewResponse is what GET /v1/invites/{token} shows a redeemer who
// may not have signed in yet.
type InvitePreviewResponse struct {
	ResourceID      string    `json:"resource_id"`
	ResourcePreview string    `json:"resource_preview"`
	Role            string    `json:"role"`
	ExpiresAt       time.Time `json:"expires_at"`
	RemainingUses   int       `json:"remaining_uses"`
}

// RedeemInviteRequest is the body of POST /v1/invites/{token}/redeem.
// IdentityID is optional; when set it must be the caller's own identity.
type RedeemInviteRequest struct {
	IdentityID string `json:"identity_id,omitempty"`
}

type RedeemInviteResponse struct {
	ResourceID    string `json:"resource_id"`
	Role          string `json:"role"`
	AlreadyLinked bool   `json:"already_linked"`
}

// InviteSummary never includes the secret.
type InviteSummary struct {
	InviteID   string     `json:"invite_id"`
	ResourceID string     `json:"resource_id"`
	Role       string     `json:"role"`
	Status     string     `json:"status"` // active|revoked|expired|exhausted
	MaxUses    int        `json:"max_uses"`
	UseCount   int        `json:"use_count"`
	ExpiresAt  time.Time  `json:"expires_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type ListInvitesResponse struct {
	Invites []InviteSummary `json:"invites"`
}

// ============================================================================
// Identities and resources
// ============================================================================

type LinkResponse struct {
	ResourceID string    `json:"resource_id"`
	InviteID   string    `json:"invite_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// IdentityResponse is the caller's identity snapshot. Role is empty until
// assigned by a redemption or by role selection.
type IdentityResponse struct {
	IdentityID         string         `json:"identity_id"`
	Role               string         `json:"role"`
	OnboardingComplete bool           `json:"onboarding_complete"`
	Links              []LinkResponse `json:"links"`
}

type SelectRoleRequest struct {
	Role string `json:"role"`
}

type CreateResourceRequest struct {
	Name string `json:"name"`
}

type ResourceResponse struct {
	ResourceID string    `json:"resource_id"`
	OwnerID    string    `json:"owner_id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
}

// ============================================================================
// Health
// ============================================================================

type HealthChecks struct {
	Database string `json:"database"`
	Keys     string `json:"keys"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
