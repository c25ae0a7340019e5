package gen

import (
	"database/sql"
)

type Identity struct {
	ID                 string
	ExternalAuthID     string
	Role               string
	OnboardingComplete int64
	CreatedAt          string
	UpdatedAt          string
}

type Invite struct {
	ID         string
	TokenHash  string
	ResourceID string
	IssuerID   string
	Role       string
	MaxUses    int64
	UseCount   int64
	ExpiresAt  string
	RevokedAt  sql.NullString
	CreatedAt  string
	UpdatedAt  string
	ArchivedAt sql.NullString
}

type Resource struct {
	ID        string
	OwnerID   string
	Name      string
	CreatedAt string
}

type ResourceLink struct {
	ID         string
	IdentityID string
	ResourceID string
	InviteID   sql.NullString
	IsActive   int64
	CreatedAt  string
}
