package gen

import (
	"context"
	"database/sql"
)

const archiveInvitesExpiredBefore = `-- name: ArchiveInvitesExpiredBefore :execrows
UPDATE invites
SET archived_at = ?
WHERE expires_at < ? AND archived_at IS NULL
`

type ArchiveInvitesExpiredBeforeParams struct {
	Now    string
	Cutoff string
}

func (q *Queries) ArchiveInvitesExpiredBefore(ctx context.Context, arg ArchiveInvitesExpiredBeforeParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, archiveInvitesExpiredBefore, arg.Now, arg.Cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const consumeInviteUse = `-- name: ConsumeInviteUse :execrows
UPDATE invites
SET use_count = use_count + 1, updated_at = ?
WHERE id = ?
  AND revoked_at IS NULL
  AND expires_at > ?
  AND use_count < max_uses
`

type ConsumeInviteUseParams struct {
	Now string
	ID  string
}

func (q *Queries) ConsumeInviteUse(ctx context.Context, arg ConsumeInviteUseParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, consumeInviteUse, arg.Now, arg.ID, arg.Now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const createIdentity = `-- name: CreateIdentity :exec
INSERT INTO identities (id, external_auth_id, role, onboarding_complete, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
`

type CreateIdentityParams struct {
	ID                 string
	ExternalAuthID     string
	Role               string
	OnboardingComplete int64
	CreatedAt          string
	UpdatedAt          string
}

func (q *Queries) CreateIdentity(ctx context.Context, arg CreateIdentityParams) error {
	_, err := q.db.ExecContext(ctx, createIdentity,
		arg.ID,
		arg.ExternalAuthID,
		arg.Role,
		arg.OnboardingComplete,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const createInvite = `-- name: CreateInvite :exec
INSERT INTO invites (
    id, token_hash, resource_id, issuer_id, role, max_uses, use_count,
    expires_at, revoked_at, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateInviteParams struct {
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
}

func (q *Queries) CreateInvite(ctx context.Context, arg CreateInviteParams) error {
	_, err := q.db.ExecContext(ctx, createInvite,
		arg.ID,
		arg.TokenHash,
		arg.ResourceID,
		arg.IssuerID,
		arg.Role,
		arg.MaxUses,
		arg.UseCount,
		arg.ExpiresAt,
		arg.RevokedAt,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const createResource = `-- name: CreateResource :exec
INSERT INTO resources (id, owner_id, name, created_at)
VALUES (?, ?, ?, ?)
`

type CreateResourceParams struct {
	ID        string
	OwnerID   string
	Name      string
	CreatedAt string
}

func (q *Queries) CreateResource(ctx context.Context, arg CreateResourceParams) error {
	_, err := q.db.ExecContext(ctx, createResource,
		arg.ID,
		arg.OwnerID,
		arg.Name,
		arg.CreatedAt,
	)
	return err
}

const createResourceLink = `-- name: CreateResourceLink :exec
INSERT INTO resource_links (id, identity_id, resource_id, invite_id, is_active, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`

type CreateResourceLinkParams struct {
	ID         string
	IdentityID string
	ResourceID string
	InviteID   sql.NullString
	IsActive   int64
	CreatedAt  string
}

func (q *Queries) CreateResourceLink(ctx context.Context, arg CreateResourceLinkParams) error {
	_, err := q.db.ExecContext(ctx, createResourceLink,
		arg.ID,
		arg.IdentityID,
		arg.ResourceID,
		arg.InviteID,
		arg.IsActive,
		arg.CreatedAt,
	)
	return err
}

const getActiveResourceLink = `-- name: GetActiveResourceLink :one
SELECT id, identity_id, resource_id, invite_id, is_active, created_at
FROM resource_links
WHERE identity_id = ? AND resource_id = ? AND is_active = 1
`

type GetActiveResourceLinkParams struct {
	IdentityID string
	ResourceID string
}

func (q *Queries) GetActiveResourceLink(ctx context.Context, arg GetActiveResourceLinkParams) (ResourceLink, error) {
	row := q.db.QueryRowContext(ctx, getActiveResourceLink, arg.IdentityID, arg.ResourceID)
	var i ResourceLink
	err := row.Scan(
		&i.ID,
		&i.IdentityID,
		&i.ResourceID,
		&i.InviteID,
		&i.IsActive,
		&i.CreatedAt,
	)
	return i, err
}

const getIdentityByExternalAuthID = `-- name: GetIdentityByExternalAuthID :one
SELECT id, external_auth_id, role, onboarding_complete, created_at, updated_at
FROM identities
WHERE external_auth_id = ?
`

func (q *Queries) GetIdentityByExternalAuthID(ctx context.Context, externalAuthID string) (Identity, error) {
	row := q.db.QueryRowContext(ctx, getIdentityByExternalAuthID, externalAuthID)
	var i Identity
	err := row.Scan(
		&i.ID,
		&i.ExternalAuthID,
		&i.Role,
		&i.OnboardingComplete,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getIdentityByID = `-- name: GetIdentityByID :one
SELECT id, external_auth_id, role, onboarding_complete, created_at, updated_at
FROM identities
WHERE id = ?
`

func (q *Queries) GetIdentityByID(ctx context.Context, id string) (Identity, error) {
	row := q.db.QueryRowContext(ctx, getIdentityByID, id)
	var i Identity
	err := row.Scan(
		&i.ID,
		&i.ExternalAuthID,
		&i.Role,
		&i.OnboardingComplete,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getInviteByID = `-- name: GetInviteByID :one
SELECT id, token_hash, resource_id, issuer_id, role, max_uses, use_count,
       expires_at, revoked_at, created_at, updated_at, archived_at
FROM invites
WHERE id = ?
`

func (q *Queries) GetInviteByID(ctx context.Context, id string) (Invite, error) {
	row := q.db.QueryRowContext(ctx, getInviteByID, id)
	var i Invite
	err := row.Scan(
		&i.ID,
		&i.TokenHash,
		&i.ResourceID,
		&i.IssuerID,
		&i.Role,
		&i.MaxUses,
		&i.UseCount,
		&i.ExpiresAt,
		&i.RevokedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.ArchivedAt,
	)
	return i, err
}

const getInviteByTokenHash = `-- name: GetInviteByTokenHash :one
SELECT id, token_hash, resource_id, issuer_id, role, max_uses, use_count,
       expires_at, revoked_at, created_at, updated_at, archived_at
FROM invites
WHERE token_hash = ?
`

func (q *Queries) GetInviteByTokenHash(ctx context.Context, tokenHash string) (Invite, error) {
	row := q.db.QueryRowContext(ctx, getInviteByTokenHash, tokenHash)
	var i Invite
	err := row.Scan(
		&i.ID,
		&i.TokenHash,
		&i.ResourceID,
		&i.IssuerID,
		&i.Role,
		&i.MaxUses,
		&i.UseCount,
		&i.ExpiresAt,
		&i.RevokedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.ArchivedAt,
	)
	return i, err
}

const getResourceByID = `-- name: GetResourceByID :one
SELECT id, owner_id, name, created_at
FROM resources
WHERE id = ?
`

func (q *Queries) GetResourceByID(ctx context.Context, id string) (Resource, error) {
	row := q.db.QueryRowContext(ctx, getResourceByID, id)
	var i Resource
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.Name,
		&i.CreatedAt,
	)
	return i, err
}

const listActiveResourceLinksByIdentity = `-- name: ListActiveResourceLinksByIdentity :many
SELECT id, identity_id, resource_id, invite_id, is_active, created_at
FROM resource_links
WHERE identity_id = ? AND is_active = 1
ORDER BY created_at, id
`

func (q *Queries) ListActiveResourceLinksByIdentity(ctx context.Context, identityID string) ([]ResourceLink, error) {
	rows, err := q.db.QueryContext(ctx, listActiveResourceLinksByIdentity, identityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ResourceLink
	for rows.Next() {
		var i ResourceLink
		if err := rows.Scan(
			&i.ID,
			&i.IdentityID,
			&i.ResourceID,
			&i.InviteID,
			&i.IsActive,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listInvitesByResource = `-- name: ListInvitesByResource :many
SELECT id, token_hash, resource_id, issuer_id, role, max_uses, use_count,
       expires_at, revoked_at, created_at, updated_at, archived_at
FROM invites
WHERE resource_id = ? AND archived_at IS NULL
ORDER BY created_at DESC, id DESC
`

func (q *Queries) ListInvitesByResource(ctx context.Context, resourceID string) ([]Invite, error) {
	rows, err := q.db.QueryContext(ctx, listInvitesByResource, resourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Invite
	for rows.Next() {
		var i Invite
		if err := rows.Scan(
			&i.ID,
			&i.TokenHash,
			&i.ResourceID,
			&i.IssuerID,
			&i.Role,
			&i.MaxUses,
			&i.UseCount,
			&i.ExpiresAt,
			&i.RevokedAt,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.ArchivedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const markOnboardingComplete = `-- name: MarkOnboardingComplete :execrows
UPDATE identities
SET onboarding_complete = 1, updated_at = ?
WHERE id = ?
`

type MarkOnboardingCompleteParams struct {
	UpdatedAt string
	ID        string
}

func (q *Queries) MarkOnboardingComplete(ctx context.Context, arg MarkOnboardingCompleteParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, markOnboardingComplete, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const revokeInvite = `-- name: RevokeInvite :execrows
UPDATE invites
SET revoked_at = ?, updated_at = ?
WHERE id = ? AND revoked_at IS NULL
`

type RevokeInviteParams struct {
	Now string
	ID  string
}

func (q *Queries) RevokeInvite(ctx context.Context, arg RevokeInviteParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, revokeInvite, arg.Now, arg.Now, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const setIdentityRoleIfUnset = `-- name: SetIdentityRoleIfUnset :execrows
UPDATE identities
SET role = ?, updated_at = ?
WHERE id = ? AND role = ''
`

type SetIdentityRoleIfUnsetParams struct {
	Role      string
	UpdatedAt string
	ID        string
}

func (q *Queries) SetIdentityRoleIfUnset(ctx context.Context, arg SetIdentityRoleIfUnsetParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, setIdentityRoleIfUnset, arg.Role, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
