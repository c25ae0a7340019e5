package service

import (
	"strings"
	"testing"

	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/domain"
	"github.com/stretchr/testify/require"
)

func TestEnsureIdentity(t *testing.T) {
	e := newMemEnv(t)
	ctx := t.Context()

	first, err := e.identities.EnsureIdentity(ctx, "auth|new")
	require.NoError(t, err)
	require.Equal(t, domain.RoleUnset, first.Role)
	require.False(t, first.OnboardingComplete)

	again, err := e.identities.EnsureIdentity(ctx, "auth|new")
	require.NoError(t, err)
	require.Equal(t, first.ID, again.ID)

	_, err = e.identities.EnsureIdentity(ctx, "")
	require.ErrorIs(t, err, ErrInvalidRequest)

	_, err = e.identities.GetByExternalAuthID(ctx, "auth|unknown")
	require.ErrorIs(t, err, ErrIdentityNotFound)
}

func TestSelectRole(t *testing.T) {
	e := newMemEnv(t)
	ctx := t.Context()

	ident := e.newcomer(t, "auth|self")

	_, err := e.identities.SelectRole(ctx, ident.ID, domain.RoleUnset)
	require.ErrorIs(t, err, ErrInvalidRole)

	got, err := e.identities.SelectRole(ctx, ident.ID, domain.RoleLandlord)
	require.NoError(t, err)
	require.Equal(t, domain.RoleLandlord, got.Role)
	require.True(t, got.OnboardingComplete)

	_, err = e.identities.SelectRole(ctx, ident.ID, domain.RoleTenant)
	require.ErrorIs(t, err, ErrRoleAlreadySet)

	_, err = e.identities.SelectRole(ctx, "missing", domain.RoleTenant)
	require.ErrorIs(t, err, ErrIdentityNotFound)
}

func TestCreateResource(t *testing.T) {
	e := newMemEnv(t)
	ctx := t.Context()

	res, err := e.identities.CreateResource(ctx, e.owner.ID, "  Unit 7  ")
	require.NoError(t, err)
	require.Equal(t, "Unit 7", res.Name)
	require.Equal(t, e.owner.ID, res.OwnerID)

	_, err = e.identities.CreateResource(ctx, e.owner.ID, " ")
	require.ErrorIs(t, err, ErrInvalidRequest)

	_, err = e.identities.CreateResource(ctx, e.owner.ID, strings.Repeat("x", maxResourceNameLen+1))
	require.ErrorIs(t, err, ErrInvalidRequest)

	_, err = e.identities.CreateResource(ctx, "missing", "Unit 8")
	require.ErrorIs(t, err, ErrIdentityNotFound)
}
