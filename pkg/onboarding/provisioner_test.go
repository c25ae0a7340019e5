package onboarding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	view   IdentityView
	writes int
}

func (w *fakeWriter) EnsureIdentity(context.Context) (IdentityView, error) {
	w.writes++
	if w.view.IdentityID == "" {
		w.view.IdentityID = "id-1"
	}
	return w.view, nil
}

func (w *fakeWriter) SelectRole(_ context.Context, role string) (IdentityView, error) {
	w.writes++
	w.view.Role = role
	w.view.OnboardingComplete = true
	return w.view, nil
}

func TestProvisionerStepsAsideDuringRedemption(t *testing.T) {
	c := newTestCoordinator(&MemoryIntentStore{}, &fakeRedeemer{}, &fakeRefresher{})
	w := &fakeWriter{}
	p := &Provisioner{Guard: c, Writer: w}

	require.NoError(t, c.Accept(t.Context(), testToken))

	_, err := p.EnsureProfile(t.Context(), "landlord")
	require.ErrorIs(t, err, ErrRedemptionInFlight)
	_, err = p.SelectRole(t.Context(), "landlord")
	require.ErrorIs(t, err, ErrRedemptionInFlight)
	require.Zero(t, w.writes)

	// Released once the redemption settles
	require.NoError(t, c.Authenticated(t.Context(), "id-1"))
	_, err = p.EnsureProfile(t.Context(), "")
	require.NoError(t, err)
	require.Equal(t, 1, w.writes)
}

func TestProvisionerReleasedOnDecline(t *testing.T) {
	c := newTestCoordinator(&MemoryIntentStore{}, &fakeRedeemer{}, &fakeRefresher{})
	w := &fakeWriter{}
	p := &Provisioner{Guard: c, Writer: w}

	require.NoError(t, c.Accept(t.Context(), testToken))
	require.NoError(t, c.Decline(t.Context()))

	v, err := p.EnsureProfile(t.Context(), "landlord")
	require.NoError(t, err)
	require.Equal(t, "landlord", v.Role)
	require.Equal(t, 2, w.writes)
}

func TestProvisionerKeepsExistingRole(t *testing.T) {
	w := &fakeWriter{view: IdentityView{IdentityID: "id-1", Role: "tenant", OnboardingComplete: true}}
	p := &Provisioner{Guard: newTestCoordinator(&MemoryIntentStore{}, &fakeRedeemer{}, &fakeRefresher{}), Writer: w}

	v, err := p.EnsureProfile(t.Context(), "landlord")
	require.NoError(t, err)
	require.Equal(t, "tenant", v.Role)
	require.Equal(t, 1, w.writes)
}
