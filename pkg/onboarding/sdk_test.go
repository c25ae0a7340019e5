package onboarding

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/invitesdk"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/routing"
)

func newSDKBackend(t *testing.T, mux *http.ServeMux) SDKBackend {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return SDKBackend{Session: invitesdk.NewSDKClient(srv.URL).NewSession(invitesdk.StaticToken("tok"))}
}

func TestSDKBackendEndToEnd(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/invites/{token}/redeem", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("token") == "gone" {
			w.WriteHeader(http.StatusGone)
			_ = json.NewEncoder(w).Encode(invitesdk.ErrorResponse{Error: invitesdk.ErrorCodeExpired})
			return
		}
		_ = json.NewEncoder(w).Encode(invitesdk.RedeemInviteResponse{ResourceID: "res-1", Role: "tenant"})
	})
	mux.HandleFunc("GET /v1/identities/me", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(invitesdk.IdentityResponse{IdentityID: "id-1", Role: "tenant", OnboardingComplete: true})
	})
	b := newSDKBackend(t, mux)

	c := newTestCoordinator(&MemoryIntentStore{}, &fakeRedeemer{}, &fakeRefresher{})
	c.redeemer, c.refresher = b, b

	require.NoError(t, c.Accept(t.Context(), "gone"))
	require.Error(t, c.Authenticated(t.Context(), "id-1"))
	require.Equal(t, State{Phase: PhaseFailed, Reason: ReasonExpired}, c.State())

	require.NoError(t, c.Accept(t.Context(), testToken))
	require.NoError(t, c.Authenticated(t.Context(), "id-1"))
	require.Equal(t, PhaseDone, c.State().Phase)

	res, ok := c.Result()
	require.True(t, ok)
	require.Equal(t, "res-1", res.ResourceID)
}

func TestExpiredSessionDuringRedeemAsksForSignIn(t *testing.T) {
	var sessionValid atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/invites/{token}/redeem", func(w http.ResponseWriter, r *http.Request) {
		if !sessionValid.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(invitesdk.ErrorResponse{Error: invitesdk.ErrorCodeUnauthorized})
			return
		}
		_ = json.NewEncoder(w).Encode(invitesdk.RedeemInviteResponse{ResourceID: "res-1", Role: "tenant"})
	})
	mux.HandleFunc("GET /v1/identities/me", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(invitesdk.IdentityResponse{IdentityID: "id-1", Role: "tenant", OnboardingComplete: true})
	})
	b := newSDKBackend(t, mux)

	store := &MemoryIntentStore{}
	c := newTestCoordinator(store, &fakeRedeemer{}, &fakeRefresher{})
	c.redeemer, c.refresher = b, b

	require.NoError(t, c.Accept(t.Context(), testToken))
	err := c.Authenticated(t.Context(), "id-1")
	require.ErrorIs(t, err, ErrReauthRequired)

	// The invite is still good: no terminal failure, intent kept, guard held.
	require.Equal(t, State{Phase: PhasePendingAuth}, c.State())
	_, err = store.Load(t.Context())
	require.NoError(t, err)
	require.True(t, c.InFlight())
	require.Equal(t, routing.TargetAuth, routing.Decide(c.Snapshot()))

	sessionValid.Store(true)
	require.NoError(t, c.Authenticated(t.Context(), "id-1"))
	require.Equal(t, PhaseDone, c.State().Phase)
}

func TestIdentityMismatchIsTerminal(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/invites/{token}/redeem", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(invitesdk.ErrorResponse{Error: invitesdk.ErrorCodeUnauthorized})
	})
	b := newSDKBackend(t, mux)

	c := newTestCoordinator(&MemoryIntentStore{}, &fakeRedeemer{}, &fakeRefresher{})
	c.redeemer = b

	require.NoError(t, c.Accept(t.Context(), testToken))
	require.Error(t, c.Authenticated(t.Context(), "someone-else"))

	st := c.State()
	require.Equal(t, State{Phase: PhaseFailed, Reason: ReasonUnauthorized}, st)
	require.True(t, st.Reason.Terminal())
}
