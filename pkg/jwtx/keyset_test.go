package jwtx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestKeySet(t *testing.T) {
	keys := jwtx.NewKeySet()
	require.False(t, keys.IsReady())

	a := newSigner(t, "a")
	require.NoError(t, keys.AddJWK(a.PublicJWK()))
	require.True(t, keys.IsReady())

	pub, err := keys.Get("a")
	require.NoError(t, err)
	require.Equal(t, a.PublicKey(), pub)

	_, err = keys.Get("missing")
	require.ErrorIs(t, err, jwtx.ErrNoKey)

	t.Run("reset replaces keys", func(t *testing.T) {
		b := newSigner(t, "b")
		require.NoError(t, keys.ResetFromJWKS(jwtx.JWKS{Keys: []jwtx.JWK{b.PublicJWK()}}))

		_, err := keys.Get("a")
		require.ErrorIs(t, err, jwtx.ErrNoKey)
		_, err = keys.Get("b")
		require.NoError(t, err)
		require.Len(t, keys.PublicJWKS().Keys, 1)
	})

	t.Run("invalid key leaves set untouched", func(t *testing.T) {
		err := keys.ResetFromJWKS(jwtx.JWKS{Keys: []jwtx.JWK{{Kty: "RSA", Kid: "r"}}})
		require.Error(t, err)
		_, err = keys.Get("b")
		require.NoError(t, err)
	})
}

func TestFetchJWKS(t *testing.T) {
	signer := newSigner(t, "k1")

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(jwtx.JWKS{Keys: []jwtx.JWK{signer.PublicJWK()}})
	}))
	t.Cleanup(srv.Close)

	set, err := jwtx.FetchJWKS(t.Context(), srv.Client(), srv.URL, 5*time.Second)
	require.NoError(t, err)
	require.Len(t, set.Keys, 1)
	require.Equal(t, "k1", set.Keys[0].Kid)
	require.GreaterOrEqual(t, calls.Load(), int32(2), "server errors are retried")

	t.Run("client errors are permanent", func(t *testing.T) {
		var hits atomic.Int32
		bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		t.Cleanup(bad.Close)

		_, err := jwtx.FetchJWKS(t.Context(), bad.Client(), bad.URL, 5*time.Second)
		require.Error(t, err)
		require.Equal(t, int32(1), hits.Load())
	})
}
