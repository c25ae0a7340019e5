package otelx_test

import (
	"context"
	"testing"

	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/otelx"
	"github.com/stretchr/testify/require"
)

func TestSetupNoopWhenEndpointEmpty(t *testing.T) {
	shutdown, err := otelx.Setup(t.Context(), otelx.Config{ServiceName: "invites"})
	require.NoError(t, err)
	require.NoError(t, shutdown(t.Context()))
}

func TestSetupNoopWhenDisabled(t *testing.T) {
	shutdown, err := otelx.Setup(t.Context(), otelx.Config{
		Endpoint:    "http://localhost:4318",
		Disabled:    true,
		ServiceName: "invites",
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	require.NoError(t, shutdown(ctx), "noop shutdown ignores cancelled context")
}

func TestSetupCreatesProvider(t *testing.T) {
	// Non-routable address so no export actually happens.
	shutdown, err := otelx.Setup(t.Context(), otelx.Config{
		Endpoint:       "http://192.0.2.1:4318",
		ServiceName:    "invites",
		ServiceVersion: "test",
	})
	require.NoError(t, err)
	require.NoError(t, shutdown(t.Context()))
}

func TestTracerWithoutSetup(t *testing.T) {
	_, span := otelx.Tracer("test").Start(t.Context(), "op")
	defer span.End()
	require.NotNil(t, span)
}
