package invites_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/cryptox"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/invitesdk"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/jwtx"
)

/*
 * Container setup and helpers for invites service end-to-end tests.
 * The tests play the auth provider themselves: they hold the signing key
 * whose public half the container is configured with.
 */

const (
	testImageName = "invites-test:latest"
	testIssuer    = "https://auth.example.com"
	testKeyID     = "e2e-key-1"
)

var providerSigner *jwtx.Signer

// TestMain builds the Docker image once before all tests and cleans it up
// after all tests complete.
func TestMain(m *testing.M) {
	pemKey, err := cryptox.GenerateEd25519Key()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate provider key: %v\n", err)
		os.Exit(1)
	}
	providerSigner, err = jwtx.NewSigner(testKeyID, pemKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create provider signer: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Building Invites Service Docker image...")
	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Invites Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/invites/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // image might not exist
}

// setupInvitesContainer starts the service and returns its base URL. Extra
// env entries override the defaults.
func setupInvitesContainer(t *testing.T, extra map[string]string) string {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{
		"AUTH_PUBLIC_KEY": cryptox.EncodeEd25519PublicKey(providerSigner.PublicKey()),
		"AUTH_KEY_ID":     testKeyID,
		"AUTH_ISSUER":     testIssuer,
		"ENV":             "test",
		"LOG_LEVEL":       "info",
		"LOG_FORMAT":      "json",
		// Tests make many rapid requests
		"RATE_LIMIT_STRICT_PER_MINUTE":   "1000",
		"RATE_LIMIT_MODERATE_PER_MINUTE": "1000",
		"RATE_LIMIT_LENIENT_PER_MINUTE":  "1000",
	}
	for k, v := range extra {
		env[k] = v
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        testImageName,
			ExposedPorts: []string{"8080/tcp"},
			Env:          env,
			WaitingFor: wait.ForHTTP("/readyz").
				WithPort("8080/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)
	host, err := container.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
}

// sessionFor signs a provider token for sub and opens a session with it.
func sessionFor(t *testing.T, baseURL, sub string, scopes ...string) *invitesdk.Session {
	t.Helper()
	tok, err := providerSigner.Sign(jwtx.NewClaims(sub, scopes, time.Hour, testIssuer, nil, time.Now().UTC()))
	require.NoError(t, err)
	return invitesdk.NewSDKClient(baseURL).NewSession(invitesdk.StaticToken(tok))
}

// landlordWithProperty self-onboards a landlord and registers one property.
func landlordWithProperty(t *testing.T, baseURL string) (*invitesdk.Session, *invitesdk.ResourceResponse) {
	t.Helper()
	owner := sessionFor(t, baseURL, "auth|landlord", jwtx.ScopeInvitesWrite, jwtx.ScopeInvitesRead)

	me, err := owner.SelectRole(t.Context(), "landlord")
	require.NoError(t, err)
	require.True(t, me.OnboardingComplete)

	res, err := owner.CreateResource(t.Context(), "3 Wattle Lane")
	require.NoError(t, err)
	return owner, res
}
