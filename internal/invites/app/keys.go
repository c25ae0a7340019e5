package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/cryptox"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/jwtx"
)

// InitAuthKeys loads the auth provider's verification keys.
//
// Key sources:
//   - AUTH_PUBLIC_KEY: a single static key, registered under AUTH_KEY_ID and
//     also used for tokens without a kid header.
//   - AUTH_JWKS_URL: the provider's key set, fetched now and refreshed every
//     AUTH_JWKS_REFRESH by RefreshKeys.
//
// When both are set the static key is added on top of the fetched set.
func InitAuthKeys(ctx context.Context, cfg Config, client *http.Client, logger *slog.Logger) (*jwtx.KeySet, *jwtx.EdDSAVerifier, error) {
	keys := jwtx.NewKeySet()
	opts := jwtx.VerifyOptions{
		Issuer:   cfg.AuthIssuer,
		Audience: cfg.AuthAudience,
		Leeway:   cfg.AuthLeeway,
	}

	if cfg.AuthJWKSURL != "" {
		set, err := jwtx.FetchJWKS(ctx, client, cfg.AuthJWKSURL, 30*time.Second)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch auth provider JWKS: %w", err)
		}
		if err := keys.ResetFromJWKS(set); err != nil {
			return nil, nil, fmt.Errorf("invalid auth provider JWKS: %w", err)
		}
		logger.Info("auth provider keys loaded", "url", cfg.AuthJWKSURL, "num_keys", len(set.Keys))
	}

	if cfg.AuthPublicKey != "" {
		pub, err := cryptox.DecodeEd25519PublicKey(cfg.AuthPublicKey)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid AUTH_PUBLIC_KEY: %w", err)
		}
		if err := keys.AddPublicKey(cfg.AuthKeyID, pub); err != nil {
			return nil, nil, err
		}
		opts.DefaultKID = cfg.AuthKeyID
		logger.Info("static auth provider key loaded", "kid", cfg.AuthKeyID)
	}

	return keys, jwtx.NewVerifier(keys, opts), nil
}

// RefreshKeys re-fetches the JWKS every interval until ctx is done. A failed
// refresh keeps the current keys.
func RefreshKeys(ctx context.Context, cfg Config, client *http.Client, keys *jwtx.KeySet, logger *slog.Logger) {
	if cfg.AuthJWKSURL == "" || cfg.AuthJWKSRefresh <= 0 {
		return
	}

	ticker := time.NewTicker(cfg.AuthJWKSRefresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			set, err := jwtx.FetchJWKS(ctx, client, cfg.AuthJWKSURL, cfg.AuthJWKSRefresh/2)
			if err != nil {
				logger.Warn("auth provider JWKS refresh failed", "error", err)
				continue
			}
			if err := keys.ResetFromJWKS(set); err != nil {
				logger.Warn("auth provider JWKS rejected", "error", err)
				continue
			}
			if cfg.AuthPublicKey != "" {
				if pub, err := cryptox.DecodeEd25519PublicKey(cfg.AuthPublicKey); err == nil {
					_ = keys.AddPublicKey(cfg.AuthKeyID, pub)
				}
			}
			logger.Debug("auth provider keys refreshed", "num_keys", len(set.Keys))
		}
	}
}
