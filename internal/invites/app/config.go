package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/httpx"
)

type Config struct {
	Env                 string        `env:"ENV" envDefault:"dev"`            // dev, staging, prod
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`     // debug, info, warn, error
	LogFormat           string        `env:"LOG_FORMAT" envDefault:"json"`    // json, text
	Port                int           `env:"PORT" envDefault:"8080"`          // HTTP server port
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`

	DatabaseFile string `env:"INVITES_DATABASE_FILE" envDefault:"invites.db"`

	// Bearer tokens come from the external auth provider. One of
	// AuthPublicKey or AuthJWKSURL is required.
	AuthIssuer      string        `env:"AUTH_ISSUER"`
	AuthAudience    []string      `env:"AUTH_AUDIENCE" envSeparator:","`
	AuthPublicKey   string        `env:"AUTH_PUBLIC_KEY"` // PEM or base64 Ed25519 public key
	AuthKeyID       string        `env:"AUTH_KEY_ID" envDefault:"default"`
	AuthJWKSURL     string        `env:"AUTH_JWKS_URL"`
	AuthJWKSRefresh time.Duration `env:"AUTH_JWKS_REFRESH" envDefault:"10m"`
	AuthLeeway      time.Duration `env:"AUTH_LEEWAY" envDefault:"30s"`

	RedeemRetries       uint64        `env:"INVITES_REDEEM_RETRIES" envDefault:"1"`
	RedeemRetryInterval time.Duration `env:"INVITES_REDEEM_RETRY_INTERVAL" envDefault:"25ms"`

	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`
	InviteRetention      time.Duration `env:"INVITES_RETENTION" envDefault:"720h"`

	RateLimitStrict   int `env:"RATE_LIMIT_STRICT_PER_MINUTE" envDefault:"10"`
	RateLimitModerate int `env:"RATE_LIMIT_MODERATE_PER_MINUTE" envDefault:"30"`
	RateLimitLenient  int `env:"RATE_LIMIT_LENIENT_PER_MINUTE" envDefault:"120"`

	OTelEndpoint string `env:"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"`
	OTelDisabled bool   `env:"OTEL_SDK_DISABLED" envDefault:"false"`
}

// LoadConfig reads Config from the environment and validates it.
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.AuthPublicKey == "" && c.AuthJWKSURL == "" {
		errs = append(errs, errors.New("one of AUTH_PUBLIC_KEY or AUTH_JWKS_URL is required"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.RateLimitStrict <= 0 || c.RateLimitModerate <= 0 || c.RateLimitLenient <= 0 {
		errs = append(errs, errors.New("rate limits must be positive"))
	}
	if c.HousekeepingInterval <= 0 {
		errs = append(errs, errors.New("HOUSEKEEPING_INTERVAL must be positive"))
	}
	return errors.Join(errs...)
}

// RateLimits converts the per-minute settings into router profiles.
func (c Config) RateLimits() httpx.RateLimits {
	perMinute := func(n int) httpx.RateLimitConfig {
		return httpx.RateLimitConfig{RequestsPerWindow: n, Window: time.Minute, Burst: n}
	}
	return httpx.RateLimits{
		Strict:   perMinute(c.RateLimitStrict),
		Moderate: perMinute(c.RateLimitModerate),
		Lenient:  perMinute(c.RateLimitLenient),
	}
}
