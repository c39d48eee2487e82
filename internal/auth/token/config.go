package token

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// tokenEnv holds raw env values before post-parse validation.
type tokenEnv struct {
	Issuer     string        `env:"INKPRESS_JWT_ISSUER"      envDefault:"inkpress"`
	Secret     string        `env:"INKPRESS_JWT_SECRET"`
	AccessTTL  time.Duration `env:"INKPRESS_ACCESS_TOKEN_TTL"  envDefault:"24h"`
	RefreshTTL time.Duration `env:"INKPRESS_REFRESH_TOKEN_TTL" envDefault:"336h"`
}

// Config defines how identity tokens are minted and verified.
type Config struct {
	Issuer     string
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Now        func() time.Time
}

// LoadConfigFromEnv reads token configuration from environment variables.
//
// The signing secret has no default on purpose: it must come from the
// environment and stay out of source control.
func LoadConfigFromEnv() (Config, error) {
	var raw tokenEnv
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("parse token env: %w", err)
	}
	if strings.TrimSpace(raw.Secret) == "" {
		return Config{}, fmt.Errorf("INKPRESS_JWT_SECRET is required")
	}
	if raw.AccessTTL <= 0 || raw.RefreshTTL <= 0 {
		return Config{}, fmt.Errorf("token TTLs must be positive")
	}
	return Config{
		Issuer:     strings.TrimSpace(raw.Issuer),
		Secret:     raw.Secret,
		AccessTTL:  raw.AccessTTL,
		RefreshTTL: raw.RefreshTTL,
	}, nil
}
