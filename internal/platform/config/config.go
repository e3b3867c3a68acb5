// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, token codec) via constructors.
  - Zero Hidden State: No global variables are used to store config or secrets.
*/
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/taibuivan/lppm/internal/platform/constants"
	"github.com/taibuivan/lppm/internal/platform/sec"
	"github.com/taibuivan/lppm/pkg/query"
)

// # Identity Policies

const (
	// IdentityPolicyLive re-reads the identity row on every authenticated request.
	IdentityPolicyLive = "live"

	// IdentityPolicyClaims trusts the role and name embedded in the token.
	IdentityPolicyClaims = "claims"
)

// # Configuration Schema

// Config holds all runtime configuration for the LPPM portal API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`
	RunMigrations bool   `env:"RUN_MIGRATIONS" envDefault:"true"`

	// Key-Value Store (Redis): token revocation and login lockout
	RedisURL string `env:"REDIS_URL,required"`

	// Session tokens
	JWTSecret      string        `env:"JWT_SECRET,required,unset"`
	TokenTTL       time.Duration `env:"TOKEN_TTL"       envDefault:"24h"`
	IdentityPolicy string        `env:"IDENTITY_POLICY" envDefault:"live"`

	// Brute-force protection
	LoginMaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS" envDefault:"5"`
	LoginLockout     time.Duration `env:"LOGIN_LOCKOUT"      envDefault:"15m"`

	// Password hashing cost
	Argon2MemoryKiB   uint32 `env:"ARGON2_MEMORY_KIB"  envDefault:"65536"`
	Argon2Iterations  uint32 `env:"ARGON2_ITERATIONS"  envDefault:"3"`
	Argon2Parallelism uint8  `env:"ARGON2_PARALLELISM" envDefault:"2"`

	// Per-IP rate limiting
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"100"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"150"`

	// Cross-Origin Resource Sharing
	AllowedOrigins string `env:"ALLOWED_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct and validates it.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the server cannot run safely with.
func (c *Config) Validate() error {
	var errs []error

	if len(c.JWTSecret) < constants.MinSecretLength {
		errs = append(errs, fmt.Errorf("config: JWT_SECRET must be at least %d bytes", constants.MinSecretLength))
	}

	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("config: TOKEN_TTL must be positive"))
	}

	switch c.IdentityPolicy {
	case IdentityPolicyLive, IdentityPolicyClaims:
	default:
		errs = append(errs, fmt.Errorf("config: unknown IDENTITY_POLICY %q", c.IdentityPolicy))
	}

	if c.LoginMaxAttempts < 0 {
		errs = append(errs, errors.New("config: LOGIN_MAX_ATTEMPTS must not be negative"))
	}

	if c.Argon2MemoryKiB == 0 || c.Argon2Iterations == 0 || c.Argon2Parallelism == 0 {
		errs = append(errs, errors.New("config: argon2 cost parameters must be positive"))
	}

	return errors.Join(errs...)
}

// # Derived Values

// Secrets returns the server-held key material as an injectable value.
func (c *Config) Secrets() sec.Secrets {
	return sec.NewSecrets([]byte(c.JWTSecret))
}

// Argon2Params returns the password hashing cost derived from configuration.
func (c *Config) Argon2Params() sec.Argon2Params {
	params := sec.DefaultArgon2Params()
	params.Memory = c.Argon2MemoryKiB
	params.Iterations = c.Argon2Iterations
	params.Parallelism = c.Argon2Parallelism
	return params
}

// LiveIdentity reports whether the authenticator should re-read identities per request.
func (c *Config) LiveIdentity() bool {
	return c.IdentityPolicy == IdentityPolicyLive
}

// ParsedOrigins splits ALLOWED_ORIGINS into a trimmed, non-empty list.
func (c *Config) ParsedOrigins() []string {
	return query.StringSlice(c.AllowedOrigins)
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
