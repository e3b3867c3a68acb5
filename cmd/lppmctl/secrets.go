// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"github.com/taibuivan/lppm/internal/platform/constants"
	"github.com/taibuivan/lppm/internal/platform/sec"
	"github.com/taibuivan/lppm/pkg/uuid"
)

// cryptoEnv is the subset of the server configuration the offline commands need.
type cryptoEnv struct {
	JWTSecret         string        `env:"JWT_SECRET"`
	TokenTTL          time.Duration `env:"TOKEN_TTL"          envDefault:"24h"`
	Argon2MemoryKiB   uint32        `env:"ARGON2_MEMORY_KIB"  envDefault:"65536"`
	Argon2Iterations  uint32        `env:"ARGON2_ITERATIONS"  envDefault:"3"`
	Argon2Parallelism uint8         `env:"ARGON2_PARALLELISM" envDefault:"2"`
}

func loadCryptoEnv() (cryptoEnv, error) {
	var cfg cryptoEnv
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("lppmctl: parse environment: %w", err)
	}
	return cfg, nil
}

func (cfg cryptoEnv) codec() (*sec.TokenCodec, error) {
	if len(cfg.JWTSecret) < constants.MinSecretLength {
		return nil, fmt.Errorf("JWT_SECRET must be set and at least %d bytes", constants.MinSecretLength)
	}
	return sec.NewTokenCodec(sec.NewSecrets([]byte(cfg.JWTSecret)), constants.AuthIssuer), nil
}

func (cfg cryptoEnv) hasher() *sec.PasswordHasher {
	params := sec.DefaultArgon2Params()
	params.Memory = cfg.Argon2MemoryKiB
	params.Iterations = cfg.Argon2Iterations
	params.Parallelism = cfg.Argon2Parallelism
	return sec.NewPasswordHasher(params)
}

// # hash-password

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the Argon2id digest of a password",
		Long: `Print the digest the server would store for a password, using
the ARGON2_* cost parameters from the environment.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCryptoEnv()
			if err != nil {
				return err
			}

			digest, err := cfg.hasher().Hash(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), digest)
			return nil
		},
	}
}

// # token

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue or inspect session tokens",
	}
	cmd.AddCommand(tokenIssueCmd(), tokenDecodeCmd())
	return cmd
}

func tokenIssueCmd() *cobra.Command {
	var (
		subject string
		email   string
		name    string
		role    string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Mint a session token signed with JWT_SECRET",
		Long: `Mint a session token for an existing identity. Under the live
identity policy the server still re-reads the account, so the role and
name given here only matter under the claims policy.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCryptoEnv()
			if err != nil {
				return err
			}
			codec, err := cfg.codec()
			if err != nil {
				return err
			}

			parsedRole, err := sec.ParseRole(role)
			if err != nil {
				return err
			}
			if !uuid.IsValid(subject) {
				return fmt.Errorf("--subject must be a UUID, got %q", subject)
			}
			if ttl <= 0 {
				ttl = cfg.TokenTTL
			}

			claims := sec.AuthClaims{Email: strings.ToLower(email), Role: parsedRole, Name: name}
			claims.Subject = subject

			token, err := codec.Encode(claims, ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "identity id (UUID)")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().StringVar(&name, "name", "", "display name claim")
	cmd.Flags().StringVar(&role, "role", string(sec.RoleLecturer), "role claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "lifetime, defaults to TOKEN_TTL")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

func tokenDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <token>",
		Short: "Verify a token and print its claims as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCryptoEnv()
			if err != nil {
				return err
			}
			codec, err := cfg.codec()
			if err != nil {
				return err
			}

			claims, err := codec.Decode(strings.TrimPrefix(args[0], constants.BearerPrefix))
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(claims)
		},
	}
}
