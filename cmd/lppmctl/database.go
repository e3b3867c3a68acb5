// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"github.com/taibuivan/lppm/internal/platform/migration"
	pgstore "github.com/taibuivan/lppm/internal/platform/postgres"
	"github.com/taibuivan/lppm/internal/platform/sec"
	"github.com/taibuivan/lppm/internal/platform/validate"
	"github.com/taibuivan/lppm/internal/users/auth"
	"github.com/taibuivan/lppm/pkg/uuid"
)

type databaseEnv struct {
	DatabaseURL   string `env:"DATABASE_URL,required"`
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`
}

func loadDatabaseEnv() (databaseEnv, error) {
	var cfg databaseEnv
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("lppmctl: parse environment: %w", err)
	}
	return cfg, nil
}

// # migrate

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect SQL schema migrations",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadDatabaseEnv()
			if err != nil {
				return err
			}
			return migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, newLogger())
		},
	}

	var steps int
	step := &cobra.Command{
		Use:   "step",
		Short: "Apply n migrations forward, or backward when negative",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps == 0 {
				return fmt.Errorf("--n must not be zero")
			}
			cfg, err := loadDatabaseEnv()
			if err != nil {
				return err
			}
			return migration.Steps(cfg.DatabaseURL, cfg.MigrationPath, steps, newLogger())
		},
	}
	step.Flags().IntVarP(&steps, "n", "n", 0, "number of migrations")

	status := &cobra.Command{
		Use:   "status",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadDatabaseEnv()
			if err != nil {
				return err
			}

			current, err := migration.CurrentStatus(cfg.DatabaseURL, cfg.MigrationPath, newLogger())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", current.Version, current.Dirty)
			return nil
		},
	}

	cmd.AddCommand(up, step, status)
	return cmd
}

// # user

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage portal accounts directly in the database",
	}
	cmd.AddCommand(createAdminCmd())
	return cmd
}

func createAdminCmd() *cobra.Command {
	var (
		email    string
		name     string
		password string
	)

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create the first super administrator",
		Long: `Create a super administrator account. The HTTP API only lets an
existing super administrator grant that role, so a fresh deployment is
bootstrapped with this command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email = strings.ToLower(strings.TrimSpace(email))

			validator := &validate.Validator{}
			validator.Required(auth.FieldEmail, email).
				Email(auth.FieldEmail, email).
				Required(auth.FieldName, name).
				Password(auth.FieldPassword, password)
			if err := validator.Err(); err != nil {
				return fmt.Errorf("invalid account: %w", err)
			}

			dbEnv, err := loadDatabaseEnv()
			if err != nil {
				return err
			}
			cryptoCfg, err := loadCryptoEnv()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			logger := newLogger()
			pool, err := pgstore.NewPool(ctx, dbEnv.DatabaseURL, logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			digest, err := cryptoCfg.hasher().Hash(password)
			if err != nil {
				return err
			}

			identity := &auth.Identity{
				ID:           uuid.New(),
				Email:        email,
				PasswordHash: digest,
				Name:         strings.TrimSpace(name),
				Role:         sec.RoleSuperAdmin,
				IsActive:     true,
			}
			if err := auth.NewIdentityRepository(pool).Create(ctx, identity); err != nil {
				return err
			}

			logger.Info("super_admin_created", slog.String("account_id", identity.ID), slog.String("email", identity.Email))
			fmt.Fprintln(cmd.OutOrStdout(), identity.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
