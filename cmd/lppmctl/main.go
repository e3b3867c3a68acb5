// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command lppmctl is the operator CLI for the LPPM portal.
//
// It shares configuration, password hashing, token encoding and migrations
// with the API server, so anything it produces is accepted by a running
// server configured from the same environment.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/taibuivan/lppm/internal/platform/constants"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

// newRootCmd assembles the command tree. Kept separate from main for tests.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "lppmctl",
		Short:   "Operator tooling for the LPPM portal",
		Version: constants.AppVersion,
		Long: `lppmctl manages an LPPM portal deployment.

It reads the same environment variables as the API server
(DATABASE_URL, JWT_SECRET, MIGRATION_PATH, ARGON2_*).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		hashPasswordCmd(),
		tokenCmd(),
		migrateCmd(),
		userCmd(),
	)

	return rootCmd
}

// newLogger writes operational logs to stderr so stdout stays scriptable.
func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})).
		With(slog.String("app", "lppmctl"))
}
