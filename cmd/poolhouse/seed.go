// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poolhouse Contributors

package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/poolhouse/poolhouse/internal/config"
	"github.com/poolhouse/poolhouse/internal/pool"
	poolpg "github.com/poolhouse/poolhouse/internal/pool/postgres"
	"github.com/poolhouse/poolhouse/internal/seed"
	"github.com/poolhouse/poolhouse/internal/store"
)

// Default timeout for seed command.
const defaultSeedTimeout = 30 * time.Second

// seedConfig holds configuration for the seed command.
type seedConfig struct {
	timeout time.Duration
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the embedded team roster into the database",
		Long: `Loads the embedded team roster into the teams collection.
This command is idempotent - teams whose abbreviation already exists
are skipped, so running it repeatedly will not create duplicates.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args, cfg)
		},
	}

	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string, cfg *seedConfig) error {
	conf, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}
	if conf.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("database.url (or the DATABASE_URL environment variable) is required")
	}

	// Use cmd.Context() to respect SIGINT/SIGTERM signals
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
	defer cancel()

	cmd.Println("Connecting to database...")
	db, err := store.Connect(ctx, conf.Database.URL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer db.Close()

	teams := poolpg.NewCollection(db, poolpg.TableTeams, func() *pool.Team { return &pool.Team{} })

	created, skipped, err := seed.Apply(ctx, teams)
	if err != nil {
		return err
	}

	cmd.Printf("Seeded %d teams (%d already present)\n", created, skipped)
	slog.Info("roster seeded", "created", created, "skipped", skipped)
	return nil
}

// NewValidateSeedsCmd creates the validate-seeds subcommand.
func NewValidateSeedsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-seeds",
		Short: "Validate the embedded team roster without touching the database",
		Long: `Validates the embedded team roster against its JSON schema.
Does NOT require a database connection.
Exits with code 0 on success, non-zero on failure.

Useful in CI pipelines to catch roster errors early:
  poolhouse validate-seeds`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			teams, err := seed.Teams()
			if err != nil {
				return err
			}
			cmd.Printf("roster valid: %d teams\n", len(teams))
			return nil
		},
	}
}
