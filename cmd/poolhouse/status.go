// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poolhouse Contributors

package main

import (
	"context"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/poolhouse/poolhouse/internal/config"
	"github.com/poolhouse/poolhouse/internal/store"
)

// Default timeout for status checks.
const statusTimeout = 10 * time.Second

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check database connectivity and schema version",
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("database.url (or the DATABASE_URL environment variable) is required")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), statusTimeout)
	defer cancel()

	db, err := store.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()
	cmd.Println("database: reachable")

	migrator, err := store.NewMigrator(cfg.Database.URL)
	if err != nil {
		return err
	}
	defer migrator.Close() //nolint:errcheck // close error is secondary to the status report

	version, dirty, err := migrator.Version()
	if err != nil {
		return err
	}
	cmd.Printf("schema version: %d dirty: %v\n", version, dirty)
	return nil
}
