// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poolhouse Contributors

package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/poolhouse/poolhouse/internal/auth"
	authpg "github.com/poolhouse/poolhouse/internal/auth/postgres"
	"github.com/poolhouse/poolhouse/internal/config"
	"github.com/poolhouse/poolhouse/internal/httpapi"
	"github.com/poolhouse/poolhouse/internal/logging"
	"github.com/poolhouse/poolhouse/internal/observability"
	"github.com/poolhouse/poolhouse/internal/pool"
	poolpg "github.com/poolhouse/poolhouse/internal/pool/postgres"
	"github.com/poolhouse/poolhouse/internal/store"
	"github.com/poolhouse/poolhouse/pkg/errutil"
)

// Shutdown grace period for in-flight requests.
const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the REST API server, serving the pool collections and the
login/logout session routes. Runs until interrupted.`,
		RunE: runServe,
	}

	config.RegisterFlags(cmd.Flags())

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("database.url (or the DATABASE_URL environment variable) is required")
	}

	logging.SetDefault("poolhouse", version, cfg.Logging.Format, cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()

	users := authpg.NewUserRepository(db)
	registry := auth.NewMemoryRegistry(cfg.Auth.SessionTTL)
	hasher := auth.NewArgon2idHasher()
	authsvc := auth.NewService(users, registry, hasher)

	var obs *observability.Server
	var metrics *observability.Metrics
	var obsErr <-chan error
	if cfg.Observability.Addr != "" {
		obs = observability.NewServer(cfg.Observability.Addr, func() bool {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return db.Ping(pingCtx) == nil
		})
		metrics = obs.Metrics()

		obsErr, err = obs.Start()
		if err != nil {
			return err
		}
	}

	api, err := httpapi.NewServer(httpapi.Options{
		Addr:        cfg.Server.Addr,
		CORSOrigins: cfg.Server.CORSOrigins,
		Users:       users,
		Teams:       poolpg.NewCollection(db, poolpg.TableTeams, func() *pool.Team { return &pool.Team{} }),
		Leagues:     poolpg.NewCollection(db, poolpg.TableLeagues, func() *pool.League { return &pool.League{} }),
		Picks:       poolpg.NewCollection(db, poolpg.TablePicks, func() *pool.Pick { return &pool.Pick{} }),
		Brackets:    poolpg.NewCollection(db, poolpg.TableBrackets, func() *pool.Bracket { return &pool.Bracket{} }),
		Auth:        authsvc,
		Hasher:      hasher,
		Metrics:     metrics,
	})
	if err != nil {
		return err
	}

	apiErr, err := api.Start()
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case serveErr := <-apiErr:
		if serveErr != nil {
			errutil.LogError(slog.Default(), "api server failed", serveErr)
		}
	case serveErr := <-obsErr:
		if serveErr != nil {
			errutil.LogError(slog.Default(), "observability server failed", serveErr)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := api.Stop(shutdownCtx); err != nil {
		errutil.LogError(slog.Default(), "api server shutdown failed", err)
	}
	if obs != nil {
		if err := obs.Stop(shutdownCtx); err != nil {
			errutil.LogError(slog.Default(), "observability server shutdown failed", err)
		}
	}
	return nil
}
