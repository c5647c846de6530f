// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zephyr Contributors

package main

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/zephyr/zephyr/internal/auth"
	"github.com/zephyr/zephyr/internal/auth/postgres"
	"github.com/zephyr/zephyr/internal/config"
	"github.com/zephyr/zephyr/internal/web"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the registration and login HTTP server",
		Long: `Start the HTTP server exposing POST /register and POST /login,
plus the metrics and health endpoints when --metrics-addr is set.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServeWithDeps(ctx, cfg, cmd, nil)
		},
	}
}

// runServeWithDeps runs the service until ctx ends or a server fails.
// If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, cfg *config.Config, cmd *cobra.Command, deps *ServeDeps) error {
	deps = deps.withDefaults()
	logger := newLogger(cfg)

	databaseURL, err := cfg.Database.ConnString()
	if err != nil {
		return err
	}

	db, err := deps.DatabaseFactory(ctx, databaseURL, cfg.Database.PoolConfig(), logger)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := runAutoMigrate(databaseURL, deps, logger); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var (
		obsServer ObservabilityServer
		recorder  auth.MetricsRecorder
	)
	if cfg.Metrics.Addr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.Metrics.Addr, db.Ping, logger)
		obsErrCh, err := obsServer.Start()
		if err != nil {
			return oops.Code("OBSERVABILITY_START_FAILED").Wrap(err)
		}
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability", logger)
		recorder = obsServer.Metrics()
	}

	hasher, err := auth.NewPasswordHasher(cfg.Auth.HasherConfig())
	if err != nil {
		stopObservability(obsServer, cfg, logger)
		return err
	}
	hashes, err := auth.NewHashPool(hasher, cfg.Auth.HashConcurrency, recorder)
	if err != nil {
		stopObservability(obsServer, cfg, logger)
		return err
	}

	credentials := postgres.NewCredentialStore(db)
	flowOpts := []auth.Option{
		auth.WithLogger(logger),
		auth.WithStoreTimeout(cfg.Auth.StoreTimeout),
	}
	if recorder != nil {
		flowOpts = append(flowOpts, auth.WithMetrics(recorder))
	}

	registration, err := auth.NewRegistrationService(credentials, hashes, flowOpts...)
	if err != nil {
		stopObservability(obsServer, cfg, logger)
		return err
	}
	authentication, err := auth.NewAuthenticationService(credentials, hashes, flowOpts...)
	if err != nil {
		stopObservability(obsServer, cfg, logger)
		return err
	}

	router := web.NewRouter(web.RouterDeps{
		Registrar:     registration,
		Authenticator: authentication,
		Logger:        logger,
		MaxBodyBytes:  cfg.HTTP.MaxBodyBytes,
	})
	httpServer := deps.HTTPServerFactory(web.ServerConfig{
		Addr:         cfg.HTTP.Addr,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}, router, logger)

	httpErrCh, err := httpServer.Start()
	if err != nil {
		stopObservability(obsServer, cfg, logger)
		return oops.Code("HTTP_START_FAILED").Wrap(err)
	}
	go monitorServerErrors(ctx, cancel, httpErrCh, "http", logger)

	cmd.Println("Zephyr started")
	logger.Info("zephyr ready",
		"http_addr", httpServer.Addr(),
		"hasher", cfg.Auth.Hasher)

	<-ctx.Done()
	serveErr := context.Cause(ctx)
	if errors.Is(serveErr, context.Canceled) {
		serveErr = nil
	}
	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Warn("error stopping http server", "error", err)
	}
	hashes.Wait()
	stopObservability(obsServer, cfg, logger)

	logger.Info("shutdown complete")
	return serveErr
}

func runAutoMigrate(databaseURL string, deps *ServeDeps, logger *slog.Logger) error {
	migrator, err := deps.MigratorFactory(databaseURL)
	if err != nil {
		return oops.Code("MIGRATION_INIT_FAILED").With("operation", "create migrator").Wrap(err)
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			logger.Warn("error closing migrator", "error", closeErr)
		}
	}()

	logger.Info("applying database migrations")
	if err := migrator.Up(); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "auto-migrate").Wrap(err)
	}
	return nil
}

func stopObservability(server ObservabilityServer, cfg *config.Config, logger *slog.Logger) {
	if server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		logger.Warn("error stopping observability server", "error", err)
	}
}

// monitorServerErrors cancels ctx with the server's error as cause. It
// returns when errCh closes or ctx ends.
func monitorServerErrors(ctx context.Context, cancel context.CancelCauseFunc, errCh <-chan error, serverName string, logger *slog.Logger) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			logger.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err)
			cancel(oops.Code("SERVER_FAILED").With("server", serverName).Wrap(err))
		}
	case <-ctx.Done():
	}
}
