// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zephyr Contributors

// Package store owns the PostgreSQL connection pool and schema migrations.
package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// PoolConfig tunes the connection pool and the startup connectivity check.
type PoolConfig struct {
	MaxConns       int32
	ConnectRetries uint64
	RetryBackoff   time.Duration
}

// DefaultPoolConfig is used for zero fields of PoolConfig.
var DefaultPoolConfig = PoolConfig{
	MaxConns:       10,
	ConnectRetries: 5,
	RetryBackoff:   200 * time.Millisecond,
}

// pinger is satisfied by *pgxpool.Pool.
type pinger interface {
	Ping(ctx context.Context) error
}

// Open creates a pgx pool for dsn and waits until the database answers a
// ping, retrying with exponential backoff.
func Open(ctx context.Context, dsn string, cfg PoolConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	cfg = withDefaults(cfg)

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, oops.Code("DB_CONFIG_INVALID").With("operation", "parse dsn").Wrap(err)
	}
	poolCfg.MaxConns = cfg.MaxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("operation", "create pool").Wrap(err)
	}

	if err := waitForDatabase(ctx, pool, cfg, logger); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func waitForDatabase(ctx context.Context, db pinger, cfg PoolConfig, logger *slog.Logger) error {
	backoff := retry.WithMaxRetries(cfg.ConnectRetries, retry.NewExponential(cfg.RetryBackoff))
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := db.Ping(ctx); err != nil {
			logger.WarnContext(ctx, "database not reachable", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").
			With("operation", "ping").
			With("attempts", attempt).
			Wrap(err)
	}
	return nil
}

func withDefaults(cfg PoolConfig) PoolConfig {
	if cfg.MaxConns <= 0 {
		cfg.MaxConns = DefaultPoolConfig.MaxConns
	}
	if cfg.ConnectRetries == 0 {
		cfg.ConnectRetries = DefaultPoolConfig.ConnectRetries
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = DefaultPoolConfig.RetryBackoff
	}
	return cfg
}
