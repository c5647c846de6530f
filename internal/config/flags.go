// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zephyr Contributors

package config

import (
	"time"

	"github.com/spf13/pflag"

	"github.com/zephyr/zephyr/internal/auth"
	"github.com/zephyr/zephyr/internal/store"
)

// Defaults for values that have no natural zero.
const (
	defaultHTTPTimeout = 10 * time.Second

	DefaultHTTPAddr    = "127.0.0.1:8080"
	DefaultMetricsAddr = "127.0.0.1:9100"
	DefaultLogFormat   = "json"
	DefaultLogLevel    = "info"
	DefaultMaxBody     = 16 << 10
)

// flagKeys maps flag names to koanf keys.
var flagKeys = map[string]string{
	"database-url":             "database.url",
	"database-max-conns":       "database.max_conns",
	"database-connect-retries": "database.connect_retries",
	"database-auto-migrate":    "database.auto_migrate",
	"hasher":                   "auth.hasher",
	"bcrypt-cost":              "auth.bcrypt_cost",
	"argon2-time":              "auth.argon2.time",
	"argon2-memory-kib":        "auth.argon2.memory_kib",
	"argon2-threads":           "auth.argon2.threads",
	"hash-concurrency":         "auth.hash_concurrency",
	"store-timeout":            "auth.store_timeout",
	"http-addr":                "http.addr",
	"http-read-timeout":        "http.read_timeout",
	"http-write-timeout":       "http.write_timeout",
	"http-shutdown-timeout":    "http.shutdown_timeout",
	"http-max-body-bytes":      "http.max_body_bytes",
	"metrics-addr":             "metrics.addr",
	"log-format":               "log.format",
	"log-level":                "log.level",
}

// RegisterFlags defines every configuration flag with its default on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("database-url", "", "PostgreSQL connection URL")
	fs.Int32("database-max-conns", store.DefaultPoolConfig.MaxConns, "maximum open database connections")
	fs.Uint64("database-connect-retries", store.DefaultPoolConfig.ConnectRetries, "database ping retries at startup")
	fs.Bool("database-auto-migrate", true, "apply pending migrations when serve starts")

	fs.String("hasher", auth.AlgorithmBcrypt, "password hash algorithm (bcrypt or argon2id)")
	fs.Int("bcrypt-cost", auth.DefaultBcryptCost, "bcrypt work factor")
	fs.Uint32("argon2-time", auth.DefaultArgon2Params.Time, "argon2id iterations")
	fs.Uint32("argon2-memory-kib", auth.DefaultArgon2Params.Memory, "argon2id memory in KiB")
	fs.Uint8("argon2-threads", auth.DefaultArgon2Params.Threads, "argon2id parallelism")
	fs.Int("hash-concurrency", 0, "concurrent hash operations (0 = GOMAXPROCS)")
	fs.Duration("store-timeout", auth.DefaultStoreTimeout, "timeout for each credential store call")

	fs.String("http-addr", DefaultHTTPAddr, "credential HTTP listen address")
	fs.Duration("http-read-timeout", defaultHTTPTimeout, "HTTP read timeout")
	fs.Duration("http-write-timeout", defaultHTTPTimeout, "HTTP write timeout")
	fs.Duration("http-shutdown-timeout", defaultHTTPTimeout, "graceful shutdown timeout")
	fs.Int64("http-max-body-bytes", DefaultMaxBody, "maximum request body size")

	fs.String("metrics-addr", DefaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	fs.String("log-format", DefaultLogFormat, "log format (json or text)")
	fs.String("log-level", DefaultLogLevel, "log level (debug, info, warn, error)")
}

// HasherConfig converts the auth settings to an auth.HasherConfig.
func (a AuthConfig) HasherConfig() auth.HasherConfig {
	params := auth.DefaultArgon2Params
	params.Time = a.Argon2.Time
	params.Memory = a.Argon2.MemoryKiB
	params.Threads = a.Argon2.Threads
	return auth.HasherConfig{
		Algorithm:  a.Hasher,
		BcryptCost: a.BcryptCost,
		Argon2:     params,
	}
}

// PoolConfig converts the database settings to a store.PoolConfig.
func (d DatabaseConfig) PoolConfig() store.PoolConfig {
	return store.PoolConfig{
		MaxConns:       d.MaxConns,
		ConnectRetries: d.ConnectRetries,
	}
}
