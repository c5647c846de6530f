// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zephyr Contributors

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyr/zephyr/internal/auth"
	"github.com/zephyr/zephyr/internal/config"
	"github.com/zephyr/zephyr/pkg/errutil"
)

func environ(vars ...string) func() []string {
	return func() []string { return vars }
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "zephyr.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(config.LoadOptions{
		Environ: environ("ZEPHYR_DATABASE__URL=postgres://localhost/zephyr"),
	})
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/zephyr", cfg.Database.URL)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, auth.AlgorithmBcrypt, cfg.Auth.Hasher)
	assert.Equal(t, auth.DefaultBcryptCost, cfg.Auth.BcryptCost)
	assert.Equal(t, auth.DefaultStoreTimeout, cfg.Auth.StoreTimeout)
	assert.Equal(t, uint32(64*1024), cfg.Auth.Argon2.MemoryKiB)
	assert.Equal(t, config.DefaultHTTPAddr, cfg.HTTP.Addr)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, int64(config.DefaultMaxBody), cfg.HTTP.MaxBodyBytes)
	assert.Equal(t, config.DefaultMetricsAddr, cfg.Metrics.Addr)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeFile(t, `
database:
  url: postgres://file/zephyr
auth:
  hasher: argon2id
  bcrypt_cost: 12
  store_timeout: 2s
  argon2:
    memory_kib: 16384
http:
  addr: 0.0.0.0:8080
log:
  level: debug
`)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--log-level=warn"}))

	cfg, err := config.Load(config.LoadOptions{
		File:    path,
		Flags:   fs,
		Environ: environ("ZEPHYR_AUTH__BCRYPT_COST=11", "ZEPHYR_LOG__LEVEL=error", "OTHER_VAR=1"),
	})
	require.NoError(t, err)

	assert.Equal(t, "postgres://file/zephyr", cfg.Database.URL, "file beats defaults")
	assert.Equal(t, auth.AlgorithmArgon2id, cfg.Auth.Hasher)
	assert.Equal(t, 2*time.Second, cfg.Auth.StoreTimeout)
	assert.Equal(t, uint32(16384), cfg.Auth.Argon2.MemoryKiB)
	assert.Equal(t, uint32(1), cfg.Auth.Argon2.Time, "unset file keys keep flag defaults")
	assert.Equal(t, 11, cfg.Auth.BcryptCost, "env beats file")
	assert.Equal(t, "warn", cfg.Log.Level, "explicit flag beats env")
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(config.LoadOptions{File: filepath.Join(t.TempDir(), "absent.yaml")})
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_LOAD_FAILED")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		env   []string
		field string
	}{
		{"unknown hasher", []string{"ZEPHYR_DATABASE__URL=x", "ZEPHYR_AUTH__HASHER=md5"}, "Config.Auth.Hasher"},
		{"bcrypt cost too low", []string{"ZEPHYR_DATABASE__URL=x", "ZEPHYR_AUTH__BCRYPT_COST=3"}, "Config.Auth.BcryptCost"},
		{"bad log format", []string{"ZEPHYR_DATABASE__URL=x", "ZEPHYR_LOG__FORMAT=xml"}, "Config.Log.Format"},
		{"zero store timeout", []string{"ZEPHYR_DATABASE__URL=x", "ZEPHYR_AUTH__STORE_TIMEOUT=0s"}, "Config.Auth.StoreTimeout"},
		{"argon2 time above limit", []string{"ZEPHYR_DATABASE__URL=x", "ZEPHYR_AUTH__ARGON2__TIME=65"}, "Config.Auth.Argon2.Time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(config.LoadOptions{Environ: environ(tt.env...)})
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
			errutil.AssertErrorContext(t, err, "field", tt.field)
		})
	}
}

func TestDatabaseConfig_ConnString(t *testing.T) {
	cfg, err := config.Load(config.LoadOptions{Environ: environ()})
	require.NoError(t, err, "database url is optional at load time")

	_, err = cfg.Database.ConnString()
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
	errutil.AssertErrorContext(t, err, "field", "database.url")

	cfg.Database.URL = "postgres://localhost/zephyr"
	url, err := cfg.Database.ConnString()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/zephyr", url)
}

func TestLoad_InvalidDecode(t *testing.T) {
	_, err := config.Load(config.LoadOptions{
		Environ: environ("ZEPHYR_DATABASE__URL=x", "ZEPHYR_AUTH__STORE_TIMEOUT=soon"),
	})
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_DECODE_FAILED")
}

func TestAuthConfig_HasherConfig(t *testing.T) {
	hc := config.AuthConfig{
		Hasher:     auth.AlgorithmArgon2id,
		BcryptCost: 12,
		Argon2:     config.Argon2Config{Time: 3, MemoryKiB: 32768, Threads: 2},
	}.HasherConfig()

	assert.Equal(t, auth.AlgorithmArgon2id, hc.Algorithm)
	assert.Equal(t, 12, hc.BcryptCost)
	assert.Equal(t, uint32(3), hc.Argon2.Time)
	assert.Equal(t, uint32(32768), hc.Argon2.Memory)
	assert.Equal(t, uint8(2), hc.Argon2.Threads)
	assert.Equal(t, auth.DefaultArgon2Params.SaltLen, hc.Argon2.SaltLen)

	_, err := auth.NewPasswordHasher(hc)
	require.NoError(t, err)
}
