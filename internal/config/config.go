// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zephyr Contributors

// Package config loads zephyr configuration from flags, a YAML file and
// ZEPHYR_ environment variables.
//
// Precedence, lowest first: flag defaults, config file, environment,
// explicitly set flags.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment variable. A double underscore
// separates nesting levels: ZEPHYR_AUTH__BCRYPT_COST sets auth.bcrypt_cost.
const EnvPrefix = "ZEPHYR_"

// Config is the complete service configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	HTTP     HTTPConfig     `koanf:"http"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Log      LogConfig      `koanf:"log"`
}

// DatabaseConfig locates the credential database.
type DatabaseConfig struct {
	URL            string `koanf:"url"`
	MaxConns       int32  `koanf:"max_conns" validate:"gte=1"`
	ConnectRetries uint64 `koanf:"connect_retries"`
	AutoMigrate    bool   `koanf:"auto_migrate"`
}

// AuthConfig tunes hashing and the credential flows.
type AuthConfig struct {
	Hasher          string        `koanf:"hasher" validate:"oneof=bcrypt argon2id"`
	BcryptCost      int           `koanf:"bcrypt_cost" validate:"gte=4,lte=31"`
	Argon2          Argon2Config  `koanf:"argon2"`
	HashConcurrency int           `koanf:"hash_concurrency" validate:"gte=0"`
	StoreTimeout    time.Duration `koanf:"store_timeout" validate:"gt=0"`
}

// Argon2Config holds argon2id cost parameters.
type Argon2Config struct {
	Time      uint32 `koanf:"time" validate:"gte=1,lte=64"`
	MemoryKiB uint32 `koanf:"memory_kib" validate:"gte=1024,lte=1048576"`
	Threads   uint8  `koanf:"threads" validate:"gte=1"`
}

// HTTPConfig configures the credential HTTP server.
type HTTPConfig struct {
	Addr            string        `koanf:"addr" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	MaxBodyBytes    int64         `koanf:"max_body_bytes" validate:"gte=1"`
}

// MetricsConfig configures the observability server. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `koanf:"addr"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Format string `koanf:"format" validate:"oneof=json text"`
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
}

// ConnString returns the database URL. Commands that touch the database
// call it; the others run without one.
func (d DatabaseConfig) ConnString() (string, error) {
	if d.URL == "" {
		return "", oops.Code("CONFIG_INVALID").
			With("field", "database.url").
			Errorf("database url is required (--database-url or %sDATABASE__URL)", EnvPrefix)
	}
	return d.URL, nil
}

// LoadOptions selects configuration sources.
type LoadOptions struct {
	// File is an optional YAML file path.
	File string
	// Flags must have been populated by RegisterFlags. Nil uses defaults only.
	Flags *pflag.FlagSet
	// Environ overrides os.Environ, mainly for tests.
	Environ func() []string
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// Load reads and validates the configuration.
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	if opts.File != "" {
		if err := k.Load(file.Provider(opts.File), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("source", "file").
				With("path", opts.File).
				Wrap(err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKey,
		EnvironFunc:   opts.Environ,
	}), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "env").Wrap(err)
	}

	flags := opts.Flags
	if flags == nil {
		flags = pflag.NewFlagSet("defaults", pflag.ContinueOnError)
		RegisterFlags(flags)
	}
	if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, flagKey), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "flags").Wrap(err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}); err != nil {
		return nil, oops.Code("CONFIG_DECODE_FAILED").Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and required settings.
// Errors name the offending key, never its value.
func (c *Config) Validate() error {
	err := configValidator.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return oops.Code("CONFIG_INVALID").
			With("field", fe.Namespace()).
			With("rule", fe.Tag()).
			Errorf("invalid configuration: %s failed %s", fe.Namespace(), fe.Tag())
	}
	return oops.Code("CONFIG_INVALID").Wrap(err)
}

// envKey maps ZEPHYR_AUTH__BCRYPT_COST to auth.bcrypt_cost.
func envKey(k, v string) (string, any) {
	k = strings.ToLower(strings.TrimPrefix(k, EnvPrefix))
	return strings.ReplaceAll(k, "__", "."), v
}

// flagKey maps a registered flag to its config key. Unknown flags are skipped.
func flagKey(f *pflag.Flag) (string, any) {
	key, ok := flagKeys[f.Name]
	if !ok {
		return "", nil
	}
	return key, f.Value.String()
}
