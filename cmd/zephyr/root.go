// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zephyr Contributors

package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/zephyr/zephyr/internal/config"
	"github.com/zephyr/zephyr/internal/logging"
	"github.com/zephyr/zephyr/internal/xdg"
)

const serviceName = "zephyr"

// Global flags available to all subcommands.
var configFile string

// rootDeps injects collaborators into subcommands for tests.
type rootDeps struct {
	migrate *MigrateDeps
}

// NewRootCmd creates the root command for the Zephyr CLI.
func NewRootCmd() *cobra.Command {
	return newRootCmd(rootDeps{})
}

func newRootCmd(deps rootDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zephyr",
		Short: "Zephyr - account registration and login service",
		Long: `Zephyr registers reservation accounts and authenticates them,
storing salted password hashes and a pseudonymous login audit trail in PostgreSQL.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(newMigrateCmd(deps.migrate))
	cmd.AddCommand(NewHashCmd())

	return cmd
}

// loadConfig reads the config file, ZEPHYR_ variables and the flags parsed
// for cmd. Without --config, $XDG_CONFIG_HOME/zephyr/config.yaml is used
// when it exists.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file := configFile
	if file == "" {
		var err error
		if file, err = xdg.DefaultConfigFile(); err != nil {
			return nil, err
		}
	}
	return config.Load(config.LoadOptions{
		File:  file,
		Flags: cmd.Flags(),
	})
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logging.SetDefault(logging.Options{
		Service: serviceName,
		Version: version,
		Format:  cfg.Log.Format,
		Level:   cfg.Log.Level,
	})
}
