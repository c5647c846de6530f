// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zephyr Contributors

package main

import (
	"bufio"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/zephyr/zephyr/internal/auth"
)

// NewHashCmd creates the hash subcommand.
func NewHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash",
		Short: "Hash a password read from stdin",
		Long: `Read one password line from stdin and print its hash using the
configured algorithm and cost. Use it to seed accounts directly in the database.`,
		Args: cobra.NoArgs,
		RunE: runHash,
	}
}

func runHash(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	hasher, err := auth.NewPasswordHasher(cfg.Auth.HasherConfig())
	if err != nil {
		return err
	}

	password, err := readPassword(cmd)
	if err != nil {
		return err
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return err
	}
	cmd.Println(hash)
	return nil
}

// readPassword reads the first stdin line without its line ending.
func readPassword(cmd *cobra.Command) (string, error) {
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", oops.Code("HASH_INPUT_FAILED").With("operation", "read password").Wrap(err)
	}
	password := strings.TrimRight(line, "\r\n")
	if auth.ValidatePassword(password) != nil {
		return "", oops.Code("HASH_INPUT_INVALID").
			With("min_length", auth.MinPasswordLength).
			Errorf("password must be at least %d characters", auth.MinPasswordLength)
	}
	return password, nil
}
