// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zephyr Contributors

package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// Pseudonymize returns the unsalted SHA-256 of identifier as lowercase hex.
//
// The result is deterministic so audit rows for one account can be grouped.
// It is trivially reversible by dictionary lookup over known identifiers and
// must never be used to authenticate anything.
func Pseudonymize(identifier string) string {
	sum := sha256.Sum256([]byte(identifier))
	return hex.EncodeToString(sum[:])
}
