// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zephyr Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateIdentifier is returned by a CredentialStore when the identifier
// is already registered.
var ErrDuplicateIdentifier = errors.New("identifier already registered")
