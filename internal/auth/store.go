// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zephyr Contributors

package auth

import "context"

// UserStore persists user records.
type UserStore interface {
	// InsertUser stores a new user. Returns an error wrapping
	// ErrDuplicateIdentifier if the identifier is already registered.
	// Uniqueness is enforced by the store, never by a prior lookup.
	InsertUser(ctx context.Context, user *UserRecord) error

	// FindUserByIdentifier retrieves a user by exact identifier.
	// Returns an error wrapping ErrNotFound if no user matches.
	FindUserByIdentifier(ctx context.Context, identifier string) (*UserRecord, error)
}

// LoginAuditStore appends login audit records.
type LoginAuditStore interface {
	// InsertLoginAudit appends one audit record. The store assigns the timestamp.
	InsertLoginAudit(ctx context.Context, record *LoginAuditRecord) error
}

// CredentialStore is the full persistence gateway used by the flows.
type CredentialStore interface {
	UserStore
	LoginAuditStore
}
