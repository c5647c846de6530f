// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zephyr Contributors

// Package postgres implements the auth persistence gateway on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/zephyr/zephyr/internal/auth"
)

// poolIface is the subset of pgxpool.Pool used by CredentialStore.
// pgxmock.PgxPoolIface satisfies it in tests.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CredentialStore implements auth.CredentialStore using PostgreSQL.
//
// Error context carries the identifier's pseudonym, never the identifier.
type CredentialStore struct {
	pool poolIface
}

// NewCredentialStore creates a new CredentialStore.
func NewCredentialStore(pool poolIface) *CredentialStore {
	return &CredentialStore{pool: pool}
}

// InsertUser stores a new user. Uniqueness of the identifier is enforced by
// the zephyr_users_username_key index, so concurrent inserts of one
// identifier yield exactly one success.
func (s *CredentialStore) InsertUser(ctx context.Context, user *auth.UserRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO zephyr_users (id, username, password_hash, role, birthdate, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		user.ID.String(),
		user.Identifier,
		user.PasswordHash,
		string(user.Role),
		user.Birthdate,
		user.CreatedAt,
	)
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return oops.Code("USER_DUPLICATE").
			With("pseudonym", auth.Pseudonymize(user.Identifier)).
			With("constraint", pgErr.ConstraintName).
			Wrap(auth.ErrDuplicateIdentifier)
	}
	return oops.Code("USER_CREATE_FAILED").
		With("operation", "insert user").
		With("pseudonym", auth.Pseudonymize(user.Identifier)).
		Wrap(err)
}

// FindUserByIdentifier retrieves a user by exact identifier.
func (s *CredentialStore) FindUserByIdentifier(ctx context.Context, identifier string) (*auth.UserRecord, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, role, birthdate, created_at
		FROM zephyr_users
		WHERE username = $1
	`, identifier)

	var (
		idStr string
		role  string
		user  auth.UserRecord
	)
	err := row.Scan(&idStr, &user.Identifier, &user.PasswordHash, &role, &user.Birthdate, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("pseudonym", auth.Pseudonymize(identifier)).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_LOOKUP_FAILED").
			With("operation", "find user by identifier").
			With("pseudonym", auth.Pseudonymize(identifier)).
			Wrap(err)
	}

	user.ID, err = ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("USER_LOOKUP_FAILED").
			With("operation", "parse user id").
			With("id", idStr).
			Wrap(err)
	}
	user.Role = auth.Role(role)
	user.Birthdate = user.Birthdate.UTC()
	user.CreatedAt = user.CreatedAt.UTC()
	return &user, nil
}

// InsertLoginAudit appends an audit row. created_at is assigned by the
// database and written back to record.
func (s *CredentialStore) InsertLoginAudit(ctx context.Context, record *auth.LoginAuditRecord) error {
	var createdAt time.Time
	err := s.pool.QueryRow(ctx, `
		INSERT INTO zephyr_login_audit (id, pseudonym)
		VALUES ($1, $2)
		RETURNING created_at
	`, record.ID.String(), record.Pseudonym).Scan(&createdAt)
	if err != nil {
		return oops.Code("AUDIT_INSERT_FAILED").
			With("operation", "insert login audit").
			With("pseudonym", record.Pseudonym).
			Wrap(err)
	}
	record.CreatedAt = createdAt.UTC()
	return nil
}

// Compile-time interface check.
var _ auth.CredentialStore = (*CredentialStore)(nil)
