// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zephyr Contributors

package auth

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Role is the closed set of account roles.
type Role string

// Supported roles.
const (
	RoleReserver      Role = "reserver"
	RoleAdministrator Role = "administrator"
)

// Roles lists every valid role.
var Roles = []Role{RoleReserver, RoleAdministrator}

// Valid reports whether r is one of Roles.
func (r Role) Valid() bool {
	for _, candidate := range Roles {
		if r == candidate {
			return true
		}
	}
	return false
}

// BirthdateLayout is the wire format of a birthdate.
const BirthdateLayout = "2006-01-02"

// DefaultBirthdate is stored when a registration carries no birthdate.
var DefaultBirthdate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// UserRecord is a registered account.
type UserRecord struct {
	ID           ulid.ULID
	Identifier   string
	PasswordHash string
	Role         Role
	Birthdate    time.Time
	CreatedAt    time.Time
}

// NewUserRecord creates a UserRecord ready for insertion.
// A zero birthdate is replaced with DefaultBirthdate.
func NewUserRecord(identifier, passwordHash string, role Role, birthdate time.Time) (*UserRecord, error) {
	if identifier == "" {
		return nil, oops.Code("USER_INVALID").Errorf("identifier cannot be empty")
	}
	if passwordHash == "" {
		return nil, oops.Code("USER_INVALID").Errorf("password hash cannot be empty")
	}
	if !role.Valid() {
		return nil, oops.Code("USER_INVALID").With("role", string(role)).Errorf("unknown role")
	}
	if birthdate.IsZero() {
		birthdate = DefaultBirthdate
	}

	return &UserRecord{
		ID:           ulid.Make(),
		Identifier:   identifier,
		PasswordHash: passwordHash,
		Role:         role,
		Birthdate:    truncateToDate(birthdate),
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// LoginAuditRecord is one successful authentication, keyed by pseudonym.
type LoginAuditRecord struct {
	ID        ulid.ULID
	Pseudonym string
	CreatedAt time.Time
}

// NewLoginAuditRecord creates an audit record for a pseudonym.
func NewLoginAuditRecord(pseudonym string) (*LoginAuditRecord, error) {
	if pseudonym == "" {
		return nil, oops.Code("AUDIT_INVALID").Errorf("pseudonym cannot be empty")
	}
	return &LoginAuditRecord{
		ID:        ulid.Make(),
		Pseudonym: pseudonym,
	}, nil
}

// ParseBirthdate parses an optional YYYY-MM-DD value.
// An empty string yields the zero time, which NewUserRecord maps to DefaultBirthdate.
func ParseBirthdate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(BirthdateLayout, value)
	if err != nil {
		return time.Time{}, oops.Code("AUTH_INVALID_BIRTHDATE").Wrap(err)
	}
	return t, nil
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
