// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zephyr Contributors

// Package auth provides the credential pipeline for Zephyr.
//
// # Domain Types
//
// UserRecord and LoginAuditRecord are created through NewUserRecord and
// NewLoginAuditRecord. A UserRecord only ever carries a password hash, and a
// LoginAuditRecord only ever carries the pseudonym of an identifier.
//
// # Components
//
//   - ValidateRegistration - structural checks on registration input
//   - PasswordHasher - salted one-way hashing (BcryptHasher, Argon2idHasher)
//   - HashPool - bounds concurrent hashing work
//   - Pseudonymize - deterministic one-way token for login auditing
//   - CredentialStore - persistence gateway, implemented in auth/postgres
//
// # Flows
//
//   - RegistrationService.Register - Validator, Hasher, then InsertUser
//   - AuthenticationService.Login - lookup, verify, pseudonymize, audit
//
// Flows never return errors. They return an outcome value that callers must
// switch on; the underlying cause is logged with its oops code.
package auth
