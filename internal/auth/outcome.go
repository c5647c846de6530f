// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zephyr Contributors

package auth

// RegistrationOutcome is the result of RegistrationService.Register.
type RegistrationOutcome int

// Registration outcomes.
const (
	Registered RegistrationOutcome = iota + 1
	RegistrationInvalidInput
	RegistrationDuplicateIdentifier
	RegistrationStoreUnavailable
)

func (o RegistrationOutcome) String() string {
	switch o {
	case Registered:
		return "registered"
	case RegistrationInvalidInput:
		return "invalid_input"
	case RegistrationDuplicateIdentifier:
		return "duplicate_identifier"
	case RegistrationStoreUnavailable:
		return "store_unavailable"
	default:
		return "unknown"
	}
}

// LoginOutcome is the result of AuthenticationService.Login.
type LoginOutcome int

// Login outcomes. Unknown identifiers and wrong passwords both yield
// LoginInvalidCredentials.
const (
	Authenticated LoginOutcome = iota + 1
	LoginInvalidCredentials
	LoginStoreUnavailable
)

func (o LoginOutcome) String() string {
	switch o {
	case Authenticated:
		return "authenticated"
	case LoginInvalidCredentials:
		return "invalid_credentials"
	case LoginStoreUnavailable:
		return "store_unavailable"
	default:
		return "unknown"
	}
}

// LoginResult is returned by AuthenticationService.Login.
type LoginResult struct {
	Outcome LoginOutcome

	// Role is set only when Outcome is Authenticated.
	Role Role

	// AuditRecorded is false when authentication succeeded but the audit
	// record could not be written.
	AuditRecorded bool
}
