// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zephyr Contributors

package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zephyr/zephyr/pkg/errutil"
)

// AuthenticationService authenticates returning users and audits each
// successful login under a pseudonym.
type AuthenticationService struct {
	store        CredentialStore
	hashes       *HashPool
	logger       *slog.Logger
	metrics      MetricsRecorder
	storeTimeout time.Duration

	// dummyHash is verified against when the identifier is unknown so both
	// failure paths pay the same hashing cost. It matches no password.
	dummyHash string
}

// NewAuthenticationService creates an AuthenticationService.
// It hashes a random secret once to obtain a dummy hash with the pool's
// algorithm and cost.
func NewAuthenticationService(store CredentialStore, hashes *HashPool, opts ...Option) (*AuthenticationService, error) {
	if store == nil {
		return nil, oops.Code("AUTH_INVALID_CONFIG").Errorf("credential store is required")
	}
	if hashes == nil {
		return nil, oops.Code("AUTH_INVALID_CONFIG").Errorf("hash pool is required")
	}
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, oops.Code("AUTH_DUMMY_HASH_FAILED").With("operation", "crypto/rand.Read").Wrap(err)
	}
	dummyHash, err := hashes.Hash(context.Background(), hex.EncodeToString(secret))
	if err != nil {
		return nil, oops.Code("AUTH_DUMMY_HASH_FAILED").With("operation", "hash dummy secret").Wrap(err)
	}

	return &AuthenticationService{
		store:        store,
		hashes:       hashes,
		logger:       o.logger,
		metrics:      o.metrics,
		storeTimeout: o.storeTimeout,
		dummyHash:    dummyHash,
	}, nil
}

// Login authenticates identifier with password.
//
// Unknown identifiers and wrong passwords both yield LoginInvalidCredentials
// after the same amount of hashing work. A failed audit write is logged and
// reported through LoginResult.AuditRecorded; it does not change the outcome.
func (s *AuthenticationService) Login(ctx context.Context, identifier, password string) LoginResult {
	ctx, span := tracer.Start(ctx, "auth.Login")
	defer span.End()

	result := s.login(ctx, identifier, password)

	span.SetAttributes(
		attribute.String("auth.outcome", result.Outcome.String()),
		attribute.Bool("auth.audit_recorded", result.AuditRecorded),
	)
	s.metrics.RecordLogin(result.Outcome.String())
	return result
}

func (s *AuthenticationService) login(ctx context.Context, identifier, password string) LoginResult {
	lookupCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	user, lookupErr := s.store.FindUserByIdentifier(lookupCtx, identifier)
	cancel()

	targetHash := s.dummyHash
	userExists := false
	switch {
	case lookupErr == nil:
		targetHash = user.PasswordHash
		userExists = true
	case errors.Is(lookupErr, ErrNotFound):
	default:
		errutil.LogErrorContext(ctx, s.logger, "user lookup failed", lookupErr)
		return LoginResult{Outcome: LoginStoreUnavailable}
	}

	// Always verify, even for unknown users.
	valid, err := s.hashes.Verify(ctx, password, targetHash)
	if err != nil {
		errutil.LogErrorContext(ctx, s.logger, "password verification aborted", err)
		return LoginResult{Outcome: LoginStoreUnavailable}
	}
	if !userExists || !valid {
		return LoginResult{Outcome: LoginInvalidCredentials}
	}

	pseudonym := Pseudonymize(identifier)
	result := LoginResult{Outcome: Authenticated, Role: user.Role, AuditRecorded: true}

	if err := s.audit(ctx, pseudonym); err != nil {
		s.metrics.RecordAuditFailure()
		errutil.LogErrorContext(ctx, s.logger, "login audit write failed", err)
		result.AuditRecorded = false
	}

	s.logger.InfoContext(ctx, "user authenticated",
		"pseudonym", pseudonym,
		"audit_recorded", result.AuditRecorded)
	return result
}

func (s *AuthenticationService) audit(ctx context.Context, pseudonym string) error {
	record, err := NewLoginAuditRecord(pseudonym)
	if err != nil {
		return err
	}

	auditCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if err := s.store.InsertLoginAudit(auditCtx, record); err != nil {
		return oops.Code("AUDIT_INSERT_FAILED").
			With("pseudonym", pseudonym).
			Wrap(err)
	}
	return nil
}
