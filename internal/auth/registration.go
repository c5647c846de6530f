// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zephyr Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zephyr/zephyr/pkg/errutil"
)

// RegistrationRequest is the input of a registration.
type RegistrationRequest struct {
	Identifier string
	Password   string
	Role       Role

	// Birthdate is optional; the zero value stores DefaultBirthdate.
	Birthdate time.Time
}

// RegistrationService creates accounts.
type RegistrationService struct {
	users        UserStore
	hashes       *HashPool
	logger       *slog.Logger
	metrics      MetricsRecorder
	storeTimeout time.Duration
}

// NewRegistrationService creates a RegistrationService.
func NewRegistrationService(users UserStore, hashes *HashPool, opts ...Option) (*RegistrationService, error) {
	if users == nil {
		return nil, oops.Code("AUTH_INVALID_CONFIG").Errorf("user store is required")
	}
	if hashes == nil {
		return nil, oops.Code("AUTH_INVALID_CONFIG").Errorf("hash pool is required")
	}
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	return &RegistrationService{
		users:        users,
		hashes:       hashes,
		logger:       o.logger,
		metrics:      o.metrics,
		storeTimeout: o.storeTimeout,
	}, nil
}

// Register validates, hashes and stores a new account.
// The store is written at most once, and never when validation fails.
func (s *RegistrationService) Register(ctx context.Context, req RegistrationRequest) RegistrationOutcome {
	ctx, span := tracer.Start(ctx, "auth.Register")
	defer span.End()

	outcome := s.register(ctx, req)

	span.SetAttributes(attribute.String("auth.outcome", outcome.String()))
	s.metrics.RecordRegistration(outcome.String())
	return outcome
}

func (s *RegistrationService) register(ctx context.Context, req RegistrationRequest) RegistrationOutcome {
	input := RegistrationInput{Identifier: req.Identifier, Password: req.Password, Role: req.Role}
	if err := input.Validate(); err != nil {
		s.logger.DebugContext(ctx, "registration rejected", "error", err)
		return RegistrationInvalidInput
	}

	hash, err := s.hashes.Hash(ctx, req.Password)
	if err != nil {
		if errutil.HasCode(err, "HASH_POOL_CANCELLED") {
			s.logger.InfoContext(ctx, "registration abandoned", "error", err)
			return RegistrationStoreUnavailable
		}
		errutil.LogErrorContext(ctx, s.logger, "password hashing failed", err)
		return RegistrationStoreUnavailable
	}

	user, err := NewUserRecord(req.Identifier, hash, req.Role, req.Birthdate)
	if err != nil {
		errutil.LogErrorContext(ctx, s.logger, "user record construction failed", err)
		return RegistrationInvalidInput
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if err := s.users.InsertUser(storeCtx, user); err != nil {
		if errors.Is(err, ErrDuplicateIdentifier) {
			s.logger.InfoContext(ctx, "registration for existing identifier",
				"pseudonym", Pseudonymize(req.Identifier))
			return RegistrationDuplicateIdentifier
		}
		errutil.LogErrorContext(ctx, s.logger, "user insert failed", err)
		return RegistrationStoreUnavailable
	}

	s.logger.InfoContext(ctx, "user registered",
		"user_id", user.ID.String(),
		"role", string(user.Role))
	return Registered
}
