// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zephyr Contributors

// Package mocks provides testify mocks for the auth interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/zephyr/zephyr/internal/auth"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockCredentialStore is a mock of auth.CredentialStore.
type MockCredentialStore struct {
	mock.Mock
}

// NewMockCredentialStore creates a MockCredentialStore whose expectations are
// asserted when the test ends.
func NewMockCredentialStore(t testingT) *MockCredentialStore {
	m := &MockCredentialStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// InsertUser mocks auth.UserStore.InsertUser.
func (m *MockCredentialStore) InsertUser(ctx context.Context, user *auth.UserRecord) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// FindUserByIdentifier mocks auth.UserStore.FindUserByIdentifier.
func (m *MockCredentialStore) FindUserByIdentifier(ctx context.Context, identifier string) (*auth.UserRecord, error) {
	args := m.Called(ctx, identifier)
	var user *auth.UserRecord
	if v := args.Get(0); v != nil {
		user = v.(*auth.UserRecord)
	}
	return user, args.Error(1)
}

// InsertLoginAudit mocks auth.LoginAuditStore.InsertLoginAudit.
func (m *MockCredentialStore) InsertLoginAudit(ctx context.Context, record *auth.LoginAuditRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// MockPasswordHasher is a mock of auth.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

// NewMockPasswordHasher creates a MockPasswordHasher whose expectations are
// asserted when the test ends.
func NewMockPasswordHasher(t testingT) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Hash mocks auth.PasswordHasher.Hash.
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

// Verify mocks auth.PasswordHasher.Verify.
func (m *MockPasswordHasher) Verify(password, encodedHash string) bool {
	args := m.Called(password, encodedHash)
	return args.Bool(0)
}

var (
	_ auth.CredentialStore = (*MockCredentialStore)(nil)
	_ auth.PasswordHasher  = (*MockPasswordHasher)(nil)
)
