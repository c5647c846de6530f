// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zephyr Contributors

package auth_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/zephyr/zephyr/internal/auth"
)

// memStore is an in-memory auth.CredentialStore enforcing identifier
// uniqueness atomically, like the unique index in PostgreSQL.
type memStore struct {
	mu     sync.Mutex
	users  map[string]*auth.UserRecord
	audits []*auth.LoginAuditRecord
}

func newMemStore() *memStore {
	return &memStore{users: make(map[string]*auth.UserRecord)}
}

func (s *memStore) InsertUser(_ context.Context, user *auth.UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Identifier]; ok {
		return fmt.Errorf("insert user: %w", auth.ErrDuplicateIdentifier)
	}
	s.users[user.Identifier] = user
	return nil
}

func (s *memStore) FindUserByIdentifier(_ context.Context, identifier string) (*auth.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[identifier]
	if !ok {
		return nil, fmt.Errorf("find user: %w", auth.ErrNotFound)
	}
	return user, nil
}

func (s *memStore) InsertLoginAudit(_ context.Context, record *auth.LoginAuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audits = append(s.audits, record)
	return nil
}

func (s *memStore) auditPseudonyms() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.audits))
	for _, a := range s.audits {
		out = append(out, a.Pseudonym)
	}
	return out
}

var _ auth.CredentialStore = (*memStore)(nil)
