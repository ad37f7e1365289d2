package auth

import (
	"context"
	"sync"
)

// NewInMemorySessionStore returns a SessionStore backed by an in-memory map.
func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{records: make(map[string]SessionRecord)}
}

// InMemorySessionStore implements SessionStore for tests and local development.
type InMemorySessionStore struct {
	mu      sync.RWMutex
	records map[string]SessionRecord
}

// Save stores or replaces the session record for the principal.
func (s *InMemorySessionStore) Save(_ context.Context, record SessionRecord) error {
	s.mu.Lock()
	s.records[record.PrincipalID] = record
	s.mu.Unlock()
	return nil
}

// Find retrieves the session record for a principal.
func (s *InMemorySessionStore) Find(_ context.Context, principalID string) (SessionRecord, error) {
	s.mu.RLock()
	record, ok := s.records[principalID]
	s.mu.RUnlock()
	if !ok {
		return SessionRecord{}, ErrSessionNotFound
	}
	return record, nil
}

// Delete removes the principal's session record if present.
func (s *InMemorySessionStore) Delete(_ context.Context, principalID string) error {
	s.mu.Lock()
	delete(s.records, principalID)
	s.mu.Unlock()
	return nil
}

// Has reports whether a session record exists. Useful for tests.
func (s *InMemorySessionStore) Has(principalID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[principalID]
	return ok
}
