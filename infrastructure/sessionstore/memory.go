package sessionstore

import (
	"context"
	"sync"
	"time"
)

// memoryStore é usado quando o Redis não está configurado (desenvolvimento local e testes)
type memoryStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryStore() SessionStore {
	return &memoryStore{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *memoryStore) Revoke(_ context.Context, sessionID string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpired()
	if expiresAt.After(s.now()) {
		s.revoked[sessionID] = expiresAt
	}
	return nil
}

func (s *memoryStore) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, ok := s.revoked[sessionID]
	if !ok {
		return false, nil
	}
	if !expiresAt.After(s.now()) {
		delete(s.revoked, sessionID)
		return false, nil
	}
	return true, nil
}

func (s *memoryStore) evictExpired() {
	now := s.now()
	for id, exp := range s.revoked {
		if !exp.After(now) {
			delete(s.revoked, id)
		}
	}
}
