package auth

import (
	"context"
	"sync"

	id "neighnet/pkg/domain"
	"neighnet/pkg/platform/sentinel"
)

// MemoryStore is the in-memory Store used by unit tests and dev setups.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[id.UserID]User
	byEmail map[string]id.UserID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[id.UserID]User),
		byEmail: make(map[string]id.UserID),
	}
}

func (s *MemoryStore) Save(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[user.Email]; exists {
		return sentinel.ErrConflict
	}
	s.byID[user.ID] = *user
	s.byEmail[user.Email] = user.ID
	return nil
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.byEmail[email]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	user := s.byID[userID]
	return &user, nil
}

func (s *MemoryStore) FindByID(_ context.Context, userID id.UserID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.byID[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &user, nil
}
