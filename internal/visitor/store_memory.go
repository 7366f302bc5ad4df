package visitor

import (
	"context"
	"sort"
	"sync"

	id "neighnet/pkg/domain"
	"neighnet/pkg/platform/sentinel"
)

// MemoryStore is the in-memory Store used by unit tests and dev setups.
type MemoryStore struct {
	mu       sync.RWMutex
	visitors map[id.VisitorID]Visitor
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{visitors: make(map[id.VisitorID]Visitor)}
}

func (s *MemoryStore) Save(_ context.Context, v *Visitor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visitors[v.ID] = *v
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, visitorID id.VisitorID) (*Visitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.visitors[visitorID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := v
	return &copied, nil
}

func (s *MemoryStore) ListByOwner(_ context.Context, ownerID id.UserID) ([]*Visitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Visitor
	for _, v := range s.visitors {
		if v.OwnerResidentID == ownerID {
			copied := v
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) Update(_ context.Context, v *Visitor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.visitors[v.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.visitors[v.ID] = *v
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, visitorID id.VisitorID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.visitors[visitorID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.visitors, visitorID)
	return nil
}
