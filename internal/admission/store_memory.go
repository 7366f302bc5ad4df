package admission

import (
	"context"
	"sort"
	"sync"
	"time"

	id "neighnet/pkg/domain"
	"neighnet/pkg/platform/sentinel"
)

// MemoryStore is the in-memory Store used by unit tests and dev setups. It
// honors the same (passID, kind) uniqueness contract as PostgreSQL, checked
// under its lock.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[id.VisitID]VisitRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[id.VisitID]VisitRecord)}
}

func (s *MemoryStore) ListByPass(_ context.Context, passID id.PassID) ([]*VisitRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*VisitRecord
	for _, r := range s.records {
		if r.PassID == passID {
			copied := r
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (s *MemoryStore) Append(_ context.Context, record *VisitRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.PassID == record.PassID && r.Kind == record.Kind {
			return sentinel.ErrConflict
		}
	}
	s.records[record.ID] = *record
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, visitID id.VisitID) (*VisitRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[visitID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := r
	return &copied, nil
}

func (s *MemoryStore) UpdateEvidence(_ context.Context, visitID id.VisitID, idPhotoRef, platePhotoRef *string) (*VisitRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[visitID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if idPhotoRef != nil {
		r.IDPhotoRef = idPhotoRef
	}
	if platePhotoRef != nil {
		r.PlatePhotoRef = platePhotoRef
	}
	s.records[visitID] = r
	copied := r
	return &copied, nil
}

func (s *MemoryStore) ListRange(_ context.Context, from, to, cursor *time.Time, limit int) ([]*VisitRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*VisitRecord
	for _, r := range s.records {
		if from != nil && r.Timestamp.Before(*from) {
			continue
		}
		if to != nil && r.Timestamp.After(*to) {
			continue
		}
		if cursor != nil && !r.Timestamp.Before(*cursor) {
			continue
		}
		copied := r
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
