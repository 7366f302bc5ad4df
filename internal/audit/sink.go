package audit

import (
	"context"
	"sync"
)

// Sink is where audit events ultimately land. Implementations may be slow;
// the recorder keeps them off the request path.
type Sink interface {
	Write(ctx context.Context, event Event) error
	Close()
}

// MemorySink buffers events in memory. Used by tests and by deployments
// that run without a broker.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Write(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *MemorySink) Close() {}

func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}
