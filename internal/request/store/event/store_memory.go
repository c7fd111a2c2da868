package event

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"irdesk/internal/request/models"
)

// MemoryStore is the in-memory event store used by unit tests.
type MemoryStore struct {
	mu     sync.RWMutex
	events []models.Event
}

func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Insert(_ context.Context, ev models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func (s *MemoryStore) ListByRequest(_ context.Context, requestID uuid.UUID) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Event
	for i := len(s.events) - 1; i >= 0; i-- {
		if s.events[i].RequestID == requestID {
			out = append(out, s.events[i])
		}
	}
	return out, nil
}

// All returns every event in insertion order. Test helper.
func (s *MemoryStore) All() []models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Event, len(s.events))
	copy(out, s.events)
	return out
}
