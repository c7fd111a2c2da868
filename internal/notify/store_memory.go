package notify

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is the in-memory notification store used by unit tests.
type MemoryStore struct {
	mu            sync.RWMutex
	notifications []Notification
}

func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Insert(_ context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, n)
	return nil
}

func (s *MemoryStore) ListByRequest(_ context.Context, requestID uuid.UUID) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Notification
	for _, n := range s.notifications {
		if n.RequestID == requestID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *MemoryStore) ListByRequestForUser(_ context.Context, requestID uuid.UUID, userID string) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Notification
	for _, n := range s.notifications {
		if n.RequestID == requestID && n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}
