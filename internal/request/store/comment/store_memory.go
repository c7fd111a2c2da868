package comment

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"irdesk/internal/request/models"
)

// MemoryStore is the in-memory comment store used by unit tests.
type MemoryStore struct {
	mu       sync.RWMutex
	comments []models.Comment
}

func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Insert(_ context.Context, c models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments = append(s.comments, c)
	return nil
}

func (s *MemoryStore) ListByRequest(_ context.Context, requestID uuid.UUID) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Comment
	for i := len(s.comments) - 1; i >= 0; i-- {
		if s.comments[i].RequestID == requestID {
			out = append(out, s.comments[i])
		}
	}
	return out, nil
}
