package request

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"irdesk/internal/request/models"
	"irdesk/pkg/platform/sentinel"
)

// MemoryStore is the in-memory request store used by unit tests and local
// development. The conditional status update holds the same contract as the
// postgres store: a stale expected status returns sentinel.ErrConflict.
type MemoryStore struct {
	mu       sync.RWMutex
	requests map[uuid.UUID]*models.Request
}

func NewMemory() *MemoryStore {
	return &MemoryStore{requests: make(map[uuid.UUID]*models.Request)}
}

func (s *MemoryStore) Create(_ context.Context, req *models.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *req
	s.requests[req.ID] = &clone
	return nil
}

func (s *MemoryStore) GetByID(_ context.Context, id uuid.UUID) (*models.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, ok := s.requests[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *req
	return &clone, nil
}

func (s *MemoryStore) UpdateStatus(_ context.Context, id uuid.UUID, expected, next models.Status, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if req.Status != expected {
		return sentinel.ErrConflict
	}
	req.Status = next
	req.UpdatedAt = updatedAt
	return nil
}

func (s *MemoryStore) UpdateSettlement(_ context.Context, id uuid.UUID, settlement models.Settlement, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if settlement.StartedAt != nil {
		req.Settlement.StartedAt = settlement.StartedAt
	}
	if settlement.CompletedAt != nil {
		req.Settlement.CompletedAt = settlement.CompletedAt
	}
	if settlement.Reference != nil {
		req.Settlement.Reference = settlement.Reference
	}
	if settlement.Notes != nil {
		req.Settlement.Notes = settlement.Notes
	}
	req.UpdatedAt = updatedAt
	return nil
}

func (s *MemoryStore) ListByInvestor(_ context.Context, investorID string) ([]*models.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Request
	for _, req := range s.requests {
		if req.InvestorID == investorID {
			clone := *req
			out = append(out, &clone)
		}
	}
	return out, nil
}
