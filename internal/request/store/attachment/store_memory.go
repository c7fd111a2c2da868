package attachment

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"irdesk/internal/request/models"
)

type taggedAttachment struct {
	RequestID uuid.UUID
	Stage     models.AttachmentStage
}

// MemoryStore is the in-memory attachment metadata store used by unit tests.
type MemoryStore struct {
	mu          sync.RWMutex
	attachments map[uuid.UUID]taggedAttachment
}

func NewMemory() *MemoryStore {
	return &MemoryStore{attachments: make(map[uuid.UUID]taggedAttachment)}
}

// Seed registers an attachment belonging to a request. Test helper.
func (s *MemoryStore) Seed(requestID uuid.UUID, ids ...uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.attachments[id] = taggedAttachment{RequestID: requestID}
	}
}

func (s *MemoryStore) UpdateStage(_ context.Context, requestID uuid.UUID, ids []uuid.UUID, stage models.AttachmentStage) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var touched int64
	for _, id := range ids {
		att, ok := s.attachments[id]
		if !ok || att.RequestID != requestID {
			continue
		}
		att.Stage = stage
		s.attachments[id] = att
		touched++
	}
	return touched, nil
}

// StageOf returns the stage tag of an attachment. Test helper.
func (s *MemoryStore) StageOf(id uuid.UUID) models.AttachmentStage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.attachments[id].Stage
}
