package attachment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"irdesk/internal/request/models"
)

// PostgresStore updates attachment metadata. Attachment content lives in
// object storage outside this service; only the stage tag is owned here.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// UpdateStage re-tags the named attachments of a request with the settlement
// stage they document. Unknown IDs are ignored; the count of touched rows is
// returned for logging.
func (s *PostgresStore) UpdateStage(ctx context.Context, requestID uuid.UUID, ids []uuid.UUID, stage models.AttachmentStage) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `
		UPDATE attachments
		SET stage = $3
		WHERE request_id = $1 AND id = ANY($2)
	`
	res, err := s.db.ExecContext(ctx, query, requestID, pq.Array(ids), stage)
	if err != nil {
		return 0, fmt.Errorf("update attachment stage: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update attachment stage: rows affected: %w", err)
	}
	return affected, nil
}
