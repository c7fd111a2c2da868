package comment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"irdesk/internal/request/models"
)

// PostgresStore persists internal request comments. Comments are immutable
// once inserted.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, c models.Comment) error {
	query := `
		INSERT INTO request_comments (id, request_id, actor_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query, c.ID, c.RequestID, c.ActorID, c.Body, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert request comment: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]models.Comment, error) {
	query := `
		SELECT id, request_id, actor_id, body, created_at
		FROM request_comments
		WHERE request_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("list request comments: %w", err)
	}
	defer rows.Close()

	var out []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.RequestID, &c.ActorID, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan request comment: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
