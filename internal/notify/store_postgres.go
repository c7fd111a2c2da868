package notify

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// PostgresStore persists notifications in the notifications table.
// Pure I/O; who gets notified about what is decided by the dispatcher callers.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, n Notification) error {
	query := `
		INSERT INTO notifications (id, request_id, user_id, kind, decision, message, stage, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		n.ID, n.RequestID, n.UserID, n.Kind,
		nullable(n.Decision), nullable(n.Message), nullable(n.Stage),
		n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]Notification, error) {
	query := `
		SELECT id, request_id, user_id, kind, decision, message, stage, created_at
		FROM notifications
		WHERE request_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()
	return scanNotifications(rows)
}

func (s *PostgresStore) ListByRequestForUser(ctx context.Context, requestID uuid.UUID, userID string) ([]Notification, error) {
	query := `
		SELECT id, request_id, user_id, kind, decision, message, stage, created_at
		FROM notifications
		WHERE request_id = $1 AND user_id = $2
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, requestID, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications for user: %w", err)
	}
	defer rows.Close()
	return scanNotifications(rows)
}

func scanNotifications(rows *sql.Rows) ([]Notification, error) {
	var out []Notification
	for rows.Next() {
		var (
			n                        Notification
			decision, message, stage sql.NullString
		)
		if err := rows.Scan(&n.ID, &n.RequestID, &n.UserID, &n.Kind, &decision, &message, &stage, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Decision = decision.String
		n.Message = message.String
		n.Stage = stage.String
		out = append(out, n)
	}
	return out, rows.Err()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
