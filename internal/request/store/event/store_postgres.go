package event

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"irdesk/internal/request/models"
	txcontext "irdesk/pkg/platform/tx"
)

// PostgresStore persists request events. The table is append-only: events are
// never updated or deleted, and only the transition protocol inserts them.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Insert(ctx context.Context, ev models.Event) error {
	query := `
		INSERT INTO request_events (id, request_id, from_status, to_status, actor_id, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		ev.ID, ev.RequestID, ev.FromStatus, ev.ToStatus, ev.ActorID, ev.Note, ev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert request event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]models.Event, error) {
	query := `
		SELECT id, request_id, from_status, to_status, actor_id, note, created_at
		FROM request_events
		WHERE request_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("list request events: %w", err)
	}
	defer rows.Close()

	var out []models.Event
	for rows.Next() {
		var (
			ev   models.Event
			from sql.NullString
			note sql.NullString
		)
		if err := rows.Scan(&ev.ID, &ev.RequestID, &from, &ev.ToStatus, &ev.ActorID, &note, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan request event: %w", err)
		}
		if from.Valid {
			status := models.Status(from.String)
			ev.FromStatus = &status
		}
		if note.Valid {
			ev.Note = &note.String
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
