package request

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"irdesk/internal/request/models"
	"irdesk/pkg/platform/sentinel"
	txcontext "irdesk/pkg/platform/tx"
)

// PostgresStore persists requests. Pure I/O; the transition rules live in the
// service layer. Writes join an ambient transaction from context so the
// status flip and the event insert commit together.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const requestColumns = `
	id, number, investor_id, status, type, amount, currency, target_price,
	expires_at, notes, settlement_started_at, settlement_completed_at,
	settlement_reference, settlement_notes, created_at, updated_at
`

func (s *PostgresStore) Create(ctx context.Context, req *models.Request) error {
	query := `
		INSERT INTO requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		req.ID, req.Number, req.InvestorID, req.Status, req.Type,
		req.Amount, req.Currency, req.TargetPrice, req.ExpiresAt, req.Notes,
		req.Settlement.StartedAt, req.Settlement.CompletedAt,
		req.Settlement.Reference, req.Settlement.Notes,
		req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`
	req, err := scanRequest(s.execer(ctx).QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get request: %w", err)
	}
	return req, nil
}

// UpdateStatus flips the status only while it still equals expected. Zero
// rows affected means a concurrent transition won the race; the caller must
// fail the operation rather than overwrite (check-then-act guard).
func (s *PostgresStore) UpdateStatus(ctx context.Context, id uuid.UUID, expected, next models.Status, updatedAt time.Time) error {
	query := `
		UPDATE requests
		SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2
	`
	res, err := s.execer(ctx).ExecContext(ctx, query, id, expected, next, updatedAt)
	if err != nil {
		return fmt.Errorf("update request status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update request status: rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

// UpdateSettlement sets the provided settlement fields, leaving nil fields
// untouched. Runs inside the same transaction as the guarded status flip when
// one is in context.
func (s *PostgresStore) UpdateSettlement(ctx context.Context, id uuid.UUID, settlement models.Settlement, updatedAt time.Time) error {
	query := `
		UPDATE requests
		SET settlement_started_at   = COALESCE($2, settlement_started_at),
		    settlement_completed_at = COALESCE($3, settlement_completed_at),
		    settlement_reference    = COALESCE($4, settlement_reference),
		    settlement_notes        = COALESCE($5, settlement_notes),
		    updated_at              = $6
		WHERE id = $1
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		id, settlement.StartedAt, settlement.CompletedAt,
		settlement.Reference, settlement.Notes, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("update request settlement: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update request settlement: rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListByInvestor(ctx context.Context, investorID string) ([]*models.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE investor_id = $1 ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query, investorID)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	var out []*models.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*models.Request, error) {
	var req models.Request
	err := row.Scan(
		&req.ID, &req.Number, &req.InvestorID, &req.Status, &req.Type,
		&req.Amount, &req.Currency, &req.TargetPrice, &req.ExpiresAt, &req.Notes,
		&req.Settlement.StartedAt, &req.Settlement.CompletedAt,
		&req.Settlement.Reference, &req.Settlement.Notes,
		&req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}
