package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	audit "irdesk/pkg/platform/audit"
	txcontext "irdesk/pkg/platform/tx"
)

// Store persists audit entries in the audit_logs table. Rows are append-only;
// there is no update or delete path.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Store) Append(ctx context.Context, entry audit.Entry) error {
	diffJSON, err := json.Marshal(entry.Diff)
	if err != nil {
		return fmt.Errorf("marshal audit diff: %w", err)
	}

	query := `
		INSERT INTO audit_logs (id, actor_id, action, target_type, target_id, diff, ip, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.execer(ctx).ExecContext(ctx, query,
		entry.ID,
		entry.ActorID,
		entry.Action,
		entry.TargetType,
		entry.TargetID,
		diffJSON,
		nullable(entry.IP),
		nullable(entry.UserAgent),
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

func (s *Store) ListByTarget(ctx context.Context, targetType, targetID string) ([]audit.Entry, error) {
	query := `
		SELECT id, actor_id, action, target_type, target_id, diff, ip, user_agent, created_at
		FROM audit_logs
		WHERE target_type = $1 AND target_id = $2
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, targetType, targetID)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var (
			entry    audit.Entry
			diffJSON []byte
			ip       sql.NullString
			ua       sql.NullString
		)
		if err := rows.Scan(
			&entry.ID, &entry.ActorID, &entry.Action, &entry.TargetType, &entry.TargetID,
			&diffJSON, &ip, &ua, &entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		if err := json.Unmarshal(diffJSON, &entry.Diff); err != nil {
			return nil, fmt.Errorf("unmarshal audit diff: %w", err)
		}
		entry.IP = ip.String
		entry.UserAgent = ua.String
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
