package computation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sentencer/internal/sentencing/models"
	"sentencer/pkg/platform/sentinel"
)

// SQLiteStore persists computations in an embedded SQLite database.
// Timestamps are stored as unix nanoseconds.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Save(ctx context.Context, c *models.Computation) error {
	input, outcome, err := encodeRecord(c)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO computations (
			id, fingerprint, request_id, category, status,
			final_months, min_months, max_months,
			input, outcome, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			fingerprint = excluded.fingerprint,
			status = excluded.status,
			final_months = excluded.final_months,
			min_months = excluded.min_months,
			max_months = excluded.max_months,
			outcome = excluded.outcome
	`
	_, err = s.db.ExecContext(ctx, query,
		c.ID.String(),
		c.Fingerprint,
		c.RequestID,
		string(c.Outcome.Category),
		string(c.Outcome.Status),
		c.Outcome.Result.FinalMonths,
		c.Outcome.Range.Min,
		c.Outcome.Range.Max,
		input,
		outcome,
		c.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("save computation: %w", err)
	}
	return nil
}

func (s *SQLiteStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Computation, error) {
	query := `
		SELECT id, fingerprint, request_id, input, outcome, created_at
		FROM computations
		WHERE id = ?
	`
	c, err := scanSQLiteRecord(s.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find computation: %w", err)
	}
	return c, nil
}

func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]*models.Computation, error) {
	query := `
		SELECT id, fingerprint, request_id, input, outcome, created_at
		FROM computations
		ORDER BY created_at DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list computations: %w", err)
	}
	defer rows.Close()

	var out []*models.Computation
	for rows.Next() {
		c, err := scanSQLiteRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan computation: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate computations: %w", err)
	}
	return out, nil
}

func scanSQLiteRecord(row rowScanner) (*models.Computation, error) {
	var (
		c         models.Computation
		id        string
		input     string
		outcome   string
		createdAt int64
	)
	if err := row.Scan(&id, &c.Fingerprint, &c.RequestID, &input, &outcome, &createdAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse computation id: %w", err)
	}
	c.ID = parsed
	c.CreatedAt = time.Unix(0, createdAt).UTC()
	if err := decodePayloads(&c, []byte(input), []byte(outcome)); err != nil {
		return nil, err
	}
	return &c, nil
}
