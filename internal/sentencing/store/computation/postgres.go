package computation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"sentencer/internal/sentencing/models"
	"sentencer/pkg/platform/sentinel"
)

// PostgresStore persists computations in PostgreSQL. Input and outcome are
// stored as JSONB; the summary columns exist for reporting queries.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, c *models.Computation) error {
	input, outcome, err := encodeRecord(c)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO computations (
			id, fingerprint, request_id, category, status,
			final_months, min_months, max_months, steps,
			input, outcome, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			fingerprint = EXCLUDED.fingerprint,
			status = EXCLUDED.status,
			final_months = EXCLUDED.final_months,
			min_months = EXCLUDED.min_months,
			max_months = EXCLUDED.max_months,
			steps = EXCLUDED.steps,
			outcome = EXCLUDED.outcome
	`
	_, err = s.db.ExecContext(ctx, query,
		c.ID,
		c.Fingerprint,
		c.RequestID,
		string(c.Outcome.Category),
		string(c.Outcome.Status),
		c.Outcome.Result.FinalMonths,
		c.Outcome.Range.Min,
		c.Outcome.Range.Max,
		pq.Array(c.Outcome.Result.Steps),
		input,
		outcome,
		c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save computation: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Computation, error) {
	query := `
		SELECT id, fingerprint, request_id, input, outcome, created_at
		FROM computations
		WHERE id = $1
	`
	c, err := scanRecord(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find computation: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]*models.Computation, error) {
	query := `
		SELECT id, fingerprint, request_id, input, outcome, created_at
		FROM computations
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list computations: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func encodeRecord(c *models.Computation) (string, string, error) {
	if c == nil {
		return "", "", fmt.Errorf("computation is required")
	}
	input, err := json.Marshal(c.Input)
	if err != nil {
		return "", "", fmt.Errorf("marshal computation input: %w", err)
	}
	outcome, err := json.Marshal(c.Outcome)
	if err != nil {
		return "", "", fmt.Errorf("marshal computation outcome: %w", err)
	}
	return string(input), string(outcome), nil
}

func scanRecord(row rowScanner) (*models.Computation, error) {
	var (
		c       models.Computation
		input   []byte
		outcome []byte
	)
	if err := row.Scan(&c.ID, &c.Fingerprint, &c.RequestID, &input, &outcome, &c.CreatedAt); err != nil {
		return nil, err
	}
	if err := decodePayloads(&c, input, outcome); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanRecords(rows *sql.Rows) ([]*models.Computation, error) {
	var out []*models.Computation
	for rows.Next() {
		c, err := scanRecord(rows)
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

func decodePayloads(c *models.Computation, input, outcome []byte) error {
	if err := json.Unmarshal(input, &c.Input); err != nil {
		return fmt.Errorf("unmarshal computation input: %w", err)
	}
	if err := json.Unmarshal(outcome, &c.Outcome); err != nil {
		return fmt.Errorf("unmarshal computation outcome: %w", err)
	}
	return nil
}
