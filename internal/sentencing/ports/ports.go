package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/google/uuid"

	"sentencer/internal/sentencing"
	"sentencer/internal/sentencing/models"
	"sentencer/pkg/platform/audit"
)

// ComputationStore persists computation records.
type ComputationStore interface {
	// Save inserts the record, replacing one with the same ID.
	Save(ctx context.Context, c *models.Computation) error

	// FindByID returns sentinel.ErrNotFound when no record exists.
	FindByID(ctx context.Context, id uuid.UUID) (*models.Computation, error)

	// ListRecent returns at most limit records, newest first.
	ListRecent(ctx context.Context, limit int) ([]*models.Computation, error)
}

// OutcomeCache stores outcomes keyed by input fingerprint.
// A miss returns nil, nil.
type OutcomeCache interface {
	Get(ctx context.Context, fingerprint string) (*sentencing.Outcome, error)
	Set(ctx context.Context, fingerprint string, outcome *sentencing.Outcome) error
}

// AuditPublisher emits audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
