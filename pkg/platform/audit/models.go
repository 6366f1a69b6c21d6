package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose so sinks
// can apply different retention.
type EventCategory string

const (
	// CategoryCompliance covers events that record a sentencing result and
	// must be kept for review.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers routine activity that can be sampled.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	// Subject is the computation ID, or the batch ID for batch events.
	Subject string `json:"subject"`
	Action  string `json:"action"`
	// Decision carries the outcome status ("computed", "defaulted", "fallback").
	Decision    string `json:"decision,omitempty"`
	Reason      string `json:"reason,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
	ActorID     string `json:"actor_id,omitempty"`
}

type AuditEvent string

const (
	EventComputationCompleted AuditEvent = "computation_completed"
	EventComputationDefaulted AuditEvent = "computation_defaulted"
	EventComputationFailed    AuditEvent = "computation_failed"
	EventComputationCached    AuditEvent = "computation_cached"
	EventBatchCompleted       AuditEvent = "batch_completed"
	EventRulesLoaded          AuditEvent = "rules_loaded"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventComputationCompleted: CategoryCompliance,
	EventComputationDefaulted: CategoryCompliance,
	EventComputationFailed:    CategoryCompliance,
	EventRulesLoaded:          CategoryCompliance,

	EventComputationCached: CategoryOperations,
	EventBatchCompleted:    CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySubject(ctx context.Context, subject string) ([]Event, error)
}
