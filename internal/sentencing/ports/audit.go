package ports

import (
	"context"
	"log/slog"

	"sentencer/pkg/platform/audit"
	"sentencer/pkg/requestcontext"
)

// LogAudit writes event to the structured log and, when a publisher is set,
// emits it. Publisher failures are logged and never fail the caller.
func LogAudit(ctx context.Context, logger *slog.Logger, publisher AuditPublisher, event audit.Event) {
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ActorID == "" {
		event.ActorID = requestcontext.Subject(ctx)
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}

	if logger != nil {
		logger.InfoContext(ctx, event.Action,
			"event", event.Action,
			"log_type", "audit",
			"subject", event.Subject,
			"decision", event.Decision,
			"request_id", event.RequestID,
		)
	}

	if publisher == nil {
		return
	}
	if err := publisher.Emit(ctx, event); err != nil && logger != nil {
		logger.WarnContext(ctx, "failed to emit audit event", "event", event.Action, "error", err)
	}
}
