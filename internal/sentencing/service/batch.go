package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"sentencer/internal/sentencing"
	"sentencer/internal/sentencing/models"
	dErrors "sentencer/pkg/domain-errors"
	"sentencer/pkg/platform/audit"
)

// ComputeBatch runs every case with bounded parallelism. A failing case does
// not abort the batch: its item carries the fallback range and the error.
// Items are returned in input order.
func (s *Service) ComputeBatch(ctx context.Context, inputs []sentencing.CaseInput) ([]models.BatchItem, error) {
	ctx, span := s.tracer.Start(ctx, "sentencing.ComputeBatch")
	defer span.End()

	if len(inputs) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "batch must contain at least one case")
	}
	if len(inputs) > s.maxBatchSize {
		return nil, dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("batch must contain at most %d cases", s.maxBatchSize))
	}
	span.SetAttributes(attribute.Int("sentencing.batch_size", len(inputs)))
	s.metrics.ObserveBatchSize(len(inputs))

	items := make([]models.BatchItem, len(inputs))
	var g errgroup.Group
	g.SetLimit(s.batchConcurrency)
	for i, in := range inputs {
		g.Go(func() error {
			items[i] = s.computeItem(ctx, i, in)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, item := range items {
		if item.Error != "" {
			failed++
		}
	}
	span.SetAttributes(attribute.Int("sentencing.batch_failed", failed))
	s.emitAudit(ctx, audit.Event{
		Action:   string(audit.EventBatchCompleted),
		Subject:  uuid.NewString(),
		Decision: fmt.Sprintf("%d/%d computed", len(items)-failed, len(items)),
	})
	return items, nil
}

func (s *Service) computeItem(ctx context.Context, index int, in sentencing.CaseInput) models.BatchItem {
	if err := ctx.Err(); err != nil {
		return fallbackItem(index, dErrors.Wrap(err, dErrors.CodeTimeout, "batch cancelled"))
	}
	rec, err := s.compute(ctx, in)
	if err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "batch item failed",
				"index", index,
				"error", err,
			)
		}
		return fallbackItem(index, err)
	}
	id := rec.ID
	outcome := rec.Outcome
	return models.BatchItem{
		Index:         index,
		ComputationID: &id,
		Status:        outcome.Status,
		Outcome:       &outcome,
		Range:         outcome.Range,
	}
}

func fallbackItem(index int, err error) models.BatchItem {
	msg := "internal error"
	if de, ok := dErrors.As(err); ok && de.Code != dErrors.CodeInternal {
		msg = de.Message
	}
	return models.BatchItem{
		Index:  index,
		Status: sentencing.StatusFallback,
		Range:  sentencing.FallbackRange,
		Error:  msg,
	}
}
