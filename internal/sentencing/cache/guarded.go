package cache

import (
	"context"
	"log/slog"

	"sentencer/internal/sentencing"
	"sentencer/pkg/platform/circuit"
)

// Backend is the cache contract shared by every outcome cache.
type Backend interface {
	Get(ctx context.Context, fingerprint string) (*sentencing.Outcome, error)
	Set(ctx context.Context, fingerprint string, outcome *sentencing.Outcome) error
}

// Guarded stops calling an unhealthy backend. While the breaker is open,
// reads are misses and writes are dropped, so computation proceeds at
// engine speed instead of waiting on timeouts.
type Guarded struct {
	backend Backend
	breaker *circuit.Breaker
	logger  *slog.Logger
}

func NewGuarded(backend Backend, breaker *circuit.Breaker, logger *slog.Logger) *Guarded {
	if breaker == nil {
		breaker = circuit.New("outcome-cache")
	}
	return &Guarded{backend: backend, breaker: breaker, logger: logger}
}

func (g *Guarded) Get(ctx context.Context, fingerprint string) (*sentencing.Outcome, error) {
	if !g.breaker.Allow() {
		return nil, nil
	}
	outcome, err := g.backend.Get(ctx, fingerprint)
	g.record(ctx, err)
	return outcome, err
}

func (g *Guarded) Set(ctx context.Context, fingerprint string, outcome *sentencing.Outcome) error {
	if !g.breaker.Allow() {
		return nil
	}
	err := g.backend.Set(ctx, fingerprint, outcome)
	g.record(ctx, err)
	return err
}

func (g *Guarded) record(ctx context.Context, err error) {
	var change circuit.StateChange
	if err != nil {
		_, change = g.breaker.RecordFailure()
	} else {
		_, change = g.breaker.RecordSuccess()
	}
	if g.logger == nil {
		return
	}
	switch {
	case change.Opened:
		g.logger.WarnContext(ctx, "outcome cache circuit opened", "breaker", g.breaker.Name(), "error", err)
	case change.Closed:
		g.logger.InfoContext(ctx, "outcome cache circuit closed", "breaker", g.breaker.Name())
	}
}
