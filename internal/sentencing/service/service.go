package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"sentencer/internal/sentencing"
	"sentencer/internal/sentencing/metrics"
	"sentencer/internal/sentencing/models"
	"sentencer/internal/sentencing/ports"
	"sentencer/internal/sentencing/ruledoc"
	dErrors "sentencer/pkg/domain-errors"
	"sentencer/pkg/platform/audit"
	"sentencer/pkg/platform/sentinel"
	"sentencer/pkg/requestcontext"
)

// Type aliases for shared interfaces.
type (
	Store          = ports.ComputationStore
	Cache          = ports.OutcomeCache
	AuditPublisher = ports.AuditPublisher
)

const (
	DefaultBatchConcurrency = 8
	DefaultMaxBatchSize     = 500
	DefaultListLimit        = 20
	MaxListLimit            = 100

	tracerName = "sentencer/internal/sentencing/service"
)

type Service struct {
	engine           *sentencing.Engine
	store            Store
	cache            Cache
	auditPublisher   AuditPublisher
	logger           *slog.Logger
	metrics          *metrics.Metrics
	tracer           trace.Tracer
	batchConcurrency int
	maxBatchSize     int
	rulesVersion     string
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithCache enables the outcome cache.
func WithCache(cache Cache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithBatchLimits bounds batch parallelism and size. Non-positive values
// keep the defaults.
func WithBatchLimits(concurrency, maxSize int) Option {
	return func(s *Service) {
		if concurrency > 0 {
			s.batchConcurrency = concurrency
		}
		if maxSize > 0 {
			s.maxBatchSize = maxSize
		}
	}
}

func New(engine *sentencing.Engine, store Store, opts ...Option) (*Service, error) {
	if engine == nil {
		return nil, fmt.Errorf("sentencing engine is required")
	}
	if store == nil {
		return nil, fmt.Errorf("computation store is required")
	}

	svc := &Service{
		engine:           engine,
		store:            store,
		tracer:           otel.Tracer(tracerName),
		batchConcurrency: DefaultBatchConcurrency,
		maxBatchSize:     DefaultMaxBatchSize,
	}
	for _, opt := range opts {
		opt(svc)
	}

	version, err := RulesVersion(engine)
	if err != nil {
		return nil, err
	}
	svc.rulesVersion = version
	return svc, nil
}

// RulesVersion digests the engine's rule tables and amount policy. Outcomes
// computed under different versions never share a fingerprint.
func RulesVersion(engine *sentencing.Engine) (string, error) {
	payload, err := json.Marshal(struct {
		Rules  *ruledoc.Document      `json:"rules"`
		Policy sentencing.AmountPolicy `json:"policy"`
	}{ruledoc.FromRegistry(engine.Registry()), engine.AmountPolicy()})
	if err != nil {
		return "", fmt.Errorf("encode rule tables: %w", err)
	}
	return models.Digest(payload), nil
}

// RulesVersion returns the digest of the active rule tables.
func (s *Service) RulesVersion() string {
	return s.rulesVersion
}

// Compute runs one case, persists the record and emits an audit event.
// Identical inputs are served from the cache when one is configured.
func (s *Service) Compute(ctx context.Context, in sentencing.CaseInput) (*models.Computation, error) {
	ctx, span := s.tracer.Start(ctx, "sentencing.Compute")
	defer span.End()

	rec, err := s.compute(ctx, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "compute failed")
		return nil, err
	}
	span.SetAttributes(
		attribute.String("sentencing.category", string(rec.Outcome.Category)),
		attribute.String("sentencing.status", string(rec.Outcome.Status)),
		attribute.Float64("sentencing.final_months", rec.Outcome.Result.FinalMonths),
	)
	return rec, nil
}

func (s *Service) compute(ctx context.Context, in sentencing.CaseInput) (*models.Computation, error) {
	in = normalizeInput(in)
	fingerprint, err := models.Fingerprint(in, s.rulesVersion)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to fingerprint input")
	}

	outcome, cached := s.lookupCache(ctx, fingerprint)
	if outcome == nil {
		start := time.Now()
		outcome, err = s.engine.Compute(in)
		s.metrics.ObserveComputeLatency(time.Since(start))
		if err != nil {
			s.emitAudit(ctx, audit.Event{
				Action:      string(audit.EventComputationFailed),
				Subject:     fingerprint,
				Reason:      err.Error(),
				Fingerprint: fingerprint,
			})
			if _, ok := dErrors.As(err); ok {
				return nil, err
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "computation failed")
		}
		s.storeCache(ctx, fingerprint, outcome)
	}

	rec := &models.Computation{
		ID:          uuid.New(),
		Fingerprint: fingerprint,
		RequestID:   requestcontext.RequestID(ctx),
		Input:       in,
		Outcome:     *outcome,
		CreatedAt:   requestcontext.Now(ctx),
	}
	if err := s.store.Save(ctx, rec); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save computation")
	}

	s.recordOutcome(outcome)

	action := audit.EventComputationCompleted
	switch {
	case cached:
		action = audit.EventComputationCached
	case outcome.Status == sentencing.StatusDefaulted:
		action = audit.EventComputationDefaulted
	}
	s.emitAudit(ctx, audit.Event{
		Action:      string(action),
		Subject:     rec.ID.String(),
		Decision:    string(outcome.Status),
		Reason:      fmt.Sprintf("range [%d, %d] months", outcome.Range.Min, outcome.Range.Max),
		Fingerprint: fingerprint,
	})
	return rec, nil
}

// normalizeInput replaces non-finite numbers with finite values the engine
// treats identically, so the input can be fingerprinted and stored as JSON.
// An amount becomes -1 (coerced or rejected per policy), a width -1 and a
// factor ratio 0 (both rejected).
func normalizeInput(in sentencing.CaseInput) sentencing.CaseInput {
	finite := func(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
	if in.Amount != nil && !finite(*in.Amount) {
		v := -1.0
		in.Amount = &v
	}
	if in.Width != nil && !finite(*in.Width) {
		v := -1.0
		in.Width = &v
	}
	normalizeFactors := func(factors []sentencing.Factor) []sentencing.Factor {
		for i, f := range factors {
			if !finite(f.Ratio) {
				factors = append([]sentencing.Factor(nil), factors...)
				for j := i; j < len(factors); j++ {
					if !finite(factors[j].Ratio) {
						factors[j].Ratio = 0
					}
				}
				return factors
			}
		}
		return factors
	}
	in.Tier1 = normalizeFactors(in.Tier1)
	in.Tier2 = normalizeFactors(in.Tier2)
	return in
}

func (s *Service) lookupCache(ctx context.Context, fingerprint string) (*sentencing.Outcome, bool) {
	if s.cache == nil {
		return nil, false
	}
	outcome, err := s.cache.Get(ctx, fingerprint)
	if err != nil {
		s.metrics.IncrementCacheLookup("error")
		if s.logger != nil {
			s.logger.WarnContext(ctx, "outcome cache read failed",
				"fingerprint", fingerprint,
				"error", err,
			)
		}
		return nil, false
	}
	if outcome == nil {
		s.metrics.IncrementCacheLookup("miss")
		return nil, false
	}
	s.metrics.IncrementCacheLookup("hit")
	return outcome, true
}

func (s *Service) storeCache(ctx context.Context, fingerprint string, outcome *sentencing.Outcome) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, fingerprint, outcome); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "outcome cache write failed",
			"fingerprint", fingerprint,
			"error", err,
		)
	}
}

func (s *Service) recordOutcome(outcome *sentencing.Outcome) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncrementOutcome(string(outcome.Status), string(outcome.Category))
	p := outcome.Provenance
	flags := []struct {
		kind string
		set  bool
	}{
		{"category_unclassified", p.CategoryUnclassified},
		{"jurisdiction_defaulted", p.JurisdictionDefaulted},
		{"amount_missing", p.AmountMissing},
		{"amount_coerced", p.AmountCoerced},
		{"severity_defaulted", p.SeverityDefaulted},
		{"factor_defaulted", p.FactorDefaulted},
		{"floor_clamped", p.FloorClamped},
		{"ceiling_capped", p.CeilingCapped},
		{"legal_clipped", p.LegalClipped},
	}
	for _, f := range flags {
		if f.set {
			s.metrics.IncrementDefault(f.kind)
		}
	}
}

// Get returns a stored computation.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Computation, error) {
	rec, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "computation not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load computation")
	}
	return rec, nil
}

// ListRecent returns the newest computations. limit is clamped to
// [1, MaxListLimit]; zero means DefaultListLimit.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]*models.Computation, error) {
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	recs, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list computations")
	}
	return recs, nil
}

// MatchFactor resolves text against the coefficient table of category's
// rule set. Unknown categories use the fallback rule set.
func (s *Service) MatchFactor(ctx context.Context, category string, tier sentencing.Tier, text string) (*models.FactorMatch, error) {
	_, span := s.tracer.Start(ctx, "sentencing.MatchFactor")
	defer span.End()

	if !tier.Valid() {
		return nil, dErrors.New(dErrors.CodeValidation, "tier must be 1 or 2")
	}
	cat := sentencing.ParseCrimeCategory(category)
	rs, dedicated := s.engine.Registry().For(cat)
	if !dedicated {
		cat = sentencing.CategoryUnclassified
	}
	return &models.FactorMatch{
		Category: cat,
		RuleSet:  rs.Name(),
		Match:    rs.Matcher().Match(tier, text),
	}, nil
}

// ResolveJurisdiction reports how key resolves. When category is
// amount-keyed the applicable thresholds are included.
func (s *Service) ResolveJurisdiction(ctx context.Context, key, category string) (*models.JurisdictionLookup, error) {
	_, span := s.tracer.Start(ctx, "sentencing.ResolveJurisdiction")
	defer span.End()

	table := s.engine.Registry().Jurisdictions()
	lookup := &models.JurisdictionLookup{Jurisdiction: table.Resolve(key)}

	for city, parent := range table.Synonyms() {
		if parent == lookup.Jurisdiction.Key {
			lookup.Synonyms = append(lookup.Synonyms, city)
		}
	}
	sort.Strings(lookup.Synonyms)

	if category == "" {
		return lookup, nil
	}
	cat := sentencing.ParseCrimeCategory(category)
	if !cat.IsAmountKeyed() {
		return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("category %q has no amount thresholds", category))
	}
	lookup.Category = cat
	rs, _ := s.engine.Registry().For(cat)
	if cfg := rs.Config(); cfg.Amounts != nil && cfg.Amounts.FixedThresholds != nil {
		th := *cfg.Amounts.FixedThresholds
		lookup.Thresholds = &th
	} else if th, _, ok := table.Thresholds(key, cat); ok {
		lookup.Thresholds = &th
	}
	return lookup, nil
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	ports.LogAudit(ctx, s.logger, s.auditPublisher, event)
}
