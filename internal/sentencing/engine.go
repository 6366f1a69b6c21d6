package sentencing

import (
	"fmt"
	"math"

	dErrors "sentencer/pkg/domain-errors"
)

// CaseInput is the structured record a computation starts from. Factor
// descriptions are resolved through the rule set's coefficient table and
// applied after the structured factors of the same tier.
type CaseInput struct {
	Category          CrimeCategory `json:"category"`
	Jurisdiction      string        `json:"jurisdiction,omitempty"`
	Amount            *float64      `json:"amount,omitempty"`
	Severity          string        `json:"severity,omitempty"`
	OccurrenceCount   int           `json:"occurrence_count,omitempty"`
	VictimCount       int           `json:"victim_count,omitempty"`
	Tier1             []Factor      `json:"tier1_factors,omitempty"`
	Tier2             []Factor      `json:"tier2_factors,omitempty"`
	Tier1Descriptions []string      `json:"tier1_descriptions,omitempty"`
	Tier2Descriptions []string      `json:"tier2_descriptions,omitempty"`
	Width             *float64      `json:"width,omitempty"`
	EnforceLegalRange bool          `json:"enforce_legal_range,omitempty"`
	LegalRange        *LegalRange   `json:"legal_range,omitempty"`
}

// Provenance flags every place a computation fell back to a default or was
// clamped.
type Provenance struct {
	CategoryUnclassified  bool `json:"category_unclassified,omitempty"`
	JurisdictionDefaulted bool `json:"jurisdiction_defaulted,omitempty"`
	AmountMissing         bool `json:"amount_missing,omitempty"`
	AmountCoerced         bool `json:"amount_coerced,omitempty"`
	SeverityDefaulted     bool `json:"severity_defaulted,omitempty"`
	FactorDefaulted       bool `json:"factor_defaulted,omitempty"`
	FloorClamped          bool `json:"floor_clamped,omitempty"`
	CeilingCapped         bool `json:"ceiling_capped,omitempty"`
	LegalClipped          bool `json:"legal_clipped,omitempty"`
}

// Defaulted reports whether any input was replaced by a default. Clamping
// alone does not count.
func (p Provenance) Defaulted() bool {
	return p.CategoryUnclassified || p.JurisdictionDefaulted || p.AmountMissing ||
		p.AmountCoerced || p.SeverityDefaulted || p.FactorDefaulted
}

func (p Provenance) merge(o Provenance) Provenance {
	return Provenance{
		CategoryUnclassified:  p.CategoryUnclassified || o.CategoryUnclassified,
		JurisdictionDefaulted: p.JurisdictionDefaulted || o.JurisdictionDefaulted,
		AmountMissing:         p.AmountMissing || o.AmountMissing,
		AmountCoerced:         p.AmountCoerced || o.AmountCoerced,
		SeverityDefaulted:     p.SeverityDefaulted || o.SeverityDefaulted,
		FactorDefaulted:       p.FactorDefaulted || o.FactorDefaulted,
		FloorClamped:          p.FloorClamped || o.FloorClamped,
		CeilingCapped:         p.CeilingCapped || o.CeilingCapped,
		LegalClipped:          p.LegalClipped || o.LegalClipped,
	}
}

// Status summarizes how an outcome was produced.
type Status string

const (
	StatusComputed  Status = "computed"
	StatusDefaulted Status = "defaulted"
	// StatusFallback is used by orchestration layers that could not compute
	// at all and returned FallbackRange.
	StatusFallback Status = "fallback"
)

// Outcome is the full result of a computation.
type Outcome struct {
	Status       Status                `json:"status"`
	Category     CrimeCategory         `json:"category"`
	RuleSet      string                `json:"rule_set"`
	Jurisdiction *ResolvedJurisdiction `json:"jurisdiction,omitempty"`
	Bracket      Bracket               `json:"bracket,omitempty"`
	Result       SentenceResult        `json:"result"`
	Width        float64               `json:"width"`
	Range        SentenceRange         `json:"range"`
	LegalRange   *LegalRange           `json:"legal_range,omitempty"`
	Matches      []MatchResult         `json:"matches,omitempty"`
	Provenance   Provenance            `json:"provenance"`
}

// Engine runs the resolver, adjuster, range converter and optional legal
// clip in sequence. It holds only immutable state.
type Engine struct {
	registry     *Registry
	amountPolicy AmountPolicy
}

type Option func(*Engine)

// WithRegistry replaces the compiled-in rule sets.
func WithRegistry(r *Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.registry = r
		}
	}
}

// WithAmountPolicy sets how invalid or missing amounts are treated.
func WithAmountPolicy(p AmountPolicy) Option {
	return func(e *Engine) {
		e.amountPolicy = p
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{amountPolicy: AmountPolicyPermissive}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = DefaultRegistry()
	}
	return e
}

// Registry returns the rule sets the engine computes with.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// AmountPolicy returns the configured amount policy.
func (e *Engine) AmountPolicy() AmountPolicy {
	return e.amountPolicy
}

// Compute produces an outcome for in. It errors only on contract violations:
// invalid factors, negative counts, invalid width or legal range, and
// invalid amounts under the strict amount policy.
func (e *Engine) Compute(in CaseInput) (*Outcome, error) {
	category := ParseCrimeCategory(string(in.Category))
	rs, dedicated := e.registry.For(category)

	out := &Outcome{
		Category: category,
		RuleSet:  rs.Name(),
	}
	if !dedicated {
		out.Category = CategoryUnclassified
		out.Provenance.CategoryUnclassified = true
	}

	base, err := ResolveBase(rs, BaseInput{
		Jurisdiction:    in.Jurisdiction,
		Amount:          in.Amount,
		Severity:        in.Severity,
		OccurrenceCount: in.OccurrenceCount,
		VictimCount:     in.VictimCount,
	}, e.amountPolicy)
	if err != nil {
		return nil, err
	}
	out.Jurisdiction = base.Jurisdiction
	out.Bracket = base.Bracket
	out.Provenance = out.Provenance.merge(base.Provenance)

	tier1 := append([]Factor(nil), in.Tier1...)
	tier2 := append([]Factor(nil), in.Tier2...)
	for _, d := range in.Tier1Descriptions {
		m := rs.Matcher().Match(Tier1, d)
		out.Matches = append(out.Matches, m)
		tier1 = append(tier1, m.Factor())
	}
	for _, d := range in.Tier2Descriptions {
		m := rs.Matcher().Match(Tier2, d)
		out.Matches = append(out.Matches, m)
		tier2 = append(tier2, m.Factor())
	}
	for _, m := range out.Matches {
		if !m.Matched {
			out.Provenance.FactorDefaulted = true
		}
	}

	result, err := Adjust(base.Months, tier1, tier2)
	if err != nil {
		return nil, err
	}
	out.Provenance.FloorClamped = result.Clamped
	out.Provenance.CeilingCapped = result.Capped

	if in.Width != nil {
		if math.IsNaN(*in.Width) || math.IsInf(*in.Width, 0) || *in.Width < 0 {
			return nil, dErrors.Wrap(ErrInvalidInput, dErrors.CodeInvalidInput, "width must be a finite non-negative number")
		}
		if *in.Width > MaximumMonths {
			return nil, dErrors.Wrap(ErrInvalidInput, dErrors.CodeInvalidInput,
				fmt.Sprintf("width must be at most %d months", MaximumMonths))
		}
		out.Width = *in.Width
	} else {
		out.Width = rs.Width().Width(result.FinalMonths, base.Bracket)
	}
	out.Range = ToRange(result.FinalMonths, out.Width)

	var legal *LegalRange
	switch {
	case in.LegalRange != nil:
		if err := in.LegalRange.validate(); err != nil {
			return nil, dErrors.Wrap(ErrInvalidInput, dErrors.CodeInvalidInput, err.Error())
		}
		l := *in.LegalRange
		legal = &l
	case in.EnforceLegalRange:
		l := rs.legal.Lookup(base.Bracket, in.Severity)
		legal = &l
	}
	if legal != nil {
		clipped := legal.Clip(out.Range)
		if clipped != out.Range {
			result.Steps = append(result.Steps, fmt.Sprintf("legal range [%d, %d]: range [%d, %d] clipped to [%d, %d]",
				legal.Min, legal.Max, out.Range.Min, out.Range.Max, clipped.Min, clipped.Max))
			out.Provenance.LegalClipped = true
			out.Range = clipped
		}
		out.LegalRange = legal
	}

	out.Result = result
	out.Status = StatusComputed
	if out.Provenance.Defaulted() {
		out.Status = StatusDefaulted
	}
	return out, nil
}
