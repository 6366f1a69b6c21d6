package sentencing

import (
	"fmt"
	"sort"
)

// RuleSetConfig is the mutable description a RuleSet is built from.
type RuleSetConfig struct {
	Name           string
	Category       CrimeCategory
	Amounts        *AmountSchedule
	Severities     *SeveritySchedule
	FallbackMonths int
	Coefficients   CoefficientTable
	Width          WidthConfig
	LegalRanges    LegalRangePolicy
}

// RuleSet bundles the tables one category is computed with. It is immutable
// and safe to share between goroutines.
type RuleSet struct {
	name           string
	category       CrimeCategory
	jurisdictions  *JurisdictionTable
	amounts        *AmountSchedule
	severities     *SeveritySchedule
	fallbackMonths int
	matcher        *Matcher
	width          WidthPolicy
	widthConfig    WidthConfig
	legal          LegalRangePolicy
}

// NewRuleSet validates cfg and freezes a copy of it.
func NewRuleSet(cfg RuleSetConfig, jurisdictions *JurisdictionTable) (*RuleSet, error) {
	wrap := func(err error) error {
		return fmt.Errorf("%w: rule set %q: %v", ErrInvalidRules, cfg.Name, err)
	}
	if cfg.Name == "" {
		return nil, fmt.Errorf("%w: rule set name is required", ErrInvalidRules)
	}
	if cfg.Amounts != nil && cfg.Severities != nil {
		return nil, wrap(fmt.Errorf("amount and severity schedules are mutually exclusive"))
	}
	if cfg.FallbackMonths < 1 || cfg.FallbackMonths > StatutoryCeilingMonths {
		return nil, wrap(fmt.Errorf("fallback_months must be within 1..%d", StatutoryCeilingMonths))
	}

	rs := &RuleSet{
		name:           cfg.Name,
		category:       cfg.Category,
		fallbackMonths: cfg.FallbackMonths,
		widthConfig:    cfg.Width,
		legal:          cfg.LegalRanges.clone(),
	}

	if cfg.Amounts != nil {
		if err := cfg.Amounts.Validate(); err != nil {
			return nil, wrap(err)
		}
		if cfg.Amounts.FixedThresholds == nil && jurisdictions == nil {
			return nil, wrap(fmt.Errorf("amount schedule needs a jurisdiction table or fixed thresholds"))
		}
		amounts := *cfg.Amounts
		if amounts.Occurrence != nil {
			o := *amounts.Occurrence
			amounts.Occurrence = &o
		}
		if amounts.FixedThresholds != nil {
			t := *amounts.FixedThresholds
			amounts.FixedThresholds = &t
		}
		rs.amounts = &amounts
		rs.jurisdictions = jurisdictions
	}
	if cfg.Severities != nil {
		if err := cfg.Severities.Validate(); err != nil {
			return nil, wrap(err)
		}
		sev := cfg.Severities.clone()
		rs.severities = &sev
	}

	matcher, err := NewMatcher(cfg.Coefficients)
	if err != nil {
		return nil, wrap(err)
	}
	rs.matcher = matcher

	width, err := cfg.Width.Policy()
	if err != nil {
		return nil, wrap(err)
	}
	rs.width = width

	if err := rs.legal.Validate(); err != nil {
		return nil, wrap(err)
	}
	return rs, nil
}

func (r *RuleSet) Name() string                      { return r.name }
func (r *RuleSet) Category() CrimeCategory           { return r.category }
func (r *RuleSet) Jurisdictions() *JurisdictionTable { return r.jurisdictions }
func (r *RuleSet) Matcher() *Matcher                 { return r.matcher }
func (r *RuleSet) Width() WidthPolicy                { return r.width }
func (r *RuleSet) LegalRanges() LegalRangePolicy     { return r.legal.clone() }

// AmountKeyed reports whether the rule set resolves bases from amounts.
func (r *RuleSet) AmountKeyed() bool { return r.amounts != nil }

// SeverityKeyed reports whether the rule set resolves bases from severity.
func (r *RuleSet) SeverityKeyed() bool { return r.severities != nil }

// Config returns a deep copy of the configuration the rule set was built from.
func (r *RuleSet) Config() RuleSetConfig {
	cfg := RuleSetConfig{
		Name:           r.name,
		Category:       r.category,
		FallbackMonths: r.fallbackMonths,
		Coefficients:   r.matcher.Table(),
		Width:          r.widthConfig,
		LegalRanges:    r.legal.clone(),
	}
	if r.amounts != nil {
		a := *r.amounts
		if a.Occurrence != nil {
			o := *a.Occurrence
			a.Occurrence = &o
		}
		if a.FixedThresholds != nil {
			t := *a.FixedThresholds
			a.FixedThresholds = &t
		}
		cfg.Amounts = &a
	}
	if r.severities != nil {
		s := r.severities.clone()
		cfg.Severities = &s
	}
	return cfg
}

// Registry selects a RuleSet by category. Unknown categories get the
// fallback rule set.
type Registry struct {
	jurisdictions *JurisdictionTable
	sets          map[CrimeCategory]*RuleSet
	fallback      *RuleSet
}

// NewRegistry indexes sets by category. Duplicate categories are rejected.
func NewRegistry(jurisdictions *JurisdictionTable, fallback *RuleSet, sets ...*RuleSet) (*Registry, error) {
	if fallback == nil {
		return nil, fmt.Errorf("%w: fallback rule set is required", ErrInvalidRules)
	}
	r := &Registry{
		jurisdictions: jurisdictions,
		sets:          make(map[CrimeCategory]*RuleSet, len(sets)),
		fallback:      fallback,
	}
	for _, rs := range sets {
		if !rs.category.IsKnown() {
			return nil, fmt.Errorf("%w: rule set %q has unsupported category %q", ErrInvalidRules, rs.name, rs.category)
		}
		if _, dup := r.sets[rs.category]; dup {
			return nil, fmt.Errorf("%w: duplicate rule set for category %q", ErrInvalidRules, rs.category)
		}
		r.sets[rs.category] = rs
	}
	return r, nil
}

// For returns the rule set for c and whether it was a dedicated one.
func (r *Registry) For(c CrimeCategory) (*RuleSet, bool) {
	if rs, ok := r.sets[c]; ok {
		return rs, true
	}
	return r.fallback, false
}

// Fallback returns the rule set used for unclassified input.
func (r *Registry) Fallback() *RuleSet { return r.fallback }

// Jurisdictions returns the shared jurisdiction table.
func (r *Registry) Jurisdictions() *JurisdictionTable { return r.jurisdictions }

// RuleSets lists the dedicated rule sets ordered by category.
func (r *Registry) RuleSets() []*RuleSet {
	out := make([]*RuleSet, 0, len(r.sets))
	for _, rs := range r.sets {
		out = append(out, rs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].category < out[j].category })
	return out
}
