package sentencing

import (
	"fmt"
	"strings"
)

// Validate clamps months into [minLegal, maxLegal].
func Validate(months, minLegal, maxLegal int) int {
	return max(minLegal, min(months, maxLegal))
}

// LegalRange is a statutory floor and ceiling in months.
type LegalRange struct {
	Min int `json:"min_months" yaml:"min_months"`
	Max int `json:"max_months" yaml:"max_months"`
}

func (l LegalRange) validate() error {
	if l.Min < MinimumMonths || l.Max < l.Min {
		return fmt.Errorf("legal range [%d, %d] must satisfy 1 <= min <= max", l.Min, l.Max)
	}
	return nil
}

// Clip clamps both bounds of r into l. Order is preserved because the clamp
// is monotone.
func (l LegalRange) Clip(r SentenceRange) SentenceRange {
	return SentenceRange{
		Min: Validate(r.Min, l.Min, l.Max),
		Max: Validate(r.Max, l.Min, l.Max),
	}
}

// LegalRangePolicy selects the statutory band for a case.
type LegalRangePolicy struct {
	ByBracket  map[Bracket]LegalRange `json:"by_bracket,omitempty" yaml:"by_bracket,omitempty"`
	BySeverity map[string]LegalRange  `json:"by_severity,omitempty" yaml:"by_severity,omitempty"`
	Default    LegalRange             `json:"default" yaml:"default"`
}

func (p LegalRangePolicy) Validate() error {
	if err := p.Default.validate(); err != nil {
		return fmt.Errorf("default: %w", err)
	}
	for b, l := range p.ByBracket {
		if err := l.validate(); err != nil {
			return fmt.Errorf("bracket %s: %w", b, err)
		}
	}
	for s, l := range p.BySeverity {
		if err := l.validate(); err != nil {
			return fmt.Errorf("severity %s: %w", s, err)
		}
	}
	return nil
}

// Lookup prefers the severity entry, then the bracket entry, then Default.
func (p LegalRangePolicy) Lookup(bracket Bracket, severity string) LegalRange {
	if l, ok := p.BySeverity[strings.TrimSpace(severity)]; ok && severity != "" {
		return l
	}
	if l, ok := p.ByBracket[bracket]; ok {
		return l
	}
	return p.Default
}

func (p LegalRangePolicy) clone() LegalRangePolicy {
	out := LegalRangePolicy{Default: p.Default}
	if p.ByBracket != nil {
		out.ByBracket = make(map[Bracket]LegalRange, len(p.ByBracket))
		for k, v := range p.ByBracket {
			out.ByBracket[k] = v
		}
	}
	if p.BySeverity != nil {
		out.BySeverity = make(map[string]LegalRange, len(p.BySeverity))
		for k, v := range p.BySeverity {
			out.BySeverity[k] = v
		}
	}
	return out
}
