package sentencing

import (
	"fmt"
	"math"
)

// StatutoryCeilingMonths bounds every base sentence.
const StatutoryCeilingMonths = 180

// Bracket classifies an amount against a jurisdiction's thresholds.
type Bracket string

const (
	BracketNone           Bracket = ""
	BracketBelow          Bracket = "below"
	BracketLarge          Bracket = "large"
	BracketHuge           Bracket = "huge"
	BracketEspeciallyHuge Bracket = "especially_huge"
)

// ClassifyAmount returns the bracket containing amount. Lower bounds are
// inclusive.
func ClassifyAmount(amount float64, t AmountThresholds) Bracket {
	switch {
	case amount < t.Large:
		return BracketBelow
	case amount < t.Huge:
		return BracketLarge
	case amount < t.EspeciallyHuge:
		return BracketHuge
	default:
		return BracketEspeciallyHuge
	}
}

// BandMode selects how months grow inside a bracket.
type BandMode string

const (
	// BandStepped adds Increment months per whole Step above the floor amount.
	BandStepped BandMode = "stepped"
	// BandInterpolated spreads Floor..Ceiling linearly across the bracket span.
	BandInterpolated BandMode = "interpolated"
)

// Band is the base-sentence policy of one bracket.
type Band struct {
	Floor     float64  `json:"floor" yaml:"floor"`
	Ceiling   float64  `json:"ceiling" yaml:"ceiling"`
	Step      float64  `json:"step,omitempty" yaml:"step,omitempty"`
	Increment float64  `json:"increment,omitempty" yaml:"increment,omitempty"`
	Mode      BandMode `json:"mode" yaml:"mode"`
}

func (b Band) validate() error {
	if b.Floor < 1 || b.Ceiling < b.Floor {
		return fmt.Errorf("band floor %v and ceiling %v must satisfy 1 <= floor <= ceiling", b.Floor, b.Ceiling)
	}
	switch b.Mode {
	case BandStepped:
		if !(b.Step > 0) || b.Increment < 0 {
			return fmt.Errorf("stepped band needs a positive step and non-negative increment")
		}
	case BandInterpolated:
	default:
		return fmt.Errorf("unknown band mode %q", b.Mode)
	}
	return nil
}

// months computes the whole-month base for an amount excess over the bracket
// floor. span is the width of the bracket and is only used when interpolating.
func (b Band) months(excess, span float64) int {
	var v float64
	switch b.Mode {
	case BandInterpolated:
		if span > 0 {
			v = b.Floor + math.Trunc(excess/span*(b.Ceiling-b.Floor))
		} else {
			v = b.Floor
		}
	default:
		v = b.Floor + math.Trunc(excess/b.Step)*b.Increment
	}
	return int(math.Min(math.Trunc(v), b.Ceiling))
}

// OccurrencePolicy adds months for repeated offences: Months per whole
// PerOccurrences above Threshold.
type OccurrencePolicy struct {
	Threshold      int `json:"threshold" yaml:"threshold"`
	PerOccurrences int `json:"per_occurrences" yaml:"per_occurrences"`
	Months         int `json:"months" yaml:"months"`
}

func (p OccurrencePolicy) extra(count int) int {
	if count <= p.Threshold || p.PerOccurrences <= 0 {
		return 0
	}
	return (count - p.Threshold) / p.PerOccurrences * p.Months
}

// AmountSchedule is the base policy of an amount-keyed category.
type AmountSchedule struct {
	BelowMonths    int               `json:"below_months" yaml:"below_months"`
	MissingMonths  int               `json:"missing_months" yaml:"missing_months"`
	Large          Band              `json:"large" yaml:"large"`
	Huge           Band              `json:"huge" yaml:"huge"`
	EspeciallyHuge Band              `json:"especially_huge" yaml:"especially_huge"`
	Occurrence     *OccurrencePolicy `json:"occurrence,omitempty" yaml:"occurrence,omitempty"`
	// FixedThresholds replaces the jurisdiction lookup when set.
	FixedThresholds *AmountThresholds `json:"fixed_thresholds,omitempty" yaml:"fixed_thresholds,omitempty"`
}

// Validate checks each band and that bands never overlap downwards, which
// keeps the base non-decreasing in the amount.
func (s AmountSchedule) Validate() error {
	if s.BelowMonths < 1 || s.MissingMonths < 1 {
		return fmt.Errorf("below_months and missing_months must be at least 1")
	}
	bands := []struct {
		name string
		band Band
	}{{"large", s.Large}, {"huge", s.Huge}, {"especially_huge", s.EspeciallyHuge}}
	for _, b := range bands {
		if err := b.band.validate(); err != nil {
			return fmt.Errorf("%s: %w", b.name, err)
		}
	}
	if float64(s.BelowMonths) > s.Large.Floor ||
		s.Large.Ceiling > s.Huge.Floor ||
		s.Huge.Ceiling > s.EspeciallyHuge.Floor {
		return fmt.Errorf("band ceilings must not exceed the next band floor")
	}
	if s.EspeciallyHuge.Ceiling > StatutoryCeilingMonths {
		return fmt.Errorf("especially_huge ceiling exceeds %d months", StatutoryCeilingMonths)
	}
	if s.FixedThresholds != nil {
		if err := s.FixedThresholds.Validate(); err != nil {
			return fmt.Errorf("fixed_thresholds: %w", err)
		}
	}
	if s.Occurrence != nil && (s.Occurrence.Threshold < 0 || s.Occurrence.PerOccurrences < 1 || s.Occurrence.Months < 0) {
		return fmt.Errorf("occurrence policy needs threshold >= 0, per_occurrences >= 1, months >= 0")
	}
	return nil
}

// Base returns the base months for amount under thresholds, along with the
// bracket it fell in.
func (s AmountSchedule) Base(amount float64, t AmountThresholds, occurrences int) (int, Bracket) {
	bracket := ClassifyAmount(amount, t)

	var months int
	switch bracket {
	case BracketBelow:
		months = s.BelowMonths
	case BracketLarge:
		months = s.Large.months(amount-t.Large, t.Huge-t.Large)
	case BracketHuge:
		months = s.Huge.months(amount-t.Huge, t.EspeciallyHuge-t.Huge)
	case BracketEspeciallyHuge:
		months = s.EspeciallyHuge.months(amount-t.EspeciallyHuge, 0)
	}

	if s.Occurrence != nil {
		months += s.Occurrence.extra(occurrences)
	}
	return clampInt(months, 1, StatutoryCeilingMonths), bracket
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
