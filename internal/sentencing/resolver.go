package sentencing

import (
	"fmt"
	"math"

	dErrors "sentencer/pkg/domain-errors"
)

// AmountPolicy decides how negative, non-finite or missing amounts are
// treated for amount-keyed categories.
type AmountPolicy string

const (
	// AmountPolicyPermissive treats invalid amounts as below the lowest
	// bracket and missing amounts as the schedule's missing-amount base.
	AmountPolicyPermissive AmountPolicy = "permissive"
	// AmountPolicyStrict rejects invalid and missing amounts.
	AmountPolicyStrict AmountPolicy = "strict"
)

// ParseAmountPolicy accepts "permissive" (also the empty string) and "strict".
func ParseAmountPolicy(s string) (AmountPolicy, error) {
	switch AmountPolicy(s) {
	case "", AmountPolicyPermissive:
		return AmountPolicyPermissive, nil
	case AmountPolicyStrict:
		return AmountPolicyStrict, nil
	}
	return "", fmt.Errorf("unknown amount policy %q", s)
}

// BaseInput carries what the base resolver looks at.
type BaseInput struct {
	Jurisdiction    string
	Amount          *float64
	Severity        string
	OccurrenceCount int
	VictimCount     int
}

// BaseResult is a resolved base sentence with its provenance.
type BaseResult struct {
	Months       int
	Bracket      Bracket
	Thresholds   *AmountThresholds
	Jurisdiction *ResolvedJurisdiction
	Provenance   Provenance
}

// ResolveBase computes the base months of a case under rs. Unknown
// jurisdictions and severities fall back to documented defaults; only
// contract violations return an error.
func ResolveBase(rs *RuleSet, in BaseInput, policy AmountPolicy) (BaseResult, error) {
	if in.OccurrenceCount < 0 || in.VictimCount < 0 {
		return BaseResult{}, dErrors.Wrap(ErrInvalidInput, dErrors.CodeInvalidInput, "counts must not be negative")
	}

	switch {
	case rs.amounts != nil:
		return resolveAmountBase(rs, in, policy)

	case rs.severities != nil:
		months, found := rs.severities.Base(in.Severity, in.VictimCount)
		return BaseResult{
			Months:     months,
			Bracket:    BracketNone,
			Provenance: Provenance{SeverityDefaulted: !found},
		}, nil

	default:
		return BaseResult{Months: rs.fallbackMonths, Bracket: BracketNone}, nil
	}
}

func resolveAmountBase(rs *RuleSet, in BaseInput, policy AmountPolicy) (BaseResult, error) {
	s := rs.amounts
	var res BaseResult

	var thresholds AmountThresholds
	if s.FixedThresholds != nil {
		thresholds = *s.FixedThresholds
	} else {
		th, resolved, ok := rs.jurisdictions.Thresholds(in.Jurisdiction, rs.category)
		if !ok {
			return BaseResult{}, dErrors.Wrap(ErrInvalidRules, dErrors.CodeInternal,
				fmt.Sprintf("no thresholds for category %s", rs.category))
		}
		thresholds = th
		res.Jurisdiction = &resolved
		res.Provenance.JurisdictionDefaulted = resolved.Resolution == ResolutionDefault
	}
	res.Thresholds = &thresholds

	if in.Amount == nil {
		if policy == AmountPolicyStrict {
			return BaseResult{}, dErrors.Wrap(ErrInvalidInput, dErrors.CodeInvalidInput,
				fmt.Sprintf("amount is required for %s", rs.category))
		}
		res.Months = s.MissingMonths
		res.Bracket = BracketNone
		res.Provenance.AmountMissing = true
		return res, nil
	}

	amount := *in.Amount
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		if policy == AmountPolicyStrict {
			return BaseResult{}, dErrors.Wrap(ErrInvalidInput, dErrors.CodeInvalidInput,
				"amount must be a finite non-negative number")
		}
		res.Months = s.BelowMonths
		res.Bracket = BracketBelow
		res.Provenance.AmountCoerced = true
		return res, nil
	}

	res.Months, res.Bracket = s.Base(amount, thresholds, in.OccurrenceCount)
	return res, nil
}
