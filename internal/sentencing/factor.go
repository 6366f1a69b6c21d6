package sentencing

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	dErrors "sentencer/pkg/domain-errors"
)

// Tier identifies how a factor is applied.
type Tier int

const (
	// Tier1 factors are statutory and applied by successive multiplication.
	Tier1 Tier = 1
	// Tier2 factors are discretionary; their ratio-1 deltas are summed and
	// applied once.
	Tier2 Tier = 2
)

// ParseTier accepts 1, 2, "tier1" or "tier2".
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "tier1", "tier_1":
		return Tier1, nil
	case "2", "tier2", "tier_2":
		return Tier2, nil
	}
	return 0, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown factor tier %q", s))
}

func (t Tier) Valid() bool {
	return t == Tier1 || t == Tier2
}

func (t Tier) String() string {
	return fmt.Sprintf("tier%d", int(t))
}

// Factor is a named sentencing multiplier. Ratios in (0,1) mitigate, ratios
// above 1 aggravate and 1 is neutral.
type Factor struct {
	Name  string  `json:"name"`
	Ratio float64 `json:"ratio"`
}

// UnmarshalJSON also accepts the legacy "factor" key for the name.
func (f *Factor) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name   string  `json:"name"`
		Factor string  `json:"factor"`
		Ratio  float64 `json:"ratio"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f.Name = raw.Name
	if f.Name == "" {
		f.Name = raw.Factor
	}
	f.Ratio = raw.Ratio
	return nil
}

// MaxFactorRatio is the largest ratio a single factor may carry.
const MaxFactorRatio = 10

// Validate enforces the factor contract: a name and a ratio in
// (0, MaxFactorRatio].
func (f Factor) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return dErrors.Wrap(ErrInvalidFactor, dErrors.CodeInvalidInput, "factor name is required")
	}
	if math.IsNaN(f.Ratio) || math.IsInf(f.Ratio, 0) || f.Ratio <= 0 {
		return dErrors.Wrap(ErrInvalidFactor, dErrors.CodeInvalidInput,
			fmt.Sprintf("factor %q ratio must be a finite number greater than zero", f.Name))
	}
	if f.Ratio > MaxFactorRatio {
		return dErrors.Wrap(ErrInvalidFactor, dErrors.CodeInvalidInput,
			fmt.Sprintf("factor %q ratio must be at most %d", f.Name, MaxFactorRatio))
	}
	return nil
}

func validateFactors(tier Tier, factors []Factor) error {
	for i, f := range factors {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("%s factor %d: %w", tier, i, err)
		}
	}
	return nil
}
