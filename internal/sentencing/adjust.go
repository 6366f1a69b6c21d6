package sentencing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// MinimumMonths is the floor applied to every adjusted sentence.
	MinimumMonths = 1
	// MaximumMonths caps adjusted sentences and range bounds at the longest
	// combined fixed term.
	MaximumMonths = 300
)

// SentenceResult is the adjusted point estimate and the ordered trace of
// every arithmetic step that produced it.
type SentenceResult struct {
	FinalMonths float64  `json:"final_months"`
	BaseMonths  int      `json:"base_months"`
	Steps       []string `json:"steps"`
	Clamped     bool     `json:"clamped"`
	Capped      bool     `json:"capped,omitempty"`
}

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Adjust applies Tier 1 factors by successive multiplication, then the summed
// Tier 2 deltas once, then the one-month floor. Arithmetic runs on decimals
// built from the shortest representation of each ratio, so a +30% and a -30%
// factor cancel exactly. The final value is rounded to two places.
func Adjust(baseMonths int, tier1, tier2 []Factor) (SentenceResult, error) {
	if err := validateFactors(Tier1, tier1); err != nil {
		return SentenceResult{}, err
	}
	if err := validateFactors(Tier2, tier2); err != nil {
		return SentenceResult{}, err
	}

	res := SentenceResult{BaseMonths: baseMonths}
	res.Steps = append(res.Steps, fmt.Sprintf("base: %d months", baseMonths))

	current := decimal.NewFromInt(int64(baseMonths))

	if len(tier1) > 0 {
		product := one
		for _, f := range tier1 {
			ratio := decimal.NewFromFloat(f.Ratio)
			product = product.Mul(ratio)
			res.Steps = append(res.Steps, fmt.Sprintf("tier1 %s: x%s (product %s, subtotal %s months)",
				f.Name, ratio.String(), product.String(), current.Mul(product).StringFixed(2)))
		}
		current = current.Mul(product)
		res.Steps = append(res.Steps, fmt.Sprintf("tier1 result: %s months", current.StringFixed(2)))
	}

	if len(tier2) > 0 {
		net := decimal.Zero
		for _, f := range tier2 {
			delta := decimal.NewFromFloat(f.Ratio).Sub(one)
			net = net.Add(delta)
			res.Steps = append(res.Steps, fmt.Sprintf("tier2 %s: %s (net %s)",
				f.Name, signedPercent(delta), signedPercent(net)))
		}
		current = current.Mul(one.Add(net))
		res.Steps = append(res.Steps, fmt.Sprintf("tier2 result: %s months", current.StringFixed(2)))
	}

	if current.LessThan(decimal.NewFromInt(MinimumMonths)) {
		res.Steps = append(res.Steps, fmt.Sprintf("clamp: %s months is below the %d month floor, raised to %d",
			current.StringFixed(2), MinimumMonths, MinimumMonths))
		current = decimal.NewFromInt(MinimumMonths)
		res.Clamped = true
	}
	if current.GreaterThan(decimal.NewFromInt(MaximumMonths)) {
		res.Steps = append(res.Steps, fmt.Sprintf("cap: %s months is above the %d month ceiling, lowered to %d",
			current.StringFixed(2), MaximumMonths, MaximumMonths))
		current = decimal.NewFromInt(MaximumMonths)
		res.Capped = true
	}

	res.FinalMonths = current.Round(2).InexactFloat64()
	return res, nil
}

func signedPercent(d decimal.Decimal) string {
	pct := d.Mul(hundred)
	if pct.IsPositive() {
		return "+" + pct.String() + "%"
	}
	return pct.String() + "%"
}
