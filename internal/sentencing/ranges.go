package sentencing

import (
	"fmt"
	"math"
)

// SentenceRange is a closed interval of months; both bounds are at least 1.
type SentenceRange struct {
	Min int `json:"min_months"`
	Max int `json:"max_months"`
}

// FallbackRange is returned by orchestration layers when no computation
// could be produced at all.
var FallbackRange = SentenceRange{Min: 6, Max: 12}

// ToRange turns a point estimate into [center-width/2, center+width/2].
// Bounds are rounded half to even and clamped to [MinimumMonths,
// MaximumMonths] independently.
func ToRange(center, width float64) SentenceRange {
	half := width / 2
	return SentenceRange{
		Min: boundMonths(center - half),
		Max: boundMonths(center + half),
	}
}

// boundMonths clamps before the int conversion so huge or non-finite values
// cannot overflow.
func boundMonths(v float64) int {
	if math.IsNaN(v) {
		return MinimumMonths
	}
	return int(math.RoundToEven(math.Max(MinimumMonths, math.Min(MaximumMonths, v))))
}

// WidthPolicy derives a range width when the caller supplies none.
type WidthPolicy interface {
	Width(center float64, bracket Bracket) float64
}

// FixedWidth always returns the same width.
type FixedWidth float64

func (w FixedWidth) Width(float64, Bracket) float64 {
	return float64(w)
}

// ScaledWidth is Ratio*center clamped to [Min, Max].
type ScaledWidth struct {
	Ratio float64
	Min   float64
	Max   float64
}

func (w ScaledWidth) Width(center float64, _ Bracket) float64 {
	return math.Max(w.Min, math.Min(w.Max, center*w.Ratio))
}

// BracketWidth picks a width by the amount bracket: Low for below and large,
// Mid for huge and for cases with no bracket, High for especially huge.
type BracketWidth struct {
	Low  float64
	Mid  float64
	High float64
}

func (w BracketWidth) Width(_ float64, bracket Bracket) float64 {
	switch bracket {
	case BracketBelow, BracketLarge:
		return w.Low
	case BracketEspeciallyHuge:
		return w.High
	default:
		return w.Mid
	}
}

// WidthMode names a width policy in configuration documents.
type WidthMode string

const (
	WidthFixed   WidthMode = "fixed"
	WidthScaled  WidthMode = "scaled"
	WidthBracket WidthMode = "bracket"
)

// WidthConfig is the serializable form of a width policy.
type WidthConfig struct {
	Mode  WidthMode `json:"mode" yaml:"mode"`
	Fixed float64   `json:"fixed,omitempty" yaml:"fixed,omitempty"`
	Ratio float64   `json:"ratio,omitempty" yaml:"ratio,omitempty"`
	Min   float64   `json:"min,omitempty" yaml:"min,omitempty"`
	Max   float64   `json:"max,omitempty" yaml:"max,omitempty"`
	Low   float64   `json:"low,omitempty" yaml:"low,omitempty"`
	Mid   float64   `json:"mid,omitempty" yaml:"mid,omitempty"`
	High  float64   `json:"high,omitempty" yaml:"high,omitempty"`
}

// DefaultWidth is width = clamp(center*0.15, 6, 12).
var DefaultWidth = WidthConfig{Mode: WidthScaled, Ratio: 0.15, Min: 6, Max: 12}

// Policy builds the configured policy.
func (c WidthConfig) Policy() (WidthPolicy, error) {
	switch c.Mode {
	case WidthFixed:
		if !(c.Fixed >= 0) {
			return nil, fmt.Errorf("fixed width must be non-negative")
		}
		return FixedWidth(c.Fixed), nil
	case WidthScaled:
		if !(c.Ratio > 0) || c.Min < 0 || c.Max < c.Min {
			return nil, fmt.Errorf("scaled width needs ratio > 0 and 0 <= min <= max")
		}
		return ScaledWidth{Ratio: c.Ratio, Min: c.Min, Max: c.Max}, nil
	case WidthBracket:
		if c.Low < 0 || c.Mid < 0 || c.High < 0 {
			return nil, fmt.Errorf("bracket widths must be non-negative")
		}
		return BracketWidth{Low: c.Low, Mid: c.Mid, High: c.High}, nil
	}
	return nil, fmt.Errorf("unknown width mode %q", c.Mode)
}
