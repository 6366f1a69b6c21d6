package sentencing

import "strings"

// CrimeCategory selects the rule set used for a computation. The engine never
// infers it; callers supply it.
type CrimeCategory string

const (
	CategoryTheft             CrimeCategory = "theft"
	CategoryFraud             CrimeCategory = "fraud"
	CategoryIntentionalInjury CrimeCategory = "intentional_injury"
	CategoryEmbezzlement      CrimeCategory = "embezzlement"

	// CategoryUnclassified marks input whose category tag is not recognized.
	// It is a result classification, never an error.
	CategoryUnclassified CrimeCategory = "unclassified"
)

var categoryAliases = map[string]CrimeCategory{
	"theft":              CategoryTheft,
	"盗窃":                 CategoryTheft,
	"盗窃罪":                CategoryTheft,
	"fraud":              CategoryFraud,
	"诈骗":                 CategoryFraud,
	"诈骗罪":                CategoryFraud,
	"intentional_injury": CategoryIntentionalInjury,
	"intentional-injury": CategoryIntentionalInjury,
	"故意伤害":               CategoryIntentionalInjury,
	"故意伤害罪":              CategoryIntentionalInjury,
	"embezzlement":       CategoryEmbezzlement,
	"职务侵占":               CategoryEmbezzlement,
	"职务侵占罪":              CategoryEmbezzlement,
}

// ParseCrimeCategory maps an English tag or statutory charge name onto a
// category. Unknown values yield CategoryUnclassified.
func ParseCrimeCategory(s string) CrimeCategory {
	if c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c
	}
	return CategoryUnclassified
}

func (c CrimeCategory) String() string {
	return string(c)
}

// IsKnown reports whether c is one of the supported categories.
func (c CrimeCategory) IsKnown() bool {
	switch c {
	case CategoryTheft, CategoryFraud, CategoryIntentionalInjury, CategoryEmbezzlement:
		return true
	}
	return false
}

// IsAmountKeyed reports whether the base sentence depends on a monetary amount.
func (c CrimeCategory) IsAmountKeyed() bool {
	switch c {
	case CategoryTheft, CategoryFraud, CategoryEmbezzlement:
		return true
	}
	return false
}
