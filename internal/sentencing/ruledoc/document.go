// Package ruledoc loads and dumps sentencing rule tables as YAML, TOML or
// JSON documents. Monetary values are decimals so thresholds survive a round
// trip unchanged.
package ruledoc

import "github.com/shopspring/decimal"

// CurrentVersion is the document schema version written by Encode.
const CurrentVersion = 1

// Document is the serialized form of a sentencing registry. Omitted sections
// fall back to the compiled-in tables.
type Document struct {
	Version       int                              `json:"version" yaml:"version" toml:"version"`
	Jurisdictions map[string]map[string]Thresholds `json:"jurisdictions,omitempty" yaml:"jurisdictions,omitempty" toml:"jurisdictions,omitempty"`
	CitySynonyms  map[string]string                `json:"city_synonyms,omitempty" yaml:"city_synonyms,omitempty" toml:"city_synonyms,omitempty"`
	Fallback      *RuleSet                         `json:"fallback,omitempty" yaml:"fallback,omitempty" toml:"fallback,omitempty"`
	RuleSets      []RuleSet                        `json:"rule_sets,omitempty" yaml:"rule_sets,omitempty" toml:"rule_sets,omitempty"`
}

// Thresholds are the monetary cut-offs of one jurisdiction and category.
type Thresholds struct {
	Large          decimal.Decimal `json:"large" yaml:"large" toml:"large"`
	Huge           decimal.Decimal `json:"huge" yaml:"huge" toml:"huge"`
	EspeciallyHuge decimal.Decimal `json:"especially_huge" yaml:"especially_huge" toml:"especially_huge"`
}

type RuleSet struct {
	Name           string       `json:"name" yaml:"name" toml:"name"`
	Category       string       `json:"category" yaml:"category" toml:"category"`
	FallbackMonths int          `json:"fallback_months,omitempty" yaml:"fallback_months,omitempty" toml:"fallback_months,omitempty"`
	Amounts        *Amounts     `json:"amounts,omitempty" yaml:"amounts,omitempty" toml:"amounts,omitempty"`
	Severities     *Severities  `json:"severities,omitempty" yaml:"severities,omitempty" toml:"severities,omitempty"`
	Coefficients   Coefficients `json:"coefficients" yaml:"coefficients" toml:"coefficients"`
	Width          Width        `json:"width" yaml:"width" toml:"width"`
	LegalRanges    LegalRanges  `json:"legal_ranges" yaml:"legal_ranges" toml:"legal_ranges"`
}

type Amounts struct {
	BelowMonths     int         `json:"below_months" yaml:"below_months" toml:"below_months"`
	MissingMonths   int         `json:"missing_months,omitempty" yaml:"missing_months,omitempty" toml:"missing_months,omitempty"`
	Large           Band        `json:"large" yaml:"large" toml:"large"`
	Huge            Band        `json:"huge" yaml:"huge" toml:"huge"`
	EspeciallyHuge  Band        `json:"especially_huge" yaml:"especially_huge" toml:"especially_huge"`
	Occurrence      *Occurrence `json:"occurrence,omitempty" yaml:"occurrence,omitempty" toml:"occurrence,omitempty"`
	FixedThresholds *Thresholds `json:"fixed_thresholds,omitempty" yaml:"fixed_thresholds,omitempty" toml:"fixed_thresholds,omitempty"`
}

type Band struct {
	Mode      string          `json:"mode,omitempty" yaml:"mode,omitempty" toml:"mode,omitempty"`
	Floor     float64         `json:"floor" yaml:"floor" toml:"floor"`
	Ceiling   float64         `json:"ceiling" yaml:"ceiling" toml:"ceiling"`
	Step      decimal.Decimal `json:"step" yaml:"step" toml:"step"`
	Increment float64         `json:"increment,omitempty" yaml:"increment,omitempty" toml:"increment,omitempty"`
}

type Occurrence struct {
	Threshold      int `json:"threshold" yaml:"threshold" toml:"threshold"`
	PerOccurrences int `json:"per_occurrences" yaml:"per_occurrences" toml:"per_occurrences"`
	Months         int `json:"months" yaml:"months" toml:"months"`
}

type Severities struct {
	Months        map[string]int `json:"months" yaml:"months" toml:"months"`
	DefaultMonths int            `json:"default_months,omitempty" yaml:"default_months,omitempty" toml:"default_months,omitempty"`
	Victims       *Victims       `json:"victims,omitempty" yaml:"victims,omitempty" toml:"victims,omitempty"`
}

type Victims struct {
	PerExtraVictim float64 `json:"per_extra_victim" yaml:"per_extra_victim" toml:"per_extra_victim"`
	MaxIncrease    float64 `json:"max_increase" yaml:"max_increase" toml:"max_increase"`
}

// Coefficients lists table entries in match order.
type Coefficients struct {
	Tier1 []Coefficient `json:"tier1" yaml:"tier1" toml:"tier1"`
	Tier2 []Coefficient `json:"tier2" yaml:"tier2" toml:"tier2"`
}

type Coefficient struct {
	Pattern string  `json:"pattern,omitempty" yaml:"pattern,omitempty" toml:"pattern,omitempty"`
	Name    string  `json:"name" yaml:"name" toml:"name"`
	Ratio   float64 `json:"ratio" yaml:"ratio" toml:"ratio"`
}

type Width struct {
	Mode  string  `json:"mode,omitempty" yaml:"mode,omitempty" toml:"mode,omitempty"`
	Fixed float64 `json:"fixed,omitempty" yaml:"fixed,omitempty" toml:"fixed,omitempty"`
	Ratio float64 `json:"ratio,omitempty" yaml:"ratio,omitempty" toml:"ratio,omitempty"`
	Min   float64 `json:"min,omitempty" yaml:"min,omitempty" toml:"min,omitempty"`
	Max   float64 `json:"max,omitempty" yaml:"max,omitempty" toml:"max,omitempty"`
	Low   float64 `json:"low,omitempty" yaml:"low,omitempty" toml:"low,omitempty"`
	Mid   float64 `json:"mid,omitempty" yaml:"mid,omitempty" toml:"mid,omitempty"`
	High  float64 `json:"high,omitempty" yaml:"high,omitempty" toml:"high,omitempty"`
}

type LegalRanges struct {
	ByBracket  map[string]Range `json:"by_bracket,omitempty" yaml:"by_bracket,omitempty" toml:"by_bracket,omitempty"`
	BySeverity map[string]Range `json:"by_severity,omitempty" yaml:"by_severity,omitempty" toml:"by_severity,omitempty"`
	Default    Range            `json:"default" yaml:"default" toml:"default"`
}

type Range struct {
	Min int `json:"min_months" yaml:"min_months" toml:"min_months"`
	Max int `json:"max_months" yaml:"max_months" toml:"max_months"`
}
