package sentencing

import (
	"fmt"
	"strings"
)

// NeutralFactorName is reported when no coefficient table entry matches.
const NeutralFactorName = "一般情节"

// CoefficientEntry maps a phrase to a canonical factor. Pattern defaults to
// Name when empty.
type CoefficientEntry struct {
	Pattern string  `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Name    string  `json:"name" yaml:"name"`
	Ratio   float64 `json:"ratio" yaml:"ratio"`
}

func (e CoefficientEntry) pattern() string {
	if e.Pattern != "" {
		return e.Pattern
	}
	return e.Name
}

// CoefficientTable holds the ordered entries of both tiers. Order decides
// which entry wins when patterns overlap.
type CoefficientTable struct {
	Tier1 []CoefficientEntry `json:"tier1" yaml:"tier1"`
	Tier2 []CoefficientEntry `json:"tier2" yaml:"tier2"`
}

func (t CoefficientTable) Validate() error {
	for tier, entries := range [][]CoefficientEntry{t.Tier1, t.Tier2} {
		for i, e := range entries {
			f := Factor{Name: e.Name, Ratio: e.Ratio}
			if err := f.Validate(); err != nil {
				return fmt.Errorf("tier%d entry %d: %w", tier+1, i, err)
			}
		}
	}
	return nil
}

func (t CoefficientTable) clone() CoefficientTable {
	return CoefficientTable{
		Tier1: append([]CoefficientEntry(nil), t.Tier1...),
		Tier2: append([]CoefficientEntry(nil), t.Tier2...),
	}
}

// MatchResult is a resolved free-text factor.
type MatchResult struct {
	Tier        Tier    `json:"tier"`
	Description string  `json:"description"`
	Name        string  `json:"name"`
	Ratio       float64 `json:"ratio"`
	Reason      string  `json:"reason"`
	Matched     bool    `json:"matched"`
}

// Factor converts the match into an adjustable factor.
func (m MatchResult) Factor() Factor {
	return Factor{Name: m.Name, Ratio: m.Ratio}
}

// Matcher resolves free-text descriptions against a coefficient table by
// substring containment. The first entry whose pattern occurs in the text
// wins; no match yields the neutral factor.
type Matcher struct {
	table CoefficientTable
}

func NewMatcher(table CoefficientTable) (*Matcher, error) {
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}
	return &Matcher{table: table.clone()}, nil
}

func (m *Matcher) Match(tier Tier, text string) MatchResult {
	res := MatchResult{Tier: tier, Description: text}

	var entries []CoefficientEntry
	switch tier {
	case Tier1:
		entries = m.table.Tier1
	case Tier2:
		entries = m.table.Tier2
	}

	for _, e := range entries {
		p := e.pattern()
		if p != "" && strings.Contains(text, p) {
			res.Name, res.Ratio, res.Matched = e.Name, e.Ratio, true
			res.Reason = fmt.Sprintf("matched %q", p)
			return res
		}
	}

	res.Name, res.Ratio = NeutralFactorName, 1.0
	res.Reason = "no table entry matched; neutral default applied"
	return res
}

// Table returns a copy of the coefficient table.
func (m *Matcher) Table() CoefficientTable {
	return m.table.clone()
}
