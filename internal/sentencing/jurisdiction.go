package sentencing

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultJurisdiction is the fallback entry every table must carry.
const DefaultJurisdiction = "default"

// AmountThresholds are the ascending monetary cut-offs of one jurisdiction
// for one amount-keyed category.
type AmountThresholds struct {
	Large          float64 `json:"large" yaml:"large"`
	Huge           float64 `json:"huge" yaml:"huge"`
	EspeciallyHuge float64 `json:"especially_huge" yaml:"especially_huge"`
}

// Validate enforces 0 < large < huge < especially_huge.
func (t AmountThresholds) Validate() error {
	if !(t.Large > 0) {
		return fmt.Errorf("large threshold must be positive, got %v", t.Large)
	}
	if !(t.Large < t.Huge && t.Huge < t.EspeciallyHuge) {
		return fmt.Errorf("thresholds must ascend: large=%v huge=%v especially_huge=%v",
			t.Large, t.Huge, t.EspeciallyHuge)
	}
	return nil
}

// JurisdictionStandard holds the thresholds of one jurisdiction keyed by
// category. Severity-keyed categories have no entry.
type JurisdictionStandard map[CrimeCategory]AmountThresholds

// Resolution records which lookup stage produced a jurisdiction.
type Resolution string

const (
	ResolutionExact   Resolution = "exact"
	ResolutionSynonym Resolution = "synonym"
	ResolutionDefault Resolution = "default"
)

// ResolvedJurisdiction is the outcome of a table lookup.
type ResolvedJurisdiction struct {
	Requested  string     `json:"requested"`
	Key        string     `json:"key"`
	Resolution Resolution `json:"resolution"`
}

// JurisdictionTable maps jurisdiction keys, and city synonyms of them, to
// their standards. It is read-only after construction.
type JurisdictionTable struct {
	standards map[string]JurisdictionStandard
	synonyms  map[string]string
}

// NewJurisdictionTable validates and copies the given data.
func NewJurisdictionTable(standards map[string]JurisdictionStandard, synonyms map[string]string) (*JurisdictionTable, error) {
	def, ok := standards[DefaultJurisdiction]
	if !ok {
		return nil, fmt.Errorf("%w: jurisdiction table has no %q entry", ErrInvalidRules, DefaultJurisdiction)
	}
	if len(def) == 0 {
		return nil, fmt.Errorf("%w: %q entry has no thresholds", ErrInvalidRules, DefaultJurisdiction)
	}

	t := &JurisdictionTable{
		standards: make(map[string]JurisdictionStandard, len(standards)),
		synonyms:  make(map[string]string, len(synonyms)),
	}
	for key, std := range standards {
		copied := make(JurisdictionStandard, len(std))
		for cat, th := range std {
			if err := th.Validate(); err != nil {
				return nil, fmt.Errorf("%w: jurisdiction %q %s: %v", ErrInvalidRules, key, cat, err)
			}
			copied[cat] = th
		}
		t.standards[key] = copied
	}
	for city, parent := range synonyms {
		t.synonyms[city] = parent
	}
	return t, nil
}

// administrative suffixes stripped before lookup, longest first
var jurisdictionSuffixes = []string{
	"维吾尔自治区", "壮族自治区", "回族自治区", "特别行政区", "自治区", "省", "市",
}

func normalizeJurisdiction(key string) string {
	key = strings.TrimSpace(key)
	for _, suffix := range jurisdictionSuffixes {
		if trimmed, ok := strings.CutSuffix(key, suffix); ok && trimmed != "" {
			return trimmed
		}
	}
	return key
}

// Resolve looks a key up in order: exact jurisdiction, city synonym, default.
// A synonym whose parent is absent resolves to default.
func (t *JurisdictionTable) Resolve(key string) ResolvedJurisdiction {
	res := ResolvedJurisdiction{Requested: key}
	norm := normalizeJurisdiction(key)

	if _, ok := t.standards[norm]; ok && norm != "" {
		res.Key, res.Resolution = norm, ResolutionExact
		return res
	}
	if parent, ok := t.synonyms[norm]; ok {
		if _, ok := t.standards[parent]; ok {
			res.Key, res.Resolution = parent, ResolutionSynonym
			return res
		}
	}
	res.Key, res.Resolution = DefaultJurisdiction, ResolutionDefault
	return res
}

// Thresholds returns the thresholds for category in the resolved
// jurisdiction. A jurisdiction without an entry for the category borrows the
// default entry. ok is false only when default has no entry either.
func (t *JurisdictionTable) Thresholds(key string, category CrimeCategory) (AmountThresholds, ResolvedJurisdiction, bool) {
	res := t.Resolve(key)
	if th, ok := t.standards[res.Key][category]; ok {
		return th, res, true
	}
	th, ok := t.standards[DefaultJurisdiction][category]
	return th, res, ok
}

// Standard returns a copy of the standard stored under an exact key.
func (t *JurisdictionTable) Standard(key string) (JurisdictionStandard, bool) {
	std, ok := t.standards[key]
	if !ok {
		return nil, false
	}
	out := make(JurisdictionStandard, len(std))
	for k, v := range std {
		out[k] = v
	}
	return out, true
}

// Keys lists jurisdiction keys sorted, default first.
func (t *JurisdictionTable) Keys() []string {
	keys := make([]string, 0, len(t.standards))
	for k := range t.standards {
		if k != DefaultJurisdiction {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return append([]string{DefaultJurisdiction}, keys...)
}

// Synonyms returns a copy of the city synonym table.
func (t *JurisdictionTable) Synonyms() map[string]string {
	out := make(map[string]string, len(t.synonyms))
	for k, v := range t.synonyms {
		out[k] = v
	}
	return out
}

// Standards returns a deep copy of every standard.
func (t *JurisdictionTable) Standards() map[string]JurisdictionStandard {
	out := make(map[string]JurisdictionStandard, len(t.standards))
	for k := range t.standards {
		out[k], _ = t.Standard(k)
	}
	return out
}
