package sentencing

import (
	"fmt"
	"math"
	"strings"
)

// SeveritySchedule is the base policy of a severity-keyed category.
type SeveritySchedule struct {
	Months        map[string]int `json:"months" yaml:"months"`
	DefaultMonths int            `json:"default_months" yaml:"default_months"`
	Victims       *VictimPolicy  `json:"victims,omitempty" yaml:"victims,omitempty"`
}

// VictimPolicy raises the base for each victim beyond the first, up to a cap.
type VictimPolicy struct {
	PerExtraVictim float64 `json:"per_extra_victim" yaml:"per_extra_victim"`
	MaxIncrease    float64 `json:"max_increase" yaml:"max_increase"`
}

func (s SeveritySchedule) Validate() error {
	if len(s.Months) == 0 {
		return fmt.Errorf("severity table is empty")
	}
	if s.DefaultMonths < 1 || s.DefaultMonths > StatutoryCeilingMonths {
		return fmt.Errorf("default_months must be within 1..%d", StatutoryCeilingMonths)
	}
	for k, v := range s.Months {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("severity key must not be blank")
		}
		if v < 1 || v > StatutoryCeilingMonths {
			return fmt.Errorf("severity %q: months %d outside 1..%d", k, v, StatutoryCeilingMonths)
		}
	}
	if s.Victims != nil && (s.Victims.PerExtraVictim < 0 || s.Victims.MaxIncrease < 0) {
		return fmt.Errorf("victim policy values must be non-negative")
	}
	return nil
}

// Base returns the months for severity. found is false when the severity is
// not in the table and DefaultMonths was used.
func (s SeveritySchedule) Base(severity string, victims int) (months int, found bool) {
	months, found = s.Months[strings.TrimSpace(severity)]
	if !found {
		months = s.DefaultMonths
	}
	if s.Victims != nil && victims > 1 {
		increase := math.Min(s.Victims.PerExtraVictim*float64(victims-1), s.Victims.MaxIncrease)
		months = int(float64(months) * (1 + increase))
	}
	return clampInt(months, 1, StatutoryCeilingMonths), found
}

func (s SeveritySchedule) clone() SeveritySchedule {
	out := SeveritySchedule{DefaultMonths: s.DefaultMonths, Months: make(map[string]int, len(s.Months))}
	for k, v := range s.Months {
		out.Months[k] = v
	}
	if s.Victims != nil {
		v := *s.Victims
		out.Victims = &v
	}
	return out
}
