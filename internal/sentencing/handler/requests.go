package handler

import (
	"fmt"
	"strings"

	"sentencer/internal/sentencing"
	dErrors "sentencer/pkg/domain-errors"
)

const (
	maxFactorsPerTier  = 32
	maxDescriptionLen  = 512
	maxJurisdictionLen = 64
)

// ComputeRequest is the HTTP request body for POST /sentencing/compute.
// Category accepts English tags and statutory charge names.
type ComputeRequest struct {
	Category          string                 `json:"category"`
	Jurisdiction      string                 `json:"jurisdiction,omitempty"`
	Amount            *float64               `json:"amount,omitempty"`
	Severity          string                 `json:"severity,omitempty"`
	OccurrenceCount   int                    `json:"occurrence_count,omitempty"`
	VictimCount       int                    `json:"victim_count,omitempty"`
	Tier1Factors      []sentencing.Factor    `json:"tier1_factors,omitempty"`
	Tier2Factors      []sentencing.Factor    `json:"tier2_factors,omitempty"`
	Tier1Descriptions []string               `json:"tier1_descriptions,omitempty"`
	Tier2Descriptions []string               `json:"tier2_descriptions,omitempty"`
	Width             *float64               `json:"width,omitempty"`
	EnforceLegalRange bool                   `json:"enforce_legal_range,omitempty"`
	LegalRange        *sentencing.LegalRange `json:"legal_range,omitempty"`
}

// Validate normalizes the request. Numeric contracts are enforced by the
// engine.
func (r *ComputeRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	// Size validation (fail fast)
	if len(r.Jurisdiction) > maxJurisdictionLen {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("jurisdiction must be at most %d bytes", maxJurisdictionLen))
	}
	counts := []struct {
		field string
		n     int
	}{
		{"tier1_factors", len(r.Tier1Factors)},
		{"tier2_factors", len(r.Tier2Factors)},
		{"tier1_descriptions", len(r.Tier1Descriptions)},
		{"tier2_descriptions", len(r.Tier2Descriptions)},
	}
	for _, c := range counts {
		if c.n > maxFactorsPerTier {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s must have at most %d entries", c.field, maxFactorsPerTier))
		}
	}
	for _, d := range append(append([]string{}, r.Tier1Descriptions...), r.Tier2Descriptions...) {
		if len(d) > maxDescriptionLen {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("descriptions must be at most %d bytes", maxDescriptionLen))
		}
	}

	r.Category = strings.TrimSpace(r.Category)
	if r.Category == "" {
		return dErrors.New(dErrors.CodeValidation, "category is required")
	}
	r.Jurisdiction = strings.TrimSpace(r.Jurisdiction)
	r.Severity = strings.TrimSpace(r.Severity)
	return nil
}

// CaseInput converts the validated request to an engine input.
func (r *ComputeRequest) CaseInput() sentencing.CaseInput {
	return sentencing.CaseInput{
		Category:          sentencing.CrimeCategory(r.Category),
		Jurisdiction:      r.Jurisdiction,
		Amount:            r.Amount,
		Severity:          r.Severity,
		OccurrenceCount:   r.OccurrenceCount,
		VictimCount:       r.VictimCount,
		Tier1:             r.Tier1Factors,
		Tier2:             r.Tier2Factors,
		Tier1Descriptions: r.Tier1Descriptions,
		Tier2Descriptions: r.Tier2Descriptions,
		Width:             r.Width,
		EnforceLegalRange: r.EnforceLegalRange,
		LegalRange:        r.LegalRange,
	}
}

// BatchRequest is the HTTP request body for POST /sentencing/compute/batch.
// The batch size limit is enforced by the service.
type BatchRequest struct {
	Cases []ComputeRequest `json:"cases"`
}

func (r *BatchRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Cases) == 0 {
		return dErrors.New(dErrors.CodeValidation, "cases must not be empty")
	}
	for i := range r.Cases {
		if err := r.Cases[i].Validate(); err != nil {
			if de, ok := dErrors.As(err); ok {
				return dErrors.New(de.Code, fmt.Sprintf("cases[%d]: %s", i, de.Message))
			}
			return err
		}
	}
	return nil
}

// CaseInputs converts every case, preserving order.
func (r *BatchRequest) CaseInputs() []sentencing.CaseInput {
	inputs := make([]sentencing.CaseInput, len(r.Cases))
	for i := range r.Cases {
		inputs[i] = r.Cases[i].CaseInput()
	}
	return inputs
}

// MatchFactorRequest is the HTTP request body for POST /sentencing/factors/match.
type MatchFactorRequest struct {
	Category string `json:"category"`
	Tier     string `json:"tier"`
	Text     string `json:"text"`

	// Parsed values (populated by Validate)
	parsedTier sentencing.Tier
}

func (r *MatchFactorRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Text) > maxDescriptionLen {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("text must be at most %d bytes", maxDescriptionLen))
	}

	r.Text = strings.TrimSpace(r.Text)
	if r.Text == "" {
		return dErrors.New(dErrors.CodeValidation, "text is required")
	}
	tier, err := sentencing.ParseTier(r.Tier)
	if err != nil {
		return err
	}
	r.parsedTier = tier
	r.Category = strings.TrimSpace(r.Category)
	return nil
}

// ParsedTier returns the validated tier.
func (r *MatchFactorRequest) ParsedTier() sentencing.Tier {
	return r.parsedTier
}
