package handler

import (
	"time"

	"sentencer/internal/sentencing"
	"sentencer/internal/sentencing/models"
)

// ComputationResponse is the HTTP response for a single computation.
type ComputationResponse struct {
	ID          string               `json:"id"`
	Fingerprint string               `json:"fingerprint"`
	Status      string               `json:"status"`
	Category    string               `json:"category"`
	RuleSet     string               `json:"rule_set"`
	FinalMonths float64              `json:"final_months"`
	Range       RangeResponse        `json:"range"`
	Steps       []string             `json:"steps"`
	Outcome     sentencing.Outcome   `json:"outcome"`
	Input       sentencing.CaseInput `json:"input"`
	CreatedAt   time.Time            `json:"created_at"`
}

// RangeResponse is a sentence range in whole months.
type RangeResponse struct {
	MinMonths int `json:"min_months"`
	MaxMonths int `json:"max_months"`
}

func FromComputation(rec *models.Computation) *ComputationResponse {
	out := rec.Outcome
	steps := out.Result.Steps
	if steps == nil {
		steps = []string{}
	}
	return &ComputationResponse{
		ID:          rec.ID.String(),
		Fingerprint: rec.Fingerprint,
		Status:      string(out.Status),
		Category:    string(out.Category),
		RuleSet:     out.RuleSet,
		FinalMonths: out.Result.FinalMonths,
		Range:       fromRange(out.Range),
		Steps:       steps,
		Outcome:     out,
		Input:       rec.Input,
		CreatedAt:   rec.CreatedAt,
	}
}

func fromRange(r sentencing.SentenceRange) RangeResponse {
	return RangeResponse{MinMonths: r.Min, MaxMonths: r.Max}
}

// ComputationListResponse is the HTTP response for GET /sentencing/computations.
type ComputationListResponse struct {
	Computations []*ComputationResponse `json:"computations"`
	Count        int                    `json:"count"`
}

func FromComputations(recs []*models.Computation) *ComputationListResponse {
	resp := &ComputationListResponse{Computations: make([]*ComputationResponse, 0, len(recs))}
	for _, rec := range recs {
		resp.Computations = append(resp.Computations, FromComputation(rec))
	}
	resp.Count = len(resp.Computations)
	return resp
}

// BatchItemResponse reports one case of a batch. Failed cases carry the
// fallback range and an error message.
type BatchItemResponse struct {
	Index         int                 `json:"index"`
	ComputationID string              `json:"computation_id,omitempty"`
	Status        string              `json:"status"`
	Range         RangeResponse       `json:"range"`
	FinalMonths   *float64            `json:"final_months,omitempty"`
	Outcome       *sentencing.Outcome `json:"outcome,omitempty"`
	Error         string              `json:"error,omitempty"`
}

// BatchResponse is the HTTP response for POST /sentencing/compute/batch.
type BatchResponse struct {
	Items    []BatchItemResponse `json:"items"`
	Computed int                 `json:"computed"`
	Failed   int                 `json:"failed"`
}

func FromBatch(items []models.BatchItem) *BatchResponse {
	resp := &BatchResponse{Items: make([]BatchItemResponse, 0, len(items))}
	for _, item := range items {
		r := BatchItemResponse{
			Index:   item.Index,
			Status:  string(item.Status),
			Range:   fromRange(item.Range),
			Outcome: item.Outcome,
			Error:   item.Error,
		}
		if item.ComputationID != nil {
			r.ComputationID = item.ComputationID.String()
		}
		if item.Outcome != nil {
			final := item.Outcome.Result.FinalMonths
			r.FinalMonths = &final
		}
		if item.Error != "" {
			resp.Failed++
		} else {
			resp.Computed++
		}
		resp.Items = append(resp.Items, r)
	}
	return resp
}

// FactorMatchResponse is the HTTP response for POST /sentencing/factors/match.
type FactorMatchResponse struct {
	Category string  `json:"category"`
	RuleSet  string  `json:"rule_set"`
	Tier     string  `json:"tier"`
	Matched  bool    `json:"matched"`
	Name     string  `json:"name"`
	Ratio    float64 `json:"ratio"`
	Reason   string  `json:"reason"`
}

func FromFactorMatch(m *models.FactorMatch) *FactorMatchResponse {
	return &FactorMatchResponse{
		Category: string(m.Category),
		RuleSet:  m.RuleSet,
		Tier:     m.Match.Tier.String(),
		Matched:  m.Match.Matched,
		Name:     m.Match.Name,
		Ratio:    m.Match.Ratio,
		Reason:   m.Match.Reason,
	}
}

// JurisdictionResponse is the HTTP response for GET /sentencing/jurisdictions/{key}.
type JurisdictionResponse struct {
	Requested  string                       `json:"requested"`
	Key        string                       `json:"key"`
	Resolution string                       `json:"resolution"`
	Synonyms   []string                     `json:"synonyms"`
	Category   string                       `json:"category,omitempty"`
	Thresholds *sentencing.AmountThresholds `json:"thresholds,omitempty"`
}

func FromJurisdictionLookup(l *models.JurisdictionLookup) *JurisdictionResponse {
	synonyms := l.Synonyms
	if synonyms == nil {
		synonyms = []string{}
	}
	return &JurisdictionResponse{
		Requested:  l.Jurisdiction.Requested,
		Key:        l.Jurisdiction.Key,
		Resolution: string(l.Jurisdiction.Resolution),
		Synonyms:   synonyms,
		Category:   string(l.Category),
		Thresholds: l.Thresholds,
	}
}
