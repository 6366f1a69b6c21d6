// Package models holds the persisted records of the sentencing module.
package models

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"sentencer/internal/sentencing"
)

// Computation is one stored engine run.
type Computation struct {
	ID          uuid.UUID            `json:"id"`
	Fingerprint string               `json:"fingerprint"`
	RequestID   string               `json:"request_id,omitempty"`
	Input       sentencing.CaseInput `json:"input"`
	Outcome     sentencing.Outcome   `json:"outcome"`
	CreatedAt   time.Time            `json:"created_at"`
}

// BatchItem is one entry of a batch response. A failed item carries the
// fallback range and the error message instead of an outcome.
type BatchItem struct {
	Index         int                      `json:"index"`
	ComputationID *uuid.UUID               `json:"computation_id,omitempty"`
	Status        sentencing.Status        `json:"status"`
	Outcome       *sentencing.Outcome      `json:"outcome,omitempty"`
	Range         sentencing.SentenceRange `json:"range"`
	Error         string                   `json:"error,omitempty"`
}

// Fingerprint identifies an input under a given rule version. Identical
// inputs computed with identical rules share a fingerprint.
func Fingerprint(in sentencing.CaseInput, rulesVersion string) (string, error) {
	payload, err := json.Marshal(struct {
		Rules string               `json:"rules"`
		Input sentencing.CaseInput `json:"input"`
	}{rulesVersion, in})
	if err != nil {
		return "", fmt.Errorf("encode fingerprint input: %w", err)
	}
	sum := blake2b.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// Digest hashes an arbitrary byte payload, used to version rule tables.
func Digest(payload []byte) string {
	sum := blake2b.Sum256(payload)
	return hex.EncodeToString(sum[:16])
}

// FactorMatch is the result of resolving one free-text factor against the
// coefficient table of a category's rule set.
type FactorMatch struct {
	Category sentencing.CrimeCategory `json:"category"`
	RuleSet  string                   `json:"rule_set"`
	Match    sentencing.MatchResult   `json:"match"`
}

// JurisdictionLookup reports how a jurisdiction key resolved and, for an
// amount-keyed category, which thresholds apply.
type JurisdictionLookup struct {
	Jurisdiction sentencing.ResolvedJurisdiction `json:"jurisdiction"`
	Category     sentencing.CrimeCategory        `json:"category,omitempty"`
	Thresholds   *sentencing.AmountThresholds    `json:"thresholds,omitempty"`
	Synonyms     []string                        `json:"synonyms,omitempty"`
}
