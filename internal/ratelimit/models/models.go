package models

import (
	"net/http"
	"strings"
	"time"
)

// EndpointClass groups endpoints that share a request budget.
type EndpointClass string

const (
	// ClassCompute: single computations and factor matching.
	ClassCompute EndpointClass = "compute"
	// ClassBatch: batch computations, each of which may carry hundreds of cases.
	ClassBatch EndpointClass = "batch"
	// ClassRead: stored computations and jurisdiction lookups.
	ClassRead EndpointClass = "read"
)

// ClassifyRequest maps a sentencing request onto its endpoint class.
func ClassifyRequest(r *http.Request) EndpointClass {
	switch {
	case r.Method == http.MethodGet:
		return ClassRead
	case strings.HasSuffix(r.URL.Path, "/batch"):
		return ClassBatch
	default:
		return ClassCompute
	}
}

// Limit is the number of requests allowed per window.
type Limit struct {
	Requests int
	Window   time.Duration
}

// RateLimitResult is the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
}

// RateLimitExceededResponse is the API response when rate limit is exceeded.
type RateLimitExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"` // seconds
}
