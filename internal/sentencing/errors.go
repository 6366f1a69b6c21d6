package sentencing

import "errors"

// Contract violations. Business edge cases (unknown category, unknown
// jurisdiction, boundary amounts) never produce these.
var (
	ErrInvalidInput  = errors.New("invalid sentencing input")
	ErrInvalidFactor = errors.New("invalid sentencing factor")
	ErrInvalidRules  = errors.New("invalid rule set")
)
