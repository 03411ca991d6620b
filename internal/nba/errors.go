package nba

import "errors"

// Error kinds for upstream failures. Callers classify with errors.Is:
// ErrTransient failures are retried a bounded number of times, ErrNotFound
// is a normal empty-result outcome, and ErrMalformed marks an upstream
// response whose shape could not be decoded.
var (
	ErrNotFound  = errors.New("not found")
	ErrTransient = errors.New("transient provider failure")
	ErrMalformed = errors.New("malformed provider response")
)
