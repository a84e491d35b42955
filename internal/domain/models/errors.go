package models

import "fmt"

// ValidationError blocks widget authoring before any fetch or commit:
// malformed URL, missing binding field, bad refresh interval.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
	}
	return "validation failed: " + e.Reason
}

// TransportError is a fetch failure or non-2xx status.
type TransportError struct {
	URL    string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
}

func (e *TransportError) Unwrap() error { return e.Err }

// SoftAPIError is a 2xx response carrying a provider-level sentinel
// (rate limit, placeholder message) or an otherwise unusable body.
type SoftAPIError struct {
	Reason string
}

func (e *SoftAPIError) Error() string {
	return "provider error: " + e.Reason
}

// ParseError means classification succeeded but normalization produced
// no records.
type ParseError struct {
	Shape string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("no usable records parsed (shape %s)", e.Shape)
}
