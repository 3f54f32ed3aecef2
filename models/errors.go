package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies analysis errors so callers can branch exhaustively
// instead of matching message strings.
type ErrorKind string

const (
	// ErrInsufficientData: series shorter than the required lookback.
	ErrInsufficientData ErrorKind = "INSUFFICIENT_DATA"
	// ErrDegenerateInput: zero variance / zero volume / zero denominator.
	ErrDegenerateInput ErrorKind = "DEGENERATE_INPUT"
	// ErrExternalUnavailable: a collaborator call failed or timed out.
	ErrExternalUnavailable ErrorKind = "EXTERNAL_UNAVAILABLE"
	// ErrInvariantViolation: a post-condition that should never fail did.
	ErrInvariantViolation ErrorKind = "INVARIANT_VIOLATION"
)

// AnalysisError is the typed error returned by the numeric core.
type AnalysisError struct {
	Kind   ErrorKind
	Op     string // operation that failed, e.g. "indicators.SMA"
	Symbol string // optional: which symbol/pair the failure is scoped to
	Needed int    // for InsufficientData: required sample count
	Got    int    // for InsufficientData: actual sample count
	Err    error  // wrapped cause, if any
}

func (e *AnalysisError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Symbol != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Symbol)
	}
	if e.Kind == ErrInsufficientData && e.Needed > 0 {
		msg = fmt.Sprintf("%s (need %d, got %d)", msg, e.Needed, e.Got)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// Is matches two analysis errors by kind, so
// errors.Is(err, &AnalysisError{Kind: ErrInsufficientData}) works.
func (e *AnalysisError) Is(target error) bool {
	var t *AnalysisError
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf extracts the ErrorKind from err, or "" if it is not an AnalysisError.
func KindOf(err error) ErrorKind {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// ErrShortSeries builds an InsufficientData error for op.
func ErrShortSeries(op string, needed, got int) *AnalysisError {
	return &AnalysisError{Kind: ErrInsufficientData, Op: op, Needed: needed, Got: got}
}

// ErrDegenerate builds a DegenerateInput error for op.
func ErrDegenerate(op, detail string) *AnalysisError {
	return &AnalysisError{Kind: ErrDegenerateInput, Op: op, Err: errors.New(detail)}
}

// ErrUnavailable wraps a collaborator failure.
func ErrUnavailable(op string, cause error) *AnalysisError {
	return &AnalysisError{Kind: ErrExternalUnavailable, Op: op, Err: cause}
}

// ErrInvariant flags a violated post-condition. This is a programming
// defect, not a runtime condition to swallow.
func ErrInvariant(op, detail string) *AnalysisError {
	return &AnalysisError{Kind: ErrInvariantViolation, Op: op, Err: errors.New(detail)}
}
