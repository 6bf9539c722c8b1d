package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a query failure. Kinds appear verbatim in the
// response payload's error object.
type ErrorKind string

const (
	// Terminal, caller-facing kinds (a bad-request outcome).
	ErrUnresolvedEntity   ErrorKind = "UnresolvedEntity"
	ErrUnrecognizedIntent ErrorKind = "UnrecognizedIntent"
	ErrInvalidPeriod      ErrorKind = "InvalidPeriod"

	// Per-ticker kinds, non-terminal in comparisons.
	ErrInsufficientData ErrorKind = "InsufficientData"
	ErrNotFound         ErrorKind = "NotFound"
	ErrRateLimited      ErrorKind = "RateLimited"
	ErrTimeout          ErrorKind = "Timeout"

	// Terminal only when every comparison ticker fails.
	ErrIncomparableMetric ErrorKind = "IncomparableMetric"

	// Never terminal; degrades natural_language to null.
	ErrNLGUnavailable ErrorKind = "NLGUnavailable"
)

// QueryError carries a classified failure through the pipeline.
type QueryError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *QueryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewQueryError creates a QueryError with a formatted message.
func NewQueryError(kind ErrorKind, format string, args ...interface{}) *QueryError {
	return &QueryError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapQueryError creates a QueryError wrapping an underlying cause.
func WrapQueryError(kind ErrorKind, err error, format string, args ...interface{}) *QueryError {
	return &QueryError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the ErrorKind from an error chain. Unclassified errors
// report an empty kind.
func KindOf(err error) ErrorKind {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Kind
	}
	return ""
}

// AsQueryError extracts a QueryError from an error chain, classifying
// unrecognized errors under the given fallback kind.
func AsQueryError(err error, fallback ErrorKind) *QueryError {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe
	}
	return &QueryError{Kind: fallback, Message: err.Error(), Err: err}
}

// IsTransient reports whether the kind is worth a bounded retry.
func IsTransient(kind ErrorKind) bool {
	return kind == ErrRateLimited || kind == ErrTimeout
}

// IsBadRequest reports whether the kind maps to a caller error.
func IsBadRequest(kind ErrorKind) bool {
	switch kind {
	case ErrUnresolvedEntity, ErrUnrecognizedIntent, ErrInvalidPeriod:
		return true
	}
	return false
}
