package types

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies why a symbol could not be screened.
type ErrorKind string

const (
	KindNetwork     ErrorKind = "network"
	KindStatus      ErrorKind = "status"
	KindShape       ErrorKind = "shape"
	KindDataMissing ErrorKind = "data_missing"
	KindCanceled    ErrorKind = "canceled"
)

// Resource names a single upstream call.
type Resource string

const (
	ResourceSymbols    Resource = "symbols"
	ResourceQuote      Resource = "quote"
	ResourceProfile    Resource = "profile"
	ResourceMetrics    Resource = "metrics"
	ResourceStatements Resource = "statements"
)

// FetchError reports a failed upstream call.
type FetchError struct {
	Kind     ErrorKind
	Resource Resource
	Symbol   string
	Status   int
	Err      error
}

func (e *FetchError) Error() string {
	target := e.Symbol
	if target == "" {
		target = "-"
	}
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("%s %s: upstream status %d: %v", e.Resource, target, e.Status, e.Err)
	default:
		return fmt.Sprintf("%s %s: %s: %v", e.Resource, target, e.Kind, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// NewFetchError builds a FetchError, turning context.Canceled into KindCanceled.
// Deadlines are left alone: a request timeout is a network failure.
func NewFetchError(kind ErrorKind, res Resource, symbol string, err error) *FetchError {
	if errors.Is(err, context.Canceled) {
		kind = KindCanceled
	}
	return &FetchError{Kind: kind, Resource: res, Symbol: symbol, Err: err}
}

// KindOf extracts the ErrorKind carried by err. Unknown errors count as network failures.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	var me *MissingDataError
	if errors.As(err, &me) {
		return KindDataMissing
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCanceled
	}
	return KindNetwork
}

// MissingDataError is returned when a gate rule has no usable data at all.
type MissingDataError struct {
	Field string
}

func (e *MissingDataError) Error() string {
	return "missing data: " + e.Field
}
