// Package apperr defines the error taxonomy shared by the core
// services. Handlers translate kinds to HTTP statuses; services only
// ever return these.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an operation failure.
type Kind int

const (
	// Unknown is the zero kind for errors not produced by this package.
	Unknown Kind = iota
	// Validation covers malformed or missing required input.
	Validation
	// NotFound covers absent catalog entities or stock positions.
	NotFound
	// InsufficientStock covers sales exceeding the available total.
	InsufficientStock
	// Conflict covers duplicate names within a dealer scope.
	Conflict
	// Persistence wraps underlying storage failures.
	Persistence
)

// Error is an operation failure with a classification.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match two apperr errors by kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf returns the kind of err, or Unknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Validationf builds a Validation error.
func Validationf(format string, args ...interface{}) error {
	return &Error{Kind: Validation, Msg: fmt.Sprintf(format, args...)}
}

// NotFoundf builds a NotFound error.
func NotFoundf(format string, args ...interface{}) error {
	return &Error{Kind: NotFound, Msg: fmt.Sprintf(format, args...)}
}

// InsufficientStockf builds an InsufficientStock error.
func InsufficientStockf(format string, args ...interface{}) error {
	return &Error{Kind: InsufficientStock, Msg: fmt.Sprintf(format, args...)}
}

// Conflictf builds a Conflict error.
func Conflictf(format string, args ...interface{}) error {
	return &Error{Kind: Conflict, Msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying storage failure as Persistence.
func Wrap(msg string, err error) error {
	return &Error{Kind: Persistence, Msg: msg, Err: err}
}
