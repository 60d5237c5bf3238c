// Package apperr defines the error taxonomy shared by all domain
// services: NotFound, BadRequest, Conflict and Internal. Services
// return these so the HTTP layer can map each kind to a status code
// without string matching.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindBadRequest
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindBadRequest:
		return "bad_request"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error carries a kind, an optional entity name (so "schedule not
// found" and "patient not found" stay distinguishable to callers) and
// an optional wrapped cause.
type Error struct {
	Kind   Kind
	Entity string
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(entity string, format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Entity: entity, Msg: fmt.Sprintf(format, args...)}
}

func BadRequest(format string, args ...interface{}) error {
	return &Error{Kind: KindBadRequest, Msg: fmt.Sprintf(format, args...)}
}

func Conflict(entity string, format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Entity: entity, Msg: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected failure, preserving the cause for logs.
func Internal(err error, format string, args ...interface{}) error {
	return &Error{Kind: KindInternal, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of err, or KindInternal for errors outside
// the taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// EntityOf returns the entity name attached to err, if any.
func EntityOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Entity
	}
	return ""
}

func IsNotFound(err error) bool   { return KindOf(err) == KindNotFound }
func IsBadRequest(err error) bool { return KindOf(err) == KindBadRequest }
func IsConflict(err error) bool   { return KindOf(err) == KindConflict }
