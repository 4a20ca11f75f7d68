package engine

import (
	"errors"
	"fmt"

	"github.com/daftarhq/daftar/internal/ledger"
)

// ErrorCode categorizes engine failures.
type ErrorCode string

const (
	// ErrCodeValidation indicates missing or malformed required input.
	ErrCodeValidation ErrorCode = "VALIDATION"

	// ErrCodeNotFound indicates a referenced entity id does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeConflict indicates a duplicate unique key, insufficient stock,
	// or a referential-integrity violation blocking a delete.
	ErrCodeConflict ErrorCode = "CONFLICT"

	// ErrCodeAuth indicates authorization was denied or cancelled.
	ErrCodeAuth ErrorCode = "AUTH"
)

// Error is the typed failure returned by every engine operation. All four
// codes are local and non-fatal: the store is left exactly as it was before
// the call.
type Error struct {
	Code    ErrorCode
	Message string

	// Entity and ID identify the record involved, when there is one.
	Entity ledger.EntityKind
	ID     string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Entity != "" && e.ID != "" {
		return fmt.Sprintf("%s: %s (%s=%s)", e.Code, e.Message, e.Entity, e.ID)
	}
	if e.Entity != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Entity)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func errValidation(format string, args ...any) *Error {
	return &Error{Code: ErrCodeValidation, Message: fmt.Sprintf(format, args...)}
}

func errNotFound(kind ledger.EntityKind, id string) *Error {
	return &Error{Code: ErrCodeNotFound, Message: "not found", Entity: kind, ID: id}
}

func errConflict(kind ledger.EntityKind, format string, args ...any) *Error {
	return &Error{Code: ErrCodeConflict, Message: fmt.Sprintf(format, args...), Entity: kind}
}

func errAuth(action string) *Error {
	return &Error{Code: ErrCodeAuth, Message: fmt.Sprintf("authorization denied for %q", action)}
}

func is(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsValidation reports whether err is a validation failure.
// Uses errors.As to handle wrapped errors.
func IsValidation(err error) bool { return is(err, ErrCodeValidation) }

// IsNotFound reports whether err is a missing-entity failure.
func IsNotFound(err error) bool { return is(err, ErrCodeNotFound) }

// IsConflict reports whether err is a conflict failure.
func IsConflict(err error) bool { return is(err, ErrCodeConflict) }

// IsAuth reports whether err is an authorization rejection.
func IsAuth(err error) bool { return is(err, ErrCodeAuth) }
