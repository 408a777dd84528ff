package errs

import (
	"errors"
	"strings"
)

// FieldError represents a field-level validation error.
// Example:
//
//	{ "field": "email", "error": "must be a valid email address" }
type FieldError struct {
	// Field is the field name/key the error relates to (e.g. "email").
	Field string `json:"field"`

	// Error is the human-readable error message.
	Error string `json:"error"`
}

// Kind is a string-based enum describing which class of failure an Error is.
type Kind string

const (
	// KindNotFound means a lookup-by-key returned zero rows.
	KindNotFound Kind = "not_found"

	// KindConstraint means the database rejected a write because of a constraint.
	KindConstraint Kind = "constraint_violation"

	// KindInvalid means the input never reached the database because it failed validation.
	KindInvalid Kind = "invalid_input"

	// KindDataAccess covers every other failure reported by the connection provider
	// (network, authentication, syntax, cancelled context...).
	KindDataAccess Kind = "data_access"
)

// Error is the main custom error type returned by the repositories.
//
// Fields:
//   - Kind: failure class, the thing callers switch on.
//   - Code: machine-friendly error code (e.g. "USER_ALREADY_EXISTS").
//   - Message: human-friendly message.
//   - Fields: list of per-field errors (validation, not null violations).
//   - Err: the underlying driver error, if any.
type Error struct {
	Kind    Kind         `json:"kind"`
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"errors,omitempty"`

	Err error `json:"-"`
}

// ErrNotFound is the sentinel matched by errors.Is for every not-found Error.
var ErrNotFound = &Error{Kind: KindNotFound, Code: "NOT_FOUND", Message: "Resource not found"}

// Error makes *Error satisfy the built-in `error` interface.
//
// The underlying driver error is appended so logs keep the real cause.
func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the driver error to errors.As / errors.Is.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is customizes how errors.Is(...) treats Error.
//
// Two Errors match when they share the same Kind, so
// errors.Is(err, errs.ErrNotFound) is true for any not-found error
// regardless of its message or code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// WithMessage returns a *copy* of this Error with Message replaced.
func (e *Error) WithMessage(message string) *Error {
	return &Error{
		Kind:    e.Kind,
		Code:    e.Code,
		Message: message,
		Fields:  e.Fields,
		Err:     e.Err,
	}
}

// KindOf reports the Kind of the first *Error in err's chain.
// Errors that did not come through this package are reported as KindDataAccess.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindDataAccess
}

// IsNotFound reports whether err is a not-found Error.
func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}

// IsConstraint reports whether err is a constraint violation.
func IsConstraint(err error) bool {
	return err != nil && KindOf(err) == KindConstraint
}

// IsInvalid reports whether err is a validation failure.
func IsInvalid(err error) bool {
	return err != nil && KindOf(err) == KindInvalid
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Data Access" -> "DATA_ACCESS"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
