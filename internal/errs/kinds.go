package errs

// NewNotFoundError creates a not-found Error.
//
// Supports an optional custom code; if nil, defaults to "NOT_FOUND".
func NewNotFoundError(message string, code *string) *Error {
	formattedCode := MakeUpperCaseWithUnderscores("not found")
	if code != nil {
		formattedCode = *code
	}

	return &Error{
		Kind:    KindNotFound,
		Code:    formattedCode,
		Message: message,
	}
}

// NewConstraintError creates an Error for a rejected write.
//
// This supports extra payload:
//   - code: optional custom code string (if nil, defaults to "CONSTRAINT_VIOLATION")
//   - fields: optional slice of field errors (e.g. a not null column)
//   - err: the driver error that caused it
func NewConstraintError(message string, code *string, fields []FieldError, err error) *Error {
	formattedCode := MakeUpperCaseWithUnderscores("constraint violation")
	if code != nil {
		formattedCode = *code
	}

	return &Error{
		Kind:    KindConstraint,
		Code:    formattedCode,
		Message: message,
		Fields:  fields,
		Err:     err,
	}
}

// NewInvalidError creates an Error for input that failed validation.
func NewInvalidError(message string, fields []FieldError) *Error {
	return &Error{
		Kind:    KindInvalid,
		Code:    MakeUpperCaseWithUnderscores("invalid input"),
		Message: message,
		Fields:  fields,
	}
}

// NewDataAccessError wraps a connection-provider failure.
//
// Note:
//   - message is generic; the real cause stays reachable through Unwrap.
func NewDataAccessError(err error) *Error {
	return &Error{
		Kind:    KindDataAccess,
		Code:    MakeUpperCaseWithUnderscores("data access"),
		Message: "Database operation failed",
		Err:     err,
	}
}
