// Package validation contains the logic for validating
// repository input.
//
// It uses the `validator` library to enforce rules (like
// required fields or email formats) defined in struct tags
// and extracts validation errors into field-level errs.FieldError
// values a caller can show next to a form.
package validation
