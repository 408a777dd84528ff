// Package errs defines custom error types and utilities.
//
// Its purpose is to give the data-access layer one error shape
// that callers can branch on without knowing anything about
// the database driver underneath.
//
// - NotFound: a keyed lookup matched zero rows.
// - Constraint: an insert violated a unique/foreign key/not null/check rule.
// - Invalid: the input failed validation before reaching the database.
// - DataAccess: anything else the connection provider reported.
package errs
