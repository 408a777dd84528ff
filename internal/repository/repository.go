// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or update data, abstracting SQL logic away from the callers.
//
// Every method issues exactly one statement through DBTX and
// returns either data or an *errs.Error:
//   - zero rows on a keyed lookup -> errs.KindNotFound (logged at debug)
//   - constraint violations      -> errs.KindConstraint (logged at warn)
//   - anything else              -> errs.KindDataAccess (logged at error)
package repository

import (
	"context"

	"github.com/deppfellow/lightbnb/internal/errs"
	"github.com/deppfellow/lightbnb/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// DefaultLimit caps list queries when the caller passes a non-positive limit.
const DefaultLimit = 10

// DBTX is the slice of the pgx API the repositories need.
// *pgxpool.Pool, *pgx.Conn and pgx.Tx all satisfy it.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// normalizeLimit maps a non-positive limit onto DefaultLimit.
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}

// handleError is the single place a repository failure is classified and logged.
//
// table names the entity for not-found messages ("User not found").
func handleError(log *zerolog.Logger, operation, table string, err error) error {
	appErr := sqlerr.HandleError(sqlerr.WithTable(table, err))

	switch errs.KindOf(appErr) {
	case errs.KindDataAccess:
		log.Error().
			Stack().
			Err(errors.WithStack(err)).
			Str("operation", operation).
			Msg("data access failed")
	case errs.KindConstraint:
		log.Warn().
			Err(err).
			Str("operation", operation).
			Str("code", sqlerr.ErrCode(err).String()).
			Msg("constraint violation")
	case errs.KindNotFound:
		log.Debug().
			Str("operation", operation).
			Msg("no rows")
	}

	return appErr
}
