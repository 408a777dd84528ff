package sqlerr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/deppfellow/lightbnb/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError_UniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23505",
		Message:        `duplicate key value violates unique constraint "users_email_key"`,
		TableName:      "users",
		ConstraintName: "users_email_key",
	}

	err := HandleError(fmt.Errorf("insert user: %w", pgErr))

	var appErr *errs.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errs.KindConstraint, appErr.Kind)
	assert.Equal(t, "USER_ALREADY_EXISTS", appErr.Code)
	assert.Equal(t, "A User with this Email already exists", appErr.Message)
	assert.Equal(t, UniqueViolation, ErrCode(err))

	var raw *pgconn.PgError
	assert.ErrorAs(t, err, &raw, "driver error must stay reachable")
}

func TestHandleError_ForeignKeyViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23503",
		TableName:      "properties",
		ConstraintName: "properties_owner_id_fkey",
	}

	err := HandleError(pgErr)

	var appErr *errs.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errs.KindConstraint, appErr.Kind)
	assert.Equal(t, "OWNER_NOT_FOUND", appErr.Code)
	assert.Equal(t, "The referenced Owner does not exist", appErr.Message)
}

func TestHandleError_NotNullViolation(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:       "23502",
		TableName:  "properties",
		ColumnName: "post_code",
	})

	var appErr *errs.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PROPERTY_REQUIRED", appErr.Code)
	assert.Equal(t, "The Post Code is required", appErr.Message)
	require.Len(t, appErr.Fields, 1)
	assert.Equal(t, "post_code", appErr.Fields[0].Field)
}

func TestHandleError_NoRows(t *testing.T) {
	err := HandleError(WithTable("users", pgx.ErrNoRows))
	assert.True(t, errs.IsNotFound(err))
	assert.Equal(t, "User not found", err.(*errs.Error).Message)

	err = HandleError(pgx.ErrNoRows)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestHandleError_DataAccess(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "context cancelled", err: context.Canceled},
		{name: "syntax error", err: &pgconn.PgError{Code: "42601", Message: "syntax error at or near"}},
		{name: "connection refused", err: errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := HandleError(tt.err)
			assert.Equal(t, errs.KindDataAccess, errs.KindOf(err))
			assert.False(t, errs.IsNotFound(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestHandleError_PassesThroughAppErrors(t *testing.T) {
	original := errs.NewInvalidError("Validation failed", nil)
	assert.Same(t, original, HandleError(original))
	assert.NoError(t, HandleError(nil))
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	assert.Equal(t, "email", extractColumnForUniqueViolation("users_email_key"))
	assert.Equal(t, "email", extractColumnForUniqueViolation("unique_users_email"))
	assert.Equal(t, "", extractColumnForUniqueViolation("pk"))
}

func TestMapCodeAndSeverity(t *testing.T) {
	assert.Equal(t, UniqueViolation, MapCode("23505"))
	assert.Equal(t, Other, MapCode("XX000"))
	assert.True(t, CheckViolation.IsConstraint())
	assert.False(t, SyntaxError.IsConstraint())
	assert.Equal(t, SeverityFatal, MapSeverity("FATAL"))
	assert.Equal(t, SeverityError, MapSeverity("weird"))
}
