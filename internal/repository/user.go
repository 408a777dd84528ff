package repository

import (
	"context"

	"github.com/deppfellow/lightbnb/internal/model"
	"github.com/deppfellow/lightbnb/internal/validation"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const userColumns = "id, name, email, password"

// UserRepository reads and creates rows of the users table.
type UserRepository struct {
	db  DBTX
	log *zerolog.Logger
}

func NewUserRepository(db DBTX, log *zerolog.Logger) *UserRepository {
	return &UserRepository{db: db, log: log}
}

// GetByEmail returns the user with exactly this email.
// A missing user is reported as errs.KindNotFound.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, "users.get_by_email", `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// GetByID returns the user with this primary key.
// A missing user is reported as errs.KindNotFound.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getOne(ctx, "users.get_by_id", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) getOne(ctx context.Context, operation, sql string, arg any) (*model.User, error) {
	rows, err := r.db.Query(ctx, sql, arg)
	if err != nil {
		return nil, handleError(r.log, operation, "users", err)
	}

	user, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.User])
	if err != nil {
		return nil, handleError(r.log, operation, "users", err)
	}
	return user, nil
}

// Create inserts a user and returns the stored row, including its generated id.
// A duplicate email is reported as errs.KindConstraint with code USER_ALREADY_EXISTS.
func (r *UserRepository) Create(ctx context.Context, in model.CreateUserInput) (*model.User, error) {
	if err := validation.Validate(&in); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx,
		`INSERT INTO users (name, email, password) VALUES ($1, $2, $3) RETURNING `+userColumns,
		in.Name, in.Email, in.Password,
	)
	if err != nil {
		return nil, handleError(r.log, "users.create", "users", err)
	}

	user, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.User])
	if err != nil {
		return nil, handleError(r.log, "users.create", "users", err)
	}

	r.log.Debug().Int64("user_id", user.ID).Msg("user created")
	return user, nil
}
