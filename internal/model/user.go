package model

import "github.com/deppfellow/lightbnb/internal/validation"

// User is a row of the users table.
//
// Password is an opaque credential string; it is stored and returned exactly
// as the caller supplied it and never serialized to JSON.
type User struct {
	ID       int64  `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Email    string `json:"email" db:"email"`
	Password string `json:"-" db:"password"`
}

// CreateUserInput is what signup hands to UserRepository.Create.
type CreateUserInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=255"`
}

func (in *CreateUserInput) Validate() error {
	return validation.Struct(in)
}
