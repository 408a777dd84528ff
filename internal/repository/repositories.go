package repository

import (
	"github.com/deppfellow/lightbnb/internal/app"
	"github.com/rs/zerolog"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Users        *UserRepository
	Reservations *ReservationRepository
	Properties   *PropertyRepository
}

// New builds every repository over db. db may be the pool or a transaction.
func New(db DBTX, log *zerolog.Logger) *Repositories {
	return &Repositories{
		Users:        NewUserRepository(db, log),
		Reservations: NewReservationRepository(db, log),
		Properties:   NewPropertyRepository(db, log),
	}
}

// NewRepositories constructs the repository container on the application pool.
func NewRepositories(a *app.App) *Repositories {
	return New(a.DB.Pool, a.Logger)
}
