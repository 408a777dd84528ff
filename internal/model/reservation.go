package model

import (
	"time"

	"github.com/deppfellow/lightbnb/internal/validation"
)

// Reservation is a row of the reservations table: one guest staying at one
// property between StartDate and EndDate.
type Reservation struct {
	ID         int64     `json:"id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	PropertyID int64     `json:"property_id"`
	GuestID    int64     `json:"guest_id"`
}

// GuestReservation is a reservation joined with the reserved property and
// that property's average rating, as listed on a guest's "my reservations" page.
type GuestReservation struct {
	Reservation
	Property      Property `json:"property"`
	AverageRating *float64 `json:"average_rating"`
}

// CreateReservationInput books a property for a guest.
type CreateReservationInput struct {
	GuestID    int64     `json:"guest_id" validate:"required,gt=0"`
	PropertyID int64     `json:"property_id" validate:"required,gt=0"`
	StartDate  time.Time `json:"start_date" validate:"required"`
	EndDate    time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
}

func (in *CreateReservationInput) Validate() error {
	return validation.Struct(in)
}
