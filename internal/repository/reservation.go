package repository

import (
	"context"

	"github.com/deppfellow/lightbnb/internal/model"
	"github.com/deppfellow/lightbnb/internal/query"
	"github.com/deppfellow/lightbnb/internal/validation"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const reservationColumns = "reservations.id, reservations.start_date, reservations.end_date, reservations.property_id, reservations.guest_id"

// ReservationRepository lists and books stays.
type ReservationRepository struct {
	db  DBTX
	log *zerolog.Logger
}

func NewReservationRepository(db DBTX, log *zerolog.Logger) *ReservationRepository {
	return &ReservationRepository{db: db, log: log}
}

func buildGuestReservations(guestID int64, limit int) (string, []any, error) {
	columns := append([]string{reservationColumns}, propertyColumns...)
	columns = append(columns, averageRatingColumn)

	return query.Select(columns...).
		From("reservations").
		Join("properties", "reservations.property_id = properties.id").
		LeftJoin("property_reviews", "property_reviews.property_id = properties.id").
		Where("reservations.guest_id = ?", guestID).
		GroupBy("reservations.id", "properties.id").
		OrderBy("reservations.start_date", "reservations.id").
		Limit(normalizeLimit(limit)).
		Build()
}

func scanGuestReservation(row pgx.CollectableRow) (model.GuestReservation, error) {
	var (
		res    model.GuestReservation
		p      propertyRow
		rating *float64
	)

	targets := []any{&res.ID, &res.StartDate, &res.EndDate, &res.PropertyID, &res.GuestID}
	targets = append(targets, p.targets()...)
	targets = append(targets, &rating)

	if err := row.Scan(targets...); err != nil {
		return model.GuestReservation{}, err
	}

	res.Property = p.property()
	res.AverageRating = rating
	return res, nil
}

// ListForGuest returns the guest's reservations with the reserved property
// and its average rating, earliest start date first, at most limit rows.
// A non-positive limit means DefaultLimit.
func (r *ReservationRepository) ListForGuest(ctx context.Context, guestID int64, limit int) ([]model.GuestReservation, error) {
	sql, args, err := buildGuestReservations(guestID, limit)
	if err != nil {
		return nil, handleError(r.log, "reservations.list_for_guest", "reservations", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, handleError(r.log, "reservations.list_for_guest", "reservations", err)
	}

	reservations, err := pgx.CollectRows(rows, scanGuestReservation)
	if err != nil {
		return nil, handleError(r.log, "reservations.list_for_guest", "reservations", err)
	}

	return orEmpty(reservations), nil
}

// Create books a property for a guest. An unknown guest or property is
// reported as errs.KindConstraint (GUEST_NOT_FOUND, PROPERTY_NOT_FOUND).
func (r *ReservationRepository) Create(ctx context.Context, in model.CreateReservationInput) (*model.Reservation, error) {
	if err := validation.Validate(&in); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		INSERT INTO reservations (start_date, end_date, property_id, guest_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+reservationColumns,
		in.StartDate, in.EndDate, in.PropertyID, in.GuestID,
	)
	if err != nil {
		return nil, handleError(r.log, "reservations.create", "reservations", err)
	}

	reservation, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByPos[model.Reservation])
	if err != nil {
		return nil, handleError(r.log, "reservations.create", "reservations", err)
	}

	r.log.Debug().
		Int64("reservation_id", reservation.ID).
		Int64("guest_id", reservation.GuestID).
		Msg("reservation created")
	return reservation, nil
}
