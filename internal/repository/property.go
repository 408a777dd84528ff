package repository

import (
	"context"

	"github.com/deppfellow/lightbnb/internal/errs"
	"github.com/deppfellow/lightbnb/internal/lib/money"
	"github.com/deppfellow/lightbnb/internal/model"
	"github.com/deppfellow/lightbnb/internal/query"
	"github.com/deppfellow/lightbnb/internal/validation"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// PropertyRepository searches, reads and creates listings.
type PropertyRepository struct {
	db  DBTX
	log *zerolog.Logger
}

func NewPropertyRepository(db DBTX, log *zerolog.Logger) *PropertyRepository {
	return &PropertyRepository{db: db, log: log}
}

// Create inserts a listing and returns it as stored. CostPerNight is
// converted to cents for the insert and back to major units on return.
func (r *PropertyRepository) Create(ctx context.Context, in model.CreatePropertyInput) (*model.Property, error) {
	if err := validation.Validate(&in); err != nil {
		return nil, err
	}

	cents, err := money.ToMinor(in.CostPerNight)
	if err != nil {
		return nil, errs.NewInvalidError("Validation failed", []errs.FieldError{
			{Field: "cost_per_night", Error: "is too large"},
		})
	}

	rows, err := r.db.Query(ctx, `
		INSERT INTO properties (
			owner_id, title, description, thumbnail_photo_url, cover_photo_url,
			cost_per_night, street, city, province, post_code, country,
			parking_spaces, number_of_bathrooms, number_of_bedrooms
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING `+propertyColumnList(),
		in.OwnerID,
		in.Title,
		in.Description,
		in.ThumbnailPhotoURL,
		in.CoverPhotoURL,
		cents,
		in.Street,
		in.City,
		in.Province,
		in.PostCode,
		in.Country,
		in.ParkingSpaces,
		in.NumberOfBathrooms,
		in.NumberOfBedrooms,
	)
	if err != nil {
		return nil, handleError(r.log, "properties.create", "properties", err)
	}

	property, err := pgx.CollectExactlyOneRow(rows, scanProperty)
	if err != nil {
		return nil, handleError(r.log, "properties.create", "properties", err)
	}

	r.log.Debug().
		Int64("property_id", property.ID).
		Int64("owner_id", property.OwnerID).
		Msg("property created")
	return &property, nil
}

// GetByID returns one listing with its average rating.
// A missing property is reported as errs.KindNotFound.
func (r *PropertyRepository) GetByID(ctx context.Context, id int64) (*model.PropertyWithRating, error) {
	columns := append(append([]string{}, propertyColumns...), averageRatingColumn)

	sql, args, err := query.Select(columns...).
		From("properties").
		LeftJoin("property_reviews", "property_reviews.property_id = properties.id").
		Where("properties.id = ?", id).
		GroupBy("properties.id").
		Build()
	if err != nil {
		return nil, handleError(r.log, "properties.get_by_id", "properties", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, handleError(r.log, "properties.get_by_id", "properties", err)
	}

	property, err := pgx.CollectExactlyOneRow(rows, scanPropertyWithRating)
	if err != nil {
		return nil, handleError(r.log, "properties.get_by_id", "properties", err)
	}
	return &property, nil
}
