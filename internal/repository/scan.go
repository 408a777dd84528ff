package repository

import (
	"strings"

	"github.com/deppfellow/lightbnb/internal/lib/money"
	"github.com/deppfellow/lightbnb/internal/model"
	"github.com/jackc/pgx/v5"
)

// propertyColumns is the column list every property read and RETURNING
// clause uses, in the order propertyRow.targets expects.
var propertyColumns = []string{
	"properties.id",
	"properties.owner_id",
	"properties.title",
	"COALESCE(properties.description, '') AS description",
	"properties.thumbnail_photo_url",
	"properties.cover_photo_url",
	"properties.cost_per_night",
	"properties.street",
	"properties.city",
	"properties.province",
	"properties.post_code",
	"properties.country",
	"properties.parking_spaces",
	"properties.number_of_bathrooms",
	"properties.number_of_bedrooms",
}

const averageRatingColumn = "avg(property_reviews.rating)::float8 AS average_rating"

func propertyColumnList() string {
	return strings.Join(propertyColumns, ", ")
}

// propertyRow holds a scanned property before cents become a decimal.
type propertyRow struct {
	model.Property
	cents int64
}

func (p *propertyRow) targets() []any {
	return []any{
		&p.ID,
		&p.OwnerID,
		&p.Title,
		&p.Description,
		&p.ThumbnailPhotoURL,
		&p.CoverPhotoURL,
		&p.cents,
		&p.Street,
		&p.City,
		&p.Province,
		&p.PostCode,
		&p.Country,
		&p.ParkingSpaces,
		&p.NumberOfBathrooms,
		&p.NumberOfBedrooms,
	}
}

func (p *propertyRow) property() model.Property {
	prop := p.Property
	prop.CostPerNight = money.FromMinor(p.cents)
	return prop
}

func scanProperty(row pgx.CollectableRow) (model.Property, error) {
	var p propertyRow
	if err := row.Scan(p.targets()...); err != nil {
		return model.Property{}, err
	}
	return p.property(), nil
}

func scanPropertyWithRating(row pgx.CollectableRow) (model.PropertyWithRating, error) {
	var (
		p      propertyRow
		rating *float64
	)
	if err := row.Scan(append(p.targets(), &rating)...); err != nil {
		return model.PropertyWithRating{}, err
	}
	return model.PropertyWithRating{Property: p.property(), AverageRating: rating}, nil
}

// orEmpty keeps successful list results non-nil.
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
