package model

import (
	"github.com/deppfellow/lightbnb/internal/lib/money"
	"github.com/deppfellow/lightbnb/internal/validation"
	"github.com/shopspring/decimal"
)

// Property is a row of the properties table.
//
// CostPerNight is in major currency units (dollars). The database column
// holds minor units (cents); the repository converts at the boundary.
type Property struct {
	ID                int64           `json:"id"`
	OwnerID           int64           `json:"owner_id"`
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	ThumbnailPhotoURL string          `json:"thumbnail_photo_url"`
	CoverPhotoURL     string          `json:"cover_photo_url"`
	CostPerNight      decimal.Decimal `json:"cost_per_night"`
	Street            string          `json:"street"`
	City              string          `json:"city"`
	Province          string          `json:"province"`
	PostCode          string          `json:"post_code"`
	Country           string          `json:"country"`
	ParkingSpaces     int32           `json:"parking_spaces"`
	NumberOfBathrooms int32           `json:"number_of_bathrooms"`
	NumberOfBedrooms  int32           `json:"number_of_bedrooms"`
}

// PropertyWithRating is a property plus the average of its review ratings.
// AverageRating is nil when the property has no reviews.
type PropertyWithRating struct {
	Property
	AverageRating *float64 `json:"average_rating"`
}

// CreatePropertyInput carries every column an owner supplies for a new listing.
type CreatePropertyInput struct {
	OwnerID           int64           `json:"owner_id" validate:"required,gt=0"`
	Title             string          `json:"title" validate:"required,max=255"`
	Description       string          `json:"description"`
	ThumbnailPhotoURL string          `json:"thumbnail_photo_url" validate:"required,url,max=255"`
	CoverPhotoURL     string          `json:"cover_photo_url" validate:"required,url,max=255"`
	CostPerNight      decimal.Decimal `json:"cost_per_night"`
	Street            string          `json:"street" validate:"required,max=255"`
	City              string          `json:"city" validate:"required,max=255"`
	Province          string          `json:"province" validate:"required,max=255"`
	PostCode          string          `json:"post_code" validate:"required,max=255"`
	Country           string          `json:"country" validate:"required,max=255"`
	ParkingSpaces     int32           `json:"parking_spaces" validate:"min=0"`
	NumberOfBathrooms int32           `json:"number_of_bathrooms" validate:"min=0"`
	NumberOfBedrooms  int32           `json:"number_of_bedrooms" validate:"min=0"`
}

// Validate checks the struct tags, then the price, which validator tags
// cannot express for decimal.Decimal.
func (in *CreatePropertyInput) Validate() error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	var msg string
	switch {
	case in.CostPerNight.IsNegative():
		msg = "must not be negative"
	case !money.IsWholeMinor(in.CostPerNight):
		msg = "must not have more than 2 decimal places"
	default:
		if _, err := money.ToMinor(in.CostPerNight); err != nil {
			msg = "is too large"
		}
	}
	if msg != "" {
		return validation.CustomValidationErrors{{Field: "cost_per_night", Message: msg}}
	}
	return nil
}

// PropertyFilter is the sparse set of search criteria for PropertyRepository.Search.
// Zero values (empty City, nil pointers) mean "not filtered".
type PropertyFilter struct {
	// City matches any property whose city contains this text, ignoring case.
	City string `json:"city,omitempty"`

	OwnerID *int64 `json:"owner_id,omitempty"`

	// Price bounds are inclusive and in major currency units.
	MinimumPricePerNight *decimal.Decimal `json:"minimum_price_per_night,omitempty"`
	MaximumPricePerNight *decimal.Decimal `json:"maximum_price_per_night,omitempty"`

	// MinimumRating is an inclusive lower bound on the average review rating.
	MinimumRating *float64 `json:"minimum_rating,omitempty"`
}
