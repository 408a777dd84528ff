package repository

import (
	"context"

	"github.com/deppfellow/lightbnb/internal/lib/money"
	"github.com/deppfellow/lightbnb/internal/model"
	"github.com/deppfellow/lightbnb/internal/query"
	"github.com/jackc/pgx/v5"
)

// buildPropertySearch renders the search statement for filter.
//
// Predicates are added in a fixed order: city, owner, minimum price,
// maximum price, then the rating HAVING clause. The limit is always the
// last argument.
func buildPropertySearch(filter model.PropertyFilter, limit int) (string, []any, error) {
	columns := append(append([]string{}, propertyColumns...), averageRatingColumn)

	q := query.Select(columns...).
		From("properties").
		LeftJoin("property_reviews", "property_reviews.property_id = properties.id")

	if filter.City != "" {
		q.Where("properties.city ILIKE ?", query.Contains(filter.City))
	}
	if filter.OwnerID != nil {
		q.Where("properties.owner_id = ?", *filter.OwnerID)
	}
	// Bounds beyond the int64 cent range either exclude nothing or everything.
	if lo := filter.MinimumPricePerNight; lo != nil {
		if cents, err := money.ToMinor(*lo); err == nil {
			q.Where("properties.cost_per_night >= ?", cents)
		} else if lo.IsPositive() {
			q.Where("FALSE")
		}
	}
	if hi := filter.MaximumPricePerNight; hi != nil {
		if cents, err := money.ToMinor(*hi); err == nil {
			q.Where("properties.cost_per_night <= ?", cents)
		} else if hi.IsNegative() {
			q.Where("FALSE")
		}
	}

	q.GroupBy("properties.id")

	if filter.MinimumRating != nil {
		q.Having("avg(property_reviews.rating) >= ?", *filter.MinimumRating)
	}

	return q.OrderBy("properties.cost_per_night", "properties.id").
		Limit(normalizeLimit(limit)).
		Build()
}

// Search returns up to limit properties matching every set field of filter,
// cheapest first. A non-positive limit means DefaultLimit.
func (r *PropertyRepository) Search(ctx context.Context, filter model.PropertyFilter, limit int) ([]model.PropertyWithRating, error) {
	sql, args, err := buildPropertySearch(filter, limit)
	if err != nil {
		return nil, handleError(r.log, "properties.search", "properties", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, handleError(r.log, "properties.search", "properties", err)
	}

	properties, err := pgx.CollectRows(rows, scanPropertyWithRating)
	if err != nil {
		return nil, handleError(r.log, "properties.search", "properties", err)
	}

	return orEmpty(properties), nil
}
