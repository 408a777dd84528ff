//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/deppfellow/lightbnb/internal/config"
	"github.com/deppfellow/lightbnb/internal/database"
	"github.com/deppfellow/lightbnb/internal/errs"
	"github.com/deppfellow/lightbnb/internal/model"
	"github.com/deppfellow/lightbnb/internal/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB starts PostgreSQL, applies the schema and returns an open database.
func setupTestDB(t *testing.T) *database.Database {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("lightbnb"),
		postgres.WithUsername("labber"),
		postgres.WithPassword("labber"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := &config.Config{
		Primary: config.Primary{Env: "test"},
		Database: config.DatabaseConfig{
			Host:     host,
			Port:     port.Int(),
			User:     "labber",
			Password: "labber",
			Name:     "lightbnb",
			SSLMode:  "disable",
		},
		Observability: config.DefaultObservabilityConfig(),
	}

	log := zerolog.Nop()
	require.NoError(t, database.Migrate(ctx, &log, cfg))

	db, err := database.New(ctx, cfg, &log, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func resetTables(t *testing.T, db *database.Database) {
	t.Helper()
	_, err := db.Pool.Exec(context.Background(),
		`TRUNCATE users, properties, reservations, property_reviews RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
}

func createUser(t *testing.T, repos *repository.Repositories, email string) *model.User {
	t.Helper()
	user, err := repos.Users.Create(context.Background(), model.CreateUserInput{
		Name:     "Guest " + email,
		Email:    email,
		Password: "pw",
	})
	require.NoError(t, err)
	return user
}

func propertyInput(ownerID int64, city, price string) model.CreatePropertyInput {
	return model.CreatePropertyInput{
		OwnerID:           ownerID,
		Title:             "Listing in " + city,
		Description:       "description",
		ThumbnailPhotoURL: "https://images.example.com/thumb.jpg",
		CoverPhotoURL:     "https://images.example.com/cover.jpg",
		CostPerNight:      decimal.RequireFromString(price),
		Street:            "123 Main St",
		City:              city,
		Province:          "BC",
		PostCode:          "V5K 0A1",
		Country:           "Canada",
		ParkingSpaces:     1,
		NumberOfBathrooms: 1,
		NumberOfBedrooms:  2,
	}
}

func createProperty(t *testing.T, repos *repository.Repositories, ownerID int64, city, price string) *model.Property {
	t.Helper()
	p, err := repos.Properties.Create(context.Background(), propertyInput(ownerID, city, price))
	require.NoError(t, err)
	return p
}

func day(offset int) time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func reviewProperty(t *testing.T, db *database.Database, repos *repository.Repositories, guestID, propertyID int64, ratings ...int) {
	t.Helper()
	ctx := context.Background()
	for i, rating := range ratings {
		res, err := repos.Reservations.Create(ctx, model.CreateReservationInput{
			GuestID:    guestID,
			PropertyID: propertyID,
			StartDate:  day(i * 10),
			EndDate:    day(i*10 + 2),
		})
		require.NoError(t, err)

		_, err = db.Pool.Exec(ctx,
			`INSERT INTO property_reviews (guest_id, property_id, reservation_id, rating) VALUES ($1, $2, $3, $4)`,
			guestID, propertyID, res.ID, rating)
		require.NoError(t, err)
	}
}

func propertyIDs(results []model.PropertyWithRating) []int64 {
	ids := make([]int64, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestRepositories_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	log := zerolog.Nop()
	repos := repository.New(db.Pool, &log)
	ctx := context.Background()

	t.Run("user round trip and not found", func(t *testing.T) {
		resetTables(t, db)

		created, err := repos.Users.Create(ctx, model.CreateUserInput{Name: "A", Email: "a@x.com", Password: "pw"})
		require.NoError(t, err)
		assert.Positive(t, created.ID)

		got, err := repos.Users.GetByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, &model.User{ID: created.ID, Name: "A", Email: "a@x.com", Password: "pw"}, got)

		again, err := repos.Users.GetByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, got, again)

		byID, err := repos.Users.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, got, byID)

		missing, err := repos.Users.GetByEmail(ctx, "nouser@x.com")
		assert.Nil(t, missing)
		assert.ErrorIs(t, err, errs.ErrNotFound)

		_, err = repos.Users.GetByID(ctx, created.ID+1000)
		assert.True(t, errs.IsNotFound(err))
	})

	t.Run("duplicate email is a constraint violation", func(t *testing.T) {
		resetTables(t, db)
		createUser(t, repos, "dup@x.com")

		_, err := repos.Users.Create(ctx, model.CreateUserInput{Name: "B", Email: "dup@x.com", Password: "pw"})
		require.True(t, errs.IsConstraint(err))
		assert.Equal(t, "USER_ALREADY_EXISTS", err.(*errs.Error).Code)
		assert.Equal(t, "A User with this Email already exists", err.(*errs.Error).Message)
	})

	t.Run("city match ignores case and price bounds are in major units", func(t *testing.T) {
		resetTables(t, db)
		owner := createUser(t, repos, "owner@x.com")
		cheap := createProperty(t, repos, owner.ID, "Vancouver", "100")
		createProperty(t, repos, owner.ID, "Vancouver", "200")
		createProperty(t, repos, owner.ID, "Toronto", "50")

		var cents int64
		require.NoError(t, db.Pool.QueryRow(ctx,
			`SELECT cost_per_night FROM properties WHERE id = $1`, cheap.ID).Scan(&cents))
		assert.Equal(t, int64(10000), cents)

		maxPrice := decimal.RequireFromString("150")
		results, err := repos.Properties.Search(ctx, model.PropertyFilter{
			City:                 "vancouver",
			MaximumPricePerNight: &maxPrice,
		}, 10)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, cheap.ID, results[0].ID)
		assert.True(t, results[0].CostPerNight.Equal(decimal.NewFromInt(100)))
		assert.Nil(t, results[0].AverageRating)
	})

	t.Run("minimum rating includes the exact average", func(t *testing.T) {
		resetTables(t, db)
		owner := createUser(t, repos, "owner@x.com")
		guest := createUser(t, repos, "guest@x.com")

		exact := createProperty(t, repos, owner.ID, "Victoria", "100")
		below := createProperty(t, repos, owner.ID, "Victoria", "110")
		above := createProperty(t, repos, owner.ID, "Victoria", "120")
		createProperty(t, repos, owner.ID, "Victoria", "130")

		reviewProperty(t, db, repos, guest.ID, exact.ID, 4, 4)
		reviewProperty(t, db, repos, guest.ID, below.ID, 4, 3)
		reviewProperty(t, db, repos, guest.ID, above.ID, 5)

		minRating := 4.0
		results, err := repos.Properties.Search(ctx, model.PropertyFilter{MinimumRating: &minRating}, 0)
		require.NoError(t, err)
		assert.Equal(t, []int64{exact.ID, above.ID}, propertyIDs(results))
		require.NotNil(t, results[0].AverageRating)
		assert.InDelta(t, 4.0, *results[0].AverageRating, 1e-9)

		impossible := 5.5
		results, err = repos.Properties.Search(ctx, model.PropertyFilter{MinimumRating: &impossible}, 0)
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	})

	t.Run("owner filter and unsatisfiable price range", func(t *testing.T) {
		resetTables(t, db)
		alice := createUser(t, repos, "alice@x.com")
		bob := createUser(t, repos, "bob@x.com")
		mine := createProperty(t, repos, alice.ID, "Kelowna", "80")
		createProperty(t, repos, bob.ID, "Kelowna", "90")

		results, err := repos.Properties.Search(ctx, model.PropertyFilter{OwnerID: &alice.ID}, 0)
		require.NoError(t, err)
		assert.Equal(t, []int64{mine.ID}, propertyIDs(results))

		lo, hi := decimal.NewFromInt(100), decimal.NewFromInt(50)
		results, err = repos.Properties.Search(ctx, model.PropertyFilter{
			MinimumPricePerNight: &lo,
			MaximumPricePerNight: &hi,
		}, 0)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("created property is found by its own price", func(t *testing.T) {
		resetTables(t, db)
		owner := createUser(t, repos, "owner@x.com")

		in := propertyInput(owner.ID, "Whistler", "123.45")
		in.Description = ""
		created, err := repos.Properties.Create(ctx, in)
		require.NoError(t, err)
		assert.True(t, created.CostPerNight.Equal(in.CostPerNight), "got %s", created.CostPerNight)

		results, err := repos.Properties.Search(ctx, model.PropertyFilter{
			MinimumPricePerNight: &in.CostPerNight,
			MaximumPricePerNight: &in.CostPerNight,
		}, 0)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, *created, results[0].Property)

		byID, err := repos.Properties.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, *created, byID.Property)

		_, err = repos.Properties.GetByID(ctx, created.ID+1000)
		assert.ErrorIs(t, err, errs.ErrNotFound)
		assert.Equal(t, "Property not found", err.(*errs.Error).Message)
	})

	t.Run("unknown owner is a constraint violation", func(t *testing.T) {
		resetTables(t, db)

		_, err := repos.Properties.Create(ctx, propertyInput(9999, "Nowhere", "10"))
		require.True(t, errs.IsConstraint(err))
		assert.Equal(t, "OWNER_NOT_FOUND", err.(*errs.Error).Code)
	})

	t.Run("reservations are limited and ordered by start date", func(t *testing.T) {
		resetTables(t, db)
		owner := createUser(t, repos, "owner@x.com")
		guest := createUser(t, repos, "guest@x.com")
		property := createProperty(t, repos, owner.ID, "Tofino", "75")

		for _, offset := range []int{40, 10, 30, 0, 20} {
			_, err := repos.Reservations.Create(ctx, model.CreateReservationInput{
				GuestID:    guest.ID,
				PropertyID: property.ID,
				StartDate:  day(offset),
				EndDate:    day(offset + 3),
			})
			require.NoError(t, err)
		}

		results, err := repos.Reservations.ListForGuest(ctx, guest.ID, 2)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.True(t, results[0].StartDate.Equal(day(0)), "got %s", results[0].StartDate)
		assert.True(t, results[1].StartDate.Equal(day(10)), "got %s", results[1].StartDate)
		assert.Equal(t, property.ID, results[0].Property.ID)
		assert.True(t, results[0].Property.CostPerNight.Equal(decimal.NewFromInt(75)))

		all, err := repos.Reservations.ListForGuest(ctx, guest.ID, 0)
		require.NoError(t, err)
		assert.Len(t, all, 5)

		none, err := repos.Reservations.ListForGuest(ctx, owner.ID, 0)
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("reservation for unknown property is a constraint violation", func(t *testing.T) {
		resetTables(t, db)
		guest := createUser(t, repos, "guest@x.com")

		_, err := repos.Reservations.Create(ctx, model.CreateReservationInput{
			GuestID:    guest.ID,
			PropertyID: 4242,
			StartDate:  day(0),
			EndDate:    day(1),
		})
		require.True(t, errs.IsConstraint(err), fmt.Sprintf("got %v", err))
		assert.Equal(t, "PROPERTY_NOT_FOUND", err.(*errs.Error).Code)
	})
}
