// Command seed fills a development database with fake growers and listings
// scattered over Napa Valley.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pickmyfruit/pickmyfruit-backend/internal/config"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/database"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/logging"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/models"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/repository"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/spatial"
)

// Napa Valley bounds
const (
	minLat = 38.25
	maxLat = 38.55
	minLng = -122.5
	maxLng = -122.2
)

var (
	quantities = []string{"abundant", "moderate", "few"}
	windows    = []string{"June-July", "August-September", "September-October", "October-November", "Year-round"}
	cities     = []string{"Napa", "Yountville", "St. Helena", "Calistoga", "Sonoma"}
)

func main() {
	users := flag.Int("users", 20, "number of users")
	listings := flag.Int("listings", 50, "number of listings")
	seed := flag.Uint64("seed", 0, "random seed, 0 for a random one")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := logging.New(logging.Options{Level: cfg.LogLevel, JSON: cfg.LogFormat == "json"})

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	ctx := logging.WithLogger(context.Background(), logger)
	faker := gofakeit.New(*seed)

	ids, err := seedUsers(ctx, repository.NewUserRepository(database.GetDB()), faker, *users)
	if err != nil {
		logger.Error("failed to seed users", "error", err)
		os.Exit(1)
	}

	n, err := seedListings(ctx, repository.NewListingRepository(database.GetDB()), faker, ids, *listings)
	if err != nil {
		logger.Error("failed to seed listings", "error", err)
		os.Exit(1)
	}

	logger.Info("seed complete", "users", len(ids), "listings", n, "db", cfg.DBPath)
}

func seedUsers(ctx context.Context, repo *repository.UserRepository, faker *gofakeit.Faker, count int) ([]string, error) {
	now := time.Now().UTC().Truncate(time.Second)
	ids := make([]string, 0, count)

	for i := 0; i < count; i++ {
		phone := faker.Phone()
		u := &models.User{
			ID:            uuid.NewString(),
			Name:          faker.Name(),
			Email:         strings.ToLower(faker.Email()),
			EmailVerified: true,
			Phone:         &phone,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := repo.Create(ctx, u); err != nil {
			return nil, err
		}
		ids = append(ids, u.ID)
	}
	return ids, nil
}

func seedListings(ctx context.Context, repo *repository.ListingRepository, faker *gofakeit.Faker, userIDs []string, count int) (int, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	title := cases.Title(language.English)

	for i := 0; i < count; i++ {
		point := spatial.GeoPoint{
			Lat: faker.Float64Range(minLat, maxLat),
			Lng: faker.Float64Range(minLng, maxLng),
		}
		cell, err := spatial.PointToCell(point, spatial.Storage)
		if err != nil {
			return i, err
		}

		// 3:1 available to unavailable
		status := models.StatusAvailable
		if faker.Number(1, 4) == 4 {
			status = models.StatusUnavailable
		}

		fruit := faker.RandomString(models.FruitTypes)
		quantity := faker.RandomString(quantities)
		window := faker.RandomString(windows)
		zip := faker.Zip()
		created := time.Now().UTC().Add(-time.Duration(faker.Number(0, 60*24)) * time.Hour).Truncate(time.Second)

		l := &models.Listing{
			Name:          title.String(fruit),
			Type:          fruit,
			Status:        status,
			Quantity:      &quantity,
			HarvestWindow: &window,
			Address:       faker.Street(),
			City:          faker.RandomString(cities),
			State:         "CA",
			Zip:           &zip,
			Lat:           point.Lat,
			Lng:           point.Lng,
			H3Index:       cell.String(),
			UserID:        userIDs[faker.Number(0, len(userIDs)-1)],
			CreatedAt:     created,
			UpdatedAt:     created,
		}
		if err := repo.Create(ctx, l); err != nil {
			return i, err
		}
	}
	return count, nil
}
