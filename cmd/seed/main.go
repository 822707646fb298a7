package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/vendorshub/backend/internal/adapters/auth"
	"github.com/vendorshub/backend/internal/adapters/database"
	"github.com/vendorshub/backend/internal/adapters/search"
	"github.com/vendorshub/backend/internal/application/services"
	"github.com/vendorshub/backend/internal/domain/entities"
	"github.com/vendorshub/backend/internal/domain/repositories"
	"github.com/vendorshub/backend/internal/infrastructure/clients/postgres"
	"github.com/vendorshub/backend/internal/infrastructure/clients/typesense"
	"github.com/vendorshub/backend/internal/infrastructure/observability"
	"github.com/vendorshub/backend/pkg/config"
)

const seedPassword = "password123"

var seedVendors = []services.VendorInput{
	{BusinessName: "Chai Point", Category: "Cafe", State: "Karnataka", City: "Bengaluru", Address: "MG Road", Description: "Tea, coffee and quick bites"},
	{BusinessName: "Annapurna Bhojanalaya", Category: "Restaurant", State: "Maharashtra", City: "Pune", Address: "FC Road", Description: "Home style thali"},
	{BusinessName: "Fresh Mart", Category: "Grocery Store", State: "Tamil Nadu", City: "Chennai", Address: "T Nagar", Description: "Daily groceries and produce"},
	{BusinessName: "Style Studio", Category: "Salon", State: "Delhi", City: "New Delhi", Address: "Connaught Place", Description: "Haircuts and grooming"},
	{BusinessName: "City Care Pharmacy", Category: "Pharmacy", State: "Telangana", City: "Hyderabad", Address: "Banjara Hills", Description: "Open late"},
	{BusinessName: "Golden Crust", Category: "Bakery", State: "Kerala", City: "Kochi", Address: "Marine Drive", Description: "Fresh bread every morning"},
	{BusinessName: "Iron Temple", Category: "Gym", State: "Gujarat", City: "Ahmedabad", Address: "SG Highway", Description: "Strength and cardio"},
	{BusinessName: "Page Turner", Category: "Book Store", State: "West Bengal", City: "Kolkata", Address: "College Street", Description: "New and used books"},
}

var seedReviews = []services.ReviewInput{
	{HygieneRating: 5, StaffRating: 4, PricingRating: 4, OverallRating: 5, NecessitiesAvailable: true, Text: "Spotless and friendly."},
	{HygieneRating: 3, StaffRating: 3, PricingRating: 4, OverallRating: 3, NecessitiesAvailable: false, Text: "Decent, a bit crowded."},
	{HygieneRating: 4, StaffRating: 5, PricingRating: 3, OverallRating: 4, NecessitiesAvailable: true, Text: "Great service."},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	observability.InitLogger("vendorshub-seed", cfg.Env, cfg.LogLevel)

	ctx := context.Background()

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to DB")
	}
	defer pgClient.Close()

	if err := pgClient.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply schema")
	}

	if os.Getenv("RESET_DB") == "true" {
		log.Info().Msg("RESET_DB=true detected, truncating tables before seeding")
		if _, err := pgClient.DB().ExecContext(ctx, `TRUNCATE TABLE reviews, vendors, users CASCADE`); err != nil {
			log.Fatal().Err(err).Msg("Failed to reset tables")
		}
	}

	var searchRepo repositories.VendorSearchRepository
	if tsClient, err := typesense.NewClient(&cfg.Typesense); err != nil {
		log.Warn().Err(err).Msg("Typesense unavailable; vendors will not be indexed")
	} else if err := tsClient.InitSchema(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to init Typesense schema; vendors will not be indexed")
	} else {
		searchRepo = search.NewTypesenseAdapter(tsClient)
	}

	userRepo := database.NewUserAdapter(pgClient)
	vendorRepo := database.NewVendorAdapter(pgClient)
	reviewRepo := database.NewReviewAdapter(pgClient)

	accounts := services.NewAccountService(userRepo, auth.NewJWTProvider(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL))
	vendorService := services.NewVendorService(vendorRepo, reviewRepo, searchRepo, nil)
	reviewService := services.NewReviewService(vendorRepo, reviewRepo, nil)

	customers := make([]entities.Identity, 0, len(seedReviews))
	for i := range seedReviews {
		identity, err := register(ctx, accounts, fmt.Sprintf("Customer %d", i+1), fmt.Sprintf("customer%d@example.com", i+1), entities.RoleCustomer)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create customer")
		}
		customers = append(customers, identity)
	}

	for i, in := range seedVendors {
		slug := strings.ToLower(strings.ReplaceAll(in.BusinessName, " ", ""))
		owner, err := register(ctx, accounts, in.BusinessName+" Owner", slug+"@example.com", entities.RoleVendor)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create vendor owner")
		}

		vendor, err := vendorService.Create(ctx, owner, in)
		if err != nil {
			log.Error().Err(err).Str("vendor", in.BusinessName).Msg("Failed to create vendor")
			continue
		}

		// vary review counts so the listing has a spread of ratings
		for j := 0; j < i%len(seedReviews)+1; j++ {
			if _, err := reviewService.Submit(ctx, customers[j], vendor.ID, seedReviews[(i+j)%len(seedReviews)]); err != nil {
				log.Error().Err(err).Str("vendor", in.BusinessName).Msg("Failed to create review")
			}
		}
	}

	log.Info().Int("vendors", len(seedVendors)).Int("customers", len(customers)).Msg("Seeding complete")
}

func register(ctx context.Context, accounts *services.AccountService, name, email string, role entities.Role) (entities.Identity, error) {
	session, err := accounts.Register(ctx, services.Registration{
		Name:     name,
		Email:    email,
		Password: seedPassword,
		Role:     role,
	})
	if err != nil {
		return entities.Identity{}, err
	}
	return entities.Identity{UserID: session.User.ID, Role: session.User.Role}, nil
}
