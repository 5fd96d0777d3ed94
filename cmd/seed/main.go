package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"strings"

	"reading-service/internal/adapters/storage"
	"reading-service/internal/config"
	"reading-service/internal/database"
	"reading-service/internal/repositories/postgres"
)

func main() {
	reupload := flag.String("reupload", "", "comma separated local cards-<artist>-<collection> directories to upload instead of reading the bucket")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting database seeding...")

	db, err := database.NewPostgresConnection(cfg.Database.URL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		slog.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	s := &Seeder{
		packages:        postgres.NewPackageRepository(db),
		users:           postgres.NewUserRepository(db),
		paymentAccounts: postgres.NewPaymentAccountRepository(db),
		artists:         postgres.NewArtistRepository(db),
		arts:            postgres.NewArtRepository(db),
		devUserID:       cfg.Clerk.DevUserID,
		artFolder:       cfg.Storage.ArtFolder,
	}
	if cfg.Stripe.SecretKey != "" {
		s.prices = newStripeCatalog(cfg.Stripe.SecretKey, cfg.Stripe.ConnectedAccountID)
	}
	if cfg.Storage.Enabled() {
		spaces, err := storage.NewSpacesClient(cfg.Storage)
		if err != nil {
			slog.Error("Failed to connect to object storage", "error", err)
			os.Exit(1)
		}
		s.storage = spaces
	}

	ctx := context.Background()
	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"packages", s.SeedPackages},
		{"users", s.SeedUsers},
		{"payment accounts", s.SeedPaymentAccounts},
		{"artists", s.SeedArtists},
		{"arts", func(ctx context.Context) error {
			if *reupload != "" {
				return s.SeedArtsByUpload(ctx, strings.Split(*reupload, ","))
			}
			return s.SeedArts(ctx)
		}},
	}

	for _, step := range steps {
		slog.Info("Seeding " + step.name + "...")
		if err := step.run(ctx); err != nil {
			slog.Error("Seeding failed", "step", step.name, "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Database seeding completed successfully!")
}
