package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"reading-service/internal/models"
	"reading-service/internal/repositories/postgres"

	"github.com/google/uuid"
)

type packageStore interface {
	Upsert(ctx context.Context, pkg *models.Package) error
}

type userStore interface {
	Upsert(ctx context.Context, user *models.User, columns ...string) error
}

type paymentAccountStore interface {
	Upsert(ctx context.Context, acct *models.PaymentAccount) error
}

type artistStore interface {
	Upsert(ctx context.Context, artist *models.Artist) error
	First(ctx context.Context) (*models.Artist, error)
	FindByFullName(ctx context.Context, name string) (*models.Artist, error)
}

type artStore interface {
	CreateMany(ctx context.Context, arts []models.Art) (int64, error)
}

// priceCreator creates a product and price at the payment provider and
// returns the price ID.
type priceCreator interface {
	CreatePrice(ctx context.Context, def packageDef) (string, error)
}

type artStorage interface {
	ListObjectURLs(ctx context.Context, folder, ext string) ([]string, error)
	DeleteFolder(ctx context.Context, folder string) (int, error)
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
}

type Seeder struct {
	packages        packageStore
	users           userStore
	paymentAccounts paymentAccountStore
	artists         artistStore
	arts            artStore

	// Optional collaborators; the matching step is skipped when nil.
	prices  priceCreator
	storage artStorage

	devUserID string
	artFolder string
}

// SeedPackages upserts the package catalogue by type.
func (s *Seeder) SeedPackages(ctx context.Context) error {
	if s.prices == nil {
		slog.Warn("STRIPE_SECRET_KEY not found, skipping package seeding")
		return nil
	}

	for _, def := range packageDefs {
		log := slog.With("packageType", def.Type)
		log.Info("Processing package", "name", def.NameEn)

		priceID := def.StripePriceID
		if priceID == "" {
			log.Info("Package has no Stripe price, creating product and price")
			created, err := s.prices.CreatePrice(ctx, def)
			if err != nil {
				log.Error("Error creating Stripe product/price, continuing without price ID", "error", err)
			} else {
				priceID = created
				log.Info("Stripe price created", "priceID", priceID)
			}
		}

		pkg := &models.Package{
			ID:       def.ID,
			Type:     def.Type,
			NameTh:   def.NameTh,
			NameEn:   def.NameEn,
			PriceThb: def.PriceThb,
		}
		if priceID != "" {
			pkg.StripePriceID = &priceID
		}
		if err := s.packages.Upsert(ctx, pkg); err != nil {
			return err
		}
		log.Info("Package saved to database")
	}
	return nil
}

// SeedUsers upserts the fixed users plus the development user.
func (s *Seeder) SeedUsers(ctx context.Context) error {
	for _, def := range usersToSeed(s.devUserID) {
		user := &models.User{ClerkUserID: def.ClerkUserID}
		var columns []string
		if def.TokenBalance != nil {
			user.TokenBalance = *def.TokenBalance
			columns = append(columns, "token_balance")
		}
		if err := s.users.Upsert(ctx, user, columns...); err != nil {
			return err
		}
		slog.Info("Created/Updated user", "userID", def.ClerkUserID)
	}
	return nil
}

func usersToSeed(devUserID string) []userDef {
	users := append([]userDef(nil), userDefs...)
	if devUserID == "" {
		return users
	}
	for _, u := range users {
		if u.ClerkUserID == devUserID {
			return users
		}
	}
	return append(users, userDef{ClerkUserID: devUserID})
}

func (s *Seeder) SeedPaymentAccounts(ctx context.Context) error {
	for _, def := range paymentAccountDefs {
		acct := def
		if err := s.paymentAccounts.Upsert(ctx, &acct); err != nil {
			return err
		}
		slog.Info("Created/Updated payment account", "userID", acct.ClerkUserID, "customerID", acct.ProviderCustomerID)
	}
	return nil
}

func (s *Seeder) SeedArtists(ctx context.Context) error {
	for _, def := range artistDefs {
		artist := def
		if err := s.artists.Upsert(ctx, &artist); err != nil {
			return err
		}
		slog.Info("Created/Updated artist", "name", artist.FullName, "id", artist.ID)
	}
	return nil
}

// SeedArts creates an art for every .webp object already in the bucket
// folder, all attributed to the first artist.
func (s *Seeder) SeedArts(ctx context.Context) error {
	if s.storage == nil {
		slog.Warn("Object storage not configured, skipping art seeding")
		return nil
	}

	urls, err := s.storage.ListObjectURLs(ctx, s.artFolder, ".webp")
	if err != nil {
		return err
	}
	slog.Info("Found existing images", "folder", s.artFolder, "count", len(urls))
	if len(urls) == 0 {
		slog.Warn("No images found in bucket, run with -reupload first")
		return nil
	}

	artist, err := s.artists.First(ctx)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return errors.New("no artist found, seed artists first")
		}
		return err
	}

	arts := make([]models.Art, 0, len(urls))
	for _, url := range urls {
		arts = append(arts, models.Art{ImageURL: url, ArtistID: artist.ID})
	}
	created, err := s.arts.CreateMany(ctx, arts)
	if err != nil {
		return err
	}
	slog.Info("Finished creating arts from bucket images", "artist", artist.FullName, "created", created)
	return nil
}

// SeedArtsByUpload clears the bucket folder and uploads every file in the
// given local directories. Directories are named cards-<artist>-<collection>.
func (s *Seeder) SeedArtsByUpload(ctx context.Context, dirs []string) error {
	if s.storage == nil {
		return errors.New("object storage not configured")
	}

	deleted, err := s.storage.DeleteFolder(ctx, s.artFolder)
	if err != nil {
		return err
	}
	slog.Info("Deleted existing images", "folder", s.artFolder, "count", deleted)

	for _, dir := range dirs {
		name, err := artistNameFromDir(dir)
		if err != nil {
			return err
		}
		artist, err := s.artists.FindByFullName(ctx, name)
		if err != nil {
			return fmt.Errorf("artist %s: %w", name, err)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}

		var arts []models.Art
		for _, e := range entries {
			if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
				continue
			}
			url, err := s.uploadFile(ctx, filepath.Join(dir, e.Name()))
			if err != nil {
				return err
			}
			arts = append(arts, models.Art{ImageURL: url, ArtistID: artist.ID})
		}

		created, err := s.arts.CreateMany(ctx, arts)
		if err != nil {
			return err
		}
		slog.Info("Uploaded arts", "artist", artist.FullName, "uploaded", len(arts), "created", created)
	}
	return nil
}

func (s *Seeder) uploadFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(path))
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := fmt.Sprintf("%s/%s%s", s.artFolder, uuid.NewString(), ext)
	return s.storage.Upload(ctx, key, f, info.Size(), contentType)
}

// artistNameFromDir turns ".../cards-veeraya-SWEETY" into "Veeraya".
func artistNameFromDir(dir string) (string, error) {
	parts := strings.Split(filepath.Base(dir), "-")
	if len(parts) < 2 || parts[1] == "" {
		return "", fmt.Errorf("cannot derive artist from directory %q", dir)
	}
	name := strings.ToLower(parts[1])
	return strings.ToUpper(name[:1]) + name[1:], nil
}
