package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"reading-service/internal/models"
	"reading-service/internal/repositories/postgres"
)

type ArtistService struct {
	artists ArtistStore
}

func NewArtistService(artists ArtistStore) *ArtistService {
	return &ArtistService{artists: artists}
}

func (s *ArtistService) GetArtist(ctx context.Context, id string) (*models.Artist, error) {
	artist, err := s.artists.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, fmt.Errorf("%w: artist with id %s not found", ErrArtistNotFound, id)
		}
		slog.Error("Failed to get artist", "artistID", id, "error", err)
		return nil, err
	}
	return artist, nil
}
