package repository

import (
	"context"

	"music-genre-app/internal/domain"
)

// SongRepository exposes persistence operations for songs and the artist
// and genre records they reference.
type SongRepository interface {
	Init(ctx context.Context) error
	// Create inserts the song and links it to the artist and genre with the
	// given names, reusing existing records with a matching name.
	Create(ctx context.Context, song *domain.Song, artistName, genreName string) (string, error)
	Get(ctx context.Context, id string) (*domain.Song, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	// GetAt returns the song at offset in newest-first order.
	GetAt(ctx context.Context, offset int) (*domain.Song, error)
	ListRecent(ctx context.Context, limit int) ([]domain.SongSummary, error)
	ListFeed(ctx context.Context, limit int) ([]domain.FeedItem, error)
}

// CatalogRepository reports on the shared artist and genre records.
type CatalogRepository interface {
	CountArtists(ctx context.Context) (int, error)
	CountGenres(ctx context.Context) (int, error)
}
