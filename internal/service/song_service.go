package service

import (
	"context"
	"errors"
	"math/rand/v2"

	"music-genre-app/internal/domain"
	"music-genre-app/internal/repository"
)

const (
	// RecentSongsLimit caps the song list on /songs.
	RecentSongsLimit = 15
	// FeedSongsLimit caps the number of RSS items.
	FeedSongsLimit = 100
)

var (
	ErrSongNotFound = errors.New("song not found")
	ErrNotOwner     = errors.New("song belongs to another user")
	ErrNoSongs      = errors.New("no songs available")
)

// NewSong is validated input for SongService.Create.
type NewSong struct {
	Title  string
	Info   string
	Artist string
	Genre  string
}

// SongDetail is a song as shown on its own page.
type SongDetail struct {
	ID      string
	Title   string
	Info    string
	Artist  string
	Genre   string
	IsOwner bool
}

// SongService coordinates song level operations backed by repositories.
type SongService interface {
	ListRecent(ctx context.Context) ([]domain.SongSummary, error)
	Get(ctx context.Context, id, viewerID string) (*SongDetail, error)
	Create(ctx context.Context, ownerID string, input NewSong) (*domain.Song, error)
	Delete(ctx context.Context, id, userID string) error
	Random(ctx context.Context) (*SongDetail, error)
	Feed(ctx context.Context) ([]domain.FeedItem, error)
}

type songService struct {
	songs repository.SongRepository
	intN  func(n int) int
}

// SongOption customises a SongService.
type SongOption func(*songService)

// WithRandom replaces the source of random offsets used by Random.
func WithRandom(intN func(n int) int) SongOption {
	return func(s *songService) {
		s.intN = intN
	}
}

func NewSongService(songs repository.SongRepository, opts ...SongOption) SongService {
	s := &songService{
		songs: songs,
		intN:  rand.IntN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *songService) ListRecent(ctx context.Context) ([]domain.SongSummary, error) {
	return s.songs.ListRecent(ctx, RecentSongsLimit)
}

func (s *songService) Get(ctx context.Context, id, viewerID string) (*SongDetail, error) {
	song, err := s.songs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSongNotFound
		}
		return nil, err
	}
	detail := toDetail(song)
	detail.IsOwner = viewerID != "" && viewerID == song.OwnerID
	return detail, nil
}

func (s *songService) Create(ctx context.Context, ownerID string, input NewSong) (*domain.Song, error) {
	song := &domain.Song{
		Title:   input.Title,
		Info:    input.Info,
		OwnerID: ownerID,
	}
	if _, err := s.songs.Create(ctx, song, input.Artist, input.Genre); err != nil {
		return nil, err
	}
	return song, nil
}

func (s *songService) Delete(ctx context.Context, id, userID string) error {
	song, err := s.songs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSongNotFound
		}
		return err
	}
	if song.OwnerID != userID {
		return ErrNotOwner
	}
	if err := s.songs.Delete(ctx, id); err != nil {
		// deleted by a concurrent request since the lookup
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSongNotFound
		}
		return err
	}
	return nil
}

func (s *songService) Random(ctx context.Context) (*SongDetail, error) {
	count, err := s.songs.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNoSongs
	}

	song, err := s.songs.GetAt(ctx, s.intN(count))
	if err != nil {
		// rows removed between count and fetch
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoSongs
		}
		return nil, err
	}
	return toDetail(song), nil
}

func (s *songService) Feed(ctx context.Context) ([]domain.FeedItem, error) {
	return s.songs.ListFeed(ctx, FeedSongsLimit)
}

func toDetail(song *domain.Song) *SongDetail {
	return &SongDetail{
		ID:     song.ID,
		Title:  song.Title,
		Info:   song.Info,
		Artist: song.PrimaryArtist(),
		Genre:  song.PrimaryGenre(),
	}
}
