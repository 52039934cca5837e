package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"music-genre-app/internal/repository"
	"music-genre-app/internal/repository/sqlite"
)

type fixture struct {
	users    UserService
	songs    SongService
	userRepo repository.UserRepository
	songRepo repository.SongRepository
	catalog  repository.CatalogRepository
}

func newFixture(t *testing.T, opts ...SongOption) *fixture {
	t.Helper()

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	userRepo := sqlite.NewUserRepository(db)
	songRepo := sqlite.NewSongRepository(db)
	require.NoError(t, sqlite.InitAll(context.Background(), userRepo, songRepo))

	return &fixture{
		users:    NewUserService(userRepo, bcrypt.MinCost),
		songs:    NewSongService(songRepo, opts...),
		userRepo: userRepo,
		songRepo: songRepo,
		catalog:  sqlite.NewCatalogRepository(db),
	}
}
