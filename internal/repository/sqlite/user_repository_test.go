package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"music-genre-app/internal/domain"
	"music-genre-app/internal/repository"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create assigns id and timestamps", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))
		user := &domain.User{Username: "alice", PasswordHash: "hash"}

		id, err := repo.Create(ctx, user)
		require.NoError(t, err)
		assert.NotEmpty(t, id)
		assert.Equal(t, id, user.ID)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("Create rejects duplicate username", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserRepository(db)
		createUser(t, db, "alice")

		_, err := repo.Create(ctx, &domain.User{Username: "alice", PasswordHash: "other"})
		require.ErrorIs(t, err, repository.ErrAlreadyExists)
	})

	t.Run("GetByUsername and GetByID", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserRepository(db)
		created := createUser(t, db, "alice")

		byName, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, created.ID, byName.ID)
		assert.Equal(t, "hash", byName.PasswordHash)

		byID, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", byID.Username)
	})

	t.Run("missing user is ErrNotFound", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))

		_, err := repo.GetByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, repository.ErrNotFound)
		_, err = repo.GetByID(ctx, "nope")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("ExistsByUsername", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserRepository(db)
		createUser(t, db, "alice")

		exists, err := repo.ExistsByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByUsername(ctx, "bob")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	users := NewUserRepository(db)
	songs := NewSongRepository(db)

	created, err := Seed(ctx, users, songs)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	created, err = Seed(ctx, users, songs)
	require.NoError(t, err)
	assert.Zero(t, created)

	count, err := songs.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	song, err := songs.GetAt(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "Empire", song.Title)
	assert.Equal(t, "Delta Heavy", song.PrimaryArtist())
	assert.Equal(t, "DnB", song.PrimaryGenre())
}
