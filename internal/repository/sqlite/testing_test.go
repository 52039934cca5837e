package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"music-genre-app/internal/domain"
)

// setupTestDB creates an in-memory database with every table in place.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, InitAll(context.Background(),
		NewUserRepository(db),
		NewSongRepository(db),
	))
	return db
}

func createUser(t *testing.T, db *sql.DB, username string) *domain.User {
	t.Helper()

	user := &domain.User{Username: username, PasswordHash: "hash"}
	_, err := NewUserRepository(db).Create(context.Background(), user)
	require.NoError(t, err)
	return user
}
