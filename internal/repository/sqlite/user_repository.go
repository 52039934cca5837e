package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"music-genre-app/internal/domain"
	"music-genre-app/internal/repository"
)

const usersSchema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    DATETIME NOT NULL,
	updated_at    DATETIME NOT NULL
);`

const userColumns = "id, username, password_hash, created_at, updated_at"

// UserRepository stores accounts; usernames are unique at the table level.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, usersSchema)
	if err != nil {
		return fmt.Errorf("init users schema: %w", err)
	}
	return nil
}

// Create assigns a fresh id unless the caller supplied one.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (string, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?)",
		user.ID, user.Username, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("insert user %q: %w", user.Username, repository.ErrAlreadyExists)
		}
		return "", fmt.Errorf("insert user: %w", err)
	}
	return user.ID, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "username", username)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, "id", id)
}

// findOne looks a user up by one of the unique columns.
func (r *UserRepository) findOne(ctx context.Context, column, value string) (*domain.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE " + column + " = ?"
	user, err := scanUser(r.db.QueryRowContext(ctx, query, value))
	if err != nil {
		return nil, fmt.Errorf("find user by %s: %w", column, err)
	}
	return user, nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return exists, nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, repository.ErrNotFound
	case err != nil:
		return nil, err
	}
	return u, nil
}
