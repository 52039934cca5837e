package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"music-genre-app/internal/domain"
	"music-genre-app/internal/repository"
)

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong password.
	ErrInvalidCredentials = errors.New("username/password combination is incorrect")
	ErrUserAlreadyExists  = errors.New("username is taken")
)

// UserService registers and authenticates accounts. Returned users never
// carry the password hash.
type UserService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type userService struct {
	users repository.UserRepository
	cost  int
}

// NewUserService builds a UserService hashing passwords with bcrypt at cost
// (bcrypt.DefaultCost when cost is zero).
func NewUserService(users repository.UserRepository, cost int) UserService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &userService{
		users: users,
		cost:  cost,
	}
}

// Register expects already validated input.
func (s *userService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created := &domain.User{Username: username, PasswordHash: string(hash)}
	_, err = s.users.Create(ctx, created)
	switch {
	case errors.Is(err, repository.ErrAlreadyExists):
		// lost a race with a concurrent registration
		return nil, ErrUserAlreadyExists
	case err != nil:
		return nil, fmt.Errorf("create user: %w", err)
	}
	return withoutHash(created), nil
}

func (s *userService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	stored, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return withoutHash(stored), nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	stored, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return withoutHash(stored), nil
}

func withoutHash(u *domain.User) *domain.User {
	out := *u
	out.PasswordHash = ""
	return &out
}
