package sqlite

import (
	"context"
	"fmt"

	"music-genre-app/internal/domain"
	"music-genre-app/internal/repository"
)

type seedUser struct {
	username     string
	passwordHash string
	songs        []seedSong
}

type seedSong struct {
	title  string
	artist string
	genre  string
}

// both hashes are for the password "twixrox"
var demoUsers = []seedUser{
	{
		username:     "kody",
		passwordHash: "$2b$10$K7L1OJ45/4Y2nIvhRVpCe.FSmhDdWoXehVzJptJ/op0lSsvqNu/1u",
	},
	{
		username:     "Massick",
		passwordHash: "$2a$12$.diXWqQPKZysuL0YH.jav.pJHRiowy/SuKzItTeM7chKLjVeGDQv6",
		songs: []seedSong{
			{title: "Empire", artist: "Delta Heavy", genre: "DnB"},
		},
	},
}

// Seed inserts the demo users and their songs. Users that already exist are
// left untouched together with their songs, so Seed can run on every start.
func Seed(ctx context.Context, users repository.UserRepository, songs repository.SongRepository) (int, error) {
	created := 0
	for _, demo := range demoUsers {
		exists, err := users.ExistsByUsername(ctx, demo.username)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}

		user := &domain.User{Username: demo.username, PasswordHash: demo.passwordHash}
		if _, err := users.Create(ctx, user); err != nil {
			return created, fmt.Errorf("seed user %s: %w", demo.username, err)
		}
		created++

		for _, s := range demo.songs {
			song := &domain.Song{Title: s.title, OwnerID: user.ID}
			if _, err := songs.Create(ctx, song, s.artist, s.genre); err != nil {
				return created, fmt.Errorf("seed song %s: %w", s.title, err)
			}
		}
	}
	return created, nil
}
