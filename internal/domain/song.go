package domain

import "time"

// Song is a user submitted track tagged with artist and genre.
type Song struct {
	ID        string
	Title     string
	Info      string
	OwnerID   string
	CreatedAt time.Time
	Artists   []Artist
	Genres    []Genre
}

// PrimaryArtist returns the first artist attached to the song, by position
// and then by artist creation order.
func (s Song) PrimaryArtist() string {
	if len(s.Artists) == 0 {
		return ""
	}
	return s.Artists[0].Name
}

// PrimaryGenre mirrors PrimaryArtist for genres.
func (s Song) PrimaryGenre() string {
	if len(s.Genres) == 0 {
		return ""
	}
	return s.Genres[0].Name
}

type Artist struct {
	ID   string
	Name string
}

type Genre struct {
	ID   string
	Name string
}

// SongSummary is the list view of a song.
type SongSummary struct {
	ID    string
	Title string
}

// FeedItem is a song joined with its owner's username for syndication.
type FeedItem struct {
	ID            string
	Title         string
	OwnerUsername string
	CreatedAt     time.Time
}
