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

const createSongTables = `
CREATE TABLE IF NOT EXISTS artists (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	created_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS genres (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	created_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS songs (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	info TEXT NOT NULL DEFAULT '',
	owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_songs_created_at ON songs(created_at);
CREATE TABLE IF NOT EXISTS song_artists (
	song_id TEXT NOT NULL REFERENCES songs(id) ON DELETE CASCADE,
	artist_id TEXT NOT NULL REFERENCES artists(id),
	position INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (song_id, artist_id)
);
CREATE TABLE IF NOT EXISTS song_genres (
	song_id TEXT NOT NULL REFERENCES songs(id) ON DELETE CASCADE,
	genre_id TEXT NOT NULL REFERENCES genres(id),
	position INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (song_id, genre_id)
);
`

type SongRepository struct {
	db *sql.DB
}

func NewSongRepository(db *sql.DB) repository.SongRepository {
	return &SongRepository{db: db}
}

func (r *SongRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createSongTables); err != nil {
		return fmt.Errorf("create song tables: %w", err)
	}
	return nil
}

func (r *SongRepository) Create(ctx context.Context, song *domain.Song, artistName, genreName string) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin song tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	artist, err := connectOrCreate(ctx, tx, "artists", artistName)
	if err != nil {
		return "", err
	}
	genre, err := connectOrCreate(ctx, tx, "genres", genreName)
	if err != nil {
		return "", err
	}

	song.ID = uuid.NewString()
	song.CreatedAt = time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `
INSERT INTO songs (id, title, info, owner_id, created_at)
VALUES (?, ?, ?, ?, ?)`,
		song.ID,
		song.Title,
		song.Info,
		song.OwnerID,
		song.CreatedAt,
	); err != nil {
		return "", fmt.Errorf("insert song: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO song_artists (song_id, artist_id, position) VALUES (?, ?, 0)`, song.ID, artist); err != nil {
		return "", fmt.Errorf("link song artist: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO song_genres (song_id, genre_id, position) VALUES (?, ?, 0)`, song.ID, genre); err != nil {
		return "", fmt.Errorf("link song genre: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit song tx: %w", err)
	}

	song.Artists = []domain.Artist{{ID: artist, Name: artistName}}
	song.Genres = []domain.Genre{{ID: genre, Name: genreName}}
	return song.ID, nil
}

// connectOrCreate returns the id of the row named name in table, inserting
// it first when absent. The UNIQUE constraint on name makes concurrent
// inserts of the same name collapse into one row.
func connectOrCreate(ctx context.Context, tx *sql.Tx, table, name string) (string, error) {
	insert := fmt.Sprintf(`INSERT INTO %s (id, name, created_at) VALUES (?, ?, ?) ON CONFLICT(name) DO NOTHING`, table)
	if _, err := tx.ExecContext(ctx, insert, uuid.NewString(), name, time.Now().UTC()); err != nil {
		return "", fmt.Errorf("insert %s %q: %w", table, name, err)
	}

	var id string
	query := fmt.Sprintf(`SELECT id FROM %s WHERE name = ?`, table)
	if err := tx.QueryRowContext(ctx, query, name).Scan(&id); err != nil {
		return "", fmt.Errorf("select %s %q: %w", table, name, err)
	}
	return id, nil
}

func (r *SongRepository) Get(ctx context.Context, id string) (*domain.Song, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, title, info, owner_id, created_at
FROM songs
WHERE id = ?`,
		id,
	)
	song, err := scanSong(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadTags(ctx, song); err != nil {
		return nil, err
	}
	return song, nil
}

func (r *SongRepository) loadTags(ctx context.Context, song *domain.Song) error {
	artistRows, err := r.db.QueryContext(ctx, `
SELECT a.id, a.name
FROM artists a
JOIN song_artists sa ON sa.artist_id = a.id
WHERE sa.song_id = ?
ORDER BY sa.position ASC, a.created_at ASC, a.rowid ASC`,
		song.ID,
	)
	if err != nil {
		return fmt.Errorf("list song artists: %w", err)
	}
	defer artistRows.Close()

	song.Artists = nil
	for artistRows.Next() {
		var artist domain.Artist
		if err := artistRows.Scan(&artist.ID, &artist.Name); err != nil {
			return fmt.Errorf("scan song artist: %w", err)
		}
		song.Artists = append(song.Artists, artist)
	}
	if err := artistRows.Err(); err != nil {
		return fmt.Errorf("iterate song artists: %w", err)
	}

	genreRows, err := r.db.QueryContext(ctx, `
SELECT g.id, g.name
FROM genres g
JOIN song_genres sg ON sg.genre_id = g.id
WHERE sg.song_id = ?
ORDER BY sg.position ASC, g.created_at ASC, g.rowid ASC`,
		song.ID,
	)
	if err != nil {
		return fmt.Errorf("list song genres: %w", err)
	}
	defer genreRows.Close()

	song.Genres = nil
	for genreRows.Next() {
		var genre domain.Genre
		if err := genreRows.Scan(&genre.ID, &genre.Name); err != nil {
			return fmt.Errorf("scan song genre: %w", err)
		}
		song.Genres = append(song.Genres, genre)
	}
	if err := genreRows.Err(); err != nil {
		return fmt.Errorf("iterate song genres: %w", err)
	}
	return nil
}

func (r *SongRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM songs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete song: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("song rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("song %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *SongRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM songs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count songs: %w", err)
	}
	return count, nil
}

func (r *SongRepository) GetAt(ctx context.Context, offset int) (*domain.Song, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `
SELECT id
FROM songs
ORDER BY created_at DESC, rowid DESC
LIMIT 1 OFFSET ?`,
		offset,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("song at %d: %w", offset, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("select song at %d: %w", offset, err)
	}
	return r.Get(ctx, id)
}

func (r *SongRepository) ListRecent(ctx context.Context, limit int) ([]domain.SongSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, title
FROM songs
ORDER BY created_at DESC, rowid DESC
LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	defer rows.Close()

	var songs []domain.SongSummary
	for rows.Next() {
		var song domain.SongSummary
		if err := rows.Scan(&song.ID, &song.Title); err != nil {
			return nil, fmt.Errorf("scan song summary: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}
	return songs, nil
}

func (r *SongRepository) ListFeed(ctx context.Context, limit int) ([]domain.FeedItem, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT s.id, s.title, u.username, s.created_at
FROM songs s
JOIN users u ON u.id = s.owner_id
ORDER BY s.created_at DESC, s.rowid DESC
LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list feed songs: %w", err)
	}
	defer rows.Close()

	var items []domain.FeedItem
	for rows.Next() {
		var item domain.FeedItem
		if err := rows.Scan(&item.ID, &item.Title, &item.OwnerUsername, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feed song: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feed songs: %w", err)
	}
	return items, nil
}

func scanSong(row rowScanner) (*domain.Song, error) {
	var song domain.Song
	if err := row.Scan(
		&song.ID,
		&song.Title,
		&song.Info,
		&song.OwnerID,
		&song.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("song: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan song: %w", err)
	}
	return &song, nil
}

// CatalogRepository reads the shared artist and genre tables.
type CatalogRepository struct {
	db *sql.DB
}

func NewCatalogRepository(db *sql.DB) repository.CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) CountArtists(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM artists`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count artists: %w", err)
	}
	return count, nil
}

func (r *CatalogRepository) CountGenres(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM genres`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count genres: %w", err)
	}
	return count, nil
}
