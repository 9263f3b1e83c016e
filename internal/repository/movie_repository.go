// Package repository contains data access logic for the movie catalog. This
// file defines repository methods for movies. A movie row is keyed by the
// external metadata provider's id and is created at most once: creation is
// an insert-if-absent so concurrent requests for the same id converge on a
// single row instead of racing a find-then-insert.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/showtix/showtix/internal/model"
)

// MovieRepo manages persistence for movies.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// movieColumns is the column list shared by every movie SELECT.
const movieColumns = `id, title, overview, poster_path, backdrop_path, release_date,
       original_language, tagline, genres, casts, vote_average, runtime,
       adult, popularity, status, created_at`

// scanMovie scans one movies row. Genre and cast lists are stored as JSON
// text columns and decoded here.
func scanMovie(row interface{ Scan(...interface{}) error }) (*model.Movie, error) {
	var m model.Movie
	var genres, casts []byte
	if err := row.Scan(
		&m.ID, &m.Title, &m.Overview, &m.PosterPath, &m.BackdropPath, &m.ReleaseDate,
		&m.OriginalLanguage, &m.Tagline, &genres, &casts, &m.VoteAverage, &m.Runtime,
		&m.Adult, &m.Popularity, &m.Status, &m.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := unmarshalJSONList(genres, &m.Genres); err != nil {
		return nil, err
	}
	if err := unmarshalJSONList(casts, &m.Casts); err != nil {
		return nil, err
	}
	return &m, nil
}

// unmarshalJSONList decodes a JSON text column holding a string array.
// NULL or empty columns decode to an empty slice rather than an error.
func unmarshalJSONList(b []byte, dst *[]string) error {
	if len(b) == 0 {
		*dst = []string{}
		return nil
	}
	return json.Unmarshal(b, dst)
}

// CreateIfAbsent inserts a movie keyed by its provider id. When a row with
// the same id already exists the statement is a no-op, which makes movie
// creation idempotent under concurrent show creation for the same movie.
func (r *MovieRepo) CreateIfAbsent(ctx context.Context, m *model.Movie) error {
	genres, err := json.Marshal(m.Genres)
	if err != nil {
		return err
	}
	casts, err := json.Marshal(m.Casts)
	if err != nil {
		return err
	}
	const q = `INSERT INTO movies
               (id, title, overview, poster_path, backdrop_path, release_date,
                original_language, tagline, genres, casts, vote_average, runtime,
                adult, popularity, status)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
               ON DUPLICATE KEY UPDATE id = id`
	_, err = r.db.ExecContext(ctx, q,
		m.ID, m.Title, m.Overview, m.PosterPath, m.BackdropPath, m.ReleaseDate,
		m.OriginalLanguage, m.Tagline, genres, casts, m.VoteAverage, m.Runtime,
		m.Adult, m.Popularity, m.Status,
	)
	return err
}

// GetByID retrieves a movie by its provider id. It returns
// ErrMovieNotFound if there is no matching row.
func (r *MovieRepo) GetByID(ctx context.Context, id string) (*model.Movie, error) {
	const q = `SELECT ` + movieColumns + ` FROM movies WHERE id = ?`
	m, err := scanMovie(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return m, nil
}

// ListByIDs returns the movies matching the given provider ids, ordered by
// title. Missing ids are silently skipped; an empty input yields an empty
// slice without touching the database.
func (r *MovieRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Movie, error) {
	if len(ids) == 0 {
		return []model.Movie{}, nil
	}
	placeholders := make([]string, 0, len(ids))
	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	q := `SELECT ` + movieColumns + ` FROM movies WHERE id IN (` +
		strings.Join(placeholders, ",") + `) ORDER BY title`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Movie, 0, len(ids))
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
