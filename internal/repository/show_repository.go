// Package repository contains data access logic for Show domain operations.
// This file defines repository methods for shows. A Show represents one
// scheduled screening of a movie at an absolute start time and price.
// Show timestamps are stored as DATETIME in UTC; the DSN's parseTime/loc
// settings make them scan into time.Time directly.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/showtix/showtix/internal/model"
)

// ShowRepo manages persistence for shows.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *ShowRepo) DB() *sql.DB {
	return r.db
}

// CreateBulk inserts multiple shows in a single statement.  Each show
// starts with an empty occupancy (no show_seats rows).  The generated
// IDs are not populated on the passed values; callers that need them
// should re-query.  Passing an empty slice has no effect and returns nil.
func (r *ShowRepo) CreateBulk(ctx context.Context, shows []model.Show) error {
	if len(shows) == 0 {
		return nil
	}
	query := `INSERT INTO shows (movie_id, starts_at, price) VALUES `
	args := make([]interface{}, 0, len(shows)*3)
	for i, s := range shows {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, s.MovieID, s.ShowDateTime.UTC(), s.ShowPrice)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// GetByID retrieves a show by its ID, with its movie resolved.  It
// returns ErrShowNotFound if there is no matching row.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*model.Show, error) {
	const q = `SELECT s.id, s.movie_id, s.starts_at, s.price, s.created_at,
                      m.id, m.title, m.overview, m.poster_path, m.backdrop_path, m.release_date,
                      m.original_language, m.tagline, m.genres, m.casts, m.vote_average, m.runtime,
                      m.adult, m.popularity, m.status, m.created_at
               FROM shows s
               JOIN movies m ON m.id = s.movie_id
               WHERE s.id = ?`
	s, err := scanShowWithMovie(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return s, nil
}

// ListUpcoming returns all shows starting at or after the given instant,
// each with its movie resolved, ordered by start time ascending.  When no
// shows match it returns an empty slice and nil error.
func (r *ShowRepo) ListUpcoming(ctx context.Context, from time.Time) ([]model.Show, error) {
	const q = `SELECT s.id, s.movie_id, s.starts_at, s.price, s.created_at,
                      m.id, m.title, m.overview, m.poster_path, m.backdrop_path, m.release_date,
                      m.original_language, m.tagline, m.genres, m.casts, m.vote_average, m.runtime,
                      m.adult, m.popularity, m.status, m.created_at
               FROM shows s
               JOIN movies m ON m.id = s.movie_id
               WHERE s.starts_at >= ?
               ORDER BY s.starts_at ASC`
	rows, err := r.db.QueryContext(ctx, q, from.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Show, 0)
	for rows.Next() {
		s, err := scanShowWithMovie(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListUpcomingByMovie returns future shows of one movie ordered by start
// time ascending.  The movie itself is not resolved here; callers load it
// separately when they need it.
func (r *ShowRepo) ListUpcomingByMovie(ctx context.Context, movieID string, from time.Time) ([]model.Show, error) {
	const q = `SELECT id, movie_id, starts_at, price, created_at
               FROM shows
               WHERE movie_id = ? AND starts_at >= ?
               ORDER BY starts_at ASC`
	rows, err := r.db.QueryContext(ctx, q, movieID, from.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Show, 0)
	for rows.Next() {
		var s model.Show
		if err := rows.Scan(&s.ID, &s.MovieID, &s.ShowDateTime, &s.ShowPrice, &s.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// scanShowWithMovie scans a shows row joined with its movies row.
func scanShowWithMovie(row interface{ Scan(...interface{}) error }) (*model.Show, error) {
	var s model.Show
	var m model.Movie
	var genres, casts []byte
	if err := row.Scan(
		&s.ID, &s.MovieID, &s.ShowDateTime, &s.ShowPrice, &s.CreatedAt,
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
	s.Movie = &m
	return &s, nil
}
