package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/showtix/showtix/internal/model"
)

// BookingRepo provides persistence for bookings.  A booking's seat labels
// are not duplicated on the booking row; they are the show_seats rows
// carrying its booking_id, so the occupancy map and the booking can never
// disagree about which seats a booking holds.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying sql.DB for callers that need to begin
// transactions spanning bookings and seat occupancy.
func (r *BookingRepo) DB() *sql.DB {
	return r.db
}

// CreateTx inserts a new booking within the scope of an existing
// transaction.  It populates the generated ID and creation timestamp on
// the provided record.  The caller must commit or roll back the
// transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (reference, user_id, show_id, amount, is_paid) VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, b.Reference, b.UserID, b.ShowID, b.Amount, b.IsPaid)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Query back the created_at default assigned by the database.
	const sel = `SELECT created_at FROM bookings WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt)
}

// ListByUser returns all bookings of one user, newest first, each with
// its show and that show's movie resolved and its seat labels populated.
func (r *BookingRepo) ListByUser(ctx context.Context, userID string) ([]model.Booking, error) {
	const q = bookingSelect + ` WHERE b.user_id = ? ORDER BY b.created_at DESC, b.id DESC`
	return r.queryBookings(ctx, q, userID)
}

// ListAll returns every booking in the system, newest first, with show,
// movie and seat labels resolved.  It backs the admin booking listing.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.Booking, error) {
	const q = bookingSelect + ` ORDER BY b.created_at DESC, b.id DESC`
	return r.queryBookings(ctx, q)
}

// Stats returns the total number of bookings and the revenue summed over
// paid bookings.  It backs the admin dashboard counters.
func (r *BookingRepo) Stats(ctx context.Context) (total int, revenue float64, err error) {
	const q = `SELECT COUNT(*), COALESCE(SUM(CASE WHEN is_paid THEN amount ELSE 0 END), 0) FROM bookings`
	err = r.db.QueryRowContext(ctx, q).Scan(&total, &revenue)
	return total, revenue, err
}

// bookingSelect joins bookings with their show and movie.  Seat labels are
// attached afterwards in a second query (see queryBookings).
const bookingSelect = `SELECT b.id, b.reference, b.user_id, b.show_id, b.amount, b.is_paid, b.created_at,
       s.id, s.movie_id, s.starts_at, s.price, s.created_at,
       m.id, m.title, m.overview, m.poster_path, m.backdrop_path, m.release_date,
       m.original_language, m.tagline, m.genres, m.casts, m.vote_average, m.runtime,
       m.adult, m.popularity, m.status, m.created_at
  FROM bookings b
  JOIN shows s ON s.id = b.show_id
  JOIN movies m ON m.id = s.movie_id`

// queryBookings runs a bookingSelect variant and populates each booking's
// seat labels with one IN query over show_seats, keyed by booking id.
func (r *BookingRepo) queryBookings(ctx context.Context, q string, args ...interface{}) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := make([]model.Booking, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var b model.Booking
		var s model.Show
		var m model.Movie
		var genres, casts []byte
		if err := rows.Scan(
			&b.ID, &b.Reference, &b.UserID, &b.ShowID, &b.Amount, &b.IsPaid, &b.CreatedAt,
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
		b.Show = &s
		b.BookedSeats = []string{}
		index[b.ID] = len(bookings)
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return bookings, nil
	}
	// Populate seat labels for all bookings in a single query.
	ids := make([]interface{}, 0, len(bookings))
	placeholders := make([]string, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ID)
		placeholders = append(placeholders, "?")
	}
	seatQuery := `SELECT booking_id, seat_label FROM show_seats
                  WHERE booking_id IN (` + strings.Join(placeholders, ",") + `)
                  ORDER BY booking_id, seat_label`
	srows, err := r.db.QueryContext(ctx, seatQuery, ids...)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var bid uint64
		var label string
		if err := srows.Scan(&bid, &label); err != nil {
			return nil, err
		}
		idx, ok := index[bid]
		if !ok {
			continue
		}
		bookings[idx].BookedSeats = append(bookings[idx].BookedSeats, label)
	}
	if err := srows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}
