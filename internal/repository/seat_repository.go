package repository // repository for per-show seat occupancy

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// mysqlDupEntry is the server error code for a unique-key violation.
const mysqlDupEntry = 1062

// SeatRepo encapsulates database operations on show_seats.  Each row marks
// one seat label of one show as held by a user under a booking; the
// (show_id, seat_label) unique key is the system's seat-consistency
// guard.  Reserving a seat means inserting its row, so two transactions
// racing for the same seat cannot both commit: the loser fails with a
// duplicate-key error which is surfaced as ErrSeatTaken.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo given a DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// OccupiedLabels returns the seat labels currently taken for a show,
// sorted ascending.  A show without occupancy yields an empty slice.
func (r *SeatRepo) OccupiedLabels(ctx context.Context, showID uint64) ([]string, error) {
	const q = `SELECT seat_label FROM show_seats WHERE show_id = ? ORDER BY seat_label ASC`
	rows, err := r.db.QueryContext(ctx, q, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	labels := make([]string, 0)
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return labels, nil
}

// TakenAmongTx returns which of the requested seat labels are already
// occupied for the show, reading within the caller's transaction with a
// row lock so a concurrent reservation of the same seats blocks until
// this transaction resolves.
func (r *SeatRepo) TakenAmongTx(ctx context.Context, tx *sql.Tx, showID uint64, labels []string) ([]string, error) {
	if len(labels) == 0 {
		return nil, nil
	}
	placeholders := make([]string, 0, len(labels))
	args := make([]interface{}, 0, len(labels)+1)
	args = append(args, showID)
	for _, l := range labels {
		placeholders = append(placeholders, "?")
		args = append(args, l)
	}
	q := `SELECT seat_label FROM show_seats
          WHERE show_id = ? AND seat_label IN (` + strings.Join(placeholders, ",") + `)
          FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var taken []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, err
		}
		taken = append(taken, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return taken, nil
}

// ReserveTx inserts one occupancy row per seat label within the caller's
// transaction, attributing every seat to the given user and booking.  A
// duplicate-key violation means another booking beat this one to at least
// one seat; it is returned as ErrSeatTaken and the caller is expected to
// roll back the whole transaction.
func (r *SeatRepo) ReserveTx(ctx context.Context, tx *sql.Tx, showID, bookingID uint64, userID string, labels []string) error {
	if len(labels) == 0 {
		return nil
	}
	query := `INSERT INTO show_seats (show_id, seat_label, user_id, booking_id) VALUES `
	args := make([]interface{}, 0, len(labels)*4)
	for i, l := range labels {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, showID, l, userID, bookingID)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDupEntry {
			return ErrSeatTaken
		}
		return err
	}
	return nil
}

// OccupiedCounts returns the number of taken seats per show for the given
// show IDs.  Shows without occupancy are absent from the map.
func (r *SeatRepo) OccupiedCounts(ctx context.Context, showIDs []uint64) (map[uint64]int, error) {
	counts := make(map[uint64]int)
	if len(showIDs) == 0 {
		return counts, nil
	}
	placeholders := make([]string, 0, len(showIDs))
	args := make([]interface{}, 0, len(showIDs))
	for _, id := range showIDs {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	q := `SELECT show_id, COUNT(*) FROM show_seats
          WHERE show_id IN (` + strings.Join(placeholders, ",") + `)
          GROUP BY show_id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id uint64
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}
