package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/showtix/showtix/internal/model"
)

// ReservationStore commits a booking and its seat occupancy as one
// transaction.  Either the booking row and every requested show_seats
// row land together, or nothing does; there is no partial seat
// commitment and no booking without its seat lock.
type ReservationStore struct {
	db       *sql.DB
	bookings *BookingRepo
	seats    *SeatRepo
}

// NewReservationStore wires the transactional commit path over the
// booking and seat repositories.  All three arguments must share the
// same database.
func NewReservationStore(db *sql.DB, bookings *BookingRepo, seats *SeatRepo) *ReservationStore {
	return &ReservationStore{db: db, bookings: bookings, seats: seats}
}

// Commit creates the booking and reserves its seat labels atomically.
// The booking's ID and creation timestamp are populated on success.
// When any requested seat is already occupied, whether caught by the
// locked pre-check or by losing the unique-key race to a concurrent
// transaction, the whole transaction rolls back and ErrSeatTaken is
// returned.
func (s *ReservationStore) Commit(ctx context.Context, b *model.Booking, labels []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Locked pre-check: seats already taken fail fast without burning a
	// booking insert.  The unique key still guards the window between
	// concurrent transactions that both saw the seats free.
	taken, err := s.seats.TakenAmongTx(ctx, tx, b.ShowID, labels)
	if err != nil {
		return err
	}
	if len(taken) > 0 {
		return ErrSeatTaken
	}

	if err := s.bookings.CreateTx(ctx, tx, b); err != nil {
		return err
	}
	if err := s.seats.ReserveTx(ctx, tx, b.ShowID, b.ID, b.UserID, labels); err != nil {
		if errors.Is(err, ErrSeatTaken) {
			return ErrSeatTaken
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
