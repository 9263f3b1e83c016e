package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/showtix/showtix/internal/model"
	"github.com/showtix/showtix/internal/queue"
	"github.com/showtix/showtix/internal/repository"
)

// ShowGetter loads one show with its movie resolved.
type ShowGetter interface {
	GetByID(ctx context.Context, id uint64) (*model.Show, error)
}

// ReservationCommitter persists a booking and its seat occupancy as one
// atomic unit, returning repository.ErrSeatTaken when any seat is
// already held.
type ReservationCommitter interface {
	Commit(ctx context.Context, b *model.Booking, labels []string) error
}

// SeatReader reads current occupancy for a show.
type SeatReader interface {
	OccupiedLabels(ctx context.Context, showID uint64) ([]string, error)
}

// BookingReader serves the booking read paths.
type BookingReader interface {
	ListByUser(ctx context.Context, userID string) ([]model.Booking, error)
}

// EventPublisher relays booking events to the message broker.  Publish
// failures never fail the booking; they are logged and dropped.
type EventPublisher interface {
	PublishBookingCreated(ctx context.Context, ev queue.BookingCreatedEvent) error
}

// BookingService validates seat requests and commits reservations.  A
// request either books every requested seat or books none: the commit
// runs in one transaction and the per-show seat uniqueness constraint
// rejects any seat that another booking reached first.
type BookingService struct {
	shows     ShowGetter
	committer ReservationCommitter
	seats     SeatReader
	bookings  BookingReader
	publisher EventPublisher
	maxSeats  int
	log       zerolog.Logger
}

// NewBookingService constructs a BookingService.  maxSeats bounds the
// seats of a single booking; zero or negative disables the bound.
// publisher may be nil when no broker is configured.
func NewBookingService(shows ShowGetter, committer ReservationCommitter, seats SeatReader, bookings BookingReader, publisher EventPublisher, maxSeats int, log zerolog.Logger) *BookingService {
	if shows == nil || committer == nil || seats == nil || bookings == nil {
		panic("nil dependency passed to NewBookingService")
	}
	return &BookingService{
		shows:     shows,
		committer: committer,
		seats:     seats,
		bookings:  bookings,
		publisher: publisher,
		maxSeats:  maxSeats,
		log:       log,
	}
}

// Create books the requested seat labels on a show for one user.  On
// success it returns the created booking with amount = show price times
// seat count.  Failure modes: ValidationError for an empty or oversized
// seat set, repository.ErrShowNotFound for an unknown show,
// ErrSeatsUnavailable when any seat is already occupied (nothing is
// mutated), and ErrPersistence for database write failures.
//
// Identical resubmissions are not deduplicated: every call that passes
// the availability check creates a new booking with a fresh reference.
func (s *BookingService) Create(ctx context.Context, userID string, showID uint64, selectedSeats []string) (*model.Booking, error) {
	seats := dedupeSeats(selectedSeats)
	if len(seats) == 0 {
		return nil, errValidation("no seats selected")
	}
	if s.maxSeats > 0 && len(seats) > s.maxSeats {
		return nil, errValidation(fmt.Sprintf("cannot book more than %d seats", s.maxSeats))
	}

	show, err := s.shows.GetByID(ctx, showID)
	if err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: load show: %v", ErrPersistence, err)
	}

	booking := &model.Booking{
		Reference: uuid.NewString(),
		UserID:    userID,
		ShowID:    showID,
		Amount:    show.ShowPrice * float64(len(seats)),
	}
	if err := s.committer.Commit(ctx, booking, seats); err != nil {
		if errors.Is(err, repository.ErrSeatTaken) {
			return nil, ErrSeatsUnavailable
		}
		return nil, fmt.Errorf("%w: commit booking: %v", ErrPersistence, err)
	}
	booking.Show = show
	booking.BookedSeats = seats

	s.publishCreated(ctx, booking, show)
	return booking, nil
}

// publishCreated relays the booking to the broker.  Best effort only.
func (s *BookingService) publishCreated(ctx context.Context, b *model.Booking, show *model.Show) {
	if s.publisher == nil {
		return
	}
	title := ""
	if show.Movie != nil {
		title = show.Movie.Title
	}
	ev := queue.BookingCreatedEvent{
		BookingRef: b.Reference,
		UserID:     b.UserID,
		ShowID:     b.ShowID,
		MovieTitle: title,
		ShowsAt:    show.ShowDateTime.UTC().Format(time.RFC3339),
		Seats:      b.BookedSeats,
		Amount:     b.Amount,
		CreatedAt:  b.CreatedAt.UTC().Format(time.RFC3339),
	}
	if err := s.publisher.PublishBookingCreated(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("booking_ref", b.Reference).Msg("booking event publish failed")
	}
}

// OccupiedSeats returns the sorted seat labels currently taken on a
// show.  It returns repository.ErrShowNotFound for an unknown show.
func (s *BookingService) OccupiedSeats(ctx context.Context, showID uint64) ([]string, error) {
	if _, err := s.shows.GetByID(ctx, showID); err != nil {
		return nil, err
	}
	return s.seats.OccupiedLabels(ctx, showID)
}

// UserBookings returns all bookings of one user, newest first, each
// resolved with its show and that show's movie.
func (s *BookingService) UserBookings(ctx context.Context, userID string) ([]model.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

// dedupeSeats trims empty labels and drops duplicates while keeping the
// requested order.
func dedupeSeats(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, seat := range in {
		if seat == "" {
			continue
		}
		if _, ok := seen[seat]; ok {
			continue
		}
		seen[seat] = struct{}{}
		out = append(out, seat)
	}
	return out
}
