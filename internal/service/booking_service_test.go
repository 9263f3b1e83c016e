package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/showtix/showtix/internal/model"
	"github.com/showtix/showtix/internal/queue"
	"github.com/showtix/showtix/internal/repository"
)

type fakeShowGetter struct {
	show *model.Show
}

func (f *fakeShowGetter) GetByID(_ context.Context, id uint64) (*model.Show, error) {
	if f.show == nil || f.show.ID != id {
		return nil, repository.ErrShowNotFound
	}
	return f.show, nil
}

// fakeCommitter mimics the transactional reservation store: under one
// lock it rejects the whole request when any seat is taken, otherwise
// records every seat and the booking.
type fakeCommitter struct {
	mu       sync.Mutex
	occupied map[string]string
	bookings []model.Booking
}

func newFakeCommitter() *fakeCommitter {
	return &fakeCommitter{occupied: map[string]string{}}
}

func (f *fakeCommitter) Commit(_ context.Context, b *model.Booking, labels []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range labels {
		if _, taken := f.occupied[l]; taken {
			return repository.ErrSeatTaken
		}
	}
	for _, l := range labels {
		f.occupied[l] = b.UserID
	}
	b.ID = uint64(len(f.bookings) + 1)
	b.CreatedAt = time.Now()
	f.bookings = append(f.bookings, *b)
	return nil
}

func (f *fakeCommitter) OccupiedLabels(_ context.Context, _ uint64) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.occupied))
	for l := range f.occupied {
		out = append(out, l)
	}
	return out, nil
}

type fakeBookingReader struct {
	byUser map[string][]model.Booking
}

func (f *fakeBookingReader) ListByUser(_ context.Context, userID string) ([]model.Booking, error) {
	return f.byUser[userID], nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.BookingCreatedEvent
}

func (p *recordingPublisher) PublishBookingCreated(_ context.Context, ev queue.BookingCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func testShow() *model.Show {
	return &model.Show{
		ID:           7,
		MovieID:      "100",
		Movie:        &model.Movie{ID: "100", Title: "Arrival"},
		ShowDateTime: time.Date(2025, 7, 1, 18, 0, 0, 0, time.UTC),
		ShowPrice:    10,
	}
}

func newBookingService(committer *fakeCommitter, publisher EventPublisher, maxSeats int) *BookingService {
	return NewBookingService(
		&fakeShowGetter{show: testShow()},
		committer,
		committer,
		&fakeBookingReader{byUser: map[string][]model.Booking{}},
		publisher,
		maxSeats,
		zerolog.Nop(),
	)
}

func TestCreateBookingAmountAndOccupancy(t *testing.T) {
	committer := newFakeCommitter()
	publisher := &recordingPublisher{}
	svc := newBookingService(committer, publisher, 5)

	b, err := svc.Create(context.Background(), "user-1", 7, []string{"A1", "A2"})
	require.NoError(t, err)

	assert.Equal(t, 20.0, b.Amount)
	assert.Equal(t, []string{"A1", "A2"}, b.BookedSeats)
	assert.NotEmpty(t, b.Reference)
	assert.Equal(t, "user-1", committer.occupied["A1"])
	assert.Equal(t, "user-1", committer.occupied["A2"])

	require.Len(t, publisher.events, 1)
	assert.Equal(t, b.Reference, publisher.events[0].BookingRef)
	assert.Equal(t, "Arrival", publisher.events[0].MovieTitle)
	assert.Equal(t, 20.0, publisher.events[0].Amount)

	occupied, err := svc.OccupiedSeats(context.Background(), 7)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A1", "A2"}, occupied)
}

func TestCreateBookingRejectsTakenSeats(t *testing.T) {
	committer := newFakeCommitter()
	svc := newBookingService(committer, nil, 5)

	_, err := svc.Create(context.Background(), "user-1", 7, []string{"A1", "A2"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "user-2", 7, []string{"A2", "A3"})
	require.ErrorIs(t, err, ErrSeatsUnavailable)

	// Nothing from the rejected request may leak through.
	assert.Len(t, committer.bookings, 1)
	_, taken := committer.occupied["A3"]
	assert.False(t, taken)
}

func TestCreateBookingValidation(t *testing.T) {
	svc := newBookingService(newFakeCommitter(), nil, 2)

	_, err := svc.Create(context.Background(), "user-1", 7, nil)
	assert.True(t, IsValidation(err))

	_, err = svc.Create(context.Background(), "user-1", 7, []string{"", ""})
	assert.True(t, IsValidation(err))

	_, err = svc.Create(context.Background(), "user-1", 7, []string{"A1", "A2", "A3"})
	assert.True(t, IsValidation(err))
}

func TestCreateBookingDeduplicatesSeats(t *testing.T) {
	committer := newFakeCommitter()
	svc := newBookingService(committer, nil, 5)

	b, err := svc.Create(context.Background(), "user-1", 7, []string{"A1", "A1", "A2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "A2"}, b.BookedSeats)
	assert.Equal(t, 20.0, b.Amount)
}

func TestCreateBookingUnknownShow(t *testing.T) {
	svc := newBookingService(newFakeCommitter(), nil, 5)

	_, err := svc.Create(context.Background(), "user-1", 999, []string{"A1"})
	assert.ErrorIs(t, err, repository.ErrShowNotFound)
}

// Racing requests for the same seat must produce exactly one booking.
func TestCreateBookingConcurrentSameSeat(t *testing.T) {
	committer := newFakeCommitter()
	svc := newBookingService(committer, nil, 5)

	var g errgroup.Group
	var mu sync.Mutex
	wins, losses := 0, 0
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			_, err := svc.Create(context.Background(), "user", 7, []string{"B5"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, ErrSeatsUnavailable):
				losses++
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, 1, wins)
	assert.Equal(t, 15, losses)
	assert.Len(t, committer.bookings, 1)
}

func TestOccupiedSeatsUnknownShow(t *testing.T) {
	svc := newBookingService(newFakeCommitter(), nil, 5)

	_, err := svc.OccupiedSeats(context.Background(), 999)
	assert.ErrorIs(t, err, repository.ErrShowNotFound)
}
