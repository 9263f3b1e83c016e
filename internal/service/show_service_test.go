package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showtix/showtix/internal/model"
	"github.com/showtix/showtix/internal/repository"
)

type fakeMovieStore struct {
	movies  map[string]*model.Movie
	getErr  error
	creates int
}

func newFakeMovieStore() *fakeMovieStore {
	return &fakeMovieStore{movies: map[string]*model.Movie{}}
}

func (f *fakeMovieStore) GetByID(_ context.Context, id string) (*model.Movie, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	m, ok := f.movies[id]
	if !ok {
		return nil, repository.ErrMovieNotFound
	}
	return m, nil
}

func (f *fakeMovieStore) CreateIfAbsent(_ context.Context, m *model.Movie) error {
	f.creates++
	if _, ok := f.movies[m.ID]; !ok {
		f.movies[m.ID] = m
	}
	return nil
}

type fakeShowStore struct {
	created   []model.Show
	upcoming  []model.Show
	createErr error
}

func (f *fakeShowStore) CreateBulk(_ context.Context, shows []model.Show) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, shows...)
	return nil
}

func (f *fakeShowStore) ListUpcoming(_ context.Context, _ time.Time) ([]model.Show, error) {
	return f.upcoming, nil
}

func (f *fakeShowStore) ListUpcomingByMovie(_ context.Context, movieID string, _ time.Time) ([]model.Show, error) {
	out := []model.Show{}
	for _, s := range f.upcoming {
		if s.MovieID == movieID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeFetcher struct {
	movie   *model.Movie
	err     error
	fetches int
}

func (f *fakeFetcher) FetchMovie(_ context.Context, id string) (*model.Movie, error) {
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	m := *f.movie
	m.ID = id
	return &m, nil
}

func newShowService(movies *fakeMovieStore, shows *fakeShowStore, fetcher *fakeFetcher) *ShowService {
	return NewShowService(movies, shows, fetcher, zerolog.Nop())
}

func TestAddShowsCreatesOneShowPerTimeSlot(t *testing.T) {
	movies := newFakeMovieStore()
	shows := &fakeShowStore{}
	fetcher := &fakeFetcher{movie: &model.Movie{Title: "Arrival"}}
	svc := newShowService(movies, shows, fetcher)

	err := svc.AddShows(context.Background(), AddShowsInput{
		MovieID: "100",
		Shows: []ShowInput{
			{Date: "2025-07-01", Time: []string{"18:00", "21:00"}},
			{Date: "2025-07-02", Time: []string{"20:30"}},
		},
		ShowPrice: 12,
	})
	require.NoError(t, err)

	require.Len(t, shows.created, 3)
	assert.Equal(t, time.Date(2025, 7, 1, 18, 0, 0, 0, time.UTC), shows.created[0].ShowDateTime)
	assert.Equal(t, time.Date(2025, 7, 1, 21, 0, 0, 0, time.UTC), shows.created[1].ShowDateTime)
	assert.Equal(t, time.Date(2025, 7, 2, 20, 30, 0, 0, time.UTC), shows.created[2].ShowDateTime)
	for _, s := range shows.created {
		assert.Equal(t, "100", s.MovieID)
		assert.Equal(t, 12.0, s.ShowPrice)
	}
}

func TestAddShowsFetchesMovieOnlyOnFirstReference(t *testing.T) {
	movies := newFakeMovieStore()
	shows := &fakeShowStore{}
	fetcher := &fakeFetcher{movie: &model.Movie{Title: "Arrival"}}
	svc := newShowService(movies, shows, fetcher)

	in := AddShowsInput{
		MovieID:   "100",
		Shows:     []ShowInput{{Date: "2025-07-01", Time: []string{"18:00"}}},
		ShowPrice: 10,
	}
	require.NoError(t, svc.AddShows(context.Background(), in))
	require.NoError(t, svc.AddShows(context.Background(), in))

	assert.Equal(t, 1, fetcher.fetches, "second call must reuse the stored movie")
	assert.Equal(t, 1, movies.creates)
}

func TestAddShowsValidation(t *testing.T) {
	svc := newShowService(newFakeMovieStore(), &fakeShowStore{}, &fakeFetcher{movie: &model.Movie{}})

	cases := []struct {
		name string
		in   AddShowsInput
	}{
		{"missing movie id", AddShowsInput{Shows: []ShowInput{{Date: "2025-07-01", Time: []string{"18:00"}}}, ShowPrice: 10}},
		{"no show days", AddShowsInput{MovieID: "100", ShowPrice: 10}},
		{"zero price", AddShowsInput{MovieID: "100", Shows: []ShowInput{{Date: "2025-07-01", Time: []string{"18:00"}}}}},
		{"bad time format", AddShowsInput{MovieID: "100", Shows: []ShowInput{{Date: "2025-07-01", Time: []string{"half past six"}}}, ShowPrice: 10}},
		{"days without slots", AddShowsInput{MovieID: "100", Shows: []ShowInput{{Date: "2025-07-01"}}, ShowPrice: 10}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.AddShows(context.Background(), tc.in)
			assert.True(t, IsValidation(err), "want validation error, got %v", err)
		})
	}
}

func TestAddShowsUpstreamFailureLeavesNothingBehind(t *testing.T) {
	movies := newFakeMovieStore()
	shows := &fakeShowStore{}
	fetcher := &fakeFetcher{err: errors.New("tmdb 503")}
	svc := newShowService(movies, shows, fetcher)

	err := svc.AddShows(context.Background(), AddShowsInput{
		MovieID:   "100",
		Shows:     []ShowInput{{Date: "2025-07-01", Time: []string{"18:00"}}},
		ShowPrice: 10,
	})
	require.ErrorIs(t, err, ErrUpstreamFetch)
	assert.Empty(t, shows.created)
	assert.Zero(t, movies.creates)
}

func TestUpcomingMoviesDeduplicatesByMovie(t *testing.T) {
	arrival := &model.Movie{ID: "100", Title: "Arrival"}
	dune := &model.Movie{ID: "200", Title: "Dune"}
	shows := &fakeShowStore{upcoming: []model.Show{
		{ID: 1, MovieID: "100", Movie: arrival},
		{ID: 2, MovieID: "200", Movie: dune},
		{ID: 3, MovieID: "100", Movie: arrival},
	}}
	svc := newShowService(newFakeMovieStore(), shows, &fakeFetcher{movie: &model.Movie{}})

	movies, err := svc.UpcomingMovies(context.Background())
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, "Arrival", movies[0].Title)
	assert.Equal(t, "Dune", movies[1].Title)
}

func TestMovieShowtimesGroupsByDate(t *testing.T) {
	movies := newFakeMovieStore()
	movies.movies["100"] = &model.Movie{ID: "100", Title: "Arrival"}
	shows := &fakeShowStore{upcoming: []model.Show{
		{ID: 1, MovieID: "100", ShowDateTime: time.Date(2025, 7, 1, 18, 0, 0, 0, time.UTC)},
		{ID: 2, MovieID: "100", ShowDateTime: time.Date(2025, 7, 1, 21, 0, 0, 0, time.UTC)},
		{ID: 3, MovieID: "100", ShowDateTime: time.Date(2025, 7, 2, 20, 30, 0, 0, time.UTC)},
	}}
	svc := newShowService(movies, shows, &fakeFetcher{movie: &model.Movie{}})

	movie, dateTime, err := svc.MovieShowtimes(context.Background(), "100")
	require.NoError(t, err)
	assert.Equal(t, "Arrival", movie.Title)
	require.Len(t, dateTime, 2)
	require.Len(t, dateTime["2025-07-01"], 2)
	require.Len(t, dateTime["2025-07-02"], 1)
	assert.Equal(t, uint64(1), dateTime["2025-07-01"][0].ShowID)
	assert.Equal(t, uint64(3), dateTime["2025-07-02"][0].ShowID)
}

func TestMovieShowtimesUnknownMovie(t *testing.T) {
	svc := newShowService(newFakeMovieStore(), &fakeShowStore{}, &fakeFetcher{movie: &model.Movie{}})

	_, _, err := svc.MovieShowtimes(context.Background(), "nope")
	assert.ErrorIs(t, err, repository.ErrMovieNotFound)
}
