package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/showtix/showtix/internal/model"
	"github.com/showtix/showtix/internal/repository"
)

// MovieStore is the movie-catalog surface the show service needs.
type MovieStore interface {
	GetByID(ctx context.Context, id string) (*model.Movie, error)
	CreateIfAbsent(ctx context.Context, m *model.Movie) error
}

// ShowStore is the show-catalog surface the show service needs.
type ShowStore interface {
	CreateBulk(ctx context.Context, shows []model.Show) error
	ListUpcoming(ctx context.Context, from time.Time) ([]model.Show, error)
	ListUpcomingByMovie(ctx context.Context, movieID string, from time.Time) ([]model.Show, error)
}

// MetadataFetcher retrieves movie detail and cast data from the
// external provider on catalog miss.
type MetadataFetcher interface {
	FetchMovie(ctx context.Context, id string) (*model.Movie, error)
}

// ShowInput is one requested screening day with its time slots.
type ShowInput struct {
	Date string   `json:"date"`
	Time []string `json:"time"`
}

// AddShowsInput is the payload of a show-creation request: one show is
// materialized per (date, time) pair, all at the same price.
type AddShowsInput struct {
	MovieID   string      `json:"movieId"`
	Shows     []ShowInput `json:"showsInput"`
	ShowPrice float64     `json:"showPrice"`
}

// ShowService creates shows and serves the catalog read paths.  Movie
// metadata is resolved lazily: the first show referencing a movie pulls
// it from the metadata provider, every later one reuses the stored row.
type ShowService struct {
	movies  MovieStore
	shows   ShowStore
	fetcher MetadataFetcher
	now     func() time.Time
	log     zerolog.Logger
}

// NewShowService constructs a ShowService.  All dependencies must be
// non-nil.
func NewShowService(movies MovieStore, shows ShowStore, fetcher MetadataFetcher, log zerolog.Logger) *ShowService {
	if movies == nil || shows == nil || fetcher == nil {
		panic("nil dependency passed to NewShowService")
	}
	return &ShowService{movies: movies, shows: shows, fetcher: fetcher, now: time.Now, log: log}
}

// AddShows validates the input, resolves the movie (fetching and storing
// it on first reference) and bulk-inserts one show per requested
// date/time pair, each starting with empty occupancy.  Date and time
// strings are interpreted as UTC.  Validation failures leave no side
// effects; a failed bulk insert does not roll back a movie created in
// the same call, since movie creation is idempotent by id and the row is
// simply reused next time.
func (s *ShowService) AddShows(ctx context.Context, in AddShowsInput) error {
	if in.MovieID == "" || len(in.Shows) == 0 || in.ShowPrice <= 0 {
		return errValidation("invalid input data")
	}

	if _, err := s.resolveMovie(ctx, in.MovieID); err != nil {
		return err
	}

	shows := make([]model.Show, 0, len(in.Shows))
	for _, day := range in.Shows {
		for _, t := range day.Time {
			startsAt, err := time.Parse("2006-01-02T15:04:05", day.Date+"T"+t+":00")
			if err != nil {
				return errValidation(fmt.Sprintf("invalid show date/time %q %q", day.Date, t))
			}
			shows = append(shows, model.Show{
				MovieID:      in.MovieID,
				ShowDateTime: startsAt,
				ShowPrice:    in.ShowPrice,
			})
		}
	}
	if len(shows) == 0 {
		return errValidation("no shows to create")
	}

	if err := s.shows.CreateBulk(ctx, shows); err != nil {
		return fmt.Errorf("%w: insert shows: %v", ErrPersistence, err)
	}
	s.log.Info().Str("movie_id", in.MovieID).Int("shows", len(shows)).Msg("shows created")
	return nil
}

// resolveMovie finds the movie in the catalog or fetches and stores it.
// Creation is insert-if-absent, so concurrent first references to the
// same id converge on one row.
func (s *ShowService) resolveMovie(ctx context.Context, movieID string) (*model.Movie, error) {
	movie, err := s.movies.GetByID(ctx, movieID)
	if err == nil {
		return movie, nil
	}
	if !errors.Is(err, repository.ErrMovieNotFound) {
		return nil, fmt.Errorf("%w: load movie: %v", ErrPersistence, err)
	}

	movie, err = s.fetcher.FetchMovie(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFetch, err)
	}
	if err := s.movies.CreateIfAbsent(ctx, movie); err != nil {
		return nil, fmt.Errorf("%w: insert movie: %v", ErrPersistence, err)
	}
	s.log.Info().Str("movie_id", movieID).Str("title", movie.Title).Msg("movie added to catalog")
	return movie, nil
}

// UpcomingMovies returns the distinct movies with at least one future
// show, ordered by their earliest upcoming showtime.
func (s *ShowService) UpcomingMovies(ctx context.Context) ([]model.Movie, error) {
	shows, err := s.shows.ListUpcoming(ctx, s.now().UTC())
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(shows))
	movies := make([]model.Movie, 0, len(shows))
	for _, sh := range shows {
		if sh.Movie == nil {
			continue
		}
		if _, ok := seen[sh.Movie.ID]; ok {
			continue
		}
		seen[sh.Movie.ID] = struct{}{}
		movies = append(movies, *sh.Movie)
	}
	return movies, nil
}

// MovieShowtimes returns a movie together with its future shows grouped
// by calendar date (UTC date string), each date holding its (time,
// showId) pairs ordered by time.  It returns
// repository.ErrMovieNotFound when the movie is not in the catalog.
func (s *ShowService) MovieShowtimes(ctx context.Context, movieID string) (*model.Movie, map[string][]model.Showtime, error) {
	movie, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		return nil, nil, err
	}
	shows, err := s.shows.ListUpcomingByMovie(ctx, movieID, s.now().UTC())
	if err != nil {
		return nil, nil, err
	}
	dateTime := make(map[string][]model.Showtime)
	for _, sh := range shows {
		date := sh.ShowDateTime.UTC().Format("2006-01-02")
		dateTime[date] = append(dateTime[date], model.Showtime{
			Time:   sh.ShowDateTime,
			ShowID: sh.ID,
		})
	}
	return movie, dateTime, nil
}
