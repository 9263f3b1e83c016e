package model

import "time"

// Movie lifecycle statuses.  A movie enters the catalog as UPCOMING or
// NOW_PLAYING depending on its release date and is archived manually
// once it leaves circulation.
const (
	MovieStatusNowPlaying = "now_playing"
	MovieStatusUpcoming   = "upcoming"
	MovieStatusArchived   = "archived"
)

// Movie holds the metadata of a film as fetched from the external
// provider.  The primary key is the provider's own identifier so a
// movie is created at most once regardless of how many shows reference
// it.  Rows are immutable after creation.  Genres and Casts are name
// lists flattened from the provider's object arrays; ReleaseDate keeps
// the provider's "YYYY-MM-DD" string form.
type Movie struct {
	ID               string    `json:"_id"`
	Title            string    `json:"title"`
	Overview         string    `json:"overview"`
	PosterPath       string    `json:"poster_path"`
	BackdropPath     string    `json:"backdrop_path"`
	ReleaseDate      string    `json:"release_date"`
	OriginalLanguage string    `json:"original_language"`
	Tagline          string    `json:"tagline"`
	Genres           []string  `json:"genres"`
	Casts            []string  `json:"casts"`
	VoteAverage      float64   `json:"vote_average"`
	Runtime          uint32    `json:"runtime"`
	Adult            bool      `json:"adult"`
	Popularity       float64   `json:"popularity"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"-"`
}
