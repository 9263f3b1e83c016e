package model

import "time"

// Show represents one scheduled screening of a movie at an absolute
// start time and price.  Occupancy lives in the show_seats table, one
// row per taken seat label; a show starts with no occupancy rows.
//
// Movie is populated on read paths that join the movies table and is
// nil otherwise.
type Show struct {
	ID           uint64    `json:"_id"`
	MovieID      string    `json:"-"`
	Movie        *Movie    `json:"movie,omitempty"`
	ShowDateTime time.Time `json:"showDateTime"`
	ShowPrice    float64   `json:"showPrice"`
	CreatedAt    time.Time `json:"-"`
}

// Showtime is one bookable (time, show) pair inside a per-movie
// showtimes listing grouped by calendar date.
type Showtime struct {
	Time   time.Time `json:"time"`
	ShowID uint64    `json:"showId"`
}
