// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios. For example, ErrSeatTaken indicates that an occupancy
// insert collided with an existing seat row, while ErrShowNotFound
// signals that a referenced show does not exist.
package repository

import "errors"

// ErrMovieNotFound is returned when a movie id has no row in the
// movies table. Callers typically react by fetching the movie from
// the external metadata provider.
var ErrMovieNotFound = errors.New("movie not found")

// ErrShowNotFound indicates that a show was not located in the DB.
var ErrShowNotFound = errors.New("show not found")

// ErrUserNotFound indicates that a user shadow record does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrSeatTaken is returned when inserting an occupancy row violates
// the (show_id, seat_label) unique key, i.e. another booking already
// holds one of the requested seats. Services translate this into a
// seats-unavailable failure with no partial commitment.
var ErrSeatTaken = errors.New("seat already taken")
