// Package service implements the show-creation, seat-reservation and
// query services sitting between the HTTP boundary and the stores.
// This file defines the error taxonomy the services surface.  Handlers
// translate these into `{success:false, message}` responses; nothing
// is silently swallowed except best-effort event publishing, which is
// logged.
package service

import "errors"

// ValidationError reports bad input rejected before any side effect.
// The message is safe to return to the client verbatim.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// errValidation builds a ValidationError.
func errValidation(msg string) error {
	return &ValidationError{Msg: msg}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrSeatsUnavailable is returned when at least one requested seat is
// already occupied.  No mutation is performed when it occurs.
var ErrSeatsUnavailable = errors.New("selected seats are not available")

// ErrUpstreamFetch wraps failures of the external metadata provider.
// Nothing is persisted when it occurs.
var ErrUpstreamFetch = errors.New("failed to fetch movie data")

// ErrPersistence wraps database write failures after validation has
// passed.  Callers may retry; reads are unaffected.
var ErrPersistence = errors.New("persistence failure")
