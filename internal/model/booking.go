package model

import "time"

// Booking is a user's confirmed reservation of one or more seats on a
// single show.  Amount is always show price times seat count at
// creation time.  A booking is immutable except for the IsPaid flag,
// which the (out of scope) payment flow may set later.
//
// Reference is a client-facing uuid; ID is the internal primary key.
type Booking struct {
	ID          uint64    `json:"id"`
	Reference   string    `json:"reference"`
	UserID      string    `json:"user"`
	ShowID      uint64    `json:"-"`
	Show        *Show     `json:"show,omitempty"`
	Amount      float64   `json:"amount"`
	BookedSeats []string  `json:"bookedSeats"`
	IsPaid      bool      `json:"isPaid"`
	CreatedAt   time.Time `json:"createdAt"`
}
