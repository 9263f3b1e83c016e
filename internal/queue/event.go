// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingCreatedEvent is published when a booking is successfully
// committed. It contains enough information for downstream consumers to
// log, notify, or trigger analytics without querying the primary
// database.
type BookingCreatedEvent struct {
	BookingRef string   `json:"booking_ref"`
	UserID     string   `json:"user_id"`
	ShowID     uint64   `json:"show_id"`
	MovieTitle string   `json:"movie_title"`
	ShowsAt    string   `json:"shows_at"`
	Seats      []string `json:"seats"`
	Amount     float64  `json:"amount"`
	CreatedAt  string   `json:"created_at"`
}
