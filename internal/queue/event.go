// Package queue defines message payloads exchanged over the message broker
// and the background consumer for inbound payment events.
package queue

// PaymentSucceededEvent is produced by the external payment gateway
// integration once a payment has been validated.  It is the sole
// trigger for booking confirmation: the consumer hands the event to
// the booking ledger, which reserves inventory and writes the booking
// record atomically.
type PaymentSucceededEvent struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Mobile      string  `json:"mobile"`
	ListingID   uint64  `json:"listing_id"`
	RoomType    string  `json:"room_type"`
	AmountMinor int64   `json:"amount_minor"`
	BookingRef  string  `json:"booking_ref,omitempty"`
	MoveInDate  *string `json:"move_in_date,omitempty"`
}

// BookingConfirmedEvent is published when a booking is successfully
// confirmed.  It carries enough information for downstream consumers
// (the notification service in particular) to act without querying
// the primary database.
type BookingConfirmedEvent struct {
	BookingID   uint64 `json:"booking_id"`
	ListingID   uint64 `json:"listing_id"`
	RoomType    string `json:"room_type"`
	BookingRef  string `json:"booking_ref"`
	AmountMinor int64  `json:"amount_minor"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	ConfirmedAt string `json:"confirmed_at"`
}
