package model

import "time"

// Booking status values.  A booking is created as Paid when it is
// driven by a confirmed payment; Due exists for records imported
// from before the payment integration.
const (
	BookingStatusDue  = "Due"
	BookingStatusPaid = "Paid"
)

// Booking records a confirmed occupancy tying a person to a listing
// and room type.  It is created by the booking ledger on payment
// confirmation together with the matching inventory reservation, and
// removed on cancellation together with the matching release.
//
// Fields:
//  ID          – primary key identifier.
//  ListingID   – listing being occupied.
//  Name        – occupant's full name.
//  Email       – occupant's email address.
//  Mobile      – occupant's phone number.
//  RoomType    – room type reserved, matching a listing rooms entry.
//  Status      – Due or Paid.
//  BookingRef  – globally unique external reference.
//  AmountMinor – amount paid in minor currency units.
//  MoveInDate  – planned move-in date (YYYY-MM-DD), optional.
//  PaidAt      – when payment was confirmed (nullable).
//  CreatedAt   – timestamp when the row was inserted.
//  UpdatedAt   – timestamp of the last modification.
type Booking struct {
	ID          uint64     `json:"id"`                   // bookings.id
	ListingID   uint64     `json:"listingId"`            // bookings.listing_id
	Name        string     `json:"name"`                 // bookings.name
	Email       string     `json:"email"`                // bookings.email
	Mobile      string     `json:"mobile"`               // bookings.mobile
	RoomType    string     `json:"roomType"`             // bookings.room_type
	Status      string     `json:"status"`               // bookings.status
	BookingRef  string     `json:"bookingRef"`           // bookings.booking_ref
	AmountMinor int64      `json:"amountMinor"`          // bookings.amount_minor
	MoveInDate  *string    `json:"moveInDate,omitempty"` // bookings.move_in_date (nullable)
	PaidAt      *time.Time `json:"paidAt,omitempty"`     // bookings.paid_at (nullable)
	CreatedAt   time.Time  `json:"createdAt"`            // bookings.created_at
	UpdatedAt   time.Time  `json:"updatedAt"`            // bookings.updated_at
}
