package service

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/openstay/booking-service/internal/model"
	"github.com/openstay/booking-service/internal/queue"
	"github.com/openstay/booking-service/internal/repository"
)

// InventoryStore is the slice of the inventory repository the ledger
// depends on.  Reserve and release run inside the ledger's
// transaction so that inventory mutation and booking writes commit or
// roll back together.
type InventoryStore interface {
	ReserveTx(ctx context.Context, tx *sql.Tx, listingID uint64, roomType string) error
	ReleaseTx(ctx context.Context, tx *sql.Tx, listingID uint64, roomType string) error
}

// BookingStore is the slice of the booking repository the ledger
// depends on.
type BookingStore interface {
	CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	GetForCancelTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error)
	DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error
	UpdateMoveInDate(ctx context.Context, id uint64, date string) (*model.Booking, error)
}

// ListingReader looks up listings by id.  Listing management is an
// external collaborator; the ledger only needs the lookup.
type ListingReader interface {
	GetByID(ctx context.Context, id uint64) (*model.Listing, error)
}

// BookingLedger orchestrates the booking lifecycle.  Confirmation
// reserves inventory and writes the booking record inside one
// transaction; cancellation releases the slot and removes the record
// the same way.  Each booking therefore corresponds to exactly one
// successful reserve, and each cancellation issues exactly one
// release.
type BookingLedger struct {
	tx        TxRunner
	listings  ListingReader
	inventory InventoryStore
	bookings  BookingStore
	// publish sends the booking.confirmed event after commit.  It is
	// best-effort: failures are logged and do not fail the booking.
	publish func(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// NewBookingLedger constructs a BookingLedger.  publish may be nil to
// disable event publication (used in tests).
func NewBookingLedger(tx TxRunner, listings ListingReader, inventory InventoryStore, bookings BookingStore, publish func(ctx context.Context, ev queue.BookingConfirmedEvent) error) *BookingLedger {
	if tx == nil || listings == nil || inventory == nil || bookings == nil {
		panic("nil dependency passed to NewBookingLedger")
	}
	return &BookingLedger{
		tx:        tx,
		listings:  listings,
		inventory: inventory,
		bookings:  bookings,
		publish:   publish,
	}
}

// ConfirmBookingInput carries the validated payment-succeeded facts
// that drive a booking confirmation.
type ConfirmBookingInput struct {
	Name        string
	Email       string
	Mobile      string
	ListingID   uint64
	RoomType    string
	AmountMinor int64
	BookingRef  string // generated when empty
	MoveInDate  *string
}

// ConfirmBooking reserves one unit of the requested room type and
// records the paid booking.  It returns repository.ErrListingNotFound
// or repository.ErrRoomTypeNotFound when the target does not exist
// and repository.ErrOutOfInventory when no capacity remains; in every
// failure case no booking row is created and no inventory is
// consumed.
func (l *BookingLedger) ConfirmBooking(ctx context.Context, in ConfirmBookingInput) (*model.Booking, error) {
	// Validate the target before touching inventory.
	listing, err := l.listings.GetByID(ctx, in.ListingID)
	if err != nil {
		return nil, err
	}
	if listing.Rooms.Find(in.RoomType) == nil {
		return nil, repository.ErrRoomTypeNotFound
	}

	ref := in.BookingRef
	if ref == "" {
		ref = uuid.NewString()
	}
	now := time.Now().UTC()
	booking := &model.Booking{
		ListingID:   in.ListingID,
		Name:        in.Name,
		Email:       in.Email,
		Mobile:      in.Mobile,
		RoomType:    in.RoomType,
		Status:      model.BookingStatusPaid,
		BookingRef:  ref,
		AmountMinor: in.AmountMinor,
		MoveInDate:  in.MoveInDate,
		PaidAt:      &now,
	}

	// Reservation and booking insert share one transaction: if the
	// insert fails the reservation is rolled back with it.
	err = l.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		if err := l.inventory.ReserveTx(ctx, tx, in.ListingID, in.RoomType); err != nil {
			return err
		}
		return l.bookings.CreateTx(ctx, tx, booking)
	})
	if err != nil {
		return nil, err
	}

	if l.publish != nil {
		ev := queue.BookingConfirmedEvent{
			BookingID:   booking.ID,
			ListingID:   booking.ListingID,
			RoomType:    booking.RoomType,
			BookingRef:  booking.BookingRef,
			AmountMinor: booking.AmountMinor,
			Name:        booking.Name,
			Email:       booking.Email,
			ConfirmedAt: now.Format(time.RFC3339),
		}
		if err := l.publish(ctx, ev); err != nil {
			log.Printf("ledger: publish booking.confirmed failed: %v", err)
		}
	}
	return booking, nil
}

// CancelBooking releases the booking's inventory slot and deletes the
// record, both inside one transaction.  The booking row is locked
// first so a racing cancellation of the same id observes the delete
// and fails with repository.ErrBookingNotFound instead of releasing a
// second slot.
func (l *BookingLedger) CancelBooking(ctx context.Context, id uint64) error {
	return l.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		booking, err := l.bookings.GetForCancelTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := l.inventory.ReleaseTx(ctx, tx, booking.ListingID, booking.RoomType); err != nil {
			return err
		}
		return l.bookings.DeleteTx(ctx, tx, id)
	})
}

// UpdateMoveInDate sets the planned move-in date on a booking.  Pure
// field update, no inventory effect.
func (l *BookingLedger) UpdateMoveInDate(ctx context.Context, id uint64, date string) (*model.Booking, error) {
	return l.bookings.UpdateMoveInDate(ctx, id, date)
}

// GetBooking returns a single booking by id.
func (l *BookingLedger) GetBooking(ctx context.Context, id uint64) (*model.Booking, error) {
	return l.bookings.GetByID(ctx, id)
}
