package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/openstay/booking-service/internal/model"
	"github.com/openstay/booking-service/internal/queue"
	"github.com/openstay/booking-service/internal/repository"
)

// mockTxRunner executes the function directly and records whether the
// scope ended in rollback (fn returned an error).
type mockTxRunner struct {
	rolledBack bool
}

func (m *mockTxRunner) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if err := fn(nil); err != nil {
		m.rolledBack = true
		return err
	}
	return nil
}

type mockListings struct {
	getByIDFunc func(ctx context.Context, id uint64) (*model.Listing, error)
}

func (m *mockListings) GetByID(ctx context.Context, id uint64) (*model.Listing, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &model.Listing{ID: id, Rooms: model.RoomInventory{{Type: "Single", TotalCount: 2, Available: 2}}}, nil
}

// mockInventory delegates to a real RoomInventory so reserve/release
// semantics match production, and counts invocations.
type mockInventory struct {
	rooms    model.RoomInventory
	reserves int
	releases int
	failWith error
}

func (m *mockInventory) ReserveTx(ctx context.Context, tx *sql.Tx, listingID uint64, roomType string) error {
	m.reserves++
	if m.failWith != nil {
		return m.failWith
	}
	err := m.rooms.Reserve(roomType)
	switch {
	case errors.Is(err, model.ErrUnknownRoomType):
		return repository.ErrRoomTypeNotFound
	case errors.Is(err, model.ErrNoAvailability):
		return repository.ErrOutOfInventory
	}
	return err
}

func (m *mockInventory) ReleaseTx(ctx context.Context, tx *sql.Tx, listingID uint64, roomType string) error {
	m.releases++
	_, err := m.rooms.Release(roomType)
	if errors.Is(err, model.ErrUnknownRoomType) {
		return repository.ErrRoomTypeNotFound
	}
	return err
}

type mockBookings struct {
	createFunc func(ctx context.Context, tx *sql.Tx, b *model.Booking) error
	store      map[uint64]*model.Booking
	nextID     uint64
	deletes    int
}

func newMockBookings() *mockBookings {
	return &mockBookings{store: map[uint64]*model.Booking{}, nextID: 1}
}

func (m *mockBookings) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, tx, b)
	}
	b.ID = m.nextID
	m.nextID++
	cp := *b
	m.store[b.ID] = &cp
	return nil
}

func (m *mockBookings) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	b, ok := m.store[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	return b, nil
}

func (m *mockBookings) GetForCancelTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error) {
	return m.GetByID(ctx, id)
}

func (m *mockBookings) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	m.deletes++
	delete(m.store, id)
	return nil
}

func (m *mockBookings) UpdateMoveInDate(ctx context.Context, id uint64, date string) (*model.Booking, error) {
	b, ok := m.store[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	b.MoveInDate = &date
	return b, nil
}

func confirmInput() ConfirmBookingInput {
	return ConfirmBookingInput{
		Name:        "Ada Lovelace",
		Email:       "ada@example.com",
		Mobile:      "+15550100",
		ListingID:   7,
		RoomType:    "Single",
		AmountMinor: 550000,
	}
}

func TestConfirmBooking_CreatesPaidBookingWithGeneratedRef(t *testing.T) {
	inv := &mockInventory{rooms: model.RoomInventory{{Type: "Single", TotalCount: 2, Available: 2}}}
	bookings := newMockBookings()
	var published *queue.BookingConfirmedEvent
	ledger := NewBookingLedger(&mockTxRunner{}, &mockListings{}, inv, bookings,
		func(ctx context.Context, ev queue.BookingConfirmedEvent) error {
			published = &ev
			return nil
		})

	b, err := ledger.ConfirmBooking(context.Background(), confirmInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Status != model.BookingStatusPaid {
		t.Errorf("status = %q, want %q", b.Status, model.BookingStatusPaid)
	}
	if b.PaidAt == nil {
		t.Error("paidAt not set")
	}
	if b.BookingRef == "" {
		t.Error("bookingRef not generated")
	}
	if inv.reserves != 1 {
		t.Errorf("reserves = %d, want 1", inv.reserves)
	}
	if got := inv.rooms.Find("Single").Available; got != 1 {
		t.Errorf("available = %d, want 1", got)
	}
	if published == nil {
		t.Fatal("booking.confirmed not published")
	}
	if published.BookingRef != b.BookingRef || published.ListingID != 7 {
		t.Errorf("published event mismatch: %+v", published)
	}
}

func TestConfirmBooking_KeepsSuppliedRef(t *testing.T) {
	inv := &mockInventory{rooms: model.RoomInventory{{Type: "Single", TotalCount: 1, Available: 1}}}
	ledger := NewBookingLedger(&mockTxRunner{}, &mockListings{}, inv, newMockBookings(), nil)

	in := confirmInput()
	in.BookingRef = "PAY-12345"
	b, err := ledger.ConfirmBooking(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.BookingRef != "PAY-12345" {
		t.Errorf("bookingRef = %q, want PAY-12345", b.BookingRef)
	}
}

func TestConfirmBooking_OutOfInventoryCreatesNoBooking(t *testing.T) {
	inv := &mockInventory{rooms: model.RoomInventory{{Type: "Single", TotalCount: 2, Available: 0}}}
	bookings := newMockBookings()
	tx := &mockTxRunner{}
	ledger := NewBookingLedger(tx, &mockListings{}, inv, bookings, nil)

	_, err := ledger.ConfirmBooking(context.Background(), confirmInput())
	if !errors.Is(err, repository.ErrOutOfInventory) {
		t.Fatalf("error = %v, want ErrOutOfInventory", err)
	}
	if len(bookings.store) != 0 {
		t.Error("booking created despite failed reservation")
	}
	if !tx.rolledBack {
		t.Error("transaction not rolled back")
	}
	if got := inv.rooms.Find("Single").Available; got != 0 {
		t.Errorf("available = %d, want 0 (unchanged)", got)
	}
}

func TestConfirmBooking_ListingAndRoomTypeValidation(t *testing.T) {
	inv := &mockInventory{rooms: model.RoomInventory{{Type: "Single", TotalCount: 1, Available: 1}}}
	ledger := NewBookingLedger(&mockTxRunner{}, &mockListings{
		getByIDFunc: func(ctx context.Context, id uint64) (*model.Listing, error) {
			return nil, repository.ErrListingNotFound
		},
	}, inv, newMockBookings(), nil)

	if _, err := ledger.ConfirmBooking(context.Background(), confirmInput()); !errors.Is(err, repository.ErrListingNotFound) {
		t.Fatalf("error = %v, want ErrListingNotFound", err)
	}
	if inv.reserves != 0 {
		t.Error("inventory touched for unknown listing")
	}

	ledger = NewBookingLedger(&mockTxRunner{}, &mockListings{}, inv, newMockBookings(), nil)
	in := confirmInput()
	in.RoomType = "Penthouse"
	if _, err := ledger.ConfirmBooking(context.Background(), in); !errors.Is(err, repository.ErrRoomTypeNotFound) {
		t.Fatalf("error = %v, want ErrRoomTypeNotFound", err)
	}
}

func TestConfirmBooking_BookingWriteFailureRollsBackReservation(t *testing.T) {
	inv := &mockInventory{rooms: model.RoomInventory{{Type: "Single", TotalCount: 2, Available: 2}}}
	bookings := newMockBookings()
	writeErr := errors.New("insert failed")
	bookings.createFunc = func(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
		return writeErr
	}
	tx := &mockTxRunner{}
	ledger := NewBookingLedger(tx, &mockListings{}, inv, bookings, nil)

	_, err := ledger.ConfirmBooking(context.Background(), confirmInput())
	if !errors.Is(err, writeErr) {
		t.Fatalf("error = %v, want insert failure", err)
	}
	if !tx.rolledBack {
		t.Error("reservation not rolled back after booking write failure")
	}
}

func TestCancelBooking_ReleasesExactlyOnce(t *testing.T) {
	inv := &mockInventory{rooms: model.RoomInventory{{Type: "Single", TotalCount: 2, Available: 2}}}
	bookings := newMockBookings()
	ledger := NewBookingLedger(&mockTxRunner{}, &mockListings{}, inv, bookings, nil)

	b, err := ledger.ConfirmBooking(context.Background(), confirmInput())
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if err := ledger.CancelBooking(context.Background(), b.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if inv.releases != 1 {
		t.Errorf("releases = %d, want 1", inv.releases)
	}
	if got := inv.rooms.Find("Single").Available; got != 2 {
		t.Errorf("available = %d, want 2", got)
	}

	// Second cancellation of the same id fails and issues no release.
	if err := ledger.CancelBooking(context.Background(), b.ID); !errors.Is(err, repository.ErrBookingNotFound) {
		t.Fatalf("second cancel: error = %v, want ErrBookingNotFound", err)
	}
	if inv.releases != 1 {
		t.Errorf("releases = %d after double cancel, want 1", inv.releases)
	}
}

func TestBookingLifecycle_CapacityScenario(t *testing.T) {
	// Single room type with total 2: two confirmations succeed, the
	// third is rejected without consuming capacity, and cancelling the
	// first restores one slot.
	inv := &mockInventory{rooms: model.RoomInventory{{Type: "Single", TotalCount: 2, Available: 2}}}
	bookings := newMockBookings()
	ledger := NewBookingLedger(&mockTxRunner{}, &mockListings{}, inv, bookings, nil)
	ctx := context.Background()

	a, err := ledger.ConfirmBooking(ctx, confirmInput())
	if err != nil {
		t.Fatalf("booking A: %v", err)
	}
	if got := inv.rooms.Find("Single").Available; got != 1 {
		t.Fatalf("after A: available = %d, want 1", got)
	}

	if _, err := ledger.ConfirmBooking(ctx, confirmInput()); err != nil {
		t.Fatalf("booking B: %v", err)
	}
	if got := inv.rooms.Find("Single").Available; got != 0 {
		t.Fatalf("after B: available = %d, want 0", got)
	}

	if _, err := ledger.ConfirmBooking(ctx, confirmInput()); !errors.Is(err, repository.ErrOutOfInventory) {
		t.Fatalf("booking C: error = %v, want ErrOutOfInventory", err)
	}
	if got := inv.rooms.Find("Single").Available; got != 0 {
		t.Fatalf("after C: available = %d, want 0", got)
	}

	if err := ledger.CancelBooking(ctx, a.ID); err != nil {
		t.Fatalf("cancel A: %v", err)
	}
	if got := inv.rooms.Find("Single").Available; got != 1 {
		t.Fatalf("after cancel A: available = %d, want 1", got)
	}
}

func TestUpdateMoveInDate(t *testing.T) {
	inv := &mockInventory{rooms: model.RoomInventory{{Type: "Single", TotalCount: 1, Available: 1}}}
	bookings := newMockBookings()
	ledger := NewBookingLedger(&mockTxRunner{}, &mockListings{}, inv, bookings, nil)

	b, err := ledger.ConfirmBooking(context.Background(), confirmInput())
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	updated, err := ledger.UpdateMoveInDate(context.Background(), b.ID, "2026-10-01")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.MoveInDate == nil || *updated.MoveInDate != "2026-10-01" {
		t.Errorf("moveInDate = %v, want 2026-10-01", updated.MoveInDate)
	}
	// No inventory effect.
	if got := inv.rooms.Find("Single").Available; got != 0 {
		t.Errorf("available = %d, want 0", got)
	}

	if _, err := ledger.UpdateMoveInDate(context.Background(), 999, "2026-10-01"); !errors.Is(err, repository.ErrBookingNotFound) {
		t.Errorf("error = %v, want ErrBookingNotFound", err)
	}
}
