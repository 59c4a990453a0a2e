package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/openstay/booking-service/internal/model"
)

// BookingRepo provides CRUD operations for booking records.  Rows are
// created and deleted only inside ledger transactions so that every
// insert is paired with exactly one inventory reservation and every
// delete with exactly one release.  All timestamp fields are stored
// in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, listing_id, name, email, mobile, room_type, status, booking_ref,
	amount_minor, move_in_date, paid_at, created_at, updated_at`

func scanBooking(row *sql.Row) (*model.Booking, error) {
	var b model.Booking
	var moveIn sql.NullString
	var paidAt sql.NullTime
	err := row.Scan(
		&b.ID, &b.ListingID, &b.Name, &b.Email, &b.Mobile, &b.RoomType,
		&b.Status, &b.BookingRef, &b.AmountMinor, &moveIn, &paidAt,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if moveIn.Valid {
		d := moveIn.String
		b.MoveInDate = &d
	}
	if paidAt.Valid {
		t := paidAt.Time
		b.PaidAt = &t
	}
	return &b, nil
}

// CreateTx inserts a new booking within the scope of an existing
// transaction and populates the generated id and timestamp fields on
// the provided record.  The caller must commit or roll back the
// transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (listing_id, name, email, mobile, room_type, status, booking_ref, amount_minor, move_in_date, paid_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var moveIn interface{}
	if b.MoveInDate != nil {
		moveIn = *b.MoveInDate
	}
	var paidAt interface{}
	if b.PaidAt != nil {
		paidAt = b.PaidAt.UTC()
	}
	result, err := tx.ExecContext(ctx, q,
		b.ListingID, b.Name, b.Email, b.Mobile, b.RoomType,
		b.Status, b.BookingRef, b.AmountMinor, moveIn, paidAt,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults
	const sel = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	stored, err := scanBooking(tx.QueryRowContext(ctx, sel, b.ID))
	if err != nil {
		return err
	}
	*b = *stored
	return nil
}

// GetByID returns a single booking.  It returns ErrBookingNotFound
// when no row matches.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// GetForCancelTx loads and locks the booking targeted by a
// cancellation within the provided transaction.  The row lock keeps a
// concurrent cancellation of the same booking from issuing a second
// release.  Returns ErrBookingNotFound when the row is absent.
func (r *BookingRepo) GetForCancelTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ? FOR UPDATE`
	b, err := scanBooking(tx.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// DeleteTx removes a booking within the provided transaction.
func (r *BookingRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	return err
}

// UpdateMoveInDate sets the planned move-in date on a booking.  This
// is a pure field update with no inventory effect, so it runs outside
// any ledger transaction.  Returns the updated booking or
// ErrBookingNotFound.
func (r *BookingRepo) UpdateMoveInDate(ctx context.Context, id uint64, date string) (*model.Booking, error) {
	const q = `UPDATE bookings SET move_in_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, date, id)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Rows-affected is zero both for a missing row and for an
		// unchanged date, so confirm existence explicitly.
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}
