package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"

	"github.com/openstay/booking-service/internal/model"
)

// InventoryRepo owns all mutation of the per-listing room collection.
// The collection is stored as one JSON document on the listings row,
// so every reservation or release rewrites the whole document.  Each
// mutation is a single read-modify-write: the row is locked with
// SELECT ... FOR UPDATE inside the caller's transaction, mutated in
// memory through the model helpers, and written back guarded by the
// version column.  Two reservations racing on the same listing
// therefore serialize on the row lock; listings with different ids
// proceed fully in parallel.
//
// Reserve and release are idempotency-unaware: the booking ledger
// guarantees exactly one invocation per booking state transition.
type InventoryRepo struct {
	db *sql.DB
}

// NewInventoryRepo returns a new InventoryRepo bound to the given database.
func NewInventoryRepo(db *sql.DB) *InventoryRepo { return &InventoryRepo{db: db} }

// loadRoomsTx reads and locks the room collection for a listing.
func (r *InventoryRepo) loadRoomsTx(ctx context.Context, tx *sql.Tx, listingID uint64) (model.RoomInventory, uint64, error) {
	const q = `SELECT rooms, version FROM listings WHERE id = ? FOR UPDATE`
	var roomsJSON []byte
	var version uint64
	err := tx.QueryRowContext(ctx, q, listingID).Scan(&roomsJSON, &version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrListingNotFound
		}
		return nil, 0, err
	}
	var rooms model.RoomInventory
	if len(roomsJSON) > 0 {
		if err := json.Unmarshal(roomsJSON, &rooms); err != nil {
			return nil, 0, err
		}
	}
	return rooms, version, nil
}

// storeRoomsTx writes the room collection back, guarded by the
// version read under the lock.  The version check cannot normally
// fail while the row lock is held; a zero row count therefore means
// the listing vanished mid-transaction and is reported as ErrConflict
// so the caller rolls back.
func (r *InventoryRepo) storeRoomsTx(ctx context.Context, tx *sql.Tx, listingID uint64, rooms model.RoomInventory, version uint64) error {
	roomsJSON, err := json.Marshal(rooms)
	if err != nil {
		return err
	}
	const q = `UPDATE listings SET rooms = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND version = ?`
	res, err := tx.ExecContext(ctx, q, roomsJSON, listingID, version)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// ReserveTx decrements availability for the named room type within
// the provided transaction.  It returns ErrOutOfInventory when the
// counter is zero, ErrRoomTypeNotFound when the type is absent and
// ErrListingNotFound when the listing does not exist.  On any error
// no write is performed.
func (r *InventoryRepo) ReserveTx(ctx context.Context, tx *sql.Tx, listingID uint64, roomType string) error {
	rooms, version, err := r.loadRoomsTx(ctx, tx, listingID)
	if err != nil {
		return err
	}
	if err := rooms.Reserve(roomType); err != nil {
		switch {
		case errors.Is(err, model.ErrUnknownRoomType):
			return ErrRoomTypeNotFound
		case errors.Is(err, model.ErrNoAvailability):
			return ErrOutOfInventory
		default:
			return err
		}
	}
	return r.storeRoomsTx(ctx, tx, listingID, rooms, version)
}

// ReleaseTx increments availability for the named room type within
// the provided transaction, clamping at the type's total count.  A
// clamped release indicates a release without a matching reservation;
// it is logged and the inventory is left at capacity rather than
// corrupted.  Returns ErrRoomTypeNotFound or ErrListingNotFound when
// the target is absent.
func (r *InventoryRepo) ReleaseTx(ctx context.Context, tx *sql.Tx, listingID uint64, roomType string) error {
	rooms, version, err := r.loadRoomsTx(ctx, tx, listingID)
	if err != nil {
		return err
	}
	clamped, err := rooms.Release(roomType)
	if err != nil {
		if errors.Is(err, model.ErrUnknownRoomType) {
			return ErrRoomTypeNotFound
		}
		return err
	}
	if clamped {
		log.Printf("inventory: release without matching reservation | listing_id=%d | room_type=%q | available clamped at total", listingID, roomType)
		return nil
	}
	return r.storeRoomsTx(ctx, tx, listingID, rooms, version)
}
