package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/openstay/booking-service/internal/model"
)

// ListingRepo provides read access to listings and mutation of their
// derived rating fields.  Listing creation and deletion belong to an
// external service; this core only references listings by id.  The
// room collection lives in the listings.rooms JSON column and is
// mutated exclusively through InventoryRepo.
type ListingRepo struct {
	db *sql.DB
}

// NewListingRepo returns a new ListingRepo bound to the given database.
func NewListingRepo(db *sql.DB) *ListingRepo { return &ListingRepo{db: db} }

// DB exposes the underlying handle so that callers can open
// transactions spanning multiple repositories.
func (r *ListingRepo) DB() *sql.DB { return r.db }

// GetByID loads a listing with its decoded room collection.  It
// returns ErrListingNotFound when no row matches.
func (r *ListingRepo) GetByID(ctx context.Context, id uint64) (*model.Listing, error) {
	const q = `SELECT id, title, owner_email, rating, rating_count, rooms, version, created_at, updated_at
	           FROM listings WHERE id = ?`
	var l model.Listing
	var roomsJSON []byte
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&l.ID, &l.Title, &l.OwnerEmail, &l.Rating, &l.RatingCount,
		&roomsJSON, &l.Version, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	if len(roomsJSON) > 0 {
		if err := json.Unmarshal(roomsJSON, &l.Rooms); err != nil {
			return nil, err
		}
	}
	return &l, nil
}

// LockTx takes the row lock on a listing within the provided
// transaction.  It is used to serialize per-listing aggregate
// recomputation: concurrent review submissions for the same listing
// queue on this lock while submissions for other listings proceed in
// parallel.  Returns ErrListingNotFound when the listing is absent.
func (r *ListingRepo) LockTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	var got uint64
	err := tx.QueryRowContext(ctx, `SELECT id FROM listings WHERE id = ? FOR UPDATE`, id).Scan(&got)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrListingNotFound
	}
	return err
}

// UpdateRatingTx writes the derived rating fields within the provided
// transaction.  Rating must already be rounded to two decimal places;
// individual review ratings are stored unrounded and aggregation
// happens at write time only.
func (r *ListingRepo) UpdateRatingTx(ctx context.Context, tx *sql.Tx, id uint64, rating float64, count int) error {
	const q = `UPDATE listings SET rating = ?, rating_count = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, rating, count, id)
	return err
}
