package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/openstay/booking-service/internal/model"
)

// ReviewRepo provides insertion and listing of reviews plus the
// aggregate query that backs the listing's derived rating fields.
// Reviews are append-only; there are no update or delete operations.
type ReviewRepo struct {
	db *sql.DB
}

// NewReviewRepo returns a new ReviewRepo bound to the given database.
func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// InsertTx persists a review within the provided transaction and
// populates the generated id and created_at on the record.  Ratings
// are stored exactly as submitted; rounding happens only when the
// derived listing fields are written.
func (r *ReviewRepo) InsertTx(ctx context.Context, tx *sql.Tx, rev *model.Review) error {
	imagesJSON, err := json.Marshal(rev.Images)
	if err != nil {
		return err
	}
	const q = `INSERT INTO reviews (listing_id, user_name, rating, text, images) VALUES (?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, rev.ListingID, rev.UserName, rev.Rating, rev.Text, imagesJSON)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	rev.ID = uint64(id)
	const sel = `SELECT created_at FROM reviews WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, rev.ID).Scan(&rev.CreatedAt)
}

// AggregateTx computes the mean rating and review count for a listing
// within the provided transaction.  The average covers all historical
// reviews with no decay and is returned unrounded; callers round at
// the point of writing the derived field.  A listing with no reviews
// yields (0, 0).
func (r *ReviewRepo) AggregateTx(ctx context.Context, tx *sql.Tx, listingID uint64) (avg float64, count int, err error) {
	const q = `SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM reviews WHERE listing_id = ?`
	err = tx.QueryRowContext(ctx, q, listingID).Scan(&avg, &count)
	return avg, count, err
}

// ListByListing returns all reviews for a listing ordered newest
// first.  When no reviews exist, an empty slice is returned.
func (r *ReviewRepo) ListByListing(ctx context.Context, listingID uint64) ([]model.Review, error) {
	const q = `SELECT id, listing_id, user_name, rating, text, images, created_at
	           FROM reviews WHERE listing_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	reviews := make([]model.Review, 0)
	for rows.Next() {
		var rev model.Review
		var imagesJSON []byte
		if err := rows.Scan(&rev.ID, &rev.ListingID, &rev.UserName, &rev.Rating, &rev.Text, &imagesJSON, &rev.CreatedAt); err != nil {
			return nil, err
		}
		if len(imagesJSON) > 0 {
			if err := json.Unmarshal(imagesJSON, &rev.Images); err != nil {
				return nil, err
			}
		}
		if rev.Images == nil {
			rev.Images = []string{}
		}
		reviews = append(reviews, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}
