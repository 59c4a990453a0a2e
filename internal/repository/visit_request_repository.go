package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/openstay/booking-service/internal/model"
)

// VisitRequestRepo provides data access to the visit_requests table.
// The table holds at most one pending row per (user_email,
// listing_id) pair; that invariant is preserved by locking the
// pending row (FindPendingTx) before deciding between an in-place
// update and an insert.
type VisitRequestRepo struct {
	db *sql.DB
}

// NewVisitRequestRepo returns a new VisitRequestRepo bound to the given database.
func NewVisitRequestRepo(db *sql.DB) *VisitRequestRepo { return &VisitRequestRepo{db: db} }

const visitColumns = `id, user_email, user_name, listing_id, owner_email, visit_date, visit_time, status, created_at, updated_at`

func scanVisit(row *sql.Row) (*model.VisitRequest, error) {
	var v model.VisitRequest
	err := row.Scan(
		&v.ID, &v.UserEmail, &v.UserName, &v.ListingID, &v.OwnerEmail,
		&v.VisitDate, &v.VisitTime, &v.Status, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// FindPendingTx loads and locks the pending request for a (user,
// listing) pair within the provided transaction.  The lock serializes
// concurrent requests for the same pair so that only one of them can
// insert.  Returns (nil, nil) when no pending row exists.
func (r *VisitRequestRepo) FindPendingTx(ctx context.Context, tx *sql.Tx, userEmail string, listingID uint64) (*model.VisitRequest, error) {
	const q = `SELECT ` + visitColumns + ` FROM visit_requests
	           WHERE user_email = ? AND listing_id = ? AND status = 'pending' FOR UPDATE`
	v, err := scanVisit(tx.QueryRowContext(ctx, q, userEmail, listingID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}

// UpdateScheduleTx rewrites the date and time of an existing request
// within the provided transaction, leaving its status untouched, and
// returns the updated row.
func (r *VisitRequestRepo) UpdateScheduleTx(ctx context.Context, tx *sql.Tx, id uint64, visitDate, visitTime string) (*model.VisitRequest, error) {
	const q = `UPDATE visit_requests SET visit_date = ?, visit_time = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	if _, err := tx.ExecContext(ctx, q, visitDate, visitTime, id); err != nil {
		return nil, err
	}
	const sel = `SELECT ` + visitColumns + ` FROM visit_requests WHERE id = ?`
	return scanVisit(tx.QueryRowContext(ctx, sel, id))
}

// InsertTx persists a new pending request within the provided
// transaction and populates the generated id and timestamps.
func (r *VisitRequestRepo) InsertTx(ctx context.Context, tx *sql.Tx, v *model.VisitRequest) error {
	const q = `INSERT INTO visit_requests (user_email, user_name, listing_id, owner_email, visit_date, visit_time, status)
	           VALUES (?, ?, ?, ?, ?, ?, 'pending')`
	result, err := tx.ExecContext(ctx, q, v.UserEmail, v.UserName, v.ListingID, v.OwnerEmail, v.VisitDate, v.VisitTime)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	const sel = `SELECT ` + visitColumns + ` FROM visit_requests WHERE id = ?`
	stored, err := scanVisit(tx.QueryRowContext(ctx, sel, v.ID))
	if err != nil {
		return err
	}
	*v = *stored
	return nil
}

// SetStatus moves a request into a terminal status and returns the
// updated row.  The transition is unconditional, so re-approving an
// already approved request succeeds.  Returns ErrVisitRequestNotFound
// when the id has no matching row.
func (r *VisitRequestRepo) SetStatus(ctx context.Context, id uint64, status string) (*model.VisitRequest, error) {
	const q = `UPDATE visit_requests SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, status, id); err != nil {
		return nil, err
	}
	const sel = `SELECT ` + visitColumns + ` FROM visit_requests WHERE id = ?`
	v, err := scanVisit(r.db.QueryRowContext(ctx, sel, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVisitRequestNotFound
		}
		return nil, err
	}
	return v, nil
}

// ListByUser returns all requests made by a user ordered newest first.
func (r *VisitRequestRepo) ListByUser(ctx context.Context, userEmail string) ([]model.VisitRequest, error) {
	const q = `SELECT ` + visitColumns + ` FROM visit_requests WHERE user_email = ? ORDER BY created_at DESC, id DESC`
	return r.list(ctx, q, userEmail)
}

// ListByListing returns all requests targeting a listing ordered
// newest first.
func (r *VisitRequestRepo) ListByListing(ctx context.Context, listingID uint64) ([]model.VisitRequest, error) {
	const q = `SELECT ` + visitColumns + ` FROM visit_requests WHERE listing_id = ? ORDER BY created_at DESC, id DESC`
	return r.list(ctx, q, listingID)
}

func (r *VisitRequestRepo) list(ctx context.Context, q string, arg interface{}) ([]model.VisitRequest, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	requests := make([]model.VisitRequest, 0)
	for rows.Next() {
		var v model.VisitRequest
		if err := rows.Scan(
			&v.ID, &v.UserEmail, &v.UserName, &v.ListingID, &v.OwnerEmail,
			&v.VisitDate, &v.VisitTime, &v.Status, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, err
		}
		requests = append(requests, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return requests, nil
}
