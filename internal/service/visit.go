package service

import (
	"context"
	"database/sql"

	"github.com/openstay/booking-service/internal/model"
)

// VisitStore is the slice of the visit request repository the
// registry depends on.
type VisitStore interface {
	FindPendingTx(ctx context.Context, tx *sql.Tx, userEmail string, listingID uint64) (*model.VisitRequest, error)
	UpdateScheduleTx(ctx context.Context, tx *sql.Tx, id uint64, visitDate, visitTime string) (*model.VisitRequest, error)
	InsertTx(ctx context.Context, tx *sql.Tx, v *model.VisitRequest) error
	SetStatus(ctx context.Context, id uint64, status string) (*model.VisitRequest, error)
	ListByUser(ctx context.Context, userEmail string) ([]model.VisitRequest, error)
	ListByListing(ctx context.Context, listingID uint64) ([]model.VisitRequest, error)
}

// VisitRegistry tracks visit scheduling requests and enforces the
// at-most-one-pending rule per (userEmail, listingId) pair.  A repeat
// request while one is pending updates that request in place instead
// of inserting a duplicate.
type VisitRegistry struct {
	tx       TxRunner
	listings ListingReader
	visits   VisitStore
}

// NewVisitRegistry constructs a VisitRegistry.
func NewVisitRegistry(tx TxRunner, listings ListingReader, visits VisitStore) *VisitRegistry {
	if tx == nil || listings == nil || visits == nil {
		panic("nil dependency passed to NewVisitRegistry")
	}
	return &VisitRegistry{tx: tx, listings: listings, visits: visits}
}

// RequestVisitInput carries a visit scheduling request.
type RequestVisitInput struct {
	UserEmail  string
	UserName   string
	ListingID  uint64
	OwnerEmail string
	VisitDate  string
	VisitTime  string
}

// RequestVisit upserts a pending visit request keyed on (UserEmail,
// ListingID).  The existing pending row, if any, is locked and
// rewritten with the new date and time; otherwise a fresh pending row
// is inserted.  Concurrent requests for the same pair serialize on
// the row lock, so duplicates cannot accumulate.
func (r *VisitRegistry) RequestVisit(ctx context.Context, in RequestVisitInput) (*model.VisitRequest, error) {
	if _, err := r.listings.GetByID(ctx, in.ListingID); err != nil {
		return nil, err
	}
	var out *model.VisitRequest
	err := r.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		pending, err := r.visits.FindPendingTx(ctx, tx, in.UserEmail, in.ListingID)
		if err != nil {
			return err
		}
		if pending != nil {
			out, err = r.visits.UpdateScheduleTx(ctx, tx, pending.ID, in.VisitDate, in.VisitTime)
			return err
		}
		v := &model.VisitRequest{
			UserEmail:  in.UserEmail,
			UserName:   in.UserName,
			ListingID:  in.ListingID,
			OwnerEmail: in.OwnerEmail,
			VisitDate:  in.VisitDate,
			VisitTime:  in.VisitTime,
			Status:     model.VisitStatusPending,
		}
		if err := r.visits.InsertTx(ctx, tx, v); err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Approve moves a request to the approved terminal state.
// Re-approving an already approved request is permitted.
func (r *VisitRegistry) Approve(ctx context.Context, id uint64) (*model.VisitRequest, error) {
	return r.visits.SetStatus(ctx, id, model.VisitStatusApproved)
}

// Reject moves a request to the rejected terminal state.
func (r *VisitRegistry) Reject(ctx context.Context, id uint64) (*model.VisitRequest, error) {
	return r.visits.SetStatus(ctx, id, model.VisitStatusRejected)
}

// ListByUser returns all requests made by a user, newest first.
func (r *VisitRegistry) ListByUser(ctx context.Context, userEmail string) ([]model.VisitRequest, error) {
	return r.visits.ListByUser(ctx, userEmail)
}

// ListByListing returns all requests targeting a listing, newest first.
func (r *VisitRegistry) ListByListing(ctx context.Context, listingID uint64) ([]model.VisitRequest, error) {
	return r.visits.ListByListing(ctx, listingID)
}
