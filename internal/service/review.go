package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/openstay/booking-service/internal/model"
)

// ErrInvalidInput tags validation failures on core operations.  The
// HTTP layer translates it into a 400 response; nothing is retried.
var ErrInvalidInput = errors.New("invalid input")

// ReviewStore is the slice of the review repository the aggregator
// depends on.
type ReviewStore interface {
	InsertTx(ctx context.Context, tx *sql.Tx, rev *model.Review) error
	AggregateTx(ctx context.Context, tx *sql.Tx, listingID uint64) (avg float64, count int, err error)
	ListByListing(ctx context.Context, listingID uint64) ([]model.Review, error)
}

// ListingRatingStore extends the listing lookup with the lock and
// derived-field write used during aggregation.
type ListingRatingStore interface {
	ListingReader
	LockTx(ctx context.Context, tx *sql.Tx, id uint64) error
	UpdateRatingTx(ctx context.Context, tx *sql.Tx, id uint64, rating float64, count int) error
}

// ReviewAggregator appends reviews and keeps the listing's derived
// rating fields consistent with the underlying review set.  Insert
// and recomputation run inside one transaction holding the listing's
// row lock, so concurrent submissions for the same listing serialize
// and never compute a stale average; submissions for different
// listings proceed in parallel.
type ReviewAggregator struct {
	tx       TxRunner
	listings ListingRatingStore
	reviews  ReviewStore
}

// NewReviewAggregator constructs a ReviewAggregator.
func NewReviewAggregator(tx TxRunner, listings ListingRatingStore, reviews ReviewStore) *ReviewAggregator {
	if tx == nil || listings == nil || reviews == nil {
		panic("nil dependency passed to NewReviewAggregator")
	}
	return &ReviewAggregator{tx: tx, listings: listings, reviews: reviews}
}

// AddReviewInput carries a review submission.
type AddReviewInput struct {
	ListingID uint64
	UserName  string
	Rating    int
	Text      string
	Images    []string
}

// AddReview persists the review and recomputes the listing's average
// rating and review count.  Ratings outside 1..5 and a missing user
// name fail with ErrInvalidInput; an unknown listing fails with
// repository.ErrListingNotFound.  The average covers all historical
// reviews and is rounded to two decimal places only when written to
// the listing.
func (a *ReviewAggregator) AddReview(ctx context.Context, in AddReviewInput) (*model.Review, error) {
	if strings.TrimSpace(in.UserName) == "" {
		return nil, fmt.Errorf("%w: userName is required", ErrInvalidInput)
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}
	rev := &model.Review{
		ListingID: in.ListingID,
		UserName:  in.UserName,
		Rating:    in.Rating,
		Text:      in.Text,
		Images:    in.Images,
	}
	if rev.Images == nil {
		rev.Images = []string{}
	}
	err := a.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		if err := a.listings.LockTx(ctx, tx, in.ListingID); err != nil {
			return err
		}
		if err := a.reviews.InsertTx(ctx, tx, rev); err != nil {
			return err
		}
		avg, count, err := a.reviews.AggregateTx(ctx, tx, in.ListingID)
		if err != nil {
			return err
		}
		return a.listings.UpdateRatingTx(ctx, tx, in.ListingID, round2(avg), count)
	})
	if err != nil {
		return nil, err
	}
	return rev, nil
}

// ListReviews returns a listing's reviews newest first, failing with
// repository.ErrListingNotFound when the listing does not exist.
func (a *ReviewAggregator) ListReviews(ctx context.Context, listingID uint64) ([]model.Review, error) {
	if _, err := a.listings.GetByID(ctx, listingID); err != nil {
		return nil, err
	}
	return a.reviews.ListByListing(ctx, listingID)
}

// round2 rounds to two decimal places, half away from zero.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
