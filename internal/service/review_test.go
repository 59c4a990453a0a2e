package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/openstay/booking-service/internal/model"
	"github.com/openstay/booking-service/internal/repository"
)

// mockRatingListings implements ListingRatingStore and records the
// derived values written back.
type mockRatingListings struct {
	missing      bool
	locks        int
	wroteRating  float64
	wroteCount   int
	ratingWrites int
}

func (m *mockRatingListings) GetByID(ctx context.Context, id uint64) (*model.Listing, error) {
	if m.missing {
		return nil, repository.ErrListingNotFound
	}
	return &model.Listing{ID: id}, nil
}

func (m *mockRatingListings) LockTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	if m.missing {
		return repository.ErrListingNotFound
	}
	m.locks++
	return nil
}

func (m *mockRatingListings) UpdateRatingTx(ctx context.Context, tx *sql.Tx, id uint64, rating float64, count int) error {
	m.wroteRating = rating
	m.wroteCount = count
	m.ratingWrites++
	return nil
}

// mockReviews keeps submitted ratings in memory and answers the
// aggregate query from them, mirroring the SQL AVG/COUNT.
type mockReviews struct {
	ratings []int
	nextID  uint64
}

func (m *mockReviews) InsertTx(ctx context.Context, tx *sql.Tx, rev *model.Review) error {
	m.nextID++
	rev.ID = m.nextID
	m.ratings = append(m.ratings, rev.Rating)
	return nil
}

func (m *mockReviews) AggregateTx(ctx context.Context, tx *sql.Tx, listingID uint64) (float64, int, error) {
	if len(m.ratings) == 0 {
		return 0, 0, nil
	}
	sum := 0
	for _, r := range m.ratings {
		sum += r
	}
	return float64(sum) / float64(len(m.ratings)), len(m.ratings), nil
}

func (m *mockReviews) ListByListing(ctx context.Context, listingID uint64) ([]model.Review, error) {
	return []model.Review{}, nil
}

func TestAddReview_RecomputesDerivedRating(t *testing.T) {
	listings := &mockRatingListings{}
	reviews := &mockReviews{}
	agg := NewReviewAggregator(&mockTxRunner{}, listings, reviews)
	ctx := context.Background()

	add := func(rating int) {
		t.Helper()
		if _, err := agg.AddReview(ctx, AddReviewInput{ListingID: 3, UserName: "sam", Rating: rating}); err != nil {
			t.Fatalf("add rating %d: %v", rating, err)
		}
	}

	// Ratings 4 and 5 -> 4.50 over 2 reviews.
	add(4)
	add(5)
	if listings.wroteRating != 4.5 || listings.wroteCount != 2 {
		t.Fatalf("derived = (%.2f, %d), want (4.50, 2)", listings.wroteRating, listings.wroteCount)
	}

	// Adding a 3 -> 4.00 over 3 reviews.
	add(3)
	if listings.wroteRating != 4.0 || listings.wroteCount != 3 {
		t.Fatalf("derived = (%.2f, %d), want (4.00, 3)", listings.wroteRating, listings.wroteCount)
	}

	// Every submission recomputed under the listing lock.
	if listings.locks != 3 || listings.ratingWrites != 3 {
		t.Errorf("locks = %d, writes = %d, want 3 and 3", listings.locks, listings.ratingWrites)
	}
}

func TestAddReview_ValidationErrors(t *testing.T) {
	listings := &mockRatingListings{}
	reviews := &mockReviews{}
	agg := NewReviewAggregator(&mockTxRunner{}, listings, reviews)
	ctx := context.Background()

	cases := []AddReviewInput{
		{ListingID: 3, UserName: "sam", Rating: 0},
		{ListingID: 3, UserName: "sam", Rating: 6},
		{ListingID: 3, UserName: "   ", Rating: 4},
	}
	for i, in := range cases {
		if _, err := agg.AddReview(ctx, in); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("case %d: error = %v, want ErrInvalidInput", i, err)
		}
	}
	if len(reviews.ratings) != 0 {
		t.Error("invalid review persisted")
	}
	if listings.ratingWrites != 0 {
		t.Error("derived fields written for invalid input")
	}
}

func TestAddReview_UnknownListing(t *testing.T) {
	agg := NewReviewAggregator(&mockTxRunner{}, &mockRatingListings{missing: true}, &mockReviews{})
	_, err := agg.AddReview(context.Background(), AddReviewInput{ListingID: 99, UserName: "sam", Rating: 4})
	if !errors.Is(err, repository.ErrListingNotFound) {
		t.Fatalf("error = %v, want ErrListingNotFound", err)
	}
}

func TestRound2(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{4.5, 4.5},
		{4.0, 4.0},
		{4.666666666, 4.67},
		{3.333333333, 3.33},
		{0, 0},
	}
	for _, c := range cases {
		if got := round2(c.in); got != c.want {
			t.Errorf("round2(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
