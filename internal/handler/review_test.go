package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/openstay/booking-service/internal/model"
	"github.com/openstay/booking-service/internal/repository"
	"github.com/openstay/booking-service/internal/service"
)

type stubRatingListings struct{ stubListings }

func (s stubRatingListings) LockTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	if s.missing {
		return repository.ErrListingNotFound
	}
	return nil
}

func (s stubRatingListings) UpdateRatingTx(ctx context.Context, tx *sql.Tx, id uint64, rating float64, count int) error {
	return nil
}

type stubReviews struct{}

func (stubReviews) InsertTx(ctx context.Context, tx *sql.Tx, rev *model.Review) error {
	rev.ID = 7
	return nil
}

func (stubReviews) AggregateTx(ctx context.Context, tx *sql.Tx, listingID uint64) (float64, int, error) {
	return 4.5, 2, nil
}

func (stubReviews) ListByListing(ctx context.Context, listingID uint64) ([]model.Review, error) {
	return []model.Review{{ID: 7, ListingID: listingID, Rating: 5}}, nil
}

func newReviewHandler(listings stubRatingListings) *ReviewHandler {
	agg := service.NewReviewAggregator(stubTxRunner{}, listings, stubReviews{})
	return NewReviewHandler(agg)
}

const reviewBody = `{"userName":"Ada","rating":5,"text":"great stay"}`

func TestAddReview_Created(t *testing.T) {
	h := newReviewHandler(stubRatingListings{})
	c, rec := newTestContext(t, http.MethodPost, "/v1/listing/3/review", reviewBody)
	c.SetParamNames("id")
	c.SetParamValues("3")
	if err := h.AddReview(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
}

func TestAddReview_UnknownListingMapsTo404(t *testing.T) {
	h := newReviewHandler(stubRatingListings{stubListings{missing: true}})
	c, rec := newTestContext(t, http.MethodPost, "/v1/listing/3/review", reviewBody)
	c.SetParamNames("id")
	c.SetParamValues("3")
	if err := h.AddReview(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ListingNotFound") {
		t.Errorf("body = %s, want ListingNotFound tag", rec.Body.String())
	}
}

func TestAddReview_RatingOutOfRangeRejected(t *testing.T) {
	h := newReviewHandler(stubRatingListings{})
	body := `{"userName":"Ada","rating":6}`
	c, _ := newTestContext(t, http.MethodPost, "/v1/listing/3/review", body)
	c.SetParamNames("id")
	c.SetParamValues("3")
	err := h.AddReview(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("error = %v, want 400 HTTPError", err)
	}
}

func TestAddReview_BadListingIDRejected(t *testing.T) {
	h := newReviewHandler(stubRatingListings{})
	c, rec := newTestContext(t, http.MethodPost, "/v1/listing/abc/review", reviewBody)
	c.SetParamNames("id")
	c.SetParamValues("abc")
	if err := h.AddReview(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestListReviews_UnknownListingMapsTo404(t *testing.T) {
	h := newReviewHandler(stubRatingListings{stubListings{missing: true}})
	c, rec := newTestContext(t, http.MethodGet, "/v1/listing/3/reviews", "")
	c.SetParamNames("id")
	c.SetParamValues("3")
	if err := h.ListReviews(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestListReviews_ReturnsArray(t *testing.T) {
	h := newReviewHandler(stubRatingListings{})
	c, rec := newTestContext(t, http.MethodGet, "/v1/listing/3/reviews", "")
	c.SetParamNames("id")
	c.SetParamValues("3")
	if err := h.ListReviews(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "[") {
		t.Errorf("body = %s, want a bare JSON array", rec.Body.String())
	}
}
