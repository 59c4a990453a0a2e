package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/openstay/booking-service/internal/repository"
	"github.com/openstay/booking-service/internal/service"
)

// ReviewHandler exposes review submission and listing over HTTP.
type ReviewHandler struct {
	Aggregator *service.ReviewAggregator
}

// NewReviewHandler constructs a ReviewHandler.
func NewReviewHandler(agg *service.ReviewAggregator) *ReviewHandler {
	if agg == nil {
		panic("nil aggregator passed to NewReviewHandler")
	}
	return &ReviewHandler{Aggregator: agg}
}

type addReviewRequest struct {
	UserName string   `json:"userName" validate:"required"`
	Rating   int      `json:"rating" validate:"required,min=1,max=5"`
	Text     string   `json:"text"`
	Images   []string `json:"images" validate:"omitempty,dive,url"`
}

// AddReview handles POST /v1/listing/:id/review.  On success the
// listing's rating and ratingCount have already been recomputed in
// the same transaction as the insert.
func (h *ReviewHandler) AddReview(c echo.Context) error {
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || listingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid listing id"})
	}
	var body addReviewRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}
	review, err := h.Aggregator.AddReview(c.Request().Context(), service.AddReviewInput{
		ListingID: listingID,
		UserName:  body.UserName,
		Rating:    body.Rating,
		Text:      body.Text,
		Images:    body.Images,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "ValidationError", "detail": err.Error()})
		case errors.Is(err, repository.ErrListingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ListingNotFound"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to add review"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"review": review})
}

// ListReviews handles GET /v1/listing/:id/reviews.  Reviews are
// returned newest first.
func (h *ReviewHandler) ListReviews(c echo.Context) error {
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || listingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid listing id"})
	}
	reviews, err := h.Aggregator.ListReviews(c.Request().Context(), listingID)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ListingNotFound"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reviews"})
	}
	return c.JSON(http.StatusOK, reviews)
}
