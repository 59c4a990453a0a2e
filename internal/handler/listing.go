package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/openstay/booking-service/internal/repository"
)

// ListingHandler exposes read-only listing views.  Listing CRUD lives
// in an external service; this handler only surfaces the inventory
// and rating state owned by the core.
type ListingHandler struct {
	Listings *repository.ListingRepo
}

// NewListingHandler constructs a ListingHandler.
func NewListingHandler(listings *repository.ListingRepo) *ListingHandler {
	if listings == nil {
		panic("nil listing repo passed to NewListingHandler")
	}
	return &ListingHandler{Listings: listings}
}

// GetRooms handles GET /v1/listing/:id/rooms.  It returns the current
// room availability for a listing so callers can pick a room type
// before confirming a booking.
func (h *ListingHandler) GetRooms(c echo.Context) error {
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || listingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid listing id"})
	}
	listing, err := h.Listings.GetByID(c.Request().Context(), listingID)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ListingNotFound"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load listing"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"listingId":   listing.ID,
		"rating":      listing.Rating,
		"ratingCount": listing.RatingCount,
		"rooms":       listing.Rooms,
	})
}
