package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/openstay/booking-service/internal/repository"
	"github.com/openstay/booking-service/internal/service"
)

// BookingHandler exposes the booking lifecycle over HTTP.  It binds
// and validates request bodies, delegates to the booking ledger, and
// maps each error tag of the core taxonomy to its status code.  No
// operation is retried here; retry policy belongs to the caller.
type BookingHandler struct {
	Ledger *service.BookingLedger
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(ledger *service.BookingLedger) *BookingHandler {
	if ledger == nil {
		panic("nil ledger passed to NewBookingHandler")
	}
	return &BookingHandler{Ledger: ledger}
}

type confirmBookingRequest struct {
	Name        string  `json:"name" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
	Mobile      string  `json:"mobile" validate:"required"`
	ListingID   uint64  `json:"listingId" validate:"required"`
	RoomType    string  `json:"roomType" validate:"required"`
	AmountMinor int64   `json:"amountMinor" validate:"required,gt=0"`
	BookingRef  string  `json:"bookingRef" validate:"omitempty,max=64"`
	MoveInDate  *string `json:"moveInDate" validate:"omitempty,datetime=2006-01-02"`
}

// ConfirmBooking handles POST /v1/booking/confirm.  The endpoint is
// invoked with an already-validated payment-succeeded fact; it never
// charges anyone.  Returns 201 with the booking, 409 when the room
// type has no availability and 404 when the listing or room type does
// not exist.
func (h *BookingHandler) ConfirmBooking(c echo.Context) error {
	var body confirmBookingRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}
	booking, err := h.Ledger.ConfirmBooking(c.Request().Context(), service.ConfirmBookingInput{
		Name:        body.Name,
		Email:       body.Email,
		Mobile:      body.Mobile,
		ListingID:   body.ListingID,
		RoomType:    body.RoomType,
		AmountMinor: body.AmountMinor,
		BookingRef:  body.BookingRef,
		MoveInDate:  body.MoveInDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrListingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ListingNotFound"})
		case errors.Is(err, repository.ErrRoomTypeNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "RoomTypeNotFound"})
		case errors.Is(err, repository.ErrOutOfInventory):
			return c.JSON(http.StatusConflict, echo.Map{"error": "OutOfInventory"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to confirm booking"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"booking": booking})
}

// CancelBooking handles DELETE /v1/booking/:id/cancel.  Releasing the
// inventory slot and deleting the record succeed or fail together.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	if err := h.Ledger.CancelBooking(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "NotFound"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel booking"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

type moveInDateRequest struct {
	MoveInDate string `json:"moveInDate" validate:"required,datetime=2006-01-02"`
}

// UpdateMoveInDate handles PUT /v1/booking/:id/move-in-date.  Pure
// field update with no inventory effect.
func (h *BookingHandler) UpdateMoveInDate(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var body moveInDateRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}
	booking, err := h.Ledger.UpdateMoveInDate(c.Request().Context(), id, body.MoveInDate)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "NotFound"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking"})
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": booking})
}

// GetBooking handles GET /v1/booking/:id.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	booking, err := h.Ledger.GetBooking(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "NotFound"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": booking})
}
