package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/openstay/booking-service/internal/model"
	"github.com/openstay/booking-service/internal/repository"
	"github.com/openstay/booking-service/internal/service"
)

// VisitRequestHandler exposes visit scheduling over HTTP.
type VisitRequestHandler struct {
	Registry *service.VisitRegistry
}

// NewVisitRequestHandler constructs a VisitRequestHandler.
func NewVisitRequestHandler(reg *service.VisitRegistry) *VisitRequestHandler {
	if reg == nil {
		panic("nil registry passed to NewVisitRequestHandler")
	}
	return &VisitRequestHandler{Registry: reg}
}

type requestVisitRequest struct {
	UserEmail  string `json:"userEmail" validate:"required,email"`
	UserName   string `json:"userName" validate:"required"`
	ListingID  uint64 `json:"listingId" validate:"required"`
	OwnerEmail string `json:"ownerEmail" validate:"required,email"`
	VisitDate  string `json:"visitDate" validate:"required,datetime=2006-01-02"`
	VisitTime  string `json:"visitTime" validate:"required,datetime=15:04"`
}

// RequestVisit handles POST /v1/visit-request.  A pending request for
// the same (userEmail, listingId) pair is updated in place; otherwise
// a new pending request is inserted.  Both outcomes return 201 with
// the resulting request.
func (h *VisitRequestHandler) RequestVisit(c echo.Context) error {
	var body requestVisitRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}
	visit, err := h.Registry.RequestVisit(c.Request().Context(), service.RequestVisitInput{
		UserEmail:  body.UserEmail,
		UserName:   body.UserName,
		ListingID:  body.ListingID,
		OwnerEmail: body.OwnerEmail,
		VisitDate:  body.VisitDate,
		VisitTime:  body.VisitTime,
	})
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ListingNotFound"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create visit request"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"visitRequest": visit})
}

// Approve handles PUT /v1/visit-request/:id/approve.  Approval is a
// terminal state; re-approving is permitted.
func (h *VisitRequestHandler) Approve(c echo.Context) error {
	return h.setStatus(c, h.Registry.Approve)
}

// Reject handles PUT /v1/visit-request/:id/reject.
func (h *VisitRequestHandler) Reject(c echo.Context) error {
	return h.setStatus(c, h.Registry.Reject)
}

func (h *VisitRequestHandler) setStatus(c echo.Context, op func(ctx context.Context, id uint64) (*model.VisitRequest, error)) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid visit request id"})
	}
	visit, err := op(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrVisitRequestNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "NotFound"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update visit request"})
	}
	return c.JSON(http.StatusOK, echo.Map{"visitRequest": visit})
}

// List handles GET /v1/visit-requests.  Exactly one of the userEmail
// and listingId query parameters must be supplied; results are
// ordered newest first.
func (h *VisitRequestHandler) List(c echo.Context) error {
	userEmail := c.QueryParam("userEmail")
	listingParam := c.QueryParam("listingId")
	switch {
	case userEmail != "" && listingParam == "":
		visits, err := h.Registry.ListByUser(c.Request().Context(), userEmail)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load visit requests"})
		}
		return c.JSON(http.StatusOK, visits)
	case listingParam != "" && userEmail == "":
		listingID, err := strconv.ParseUint(listingParam, 10, 64)
		if err != nil || listingID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid listing id"})
		}
		visits, err := h.Registry.ListByListing(c.Request().Context(), listingID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load visit requests"})
		}
		return c.JSON(http.StatusOK, visits)
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "exactly one of userEmail and listingId is required"})
}
