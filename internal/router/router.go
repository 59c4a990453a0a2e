package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/openstay/booking-service/internal/handler"
)

// Handlers bundles the HTTP handlers wired at startup.
type Handlers struct {
	Booking *handler.BookingHandler
	Review  *handler.ReviewHandler
	Visit   *handler.VisitRequestHandler
	Listing *handler.ListingHandler
}

// RegisterRoutes registers all API routes on the provided Echo
// instance.  cacheMW, when non-nil, is applied to the read-only
// listing views so they can be served from the response cache.
func RegisterRoutes(e *echo.Echo, h Handlers, cacheMW echo.MiddlewareFunc) {
	// Health check used by load balancers and monitoring systems.
	e.GET("/healthz", handler.Health)

	v1 := e.Group("/v1")

	// Booking lifecycle. Confirmation is driven either by this
	// endpoint (when the payment integration calls back over HTTP)
	// or by the payment.succeeded queue consumer.
	v1.POST("/booking/confirm", h.Booking.ConfirmBooking)
	v1.GET("/booking/:id", h.Booking.GetBooking)
	v1.DELETE("/booking/:id/cancel", h.Booking.CancelBooking)
	v1.PUT("/booking/:id/move-in-date", h.Booking.UpdateMoveInDate)

	// Reviews and the derived listing rating.
	v1.POST("/listing/:id/review", h.Review.AddReview)

	// Visit scheduling.
	v1.POST("/visit-request", h.Visit.RequestVisit)
	v1.PUT("/visit-request/:id/approve", h.Visit.Approve)
	v1.PUT("/visit-request/:id/reject", h.Visit.Reject)
	v1.GET("/visit-requests", h.Visit.List)

	// Read-only views, cacheable.
	reads := e.Group("/v1")
	if cacheMW != nil {
		reads.Use(cacheMW)
	}
	reads.GET("/listing/:id/reviews", h.Review.ListReviews)
	reads.GET("/listing/:id/rooms", h.Listing.GetRooms)
}
