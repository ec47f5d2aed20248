package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/travel-reservation/internal/handler"
	"github.com/iliyamo/travel-reservation/internal/middleware"
)

// RegisterCustomer registers customer-scoped endpoints under /v1.  All
// routes require a valid JWT; reservation creation additionally passes
// through the Redis token bucket so a single user cannot hammer the
// booking engine.  Admins are accepted too so they can act on any
// reservation through the same endpoints.
func RegisterCustomer(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER", "ADMIN"),
	)

	// Reservation creation.  Each resource kind has its own endpoint; all
	// three funnel into the booking engine.
	g.POST("/trips/:id/reservations", h.ReserveSeats, limiter)
	g.POST("/hotels/:id/reservations", h.ReserveStay, limiter)
	g.POST("/taxis/:id/reservations", h.ReserveTaxi, limiter)

	// Lifecycle transitions.  Customers may cancel their own
	// reservations; confirm and complete are admin moves enforced in the
	// handler.
	g.PATCH("/reservations/bus/:id/status", h.TransitionBus)
	g.PATCH("/reservations/hotel/:id/status", h.TransitionStay)
	g.PATCH("/reservations/hotel/:id/dates", h.RescheduleStay)
	g.PATCH("/reservations/taxi/:id/status", h.TransitionTaxi)

	// Booking history across all three kinds.
	g.GET("/my-reservations", h.MyReservations)
}
