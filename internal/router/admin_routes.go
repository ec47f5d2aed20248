package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/travel-reservation/internal/handler"
	"github.com/iliyamo/travel-reservation/internal/middleware"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1/admin.
// All routes require a valid JWT and the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, r *handler.ReservationHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	// ---- Cities ----
	g.POST("/cities", a.CreateCity)
	g.PUT("/cities/:id", a.UpdateCity)
	g.PATCH("/cities/:id", a.UpdateCity)
	g.DELETE("/cities/:id", a.DeleteCity)

	// ---- Companies ----
	g.POST("/companies", a.CreateCompany)
	g.PUT("/companies/:id", a.UpdateCompany)
	g.PATCH("/companies/:id", a.UpdateCompany)
	g.DELETE("/companies/:id", a.DeleteCompany)

	// ---- Trips ----
	g.POST("/trips", a.CreateTrip)
	g.PUT("/trips/:id", a.UpdateTrip)
	g.PATCH("/trips/:id", a.UpdateTrip)
	g.DELETE("/trips/:id", a.DeleteTrip)

	// ---- Hotels ----
	g.POST("/hotels", a.CreateHotel)
	g.PUT("/hotels/:id", a.UpdateHotel)
	g.PATCH("/hotels/:id", a.UpdateHotel)
	g.DELETE("/hotels/:id", a.DeleteHotel)

	// ---- Taxis ----
	g.POST("/taxis", a.CreateTaxi)
	g.PUT("/taxis/:id", a.UpdateTaxi)
	g.PATCH("/taxis/:id", a.UpdateTaxi)
	g.DELETE("/taxis/:id", a.DeleteTaxi)

	// ---- Users ----
	g.GET("/users", a.ListUsers)
	g.GET("/users/:id", a.GetUser)
	g.PATCH("/users/:id", a.UpdateUser)
	g.POST("/users/:id/deactivate", a.DeactivateUser)

	// ---- Reservation listings ----
	g.GET("/trips/:id/reservations", r.TripReservations)
	g.GET("/hotels/:id/reservations", r.HotelReservations)
	g.GET("/taxis/:id/reservations", r.TaxiReservations)
}
