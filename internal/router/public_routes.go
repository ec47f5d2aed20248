package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/travel-reservation/internal/handler"
)

// RegisterPublic registers unauthenticated browse and search endpoints on
// the provided Echo instance.  These routes do not apply any JWT or role
// middleware and are intended for guest users.  The cache middleware is
// applied per-route so authenticated endpoints are never cached.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	// Catalog listings.
	e.GET("/v1/cities", p.ListCities, cache)
	e.GET("/v1/companies", p.ListCompanies, cache)
	e.GET("/v1/hotels", p.ListHotels, cache)
	e.GET("/v1/hotels/recommended", p.RecommendedHotels, cache)
	e.GET("/v1/hotels/:id", p.GetHotel, cache)
	e.GET("/v1/taxis", p.ListTaxis)
	e.GET("/v1/trips/today", p.TodayDepartures, cache)
	e.GET("/v1/trips/:id", p.GetTrip)

	// Single-resource lookups.
	e.GET("/v1/cities/:id", p.GetCity)
	e.GET("/v1/companies/:id", p.GetCompany)

	// Per-city views.
	e.GET("/v1/cities/:id/hotels", p.CityHotels, cache)
	e.GET("/v1/cities/:id/taxis", p.CityTaxis)
	e.GET("/v1/cities/:id/departures", p.CityDepartures, cache)

	// Company daily program.
	e.GET("/v1/companies/:id/program", p.CompanyProgram, cache)

	// Search.  Trip search results include remaining seat counts and
	// hotel search is overlap-aware; both are safe to cache briefly.
	e.GET("/v1/search/trips", p.SearchTrips, cache)
	e.GET("/v1/search/hotels", p.SearchHotels, cache)
}
