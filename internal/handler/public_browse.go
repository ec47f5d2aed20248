// Package handler exposes HTTP handlers for both authenticated and public endpoints.
// This file defines handlers for the public browsing API. These routes allow
// unauthenticated users to browse cities, companies, trips, hotels and taxis
// without requiring authentication.
package handler

import (
    "context"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/travel-reservation/internal/model"
    "github.com/iliyamo/travel-reservation/internal/repository"
)

// TripCatalog is the slice of trip queries the public handlers need.
// *repository.TripRepo satisfies it.
type TripCatalog interface {
    GetByID(ctx context.Context, id uint64) (*model.TripSummary, error)
    Search(ctx context.Context, fromCityID, toCityID uint64, day time.Time) ([]*model.TripSummary, error)
    SuggestRoutes(ctx context.Context, fromCityID, toCityID uint64, day time.Time) ([]*model.RouteSuggestion, error)
    TodayDepartures(ctx context.Context, now time.Time) ([]*model.TripSummary, error)
    DeparturesFromCity(ctx context.Context, cityID uint64, now time.Time) ([]*model.TripSummary, error)
}

// PublicHandler aggregates repositories needed for unauthenticated browsing
// and search.  All responses are read-only and safe to cache.
type PublicHandler struct {
    Cities    *repository.CityRepo
    Companies *repository.CompanyRepo
    Trips     TripCatalog
    Hotels    *repository.HotelRepo
    Taxis     *repository.TaxiRepo
}

// NewPublicHandler constructs a PublicHandler and panics if any dependency is nil.
func NewPublicHandler(cities *repository.CityRepo, companies *repository.CompanyRepo, trips TripCatalog, hotels *repository.HotelRepo, taxis *repository.TaxiRepo) *PublicHandler {
    if cities == nil || companies == nil || trips == nil || hotels == nil || taxis == nil {
        panic("nil repository passed to NewPublicHandler")
    }
    return &PublicHandler{Cities: cities, Companies: companies, Trips: trips, Hotels: hotels, Taxis: taxis}
}

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// ListCities returns all cities.
func (h *PublicHandler) ListCities(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    cities, err := h.Cities.ListAll(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"cities": cities})
}

// ListCompanies returns all bus companies.
func (h *PublicHandler) ListCompanies(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    companies, err := h.Companies.ListAll(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"companies": companies})
}

// GetCity returns a single city by id.
func (h *PublicHandler) GetCity(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid city id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    city, err := h.Cities.GetByID(ctx, id)
    if err != nil {
        if err == repository.ErrCityNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "city not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, city)
}

// GetCompany returns a single company by id.
func (h *PublicHandler) GetCompany(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid company id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    comp, err := h.Companies.GetByID(ctx, id)
    if err != nil {
        if err == repository.ErrCompanyNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, comp)
}

// GetTrip returns one trip with route names and remaining seats.
func (h *PublicHandler) GetTrip(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid trip id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    trip, err := h.Trips.GetByID(ctx, id)
    if err != nil {
        if err == repository.ErrTripNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "trip not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, trip)
}

// SearchTrips finds trips by departure city, arrival city and date.
// All filters are optional; date must be YYYY-MM-DD.  When no direct
// trip matches, routes sharing an endpoint with the requested one are
// offered as suggestions instead of a bare empty list.
func (h *PublicHandler) SearchTrips(c echo.Context) error {
    fromID, _ := strconv.ParseUint(c.QueryParam("from"), 10, 64)
    toID, _ := strconv.ParseUint(c.QueryParam("to"), 10, 64)
    var day time.Time
    if raw := c.QueryParam("date"); raw != "" {
        parsed, err := time.Parse("2006-01-02", raw)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
        }
        day = parsed
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    trips, err := h.Trips.Search(ctx, fromID, toID, day)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if trips == nil {
        trips = []*model.TripSummary{}
    }
    if len(trips) == 0 {
        // Best effort: a failed suggestion lookup still returns the
        // empty result rather than an error.
        suggestions, err := h.Trips.SuggestRoutes(ctx, fromID, toID, day)
        if err == nil && len(suggestions) > 0 {
            return c.JSON(http.StatusOK, echo.Map{
                "message":     "no direct trips found",
                "trips":       trips,
                "suggestions": suggestions,
            })
        }
    }
    return c.JSON(http.StatusOK, echo.Map{"trips": trips})
}

// TodayDepartures lists every trip departing today.
func (h *PublicHandler) TodayDepartures(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    trips, err := h.Trips.TodayDepartures(ctx, time.Now().UTC())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"trips": trips})
}

// CityDepartures lists upcoming trips leaving a city.
func (h *PublicHandler) CityDepartures(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid city id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    trips, err := h.Trips.DeparturesFromCity(ctx, id, time.Now().UTC())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"trips": trips})
}

// CompanyProgram lists a company's trips on a given date (default today).
func (h *PublicHandler) CompanyProgram(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid company id"})
    }
    day := time.Now().UTC()
    if raw := c.QueryParam("date"); raw != "" {
        parsed, err := time.Parse("2006-01-02", raw)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
        }
        day = parsed
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    trips, err := h.Companies.Program(ctx, id, day)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"trips": trips})
}

// ListHotels returns all hotels, or the hotels of one city when the
// ?city= query parameter names it.
func (h *PublicHandler) ListHotels(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    var (
        hotels []*model.HotelSummary
        err    error
    )
    if city := strings.TrimSpace(c.QueryParam("city")); city != "" {
        hotels, err = h.Hotels.ListByCityName(ctx, city)
    } else {
        hotels, err = h.Hotels.ListAll(ctx)
    }
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"hotels": hotels})
}

// GetHotel returns one hotel with its city name.
func (h *PublicHandler) GetHotel(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    hotel, err := h.Hotels.GetByID(ctx, id)
    if err != nil {
        if err == repository.ErrHotelNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, hotel)
}

// CityHotels lists the hotels of a city.
func (h *PublicHandler) CityHotels(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid city id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    hotels, err := h.Hotels.ListByCity(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"hotels": hotels})
}

// RecommendedHotels lists the featured hotels.
func (h *PublicHandler) RecommendedHotels(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    hotels, err := h.Hotels.Recommended(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"hotels": hotels})
}

// SearchHotels finds hotels in a city with no active reservation
// overlapping the requested date range.  Availability here is a
// snapshot; the booking engine re-checks inside its transaction.
func (h *PublicHandler) SearchHotels(c echo.Context) error {
    cityID, _ := strconv.ParseUint(c.QueryParam("city"), 10, 64)
    if cityID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "city is required"})
    }
    checkIn, err := time.Parse("2006-01-02", c.QueryParam("check_in"))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in must be YYYY-MM-DD"})
    }
    checkOut, err := time.Parse("2006-01-02", c.QueryParam("check_out"))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be YYYY-MM-DD"})
    }
    if !checkOut.After(checkIn) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be after check_in"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    hotels, err := h.Hotels.SearchAvailable(ctx, cityID, checkIn, checkOut)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"hotels": hotels})
}

// ListTaxis returns all taxis.  Use ?available=true to filter to
// vehicles that can be booked right now.
func (h *PublicHandler) ListTaxis(c echo.Context) error {
    availableOnly := c.QueryParam("available") == "true"
    ctx, cancel := reqCtx(c)
    defer cancel()
    taxis, err := h.Taxis.ListAll(ctx, availableOnly)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"taxis": taxis})
}

// CityTaxis lists the taxis of a city.  Use ?available=true to filter
// to vehicles that can be booked right now.
func (h *PublicHandler) CityTaxis(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid city id"})
    }
    availableOnly := c.QueryParam("available") == "true"
    ctx, cancel := reqCtx(c)
    defer cancel()
    taxis, err := h.Taxis.ListByCity(ctx, id, availableOnly)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"taxis": taxis})
}
