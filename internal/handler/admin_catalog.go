package handler

import (
    "database/sql"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/travel-reservation/internal/model"
    "github.com/iliyamo/travel-reservation/internal/repository"
)

// AdminHandler bundles the repositories admins use to manage the
// travel catalog: cities, companies, trips, hotels, taxis and user
// accounts.  Role enforcement happens in middleware; every method
// here assumes the caller is an ADMIN.
type AdminHandler struct {
    Cities    *repository.CityRepo
    Companies *repository.CompanyRepo
    Trips     *repository.TripRepo
    Hotels    *repository.HotelRepo
    Taxis     *repository.TaxiRepo
    Users     *repository.UserRepo
}

// NewAdminHandler constructs an AdminHandler and panics if any dependency is nil.
func NewAdminHandler(cities *repository.CityRepo, companies *repository.CompanyRepo, trips *repository.TripRepo, hotels *repository.HotelRepo, taxis *repository.TaxiRepo, users *repository.UserRepo) *AdminHandler {
    if cities == nil || companies == nil || trips == nil || hotels == nil || taxis == nil || users == nil {
        panic("nil repository passed to NewAdminHandler")
    }
    return &AdminHandler{Cities: cities, Companies: companies, Trips: trips, Hotels: hotels, Taxis: taxis, Users: users}
}

// crudError maps the shared repository sentinels onto HTTP statuses.
func crudError(c echo.Context, err error, notFoundMsg string) error {
    switch {
    case errors.Is(err, sql.ErrNoRows):
        return c.JSON(http.StatusNotFound, echo.Map{"error": notFoundMsg})
    case errors.Is(err, repository.ErrConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": "resource has dependent records"})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "operation failed"})
    }
}

// ----- cities -----

type cityReq struct {
    Name   string `json:"name"`
    Region string `json:"region"`
}

// CreateCity handles POST /v1/admin/cities.
func (h *AdminHandler) CreateCity(c echo.Context) error {
    var req cityReq
    if err := c.Bind(&req); err != nil || req.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    city := &model.City{Name: req.Name, Region: req.Region}
    if err := h.Cities.Create(ctx, city); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create city failed"})
    }
    return c.JSON(http.StatusCreated, city)
}

// UpdateCity handles PUT /v1/admin/cities/:id.
func (h *AdminHandler) UpdateCity(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid city id"})
    }
    var req cityReq
    if err := c.Bind(&req); err != nil || req.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.Cities.Update(ctx, id, req.Name, req.Region); err != nil {
        return crudError(c, err, "city not found")
    }
    return c.NoContent(http.StatusNoContent)
}

// DeleteCity handles DELETE /v1/admin/cities/:id.
func (h *AdminHandler) DeleteCity(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid city id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.Cities.Delete(ctx, id); err != nil {
        return crudError(c, err, "city not found")
    }
    return c.NoContent(http.StatusNoContent)
}

// ----- companies -----

type companyReq struct {
    Name  string `json:"name"`
    Phone string `json:"phone"`
}

// CreateCompany handles POST /v1/admin/companies.
func (h *AdminHandler) CreateCompany(c echo.Context) error {
    var req companyReq
    if err := c.Bind(&req); err != nil || req.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    company := &model.Company{Name: req.Name, Phone: req.Phone}
    if err := h.Companies.Create(ctx, company); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create company failed"})
    }
    return c.JSON(http.StatusCreated, company)
}

// UpdateCompany handles PUT /v1/admin/companies/:id.
func (h *AdminHandler) UpdateCompany(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid company id"})
    }
    var req companyReq
    if err := c.Bind(&req); err != nil || req.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.Companies.Update(ctx, id, req.Name, req.Phone); err != nil {
        return crudError(c, err, "company not found")
    }
    return c.NoContent(http.StatusNoContent)
}

// DeleteCompany handles DELETE /v1/admin/companies/:id.
func (h *AdminHandler) DeleteCompany(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid company id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.Companies.Delete(ctx, id); err != nil {
        return crudError(c, err, "company not found")
    }
    return c.NoContent(http.StatusNoContent)
}

// ----- trips -----

type tripReq struct {
    CompanyID  uint64 `json:"company_id"`
    FromCityID uint64 `json:"from_city_id"`
    ToCityID   uint64 `json:"to_city_id"`
    DepartsAt  string `json:"departs_at"` // RFC 3339
    ArrivesAt  string `json:"arrives_at"` // RFC 3339
    SeatCount  uint32 `json:"seat_count"`
    PriceCents uint32 `json:"price_cents"`
}

func (r tripReq) toModel(id uint64) (*model.Trip, string) {
    if r.CompanyID == 0 || r.FromCityID == 0 || r.ToCityID == 0 {
        return nil, "company_id, from_city_id and to_city_id are required"
    }
    if r.FromCityID == r.ToCityID {
        return nil, "from_city_id and to_city_id must differ"
    }
    if r.SeatCount == 0 {
        return nil, "seat_count must be at least 1"
    }
    departs, err := time.Parse(time.RFC3339, r.DepartsAt)
    if err != nil {
        return nil, "departs_at must be RFC 3339"
    }
    arrives, err := time.Parse(time.RFC3339, r.ArrivesAt)
    if err != nil {
        return nil, "arrives_at must be RFC 3339"
    }
    if !arrives.After(departs) {
        return nil, "arrives_at must be after departs_at"
    }
    return &model.Trip{
        ID:         id,
        CompanyID:  r.CompanyID,
        FromCityID: r.FromCityID,
        ToCityID:   r.ToCityID,
        DepartsAt:  departs.UTC(),
        ArrivesAt:  arrives.UTC(),
        SeatCount:  r.SeatCount,
        PriceCents: r.PriceCents,
    }, ""
}

// CreateTrip handles POST /v1/admin/trips.
func (h *AdminHandler) CreateTrip(c echo.Context) error {
    var req tripReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    trip, msg := req.toModel(0)
    if msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.Trips.Create(ctx, trip); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create trip failed"})
    }
    return c.JSON(http.StatusCreated, trip)
}

// UpdateTrip handles PUT /v1/admin/trips/:id.
func (h *AdminHandler) UpdateTrip(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid trip id"})
    }
    var req tripReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    trip, msg := req.toModel(id)
    if msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.Trips.Update(ctx, trip); err != nil {
        return crudError(c, err, "trip not found")
    }
    return c.NoContent(http.StatusNoContent)
}

// DeleteTrip handles DELETE /v1/admin/trips/:id.
func (h *AdminHandler) DeleteTrip(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid trip id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.Trips.Delete(ctx, id); err != nil {
        return crudError(c, err, "trip not found")
    }
    return c.NoContent(http.StatusNoContent)
}

// ----- hotels -----

type hotelReq struct {
    CityID       uint64 `json:"city_id"`
    Name         string `json:"name"`
    Address      string `json:"address"`
    Stars        uint8  `json:"stars"`
    NightlyCents uint32 `json:"nightly_cents"`
    Recommended  bool   `json:"recommended"`
}

func (r hotelReq) toModel(id uint64) (*model.Hotel, string) {
    if r.CityID == 0 || r.Name == "" {
        return nil, "city_id and name are required"
    }
    if r.Stars < 1 || r.Stars > 5 {
        return nil, "stars must be between 1 and 5"
    }
    return &model.Hotel{
        ID:           id,
        CityID:       r.CityID,
        Name:         r.Name,
        Address:      r.Address,
        Stars:        r.Stars,
        NightlyCents: r.NightlyCents,
        Recommended:  r.Recommended,
    }, ""
}

// CreateHotel handles POST /v1/admin/hotels.
func (h *AdminHandler) CreateHotel(c echo.Context) error {
    var req hotelReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    hotel, msg := req.toModel(0)
    if msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.Hotels.Create(ctx, hotel); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create hotel failed"})
    }
    return c.JSON(http.StatusCreated, hotel)
}

// UpdateHotel handles PUT /v1/admin/hotels/:id.
func (h *AdminHandler) UpdateHotel(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
    }
    var req hotelReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    hotel, msg := req.toModel(id)
    if msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.Hotels.Update(ctx, hotel); err != nil {
        return crudError(c, err, "hotel not found")
    }
    return c.NoContent(http.StatusNoContent)
}

// DeleteHotel handles DELETE /v1/admin/hotels/:id.
func (h *AdminHandler) DeleteHotel(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.Hotels.Delete(ctx, id); err != nil {
        return crudError(c, err, "hotel not found")
    }
    return c.NoContent(http.StatusNoContent)
}

// ----- taxis -----

type taxiReq struct {
    CityID     uint64 `json:"city_id"`
    DriverName string `json:"driver_name"`
    Plate      string `json:"plate"`
    Seats      uint8  `json:"seats"`
    FareCents  uint32 `json:"fare_cents"`
}

func (r taxiReq) toModel(id uint64) (*model.Taxi, string) {
    if r.CityID == 0 || r.DriverName == "" || r.Plate == "" {
        return nil, "city_id, driver_name and plate are required"
    }
    if r.Seats == 0 {
        return nil, "seats must be at least 1"
    }
    return &model.Taxi{
        ID:         id,
        CityID:     r.CityID,
        DriverName: r.DriverName,
        Plate:      r.Plate,
        Seats:      r.Seats,
        FareCents:  r.FareCents,
    }, ""
}

// CreateTaxi handles POST /v1/admin/taxis.
func (h *AdminHandler) CreateTaxi(c echo.Context) error {
    var req taxiReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    taxi, msg := req.toModel(0)
    if msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.Taxis.Create(ctx, taxi); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create taxi failed"})
    }
    return c.JSON(http.StatusCreated, taxi)
}

// UpdateTaxi handles PUT /v1/admin/taxis/:id.
func (h *AdminHandler) UpdateTaxi(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid taxi id"})
    }
    var req taxiReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    taxi, msg := req.toModel(id)
    if msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.Taxis.Update(ctx, taxi); err != nil {
        return crudError(c, err, "taxi not found")
    }
    return c.NoContent(http.StatusNoContent)
}

// DeleteTaxi handles DELETE /v1/admin/taxis/:id.
func (h *AdminHandler) DeleteTaxi(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid taxi id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.Taxis.Delete(ctx, id); err != nil {
        return crudError(c, err, "taxi not found")
    }
    return c.NoContent(http.StatusNoContent)
}

// ----- users -----

// adminUser is the sanitized user representation returned to admins.
// Password hashes never leave the repository layer.
type adminUser struct {
    ID        uint64    `json:"id"`
    Email     string    `json:"email"`
    FullName  string    `json:"full_name"`
    Role      string    `json:"role"`
    IsActive  bool      `json:"is_active"`
    CreatedAt time.Time `json:"created_at"`
}

// ListUsers handles GET /v1/admin/users.
func (h *AdminHandler) ListUsers(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    users, err := h.Users.List(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    out := make([]adminUser, 0, len(users))
    for _, u := range users {
        out = append(out, adminUser{
            ID: u.ID, Email: u.Email, FullName: u.FullName,
            Role: u.Role, IsActive: u.IsActive, CreatedAt: u.CreatedAt,
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"users": out})
}

// GetUser handles GET /v1/admin/users/:id.
func (h *AdminHandler) GetUser(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    u, err := h.Users.GetByID(ctx, id)
    if err != nil {
        return crudError(c, err, "user not found")
    }
    return c.JSON(http.StatusOK, adminUser{
        ID: u.ID, Email: u.Email, FullName: u.FullName,
        Role: u.Role, IsActive: u.IsActive, CreatedAt: u.CreatedAt,
    })
}

type adminUserReq struct {
    FullName string `json:"full_name"`
}

// UpdateUser handles PATCH /v1/admin/users/:id.  Only the display
// name is editable; email and role are fixed at registration.
func (h *AdminHandler) UpdateUser(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
    }
    var req adminUserReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.FullName) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "full_name required"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.Users.UpdateProfile(ctx, id, strings.TrimSpace(req.FullName)); err != nil {
        return crudError(c, err, "user not found")
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "full_name": strings.TrimSpace(req.FullName)})
}

// DeactivateUser handles POST /v1/admin/users/:id/deactivate.  The
// account is disabled rather than deleted so its reservation history
// survives.
func (h *AdminHandler) DeactivateUser(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.Users.Deactivate(ctx, id); err != nil {
        return crudError(c, err, "user not found")
    }
    return c.NoContent(http.StatusNoContent)
}
