package handler

import (
    "context"
    "errors"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/travel-reservation/internal/booking"
    "github.com/iliyamo/travel-reservation/internal/queue"
    "github.com/iliyamo/travel-reservation/internal/repository"
    queue_publisher "github.com/iliyamo/travel-reservation/internal/service"
)

// ReservationHandler serves the booking endpoints: creating bus, hotel
// and taxi reservations, moving them through their lifecycle and
// listing them.  All writes go through the booking engine so the
// availability invariants hold regardless of which endpoint was hit.
// Methods assume JWT authentication has already run; they return 401
// when the user ID cannot be extracted from the context.
type ReservationHandler struct {
    Engine       *booking.Engine
    Reservations *repository.ReservationRepo
    Trips        *repository.TripRepo
    Hotels       *repository.HotelRepo
    Taxis        *repository.TaxiRepo
}

// NewReservationHandler constructs a ReservationHandler with the
// provided dependencies.  All dependencies must be non-nil.
func NewReservationHandler(engine *booking.Engine, reservations *repository.ReservationRepo, trips *repository.TripRepo, hotels *repository.HotelRepo, taxis *repository.TaxiRepo) *ReservationHandler {
    if engine == nil || reservations == nil || trips == nil || hotels == nil || taxis == nil {
        panic("nil dependency passed to NewReservationHandler")
    }
    return &ReservationHandler{Engine: engine, Reservations: reservations, Trips: trips, Hotels: hotels, Taxis: taxis}
}

// bookingError translates the engine's typed errors into HTTP
// responses.  Conflicts carry the disputed slots so clients can show
// which seats or dates were lost.
func bookingError(c echo.Context, err error) error {
    var verr *booking.ValidationError
    if errors.As(err, &verr) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Error()})
    }
    var nf *booking.NotFoundError
    if errors.As(err, &nf) {
        return c.JSON(http.StatusNotFound, echo.Map{"error": nf.Error()})
    }
    var conflict *booking.ConflictError
    if errors.As(err, &conflict) {
        return c.JSON(http.StatusConflict, echo.Map{"error": "not available", "conflicts": conflict.Slots})
    }
    var illegal *booking.IllegalTransitionError
    if errors.As(err, &illegal) {
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": illegal.Error()})
    }
    if errors.Is(err, booking.ErrForbidden) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reservation failed"})
}

type reserveSeatsReq struct {
    Seats []string `json:"seats"`
}

// ReserveSeats handles POST /v1/trips/:id/reservations.  Seats may be
// a JSON array of labels or comma-separated strings; pricing comes
// from the trip, never from the client.
func (h *ReservationHandler) ReserveSeats(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    tripID, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid trip id"})
    }
    var req reserveSeatsReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    labels := booking.NormalizeSeatLabels(req.Seats)
    if len(labels) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one seat label is required"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    trip, err := h.Trips.GetByID(ctx, tripID)
    if err != nil {
        if err == repository.ErrTripNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "trip not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    total := trip.PriceCents * uint32(len(labels))

    rows, err := h.Engine.ReserveSeats(ctx, booking.SeatRequest{
        TripID:          tripID,
        UserID:          userID,
        Seats:           labels,
        TotalPriceCents: total,
    })
    if err != nil {
        return bookingError(c, err)
    }

    publishConfirmed(queue.ReservationConfirmedEvent{
        Kind:          string(booking.KindBus),
        ReservationID: rows[0].ID,
        Reference:     rows[0].Reference,
        UserID:        userID,
        ResourceID:    tripID,
        Description:   fmt.Sprintf("%s -> %s (%s)", trip.FromCity, trip.ToCity, trip.CompanyName),
        SeatLabels:    labels,
        AmountCents:   total,
        ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
    })

    return c.JSON(http.StatusCreated, echo.Map{
        "reference":         rows[0].Reference,
        "reservations":      rows,
        "total_price_cents": total,
    })
}

type reserveStayReq struct {
    RoomType string `json:"room_type"`
    Guests   uint32 `json:"guests"`
    CheckIn  string `json:"check_in"`
    CheckOut string `json:"check_out"`
}

// ReserveStay handles POST /v1/hotels/:id/reservations.  Dates are
// YYYY-MM-DD; the check-out day is exclusive.  The stay is created
// PENDING and must be confirmed separately.
func (h *ReservationHandler) ReserveStay(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    hotelID, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
    }
    var req reserveStayReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    checkIn, err := time.Parse("2006-01-02", req.CheckIn)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in must be YYYY-MM-DD"})
    }
    checkOut, err := time.Parse("2006-01-02", req.CheckOut)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be YYYY-MM-DD"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    hotel, err := h.Hotels.GetByID(ctx, hotelID)
    if err != nil {
        if err == repository.ErrHotelNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    nights := uint32(checkOut.Sub(checkIn).Hours() / 24)
    price := hotel.NightlyCents * nights

    row, err := h.Engine.ReserveStay(ctx, booking.StayRequest{
        HotelID:    hotelID,
        UserID:     userID,
        RoomType:   req.RoomType,
        Guests:     req.Guests,
        CheckIn:    checkIn,
        CheckOut:   checkOut,
        PriceCents: price,
    })
    if err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusCreated, row)
}

type rescheduleStayReq struct {
    CheckIn  string `json:"check_in"`  // YYYY-MM-DD
    CheckOut string `json:"check_out"` // YYYY-MM-DD
}

// RescheduleStay handles PATCH /v1/reservations/hotel/:id/dates.  The
// new range goes through the same conflict check as a fresh booking,
// with the stay's own row excluded.
func (h *ReservationHandler) RescheduleStay(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    var req rescheduleStayReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    checkIn, err := time.Parse("2006-01-02", req.CheckIn)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in must be YYYY-MM-DD"})
    }
    checkOut, err := time.Parse("2006-01-02", req.CheckOut)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be YYYY-MM-DD"})
    }

    requester := userID
    if isAdmin(c) {
        requester = 0
    }

    ctx, cancel := reqCtx(c)
    defer cancel()
    row, rerr := h.Engine.RescheduleStay(ctx, id, booking.DateRange{CheckIn: checkIn, CheckOut: checkOut}, requester)
    if rerr != nil {
        return bookingError(c, rerr)
    }
    return c.JSON(http.StatusOK, row)
}

type reserveTaxiReq struct {
    Pickup   string `json:"pickup"`
    Dropoff  string `json:"dropoff"`
    PickupAt string `json:"pickup_at"` // RFC 3339
}

// ReserveTaxi handles POST /v1/taxis/:id/reservations.  The whole
// vehicle is claimed; the reservation confirms immediately.
func (h *ReservationHandler) ReserveTaxi(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    taxiID, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid taxi id"})
    }
    var req reserveTaxiReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    pickupAt := time.Now().UTC()
    if strings.TrimSpace(req.PickupAt) != "" {
        parsed, err := time.Parse(time.RFC3339, req.PickupAt)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "pickup_at must be RFC 3339"})
        }
        pickupAt = parsed.UTC()
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    taxi, err := h.Taxis.GetByID(ctx, taxiID)
    if err != nil {
        if err == repository.ErrTaxiNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "taxi not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }

    row, err := h.Engine.ReserveTaxi(ctx, booking.TaxiRequest{
        TaxiID:     taxiID,
        UserID:     userID,
        Pickup:     req.Pickup,
        Dropoff:    req.Dropoff,
        PickupAt:   pickupAt,
        PriceCents: taxi.FareCents,
    })
    if err != nil {
        return bookingError(c, err)
    }

    publishConfirmed(queue.ReservationConfirmedEvent{
        Kind:          string(booking.KindTaxi),
        ReservationID: row.ID,
        Reference:     row.Reference,
        UserID:        userID,
        ResourceID:    taxiID,
        Description:   fmt.Sprintf("%s -> %s (driver %s)", row.Pickup, row.Dropoff, taxi.DriverName),
        AmountCents:   row.PriceCents,
        ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
    })

    return c.JSON(http.StatusCreated, row)
}

type transitionReq struct {
    Status string `json:"status"`
}

// TransitionBus handles PATCH /v1/reservations/bus/:id/status.
// Customers can only act on their own reservations; admins may act on
// any and may also confirm or complete.
func (h *ReservationHandler) TransitionBus(c echo.Context) error {
    id, target, requester, err := h.transitionArgs(c)
    if err != nil {
        return err
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    row, rerr := h.Engine.TransitionSeat(ctx, id, target, requester)
    if rerr != nil {
        return bookingError(c, rerr)
    }
    h.publishTransition(string(booking.KindBus), row.ID, row.Reference, row.UserID, row.TripID, target)
    return c.JSON(http.StatusOK, row)
}

// TransitionStay handles PATCH /v1/reservations/hotel/:id/status.
func (h *ReservationHandler) TransitionStay(c echo.Context) error {
    id, target, requester, err := h.transitionArgs(c)
    if err != nil {
        return err
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    row, rerr := h.Engine.TransitionStay(ctx, id, target, requester)
    if rerr != nil {
        return bookingError(c, rerr)
    }
    h.publishTransition(string(booking.KindHotel), row.ID, row.Reference, row.UserID, row.HotelID, target)
    return c.JSON(http.StatusOK, row)
}

// TransitionTaxi handles PATCH /v1/reservations/taxi/:id/status.
func (h *ReservationHandler) TransitionTaxi(c echo.Context) error {
    id, target, requester, err := h.transitionArgs(c)
    if err != nil {
        return err
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    row, rerr := h.Engine.TransitionTaxi(ctx, id, target, requester)
    if rerr != nil {
        return bookingError(c, rerr)
    }
    h.publishTransition(string(booking.KindTaxi), row.ID, row.Reference, row.UserID, row.TaxiID, target)
    return c.JSON(http.StatusOK, row)
}

// transitionArgs validates the shared parts of a transition request:
// path id, target status and the requester.  Admins bypass the
// engine's ownership check by passing requester zero.
func (h *ReservationHandler) transitionArgs(c echo.Context) (uint64, booking.Status, uint64, error) {
    userID, err := getUserID(c)
    if err != nil {
        return 0, "", 0, c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := paramID(c, "id")
    if !ok {
        return 0, "", 0, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    var req transitionReq
    if err := c.Bind(&req); err != nil {
        return 0, "", 0, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    target := booking.Status(strings.ToUpper(strings.TrimSpace(req.Status)))
    switch target {
    case booking.StatusConfirmed, booking.StatusCancelled, booking.StatusCompleted:
    default:
        return 0, "", 0, c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be CONFIRMED, CANCELLED or COMPLETED"})
    }
    // Only admins may confirm or complete; customers cancel their own.
    requester := userID
    if isAdmin(c) {
        requester = 0
    } else if target != booking.StatusCancelled {
        return 0, "", 0, c.JSON(http.StatusForbidden, echo.Map{"error": "only admins may confirm or complete"})
    }
    return id, target, requester, nil
}

// MyReservations handles GET /v1/my-reservations: the caller's
// bookings across all three kinds, newest first within each kind.
func (h *ReservationHandler) MyReservations(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    bus, err := h.Reservations.BusByUser(ctx, userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    stays, err := h.Reservations.StaysByUser(ctx, userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    taxis, err := h.Reservations.TaxisByUser(ctx, userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"bus": bus, "hotels": stays, "taxis": taxis})
}

// TripReservations handles GET /v1/admin/trips/:id/reservations.
func (h *ReservationHandler) TripReservations(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid trip id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    rows, err := h.Reservations.BusByTrip(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"reservations": rows})
}

// HotelReservations handles GET /v1/admin/hotels/:id/reservations.
func (h *ReservationHandler) HotelReservations(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    rows, err := h.Reservations.StaysByHotel(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"reservations": rows})
}

// TaxiReservations handles GET /v1/admin/taxis/:id/reservations.
func (h *ReservationHandler) TaxiReservations(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid taxi id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    rows, err := h.Reservations.TaxisByVehicle(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"reservations": rows})
}

// publishConfirmed sends a confirmation event in the background.
// Publishing failures are logged by the publisher and never affect the
// HTTP response.
func publishConfirmed(ev queue.ReservationConfirmedEvent) {
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
        defer cancel()
        _ = queue_publisher.PublishReservationConfirmed(ctx, ev)
    }()
}

// publishTransition emits confirmed/cancelled events for lifecycle
// moves.  COMPLETED transitions are not published.
func (h *ReservationHandler) publishTransition(kind string, id uint64, ref string, userID, resourceID uint64, target booking.Status) {
    now := time.Now().UTC().Format(time.RFC3339)
    switch target {
    case booking.StatusConfirmed:
        publishConfirmed(queue.ReservationConfirmedEvent{
            Kind: kind, ReservationID: id, Reference: ref,
            UserID: userID, ResourceID: resourceID, ConfirmedAt: now,
        })
    case booking.StatusCancelled:
        go func() {
            ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
            defer cancel()
            _ = queue_publisher.PublishReservationCancelled(ctx, queue.ReservationCancelledEvent{
                Kind: kind, ReservationID: id, Reference: ref,
                UserID: userID, ResourceID: resourceID, CancelledAt: now,
            })
        }()
    }
}
