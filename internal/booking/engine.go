package booking

import (
    "context"
    "fmt"
    "strings"
    "time"

    "github.com/google/uuid"
)

// Engine coordinates availability checks, reservation writes and
// status transitions for all three resource kinds.  Every mutating
// operation follows the same shape: validate input, open a
// transaction, verify the resource exists, re-check availability
// inside the transaction, write, commit.  Any error on the way out
// rolls the whole transaction back, so a logical booking is never
// half-committed.
type Engine struct {
    store Store
    now   func() time.Time
}

// NewEngine builds an Engine on top of a Store.
func NewEngine(store Store) *Engine {
    if store == nil {
        panic("nil store passed to NewEngine")
    }
    return &Engine{store: store, now: time.Now}
}

// SeatRequest asks for one or more seats on a bus trip.  Seats may
// arrive as a list or as comma-separated strings; they are normalized
// before any check.  TotalPriceCents is the price for the whole set.
type SeatRequest struct {
    TripID          uint64
    UserID          uint64
    Seats           []string
    TotalPriceCents uint32
}

// StayRequest asks for a hotel stay over [CheckIn, CheckOut).
type StayRequest struct {
    HotelID    uint64
    UserID     uint64
    RoomType   string
    Guests     uint32
    CheckIn    time.Time
    CheckOut   time.Time
    PriceCents uint32
}

// TaxiRequest claims a whole taxi for a ride.
type TaxiRequest struct {
    TaxiID     uint64
    UserID     uint64
    Pickup     string
    Dropoff    string
    PickupAt   time.Time
    PriceCents uint32
}

// ReserveSeats books a set of seats on a trip.  One reservation row
// is created per seat; the total price is split evenly across them,
// with any remainder cents assigned to the earliest seats so the row
// prices always sum to the requested total.  Returns ConflictError
// listing the already-taken labels when any requested seat is held by
// a pending or confirmed reservation.
func (e *Engine) ReserveSeats(ctx context.Context, req SeatRequest) ([]*SeatReservation, error) {
    labels := NormalizeSeatLabels(req.Seats)
    if len(labels) == 0 {
        return nil, &ValidationError{Field: "seats", Reason: "at least one seat label is required"}
    }
    if req.UserID == 0 {
        return nil, &ValidationError{Field: "user_id", Reason: "required"}
    }

    prices := splitPrice(req.TotalPriceCents, len(labels))
    ref := uuid.NewString()
    created := e.now().UTC()

    rows := make([]*SeatReservation, 0, len(labels))
    err := e.store.WithTx(ctx, func(tx Tx) error {
        ok, err := tx.TripExists(ctx, req.TripID)
        if err != nil {
            return err
        }
        if !ok {
            return &NotFoundError{Resource: "trip", ID: req.TripID}
        }
        taken, err := tx.TakenSeats(ctx, req.TripID, labels)
        if err != nil {
            return err
        }
        if len(taken) > 0 {
            return &ConflictError{Slots: taken}
        }
        for i, label := range labels {
            rows = append(rows, &SeatReservation{
                TripID:     req.TripID,
                UserID:     req.UserID,
                SeatLabel:  label,
                PriceCents: prices[i],
                Status:     StatusConfirmed,
                Reference:  ref,
                CreatedAt:  created,
            })
        }
        return tx.InsertSeatReservations(ctx, rows)
    })
    if err != nil {
        return nil, err
    }
    return rows, nil
}

// ReserveStay books a hotel over a half-open date range.  The stay is
// created PENDING and must be confirmed through Transition.  Conflict
// detection is overlap-based per hotel and room type; cancelled and
// completed stays never block a new booking.
func (e *Engine) ReserveStay(ctx context.Context, req StayRequest) (*StayReservation, error) {
    r := DateRange{CheckIn: req.CheckIn, CheckOut: req.CheckOut}
    if !r.Valid() {
        return nil, &ValidationError{Field: "check_out", Reason: "must be after check_in"}
    }
    roomType := strings.ToUpper(strings.TrimSpace(req.RoomType))
    if roomType == "" {
        return nil, &ValidationError{Field: "room_type", Reason: "required"}
    }
    if req.Guests == 0 {
        return nil, &ValidationError{Field: "guests", Reason: "must be at least 1"}
    }
    if req.UserID == 0 {
        return nil, &ValidationError{Field: "user_id", Reason: "required"}
    }

    row := &StayReservation{
        HotelID:    req.HotelID,
        UserID:     req.UserID,
        RoomType:   roomType,
        Guests:     req.Guests,
        CheckIn:    req.CheckIn,
        CheckOut:   req.CheckOut,
        PriceCents: req.PriceCents,
        Status:     StatusPending,
        Reference:  uuid.NewString(),
        CreatedAt:  e.now().UTC(),
    }
    err := e.store.WithTx(ctx, func(tx Tx) error {
        ok, err := tx.HotelExists(ctx, req.HotelID)
        if err != nil {
            return err
        }
        if !ok {
            return &NotFoundError{Resource: "hotel", ID: req.HotelID}
        }
        overlaps, err := tx.OverlappingStays(ctx, req.HotelID, roomType, r, 0)
        if err != nil {
            return err
        }
        if len(overlaps) > 0 {
            slots := make([]string, 0, len(overlaps))
            for _, o := range overlaps {
                slots = append(slots, o.String())
            }
            return &ConflictError{Slots: slots}
        }
        return tx.InsertStayReservation(ctx, row)
    })
    if err != nil {
        return nil, err
    }
    return row, nil
}

// ReserveTaxi claims a whole taxi.  The reservation is confirmed
// immediately and the taxi's availability flag is flipped to false in
// the same transaction, so the flag and the reservation status can
// never be observed out of step.
func (e *Engine) ReserveTaxi(ctx context.Context, req TaxiRequest) (*TaxiReservation, error) {
    if strings.TrimSpace(req.Pickup) == "" {
        return nil, &ValidationError{Field: "pickup", Reason: "required"}
    }
    if strings.TrimSpace(req.Dropoff) == "" {
        return nil, &ValidationError{Field: "dropoff", Reason: "required"}
    }
    if req.UserID == 0 {
        return nil, &ValidationError{Field: "user_id", Reason: "required"}
    }

    row := &TaxiReservation{
        TaxiID:     req.TaxiID,
        UserID:     req.UserID,
        Pickup:     strings.TrimSpace(req.Pickup),
        Dropoff:    strings.TrimSpace(req.Dropoff),
        PickupAt:   req.PickupAt,
        PriceCents: req.PriceCents,
        Status:     StatusConfirmed,
        Reference:  uuid.NewString(),
        CreatedAt:  e.now().UTC(),
    }
    err := e.store.WithTx(ctx, func(tx Tx) error {
        available, err := tx.TaxiAvailable(ctx, req.TaxiID)
        if err != nil {
            return err
        }
        if !available {
            return &ConflictError{Slots: []string{fmt.Sprintf("taxi:%d", req.TaxiID)}}
        }
        if err := tx.InsertTaxiReservation(ctx, row); err != nil {
            return err
        }
        return tx.SetTaxiAvailable(ctx, req.TaxiID, false)
    })
    if err != nil {
        return nil, err
    }
    return row, nil
}

// RescheduleStay moves an active hotel reservation to a new date
// range.  The new range is conflict-checked inside the transaction
// exactly like a fresh booking, with the stay's own row excluded so
// overlapping its current dates is allowed.  Cancelled and completed
// stays cannot be rescheduled.
func (e *Engine) RescheduleStay(ctx context.Context, id uint64, r DateRange, requester uint64) (*StayReservation, error) {
    if !r.Valid() {
        return nil, &ValidationError{Field: "check_out", Reason: "must be after check_in"}
    }
    var row *StayReservation
    err := e.store.WithTx(ctx, func(tx Tx) error {
        var err error
        row, err = tx.StayReservation(ctx, id)
        if err != nil {
            return err
        }
        if requester != 0 && row.UserID != requester {
            return ErrForbidden
        }
        if row.Status != StatusPending && row.Status != StatusConfirmed {
            return &ValidationError{Field: "status", Reason: "only pending or confirmed stays can be rescheduled"}
        }
        overlaps, err := tx.OverlappingStays(ctx, row.HotelID, row.RoomType, r, id)
        if err != nil {
            return err
        }
        if len(overlaps) > 0 {
            slots := make([]string, 0, len(overlaps))
            for _, o := range overlaps {
                slots = append(slots, o.String())
            }
            return &ConflictError{Slots: slots}
        }
        if err := tx.UpdateStayReservationDates(ctx, id, r); err != nil {
            return err
        }
        row.CheckIn = r.CheckIn
        row.CheckOut = r.CheckOut
        return nil
    })
    if err != nil {
        return nil, err
    }
    return row, nil
}

// TransitionSeat moves a bus reservation to the target status.  When
// requester is non-zero the reservation must belong to that user;
// admins pass zero to bypass the ownership check.  Illegal moves are
// rejected by the lifecycle table without touching the row.
func (e *Engine) TransitionSeat(ctx context.Context, id uint64, target Status, requester uint64) (*SeatReservation, error) {
    var row *SeatReservation
    err := e.store.WithTx(ctx, func(tx Tx) error {
        var err error
        row, err = tx.SeatReservation(ctx, id)
        if err != nil {
            return err
        }
        if requester != 0 && row.UserID != requester {
            return ErrForbidden
        }
        if !CanTransition(KindBus, row.Status, target) {
            return &IllegalTransitionError{Kind: KindBus, From: row.Status, To: target}
        }
        if err := tx.UpdateSeatReservationStatus(ctx, id, target); err != nil {
            return err
        }
        row.Status = target
        return nil
    })
    if err != nil {
        return nil, err
    }
    return row, nil
}

// TransitionStay moves a hotel reservation to the target status under
// the same rules as TransitionSeat.
func (e *Engine) TransitionStay(ctx context.Context, id uint64, target Status, requester uint64) (*StayReservation, error) {
    var row *StayReservation
    err := e.store.WithTx(ctx, func(tx Tx) error {
        var err error
        row, err = tx.StayReservation(ctx, id)
        if err != nil {
            return err
        }
        if requester != 0 && row.UserID != requester {
            return ErrForbidden
        }
        if !CanTransition(KindHotel, row.Status, target) {
            return &IllegalTransitionError{Kind: KindHotel, From: row.Status, To: target}
        }
        if err := tx.UpdateStayReservationStatus(ctx, id, target); err != nil {
            return err
        }
        row.Status = target
        return nil
    })
    if err != nil {
        return nil, err
    }
    return row, nil
}

// TransitionTaxi moves a taxi reservation to the target status.
// Cancelling additionally resets the taxi's availability flag, inside
// the same transaction as the status update.
func (e *Engine) TransitionTaxi(ctx context.Context, id uint64, target Status, requester uint64) (*TaxiReservation, error) {
    var row *TaxiReservation
    err := e.store.WithTx(ctx, func(tx Tx) error {
        var err error
        row, err = tx.TaxiReservation(ctx, id)
        if err != nil {
            return err
        }
        if requester != 0 && row.UserID != requester {
            return ErrForbidden
        }
        if !CanTransition(KindTaxi, row.Status, target) {
            return &IllegalTransitionError{Kind: KindTaxi, From: row.Status, To: target}
        }
        if err := tx.UpdateTaxiReservationStatus(ctx, id, target); err != nil {
            return err
        }
        if target == StatusCancelled {
            if err := tx.SetTaxiAvailable(ctx, row.TaxiID, true); err != nil {
                return err
            }
        }
        row.Status = target
        return nil
    })
    if err != nil {
        return nil, err
    }
    return row, nil
}

// splitPrice divides a total evenly across n rows.  Integer division
// leaves up to n-1 remainder cents, which are assigned one each to
// the earliest rows so the parts always sum to the total.
func splitPrice(total uint32, n int) []uint32 {
    out := make([]uint32, n)
    base := total / uint32(n)
    rem := total % uint32(n)
    for i := range out {
        out[i] = base
        if uint32(i) < rem {
            out[i]++
        }
    }
    return out
}
