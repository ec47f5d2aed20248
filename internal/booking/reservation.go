package booking

import "time"

// SeatReservation is one claimed seat on a bus trip.  A request for
// several seats produces one row per seat, all sharing the same
// Reference so they can be correlated as one logical booking.
//
// Fields:
//  ID         – primary key identifier.
//  TripID     – bus trip being booked.
//  UserID     – user who made the booking.
//  SeatLabel  – canonical seat label (e.g. "A1").
//  PriceCents – price attributed to this seat.
//  Status     – lifecycle state.
//  Reference  – opaque booking reference shared by sibling rows.
//  CreatedAt  – creation timestamp (UTC).
type SeatReservation struct {
    ID         uint64    `json:"id"`
    TripID     uint64    `json:"trip_id"`
    UserID     uint64    `json:"user_id"`
    SeatLabel  string    `json:"seat_label"`
    PriceCents uint32    `json:"price_cents"`
    Status     Status    `json:"status"`
    Reference  string    `json:"reference"`
    CreatedAt  time.Time `json:"created_at"`
}

// StayReservation is a hotel booking over a half-open date range.
type StayReservation struct {
    ID         uint64    `json:"id"`
    HotelID    uint64    `json:"hotel_id"`
    UserID     uint64    `json:"user_id"`
    RoomType   string    `json:"room_type"`
    Guests     uint32    `json:"guests"`
    CheckIn    time.Time `json:"check_in"`
    CheckOut   time.Time `json:"check_out"`
    PriceCents uint32    `json:"price_cents"`
    Status     Status    `json:"status"`
    Reference  string    `json:"reference"`
    CreatedAt  time.Time `json:"created_at"`
}

// Range returns the stay interval for overlap checks.
func (s *StayReservation) Range() DateRange {
    return DateRange{CheckIn: s.CheckIn, CheckOut: s.CheckOut}
}

// TaxiReservation claims a whole taxi; the vehicle is the slot, so
// the row carries ride details rather than a slot descriptor.
type TaxiReservation struct {
    ID         uint64    `json:"id"`
    TaxiID     uint64    `json:"taxi_id"`
    UserID     uint64    `json:"user_id"`
    Pickup     string    `json:"pickup"`
    Dropoff    string    `json:"dropoff"`
    PickupAt   time.Time `json:"pickup_at"`
    PriceCents uint32    `json:"price_cents"`
    Status     Status    `json:"status"`
    Reference  string    `json:"reference"`
    CreatedAt  time.Time `json:"created_at"`
}
