package booking

import "context"

// Store opens transactional scopes against the reservation tables.
// Implementations must run fn inside a single transaction with at
// least read-committed isolation plus predicate locking; the MySQL
// implementation uses SERIALIZABLE explicitly.  When fn returns an
// error the transaction is rolled back and the error returned
// unchanged; otherwise the transaction is committed.
type Store interface {
    WithTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of persistence operations the engine performs inside
// one transaction.  All availability reads happen through Tx so that
// the check-then-insert sequence is serialized against concurrent
// writers by the store's isolation level, never by an out-of-band
// read.  Lookups of missing rows return *NotFoundError.
type Tx interface {
    // Bus trips.
    TripExists(ctx context.Context, tripID uint64) (bool, error)
    // TakenSeats returns which of the given labels are already held
    // by a reservation in an active status on the trip.
    TakenSeats(ctx context.Context, tripID uint64, labels []string) ([]string, error)
    InsertSeatReservations(ctx context.Context, rows []*SeatReservation) error
    SeatReservation(ctx context.Context, id uint64) (*SeatReservation, error)
    UpdateSeatReservationStatus(ctx context.Context, id uint64, status Status) error

    // Hotels.
    HotelExists(ctx context.Context, hotelID uint64) (bool, error)
    // OverlappingStays returns the date ranges of active reservations
    // for the same hotel and room type that overlap the given range
    // under half-open semantics.  A non-zero excludeID leaves that
    // reservation out of the check so a stay can be rescheduled over
    // its own dates.
    OverlappingStays(ctx context.Context, hotelID uint64, roomType string, r DateRange, excludeID uint64) ([]DateRange, error)
    InsertStayReservation(ctx context.Context, row *StayReservation) error
    StayReservation(ctx context.Context, id uint64) (*StayReservation, error)
    UpdateStayReservationStatus(ctx context.Context, id uint64, status Status) error
    UpdateStayReservationDates(ctx context.Context, id uint64, r DateRange) error

    // Taxis.  TaxiAvailable reads the availability flag of the taxi
    // row; SetTaxiAvailable flips it in the same transaction as the
    // reservation write so flag and status never diverge.
    TaxiAvailable(ctx context.Context, taxiID uint64) (bool, error)
    SetTaxiAvailable(ctx context.Context, taxiID uint64, available bool) error
    InsertTaxiReservation(ctx context.Context, row *TaxiReservation) error
    TaxiReservation(ctx context.Context, id uint64) (*TaxiReservation, error)
    UpdateTaxiReservationStatus(ctx context.Context, id uint64, status Status) error
}
