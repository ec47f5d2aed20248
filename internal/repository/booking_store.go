package repository

import (
    "context"
    "database/sql"
    "errors"
    "fmt"
    "strings"

    "github.com/iliyamo/travel-reservation/internal/booking"
)

// BookingStore implements booking.Store on MySQL.  Every engine
// operation runs in a single SERIALIZABLE transaction, so the
// check-then-insert sequence inside the engine is serialized against
// concurrent writers by InnoDB's next-key locking instead of explicit
// FOR UPDATE clauses.
type BookingStore struct {
    db *sql.DB
}

// NewBookingStore constructs a BookingStore with the provided DB handle.
func NewBookingStore(db *sql.DB) *BookingStore {
    return &BookingStore{db: db}
}

// WithTx opens a serializable transaction, runs fn and commits.  Any
// error from fn rolls the transaction back and is returned unchanged
// so the engine's typed errors survive to the handler layer.
func (s *BookingStore) WithTx(ctx context.Context, fn func(tx booking.Tx) error) error {
    tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if err := fn(&bookingTx{tx: tx}); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

type bookingTx struct {
    tx *sql.Tx
}

// activeStatusPlaceholders renders "?,?" plus the matching args for
// the statuses that occupy a slot.
func activeStatusPlaceholders() (string, []interface{}) {
    ph := make([]string, len(booking.ActiveStatuses))
    args := make([]interface{}, len(booking.ActiveStatuses))
    for i, st := range booking.ActiveStatuses {
        ph[i] = "?"
        args[i] = string(st)
    }
    return strings.Join(ph, ","), args
}

func (t *bookingTx) TripExists(ctx context.Context, tripID uint64) (bool, error) {
    var one int
    err := t.tx.QueryRowContext(ctx, "SELECT 1 FROM trips WHERE id = ?", tripID).Scan(&one)
    if errors.Is(err, sql.ErrNoRows) {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    return true, nil
}

func (t *bookingTx) TakenSeats(ctx context.Context, tripID uint64, labels []string) ([]string, error) {
    if len(labels) == 0 {
        return nil, nil
    }
    statusPh, args := activeStatusPlaceholders()
    args = append([]interface{}{tripID}, args...)
    labelPh := make([]string, len(labels))
    for i, l := range labels {
        labelPh[i] = "?"
        args = append(args, l)
    }
    q := `SELECT seat_label FROM bus_reservations
          WHERE trip_id = ? AND status IN (` + statusPh + `)
            AND seat_label IN (` + strings.Join(labelPh, ",") + `)`
    rows, err := t.tx.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var taken []string
    for rows.Next() {
        var label string
        if err := rows.Scan(&label); err != nil {
            return nil, err
        }
        taken = append(taken, label)
    }
    return taken, rows.Err()
}

// InsertSeatReservations writes all seat rows of one booking in a
// single multi-row INSERT, mirroring the bulk insert used for catalog
// seeding.  The generated ids are read back by the shared booking
// reference rather than derived from LastInsertId, because interleaved
// auto-increment lock modes do not guarantee consecutive ids for one
// batch.  All rows of a booking carry the same reference, so seat
// labels key the rows unambiguously.
func (t *bookingTx) InsertSeatReservations(ctx context.Context, rowsIn []*booking.SeatReservation) error {
    if len(rowsIn) == 0 {
        return nil
    }
    q := `INSERT INTO bus_reservations
          (trip_id, user_id, seat_label, price_cents, status, reference) VALUES `
    args := make([]interface{}, 0, len(rowsIn)*6)
    for i, row := range rowsIn {
        if i > 0 {
            q += ","
        }
        q += "(?, ?, ?, ?, ?, ?)"
        args = append(args, row.TripID, row.UserID, row.SeatLabel, row.PriceCents, string(row.Status), row.Reference)
    }
    if _, err := t.tx.ExecContext(ctx, q, args...); err != nil {
        return err
    }

    idRows, err := t.tx.QueryContext(ctx,
        "SELECT id, seat_label FROM bus_reservations WHERE reference = ?", rowsIn[0].Reference)
    if err != nil {
        return err
    }
    defer idRows.Close()
    ids := make(map[string]uint64, len(rowsIn))
    for idRows.Next() {
        var (
            id    uint64
            label string
        )
        if err := idRows.Scan(&id, &label); err != nil {
            return err
        }
        ids[label] = id
    }
    if err := idRows.Err(); err != nil {
        return err
    }
    for _, row := range rowsIn {
        id, ok := ids[row.SeatLabel]
        if !ok {
            return fmt.Errorf("inserted seat %q not found under reference %s", row.SeatLabel, row.Reference)
        }
        row.ID = id
    }
    return nil
}

func (t *bookingTx) SeatReservation(ctx context.Context, id uint64) (*booking.SeatReservation, error) {
    const q = `SELECT id, trip_id, user_id, seat_label, price_cents, status, reference, created_at
               FROM bus_reservations WHERE id = ?`
    var row booking.SeatReservation
    err := t.tx.QueryRowContext(ctx, q, id).Scan(
        &row.ID, &row.TripID, &row.UserID, &row.SeatLabel, &row.PriceCents,
        &row.Status, &row.Reference, &row.CreatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, &booking.NotFoundError{Resource: "bus reservation", ID: id}
    }
    if err != nil {
        return nil, err
    }
    return &row, nil
}

func (t *bookingTx) UpdateSeatReservationStatus(ctx context.Context, id uint64, status booking.Status) error {
    res, err := t.tx.ExecContext(ctx,
        "UPDATE bus_reservations SET status = ?, updated_at = NOW() WHERE id = ?",
        string(status), id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return &booking.NotFoundError{Resource: "bus reservation", ID: id}
    }
    return nil
}

func (t *bookingTx) HotelExists(ctx context.Context, hotelID uint64) (bool, error) {
    var one int
    err := t.tx.QueryRowContext(ctx, "SELECT 1 FROM hotels WHERE id = ?", hotelID).Scan(&one)
    if errors.Is(err, sql.ErrNoRows) {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    return true, nil
}

func (t *bookingTx) OverlappingStays(ctx context.Context, hotelID uint64, roomType string, r booking.DateRange, excludeID uint64) ([]booking.DateRange, error) {
    statusPh, statusArgs := activeStatusPlaceholders()
    q := `SELECT check_in, check_out FROM hotel_reservations
          WHERE hotel_id = ? AND room_type = ? AND status IN (` + statusPh + `)
            AND check_in < ? AND check_out > ? AND id <> ?`
    args := append([]interface{}{hotelID, roomType}, statusArgs...)
    args = append(args, r.CheckOut, r.CheckIn, excludeID)
    rows, err := t.tx.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []booking.DateRange
    for rows.Next() {
        var dr booking.DateRange
        if err := rows.Scan(&dr.CheckIn, &dr.CheckOut); err != nil {
            return nil, err
        }
        out = append(out, dr)
    }
    return out, rows.Err()
}

func (t *bookingTx) InsertStayReservation(ctx context.Context, row *booking.StayReservation) error {
    const q = `INSERT INTO hotel_reservations
        (hotel_id, user_id, room_type, guests, check_in, check_out, price_cents, status, reference)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
    res, err := t.tx.ExecContext(ctx, q,
        row.HotelID, row.UserID, row.RoomType, row.Guests, row.CheckIn, row.CheckOut,
        row.PriceCents, string(row.Status), row.Reference)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    row.ID = uint64(id)
    return nil
}

func (t *bookingTx) StayReservation(ctx context.Context, id uint64) (*booking.StayReservation, error) {
    const q = `SELECT id, hotel_id, user_id, room_type, guests, check_in, check_out,
                      price_cents, status, reference, created_at
               FROM hotel_reservations WHERE id = ?`
    var row booking.StayReservation
    err := t.tx.QueryRowContext(ctx, q, id).Scan(
        &row.ID, &row.HotelID, &row.UserID, &row.RoomType, &row.Guests,
        &row.CheckIn, &row.CheckOut, &row.PriceCents, &row.Status,
        &row.Reference, &row.CreatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, &booking.NotFoundError{Resource: "hotel reservation", ID: id}
    }
    if err != nil {
        return nil, err
    }
    return &row, nil
}

func (t *bookingTx) UpdateStayReservationStatus(ctx context.Context, id uint64, status booking.Status) error {
    res, err := t.tx.ExecContext(ctx,
        "UPDATE hotel_reservations SET status = ?, updated_at = NOW() WHERE id = ?",
        string(status), id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return &booking.NotFoundError{Resource: "hotel reservation", ID: id}
    }
    return nil
}

func (t *bookingTx) UpdateStayReservationDates(ctx context.Context, id uint64, r booking.DateRange) error {
    res, err := t.tx.ExecContext(ctx,
        "UPDATE hotel_reservations SET check_in = ?, check_out = ?, updated_at = NOW() WHERE id = ?",
        r.CheckIn, r.CheckOut, id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return &booking.NotFoundError{Resource: "hotel reservation", ID: id}
    }
    return nil
}

func (t *bookingTx) TaxiAvailable(ctx context.Context, taxiID uint64) (bool, error) {
    var available bool
    err := t.tx.QueryRowContext(ctx, "SELECT available FROM taxis WHERE id = ?", taxiID).Scan(&available)
    if errors.Is(err, sql.ErrNoRows) {
        return false, &booking.NotFoundError{Resource: "taxi", ID: taxiID}
    }
    if err != nil {
        return false, err
    }
    return available, nil
}

func (t *bookingTx) SetTaxiAvailable(ctx context.Context, taxiID uint64, available bool) error {
    res, err := t.tx.ExecContext(ctx,
        "UPDATE taxis SET available = ?, updated_at = NOW() WHERE id = ?",
        available, taxiID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return &booking.NotFoundError{Resource: "taxi", ID: taxiID}
    }
    return nil
}

func (t *bookingTx) InsertTaxiReservation(ctx context.Context, row *booking.TaxiReservation) error {
    const q = `INSERT INTO taxi_reservations
        (taxi_id, user_id, pickup_point, dropoff_point, pickup_at, price_cents, status, reference)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
    res, err := t.tx.ExecContext(ctx, q,
        row.TaxiID, row.UserID, row.Pickup, row.Dropoff, row.PickupAt,
        row.PriceCents, string(row.Status), row.Reference)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    row.ID = uint64(id)
    return nil
}

func (t *bookingTx) TaxiReservation(ctx context.Context, id uint64) (*booking.TaxiReservation, error) {
    const q = `SELECT id, taxi_id, user_id, pickup_point, dropoff_point, pickup_at,
                      price_cents, status, reference, created_at
               FROM taxi_reservations WHERE id = ?`
    var row booking.TaxiReservation
    err := t.tx.QueryRowContext(ctx, q, id).Scan(
        &row.ID, &row.TaxiID, &row.UserID, &row.Pickup, &row.Dropoff,
        &row.PickupAt, &row.PriceCents, &row.Status, &row.Reference, &row.CreatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, &booking.NotFoundError{Resource: "taxi reservation", ID: id}
    }
    if err != nil {
        return nil, err
    }
    return &row, nil
}

func (t *bookingTx) UpdateTaxiReservationStatus(ctx context.Context, id uint64, status booking.Status) error {
    res, err := t.tx.ExecContext(ctx,
        "UPDATE taxi_reservations SET status = ?, updated_at = NOW() WHERE id = ?",
        string(status), id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return &booking.NotFoundError{Resource: "taxi reservation", ID: id}
    }
    return nil
}
