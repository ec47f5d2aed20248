package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/travel-reservation/internal/booking"
)

// BusReservationRow is a bus reservation joined with the trip route
// for listing responses.
type BusReservationRow struct {
    booking.SeatReservation
    CompanyName string `json:"company_name"`
    FromCity    string `json:"from_city"`
    ToCity      string `json:"to_city"`
}

// StayReservationRow is a hotel reservation joined with the hotel and
// city names.
type StayReservationRow struct {
    booking.StayReservation
    HotelName string `json:"hotel_name"`
    CityName  string `json:"city_name"`
}

// TaxiReservationRow is a taxi reservation joined with the vehicle
// details.
type TaxiReservationRow struct {
    booking.TaxiReservation
    DriverName string `json:"driver_name"`
    Plate      string `json:"plate"`
    CityName   string `json:"city_name"`
}

// ReservationRepo serves the read side of reservations: customer
// history and admin listings.  All writes go through the booking
// engine; this repo never mutates reservation rows.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const busRowSelect = `
    SELECT br.id, br.trip_id, br.user_id, br.seat_label, br.price_cents,
           br.status, br.reference, br.created_at,
           co.name, cf.name, ct.name
    FROM bus_reservations br
    JOIN trips t ON t.id = br.trip_id
    JOIN companies co ON co.id = t.company_id
    JOIN cities cf ON cf.id = t.from_city_id
    JOIN cities ct ON ct.id = t.to_city_id`

func scanBusRows(rows *sql.Rows) ([]*BusReservationRow, error) {
    var out []*BusReservationRow
    for rows.Next() {
        r := new(BusReservationRow)
        if err := rows.Scan(
            &r.ID, &r.TripID, &r.UserID, &r.SeatLabel, &r.PriceCents,
            &r.Status, &r.Reference, &r.CreatedAt,
            &r.CompanyName, &r.FromCity, &r.ToCity,
        ); err != nil {
            return nil, err
        }
        out = append(out, r)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// BusByUser lists a user's bus reservations, newest first.
func (r *ReservationRepo) BusByUser(ctx context.Context, userID uint64) ([]*BusReservationRow, error) {
    const q = busRowSelect + " WHERE br.user_id = ? ORDER BY br.created_at DESC, br.id DESC"
    rows, err := r.db.QueryContext(ctx, q, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanBusRows(rows)
}

// BusByTrip lists every reservation on a trip.  Admin only.
func (r *ReservationRepo) BusByTrip(ctx context.Context, tripID uint64) ([]*BusReservationRow, error) {
    const q = busRowSelect + " WHERE br.trip_id = ? ORDER BY br.seat_label"
    rows, err := r.db.QueryContext(ctx, q, tripID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanBusRows(rows)
}

const stayRowSelect = `
    SELECT hr.id, hr.hotel_id, hr.user_id, hr.room_type, hr.guests,
           hr.check_in, hr.check_out, hr.price_cents, hr.status,
           hr.reference, hr.created_at,
           h.name, c.name
    FROM hotel_reservations hr
    JOIN hotels h ON h.id = hr.hotel_id
    JOIN cities c ON c.id = h.city_id`

func scanStayRows(rows *sql.Rows) ([]*StayReservationRow, error) {
    var out []*StayReservationRow
    for rows.Next() {
        r := new(StayReservationRow)
        if err := rows.Scan(
            &r.ID, &r.HotelID, &r.UserID, &r.RoomType, &r.Guests,
            &r.CheckIn, &r.CheckOut, &r.PriceCents, &r.Status,
            &r.Reference, &r.CreatedAt,
            &r.HotelName, &r.CityName,
        ); err != nil {
            return nil, err
        }
        out = append(out, r)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// StaysByUser lists a user's hotel reservations, newest first.
func (r *ReservationRepo) StaysByUser(ctx context.Context, userID uint64) ([]*StayReservationRow, error) {
    const q = stayRowSelect + " WHERE hr.user_id = ? ORDER BY hr.created_at DESC, hr.id DESC"
    rows, err := r.db.QueryContext(ctx, q, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanStayRows(rows)
}

// StaysByHotel lists every reservation of a hotel.  Admin only.
func (r *ReservationRepo) StaysByHotel(ctx context.Context, hotelID uint64) ([]*StayReservationRow, error) {
    const q = stayRowSelect + " WHERE hr.hotel_id = ? ORDER BY hr.check_in"
    rows, err := r.db.QueryContext(ctx, q, hotelID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanStayRows(rows)
}

const taxiRowSelect = `
    SELECT tr.id, tr.taxi_id, tr.user_id, tr.pickup_point, tr.dropoff_point,
           tr.pickup_at, tr.price_cents, tr.status, tr.reference, tr.created_at,
           tx.driver_name, tx.plate, c.name
    FROM taxi_reservations tr
    JOIN taxis tx ON tx.id = tr.taxi_id
    JOIN cities c ON c.id = tx.city_id`

func scanTaxiRows(rows *sql.Rows) ([]*TaxiReservationRow, error) {
    var out []*TaxiReservationRow
    for rows.Next() {
        r := new(TaxiReservationRow)
        if err := rows.Scan(
            &r.ID, &r.TaxiID, &r.UserID, &r.Pickup, &r.Dropoff,
            &r.PickupAt, &r.PriceCents, &r.Status, &r.Reference, &r.CreatedAt,
            &r.DriverName, &r.Plate, &r.CityName,
        ); err != nil {
            return nil, err
        }
        out = append(out, r)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// TaxisByUser lists a user's taxi reservations, newest first.
func (r *ReservationRepo) TaxisByUser(ctx context.Context, userID uint64) ([]*TaxiReservationRow, error) {
    const q = taxiRowSelect + " WHERE tr.user_id = ? ORDER BY tr.created_at DESC, tr.id DESC"
    rows, err := r.db.QueryContext(ctx, q, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanTaxiRows(rows)
}

// TaxisByVehicle lists every reservation of a vehicle.  Admin only.
func (r *ReservationRepo) TaxisByVehicle(ctx context.Context, taxiID uint64) ([]*TaxiReservationRow, error) {
    const q = taxiRowSelect + " WHERE tr.taxi_id = ? ORDER BY tr.pickup_at DESC"
    rows, err := r.db.QueryContext(ctx, q, taxiID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanTaxiRows(rows)
}
