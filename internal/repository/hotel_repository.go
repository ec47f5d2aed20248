package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/travel-reservation/internal/model"
)

// ErrHotelNotFound is returned when a hotel cannot be found in the DB.
var ErrHotelNotFound = errors.New("hotel not found")

const hotelSummarySelect = `
    SELECT h.id, h.city_id, h.name, h.address, h.stars, h.nightly_cents,
           h.recommended, h.created_at, h.updated_at, c.name
    FROM hotels h
    JOIN cities c ON c.id = h.city_id`

func scanHotelSummaries(rows *sql.Rows) ([]*model.HotelSummary, error) {
    var out []*model.HotelSummary
    for rows.Next() {
        s := new(model.HotelSummary)
        if err := rows.Scan(
            &s.ID, &s.CityID, &s.Name, &s.Address, &s.Stars, &s.NightlyCents,
            &s.Recommended, &s.CreatedAt, &s.UpdatedAt, &s.CityName,
        ); err != nil {
            return nil, err
        }
        out = append(out, s)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// HotelRepo encapsulates all database queries related to hotels.
type HotelRepo struct {
    db *sql.DB
}

// NewHotelRepo constructs a HotelRepo with the provided DB handle.
func NewHotelRepo(db *sql.DB) *HotelRepo {
    return &HotelRepo{db: db}
}

// Create inserts a new hotel and populates the generated fields.
func (r *HotelRepo) Create(ctx context.Context, h *model.Hotel) error {
    const qInsert = `INSERT INTO hotels
        (city_id, name, address, stars, nightly_cents, recommended)
        VALUES (?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, qInsert,
        h.CityID, h.Name, h.Address, h.Stars, h.NightlyCents, h.Recommended)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    h.ID = uint64(id)

    const qSelect = "SELECT created_at, updated_at FROM hotels WHERE id = ?"
    return r.db.QueryRowContext(ctx, qSelect, h.ID).Scan(&h.CreatedAt, &h.UpdatedAt)
}

// GetByID fetches a hotel with its city name.  Returns
// ErrHotelNotFound when no row exists.
func (r *HotelRepo) GetByID(ctx context.Context, id uint64) (*model.HotelSummary, error) {
    const q = hotelSummarySelect + " WHERE h.id = ?"
    rows, err := r.db.QueryContext(ctx, q, id)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out, err := scanHotelSummaries(rows)
    if err != nil {
        return nil, err
    }
    if len(out) == 0 {
        return nil, ErrHotelNotFound
    }
    return out[0], nil
}

// ListAll returns every hotel ordered by city then name.
func (r *HotelRepo) ListAll(ctx context.Context) ([]*model.HotelSummary, error) {
    const q = hotelSummarySelect + " ORDER BY c.name, h.name"
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanHotelSummaries(rows)
}

// ListByCity returns the hotels of one city ordered by name.
func (r *HotelRepo) ListByCity(ctx context.Context, cityID uint64) ([]*model.HotelSummary, error) {
    const q = hotelSummarySelect + " WHERE h.city_id = ? ORDER BY h.name"
    rows, err := r.db.QueryContext(ctx, q, cityID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanHotelSummaries(rows)
}

// ListByCityName returns the hotels of the city with the given name,
// matched case-insensitively by the collation of the cities table.
func (r *HotelRepo) ListByCityName(ctx context.Context, cityName string) ([]*model.HotelSummary, error) {
    const q = hotelSummarySelect + " WHERE c.name = ? ORDER BY h.name"
    rows, err := r.db.QueryContext(ctx, q, cityName)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanHotelSummaries(rows)
}

// Recommended returns the featured hotels, best rated first.
func (r *HotelRepo) Recommended(ctx context.Context) ([]*model.HotelSummary, error) {
    const q = hotelSummarySelect + " WHERE h.recommended = 1 ORDER BY h.stars DESC, h.name"
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanHotelSummaries(rows)
}

// SearchAvailable returns the hotels of a city that have no active
// reservation overlapping [checkIn, checkOut).  The overlap predicate
// is the same half-open rule the booking engine enforces, so a hotel
// listed here can still fail with a conflict if someone books it
// between the search and the reservation.
func (r *HotelRepo) SearchAvailable(ctx context.Context, cityID uint64, checkIn, checkOut time.Time) ([]*model.HotelSummary, error) {
    const q = hotelSummarySelect + `
        WHERE h.city_id = ?
          AND NOT EXISTS (
              SELECT 1 FROM hotel_reservations hr
              WHERE hr.hotel_id = h.id
                AND hr.status IN ('PENDING','CONFIRMED')
                AND hr.check_in < ? AND hr.check_out > ?
          )
        ORDER BY h.name`
    rows, err := r.db.QueryContext(ctx, q, cityID, checkOut, checkIn)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanHotelSummaries(rows)
}

// Update rewrites a hotel's mutable fields.  Returns sql.ErrNoRows
// when no row is affected.
func (r *HotelRepo) Update(ctx context.Context, h *model.Hotel) error {
    const q = `UPDATE hotels
               SET city_id = ?, name = ?, address = ?, stars = ?,
                   nightly_cents = ?, recommended = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q,
        h.CityID, h.Name, h.Address, h.Stars, h.NightlyCents, h.Recommended, h.ID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return sql.ErrNoRows
    }
    return nil
}

// Delete removes a hotel.  Hotels with reservation history cannot be
// deleted; ErrConflict is returned instead.
func (r *HotelRepo) Delete(ctx context.Context, id uint64) error {
    var n int
    if err := r.db.QueryRowContext(ctx,
        "SELECT COUNT(*) FROM hotel_reservations WHERE hotel_id = ?", id).Scan(&n); err != nil {
        return err
    }
    if n > 0 {
        return ErrConflict
    }
    res, err := r.db.ExecContext(ctx, "DELETE FROM hotels WHERE id = ?", id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return sql.ErrNoRows
    }
    return nil
}
