package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/travel-reservation/internal/model"
)

// ErrTaxiNotFound is returned when a taxi cannot be found in the DB.
var ErrTaxiNotFound = errors.New("taxi not found")

const taxiSummarySelect = `
    SELECT t.id, t.city_id, t.driver_name, t.plate, t.seats, t.fare_cents,
           t.available, t.created_at, t.updated_at, c.name
    FROM taxis t
    JOIN cities c ON c.id = t.city_id`

func scanTaxiSummaries(rows *sql.Rows) ([]*model.TaxiSummary, error) {
    var out []*model.TaxiSummary
    for rows.Next() {
        s := new(model.TaxiSummary)
        if err := rows.Scan(
            &s.ID, &s.CityID, &s.DriverName, &s.Plate, &s.Seats, &s.FareCents,
            &s.Available, &s.CreatedAt, &s.UpdatedAt, &s.CityName,
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

// TaxiRepo encapsulates all database queries related to taxis.  The
// availability flag is written only by the booking engine inside its
// transaction; this repo never touches it outside of admin edits.
type TaxiRepo struct {
    db *sql.DB
}

// NewTaxiRepo constructs a TaxiRepo with the provided DB handle.
func NewTaxiRepo(db *sql.DB) *TaxiRepo {
    return &TaxiRepo{db: db}
}

// Create inserts a new taxi and populates the generated fields.  New
// taxis start available.
func (r *TaxiRepo) Create(ctx context.Context, t *model.Taxi) error {
    const qInsert = `INSERT INTO taxis
        (city_id, driver_name, plate, seats, fare_cents, available)
        VALUES (?, ?, ?, ?, ?, 1)`
    res, err := r.db.ExecContext(ctx, qInsert,
        t.CityID, t.DriverName, t.Plate, t.Seats, t.FareCents)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    t.ID = uint64(id)
    t.Available = true

    const qSelect = "SELECT created_at, updated_at FROM taxis WHERE id = ?"
    return r.db.QueryRowContext(ctx, qSelect, t.ID).Scan(&t.CreatedAt, &t.UpdatedAt)
}

// GetByID fetches a taxi with its city name.  Returns ErrTaxiNotFound
// when no row exists.
func (r *TaxiRepo) GetByID(ctx context.Context, id uint64) (*model.TaxiSummary, error) {
    const q = taxiSummarySelect + " WHERE t.id = ?"
    rows, err := r.db.QueryContext(ctx, q, id)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out, err := scanTaxiSummaries(rows)
    if err != nil {
        return nil, err
    }
    if len(out) == 0 {
        return nil, ErrTaxiNotFound
    }
    return out[0], nil
}

// ListAll returns every taxi ordered by city then driver name.  When
// availableOnly is set the list is filtered to vehicles without an
// active reservation.
func (r *TaxiRepo) ListAll(ctx context.Context, availableOnly bool) ([]*model.TaxiSummary, error) {
    q := taxiSummarySelect
    if availableOnly {
        q += " WHERE t.available = 1"
    }
    q += " ORDER BY c.name, t.driver_name"
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanTaxiSummaries(rows)
}

// ListByCity returns the taxis of a city.  When availableOnly is set
// the list is filtered to vehicles without an active reservation.
func (r *TaxiRepo) ListByCity(ctx context.Context, cityID uint64, availableOnly bool) ([]*model.TaxiSummary, error) {
    q := taxiSummarySelect + " WHERE t.city_id = ?"
    if availableOnly {
        q += " AND t.available = 1"
    }
    q += " ORDER BY t.driver_name"
    rows, err := r.db.QueryContext(ctx, q, cityID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanTaxiSummaries(rows)
}

// Update rewrites a taxi's mutable fields.  The availability flag is
// deliberately excluded; it belongs to the booking engine.
func (r *TaxiRepo) Update(ctx context.Context, t *model.Taxi) error {
    const q = `UPDATE taxis
               SET city_id = ?, driver_name = ?, plate = ?, seats = ?,
                   fare_cents = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q,
        t.CityID, t.DriverName, t.Plate, t.Seats, t.FareCents, t.ID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return sql.ErrNoRows
    }
    return nil
}

// Delete removes a taxi.  Taxis with reservation history cannot be
// deleted; ErrConflict is returned instead.
func (r *TaxiRepo) Delete(ctx context.Context, id uint64) error {
    var n int
    if err := r.db.QueryRowContext(ctx,
        "SELECT COUNT(*) FROM taxi_reservations WHERE taxi_id = ?", id).Scan(&n); err != nil {
        return err
    }
    if n > 0 {
        return ErrConflict
    }
    res, err := r.db.ExecContext(ctx, "DELETE FROM taxis WHERE id = ?", id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return sql.ErrNoRows
    }
    return nil
}
