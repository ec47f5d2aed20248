package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"
    "time"

    "github.com/iliyamo/travel-reservation/internal/model"
)

// ErrTripNotFound is returned when a trip cannot be found in the DB.
var ErrTripNotFound = errors.New("trip not found")

// tripSummarySelect is the shared SELECT used by every trip listing
// query.  Remaining seats are computed against reservations in an
// active status only, so cancelled and completed bookings free their
// seats without any compensating write.
const tripSummarySelect = `
    SELECT t.id, t.company_id, t.from_city_id, t.to_city_id,
           t.departs_at, t.arrives_at, t.seat_count, t.price_cents,
           t.created_at, t.updated_at,
           co.name, cf.name, ct.name,
           t.seat_count - (
               SELECT COUNT(*) FROM bus_reservations br
               WHERE br.trip_id = t.id AND br.status IN ('PENDING','CONFIRMED')
           ) AS seats_remaining
    FROM trips t
    JOIN companies co ON co.id = t.company_id
    JOIN cities cf ON cf.id = t.from_city_id
    JOIN cities ct ON ct.id = t.to_city_id`

// scanTripSummaries drains a result set produced by tripSummarySelect.
func scanTripSummaries(rows *sql.Rows) ([]*model.TripSummary, error) {
    var out []*model.TripSummary
    for rows.Next() {
        s := new(model.TripSummary)
        if err := rows.Scan(
            &s.ID, &s.CompanyID, &s.FromCityID, &s.ToCityID,
            &s.DepartsAt, &s.ArrivesAt, &s.SeatCount, &s.PriceCents,
            &s.CreatedAt, &s.UpdatedAt,
            &s.CompanyName, &s.FromCity, &s.ToCity, &s.SeatsRemaining,
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

// TripRepo encapsulates all database queries related to bus trips.
type TripRepo struct {
    db *sql.DB
}

// NewTripRepo constructs a TripRepo with the provided DB handle.
func NewTripRepo(db *sql.DB) *TripRepo {
    return &TripRepo{db: db}
}

// Create inserts a new trip and populates the generated fields.
func (r *TripRepo) Create(ctx context.Context, t *model.Trip) error {
    const qInsert = `INSERT INTO trips
        (company_id, from_city_id, to_city_id, departs_at, arrives_at, seat_count, price_cents)
        VALUES (?, ?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, qInsert,
        t.CompanyID, t.FromCityID, t.ToCityID, t.DepartsAt, t.ArrivesAt, t.SeatCount, t.PriceCents)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    t.ID = uint64(id)

    const qSelect = "SELECT created_at, updated_at FROM trips WHERE id = ?"
    return r.db.QueryRowContext(ctx, qSelect, t.ID).Scan(&t.CreatedAt, &t.UpdatedAt)
}

// GetByID fetches a trip with joined names and the remaining seat
// count.  Returns ErrTripNotFound when no row exists.
func (r *TripRepo) GetByID(ctx context.Context, id uint64) (*model.TripSummary, error) {
    const q = tripSummarySelect + " WHERE t.id = ?"
    rows, err := r.db.QueryContext(ctx, q, id)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out, err := scanTripSummaries(rows)
    if err != nil {
        return nil, err
    }
    if len(out) == 0 {
        return nil, ErrTripNotFound
    }
    return out[0], nil
}

// Update rewrites a trip's schedule and pricing fields.  Returns
// sql.ErrNoRows when no row is affected.
func (r *TripRepo) Update(ctx context.Context, t *model.Trip) error {
    const q = `UPDATE trips
               SET company_id = ?, from_city_id = ?, to_city_id = ?,
                   departs_at = ?, arrives_at = ?, seat_count = ?, price_cents = ?,
                   updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q,
        t.CompanyID, t.FromCityID, t.ToCityID, t.DepartsAt, t.ArrivesAt, t.SeatCount, t.PriceCents, t.ID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return sql.ErrNoRows
    }
    return nil
}

// Delete removes a trip.  Trips that still carry reservations in any
// status cannot be deleted; ErrConflict is returned so history is
// never orphaned.
func (r *TripRepo) Delete(ctx context.Context, id uint64) error {
    var n int
    if err := r.db.QueryRowContext(ctx,
        "SELECT COUNT(*) FROM bus_reservations WHERE trip_id = ?", id).Scan(&n); err != nil {
        return err
    }
    if n > 0 {
        return ErrConflict
    }
    res, err := r.db.ExecContext(ctx, "DELETE FROM trips WHERE id = ?", id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return sql.ErrNoRows
    }
    return nil
}

// Search returns trips between two cities departing on the given
// calendar day, with remaining seat counts.  Zero city IDs act as
// wildcards; a zero day matches any date.
func (r *TripRepo) Search(ctx context.Context, fromCityID, toCityID uint64, day time.Time) ([]*model.TripSummary, error) {
    q := tripSummarySelect + " WHERE 1=1"
    args := make([]interface{}, 0, 4)
    if fromCityID != 0 {
        q += " AND t.from_city_id = ?"
        args = append(args, fromCityID)
    }
    if toCityID != 0 {
        q += " AND t.to_city_id = ?"
        args = append(args, toCityID)
    }
    if !day.IsZero() {
        start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
        q += " AND t.departs_at >= ? AND t.departs_at < ?"
        args = append(args, start, start.Add(24*time.Hour))
    }
    q += " ORDER BY t.departs_at"
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanTripSummaries(rows)
}

// SuggestRoutes returns up to five alternative routes that share an
// endpoint with the requested one: trips departing from the requested
// origin or arriving at the requested destination, grouped by route
// and ordered by how many trips run it.  A zero day matches any date;
// when both city IDs are zero there is nothing to anchor a suggestion
// on and the result is empty.
func (r *TripRepo) SuggestRoutes(ctx context.Context, fromCityID, toCityID uint64, day time.Time) ([]*model.RouteSuggestion, error) {
    var conds []string
    args := make([]interface{}, 0, 4)
    if fromCityID != 0 {
        conds = append(conds, "t.from_city_id = ?")
        args = append(args, fromCityID)
    }
    if toCityID != 0 {
        conds = append(conds, "t.to_city_id = ?")
        args = append(args, toCityID)
    }
    if len(conds) == 0 {
        return nil, nil
    }
    q := `SELECT c1.name, c2.name, COUNT(t.id)
          FROM trips t
          JOIN cities c1 ON c1.id = t.from_city_id
          JOIN cities c2 ON c2.id = t.to_city_id
          WHERE (` + strings.Join(conds, " OR ") + `)`
    if !day.IsZero() {
        start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
        q += " AND t.departs_at >= ? AND t.departs_at < ?"
        args = append(args, start, start.Add(24*time.Hour))
    }
    q += ` GROUP BY c1.name, c2.name
           ORDER BY COUNT(t.id) DESC
           LIMIT 5`
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []*model.RouteSuggestion
    for rows.Next() {
        s := new(model.RouteSuggestion)
        if err := rows.Scan(&s.FromCity, &s.ToCity, &s.TripCount); err != nil {
            return nil, err
        }
        out = append(out, s)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// DeparturesFromCity lists upcoming trips leaving the given city,
// soonest first.
func (r *TripRepo) DeparturesFromCity(ctx context.Context, cityID uint64, now time.Time) ([]*model.TripSummary, error) {
    const q = tripSummarySelect + `
        WHERE t.from_city_id = ? AND t.departs_at >= ?
        ORDER BY t.departs_at`
    rows, err := r.db.QueryContext(ctx, q, cityID, now.UTC())
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanTripSummaries(rows)
}

// TodayDepartures lists all trips departing today (UTC), across all
// companies and cities.
func (r *TripRepo) TodayDepartures(ctx context.Context, now time.Time) ([]*model.TripSummary, error) {
    start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
    const q = tripSummarySelect + `
        WHERE t.departs_at >= ? AND t.departs_at < ?
        ORDER BY t.departs_at`
    rows, err := r.db.QueryContext(ctx, q, start, start.Add(24*time.Hour))
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanTripSummaries(rows)
}
