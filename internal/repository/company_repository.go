package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/travel-reservation/internal/model"
)

// ErrCompanyNotFound is returned when a company cannot be found in the DB.
var ErrCompanyNotFound = errors.New("company not found")

// CompanyRepo encapsulates all database queries related to bus companies.
type CompanyRepo struct {
    db *sql.DB
}

// NewCompanyRepo constructs a CompanyRepo with the provided DB handle.
func NewCompanyRepo(db *sql.DB) *CompanyRepo {
    return &CompanyRepo{db: db}
}

// Create inserts a new company and populates the generated fields.
func (r *CompanyRepo) Create(ctx context.Context, c *model.Company) error {
    const qInsert = "INSERT INTO companies (name, phone) VALUES (?, ?)"
    res, err := r.db.ExecContext(ctx, qInsert, c.Name, c.Phone)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    c.ID = uint64(id)

    const qSelect = "SELECT name, phone, created_at, updated_at FROM companies WHERE id = ?"
    return r.db.QueryRowContext(ctx, qSelect, c.ID).Scan(&c.Name, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
}

// GetByID fetches a company by its ID.  Returns ErrCompanyNotFound
// when no row exists.
func (r *CompanyRepo) GetByID(ctx context.Context, id uint64) (*model.Company, error) {
    const q = "SELECT id, name, phone, created_at, updated_at FROM companies WHERE id = ?"
    var c model.Company
    if err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Name, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrCompanyNotFound
        }
        return nil, err
    }
    return &c, nil
}

// ListAll returns all companies ordered by name.
func (r *CompanyRepo) ListAll(ctx context.Context) ([]*model.Company, error) {
    const q = "SELECT id, name, phone, created_at, updated_at FROM companies ORDER BY name"
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var out []*model.Company
    for rows.Next() {
        c := new(model.Company)
        if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, c)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// Update changes a company's name and phone.  Returns sql.ErrNoRows
// when no row is affected.
func (r *CompanyRepo) Update(ctx context.Context, id uint64, name, phone string) error {
    const q = `UPDATE companies
               SET name = ?, phone = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, name, phone, id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return sql.ErrNoRows
    }
    return nil
}

// Delete removes a company.  Companies that still operate trips
// cannot be deleted; ErrConflict is returned instead.
func (r *CompanyRepo) Delete(ctx context.Context, id uint64) error {
    var n int
    if err := r.db.QueryRowContext(ctx,
        "SELECT COUNT(*) FROM trips WHERE company_id = ?", id).Scan(&n); err != nil {
        return err
    }
    if n > 0 {
        return ErrConflict
    }
    res, err := r.db.ExecContext(ctx, "DELETE FROM companies WHERE id = ?", id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return sql.ErrNoRows
    }
    return nil
}

// Program returns the trips a company operates on a given calendar
// day, joined with city names and remaining seat counts.  Day is
// interpreted in UTC like all stored timestamps.
func (r *CompanyRepo) Program(ctx context.Context, companyID uint64, day time.Time) ([]*model.TripSummary, error) {
    start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
    end := start.Add(24 * time.Hour)
    const q = tripSummarySelect + `
        WHERE t.company_id = ? AND t.departs_at >= ? AND t.departs_at < ?
        ORDER BY t.departs_at`
    rows, err := r.db.QueryContext(ctx, q, companyID, start, end)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanTripSummaries(rows)
}
