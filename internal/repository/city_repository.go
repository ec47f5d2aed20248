// Package repository contains data access logic separated from HTTP handlers.
// This file defines repository methods for cities. Cities anchor the rest of
// the catalog: trips run between two cities, hotels and taxis belong to one.
package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/travel-reservation/internal/model"
)

// ErrCityNotFound is returned when a city cannot be found in the DB.
var ErrCityNotFound = errors.New("city not found")

// CityRepo encapsulates all database queries related to cities.
type CityRepo struct {
    db *sql.DB
}

// NewCityRepo constructs a CityRepo with the provided DB handle.
func NewCityRepo(db *sql.DB) *CityRepo {
    return &CityRepo{db: db}
}

// Create inserts a new city.  On success the ID, CreatedAt and
// UpdatedAt fields are populated from the stored row.
func (r *CityRepo) Create(ctx context.Context, c *model.City) error {
    const qInsert = "INSERT INTO cities (name, region) VALUES (?, ?)"
    res, err := r.db.ExecContext(ctx, qInsert, c.Name, c.Region)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    c.ID = uint64(id)

    const qSelect = "SELECT name, region, created_at, updated_at FROM cities WHERE id = ?"
    return r.db.QueryRowContext(ctx, qSelect, c.ID).Scan(&c.Name, &c.Region, &c.CreatedAt, &c.UpdatedAt)
}

// GetByID fetches a city by its ID.  Returns ErrCityNotFound when no
// row exists.
func (r *CityRepo) GetByID(ctx context.Context, id uint64) (*model.City, error) {
    const q = "SELECT id, name, region, created_at, updated_at FROM cities WHERE id = ?"
    var c model.City
    if err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Name, &c.Region, &c.CreatedAt, &c.UpdatedAt); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrCityNotFound
        }
        return nil, err
    }
    return &c, nil
}

// ListAll returns all cities ordered by name.  Used by the public
// browse endpoints.
func (r *CityRepo) ListAll(ctx context.Context) ([]*model.City, error) {
    const q = "SELECT id, name, region, created_at, updated_at FROM cities ORDER BY name"
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var out []*model.City
    for rows.Next() {
        c := new(model.City)
        if err := rows.Scan(&c.ID, &c.Name, &c.Region, &c.CreatedAt, &c.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, c)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// Update changes a city's name and region.  Returns sql.ErrNoRows
// when no row is affected.
func (r *CityRepo) Update(ctx context.Context, id uint64, name, region string) error {
    const q = `UPDATE cities
               SET name = ?, region = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, name, region, id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return sql.ErrNoRows
    }
    return nil
}

// Delete removes a city.  A city referenced by any trip, hotel or
// taxi cannot be deleted; ErrConflict is returned instead so the
// handler can answer 409.
func (r *CityRepo) Delete(ctx context.Context, id uint64) error {
    var n int
    const qRefs = `SELECT
        (SELECT COUNT(*) FROM trips WHERE from_city_id = ? OR to_city_id = ?) +
        (SELECT COUNT(*) FROM hotels WHERE city_id = ?) +
        (SELECT COUNT(*) FROM taxis WHERE city_id = ?)`
    if err := r.db.QueryRowContext(ctx, qRefs, id, id, id, id).Scan(&n); err != nil {
        return err
    }
    if n > 0 {
        return ErrConflict
    }
    res, err := r.db.ExecContext(ctx, "DELETE FROM cities WHERE id = ?", id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return sql.ErrNoRows
    }
    return nil
}
