package model

import "time"

// Company represents a bus operator.  Every trip belongs to exactly
// one company.  This struct corresponds to a row in the `companies`
// table.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – unique company name.
//  Phone     – contact phone number (optional).
//  CreatedAt – timestamp when the company was created.
//  UpdatedAt – timestamp of last update.
type Company struct {
    ID        uint64    // companies.id
    Name      string    // companies.name
    Phone     string    // companies.phone
    CreatedAt time.Time // companies.created_at
    UpdatedAt time.Time // companies.updated_at
}
