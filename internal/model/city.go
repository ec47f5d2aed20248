package model

import "time"

// City represents a served location.  Trips reference cities as
// departure and arrival points, and hotels and taxis are attached to
// the city they operate in.  This struct corresponds to a row in the
// `cities` table.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – unique city name.
//  Region    – administrative region or province (optional).
//  CreatedAt – timestamp when the city was created.
//  UpdatedAt – timestamp of last update.
type City struct {
    ID        uint64    // cities.id
    Name      string    // cities.name
    Region    string    // cities.region
    CreatedAt time.Time // cities.created_at
    UpdatedAt time.Time // cities.updated_at
}
