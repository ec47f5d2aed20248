package model

import "time"

// Taxi represents a single vehicle for hire in a city.  The whole
// vehicle is the bookable unit; the Available flag tracks whether it
// currently has an active reservation.  This struct corresponds to a
// row in the `taxis` table.
//
// Fields:
//  ID         – primary key identifier.
//  CityID     – city the taxi operates in.
//  DriverName – name of the driver.
//  Plate      – unique license plate.
//  Seats      – passenger capacity.
//  FareCents  – base fare in cents.
//  Available  – whether the taxi can be booked right now.  Flipped
//               inside the same transaction as reservation writes.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Taxi struct {
    ID         uint64    // taxis.id
    CityID     uint64    // taxis.city_id
    DriverName string    // taxis.driver_name
    Plate      string    // taxis.plate
    Seats      uint8     // taxis.seats
    FareCents  uint32    // taxis.fare_cents
    Available  bool      // taxis.available
    CreatedAt  time.Time // taxis.created_at
    UpdatedAt  time.Time // taxis.updated_at
}

// TaxiSummary is a taxi joined with its city name for listings.
type TaxiSummary struct {
    Taxi
    CityName string // cities.name
}
