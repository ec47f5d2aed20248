package model

import "time"

// Hotel represents a bookable hotel in a city.  This struct
// corresponds to a row in the `hotels` table.
//
// Fields:
//  ID             – primary key identifier.
//  CityID         – city the hotel is located in.
//  Name           – hotel name, unique per city.
//  Address        – street address (optional).
//  Stars          – star rating from 1 to 5.
//  NightlyCents   – base price of one night in cents.
//  Recommended    – whether the hotel is featured in recommendations.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Hotel struct {
    ID           uint64    // hotels.id
    CityID       uint64    // hotels.city_id
    Name         string    // hotels.name
    Address      string    // hotels.address
    Stars        uint8     // hotels.stars
    NightlyCents uint32    // hotels.nightly_cents
    Recommended  bool      // hotels.recommended
    CreatedAt    time.Time // hotels.created_at
    UpdatedAt    time.Time // hotels.updated_at
}

// HotelSummary is a hotel joined with its city name for listing and
// search responses.
type HotelSummary struct {
    Hotel
    CityName string // cities.name
}
