package model

import "time"

// Trip represents a scheduled bus journey between two cities.  It is
// linked to the operating company and to the departure and arrival
// cities, and carries the seat inventory size and per-seat price.
// This struct corresponds to a row in the `trips` table.
//
// Fields:
//  ID          – primary key identifier.
//  CompanyID   – operating bus company.
//  FromCityID  – departure city.
//  ToCityID    – arrival city.
//  DepartsAt   – scheduled departure time.
//  ArrivesAt   – scheduled arrival time (must be after DepartsAt).
//  SeatCount   – total number of seats on the bus.
//  PriceCents  – price of one seat in cents.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Trip struct {
    ID         uint64    // trips.id
    CompanyID  uint64    // trips.company_id
    FromCityID uint64    // trips.from_city_id
    ToCityID   uint64    // trips.to_city_id
    DepartsAt  time.Time // trips.departs_at
    ArrivesAt  time.Time // trips.arrives_at
    SeatCount  uint32    // trips.seat_count
    PriceCents uint32    // trips.price_cents
    CreatedAt  time.Time // trips.created_at
    UpdatedAt  time.Time // trips.updated_at
}

// TripSummary is a trip joined with its company and city names plus
// the number of seats still free, as returned by the search and
// listing queries.  Remaining seats count active reservations only.
type TripSummary struct {
    Trip
    CompanyName    string // companies.name
    FromCity       string // departure cities.name
    ToCity         string // arrival cities.name
    SeatsRemaining uint32 // seat_count minus active reservations
}

// RouteSuggestion is an aggregated alternative route offered when a
// trip search finds no direct match: a (from, to) pair sharing one
// endpoint with the requested route, with the number of trips running
// it that day.
type RouteSuggestion struct {
    FromCity  string `json:"from_city"`
    ToCity    string `json:"to_city"`
    TripCount uint32 `json:"trip_count"`
}
