// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationConfirmedEvent is published when a reservation is created in or
// moves to the CONFIRMED state.  It contains enough information for
// downstream consumers to log, notify, or trigger analytics without
// querying the primary database.  Kind is one of BUS, HOTEL or TAXI.
type ReservationConfirmedEvent struct {
    Kind          string   `json:"kind"`
    ReservationID uint64   `json:"reservation_id"`
    Reference     string   `json:"reference"`
    UserID        uint64   `json:"user_id"`
    ResourceID    uint64   `json:"resource_id"`
    Description   string   `json:"description"`
    SeatLabels    []string `json:"seats,omitempty"`
    AmountCents   uint32   `json:"amount_cents"`
    ConfirmedAt   string   `json:"confirmed_at"`
}

// ReservationCancelledEvent is published when a reservation is cancelled,
// by the customer or by an admin.
type ReservationCancelledEvent struct {
    Kind          string `json:"kind"`
    ReservationID uint64 `json:"reservation_id"`
    Reference     string `json:"reference"`
    UserID        uint64 `json:"user_id"`
    ResourceID    uint64 `json:"resource_id"`
    CancelledAt   string `json:"cancelled_at"`
}
