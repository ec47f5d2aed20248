// Package booking implements the reservation engine: availability
// checking, atomic check-and-claim reservation writes and the status
// lifecycle shared by bus, hotel and taxi bookings.  The engine talks
// to persistence exclusively through the Store/Tx interfaces defined
// in store.go so that handlers stay free of SQL and tests can run
// against an in-memory store.
package booking

// Kind identifies which resource family a reservation belongs to.
// The lifecycle rules differ between kinds: taxis confirm immediately
// and can only be cancelled, while bus and hotel reservations walk
// the full PENDING -> CONFIRMED -> COMPLETED ladder.
type Kind string

const (
    KindBus   Kind = "BUS"
    KindHotel Kind = "HOTEL"
    KindTaxi  Kind = "TAXI"
)

// Status is the closed set of reservation states.  Values are stored
// verbatim in the status columns of the reservation tables.
type Status string

const (
    StatusPending   Status = "PENDING"
    StatusConfirmed Status = "CONFIRMED"
    StatusCancelled Status = "CANCELLED"
    StatusCompleted Status = "COMPLETED"
)

// ActiveStatuses are the states that occupy a slot.  Availability
// checks only consider reservations in one of these states, so
// cancelling or completing a reservation frees its slot without any
// compensating write.
var ActiveStatuses = []Status{StatusPending, StatusConfirmed}

// stageTransitions encodes the legal moves for bus and hotel
// reservations: confirm from pending, complete from confirmed,
// cancel from any non-terminal state.  CANCELLED and COMPLETED are
// terminal.
var stageTransitions = map[Status][]Status{
    StatusPending:   {StatusConfirmed, StatusCancelled},
    StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// taxiTransitions encodes the reduced taxi lifecycle.  A taxi
// reservation is created CONFIRMED and may only be cancelled.
var taxiTransitions = map[Status][]Status{
    StatusConfirmed: {StatusCancelled},
}

// CanTransition reports whether a reservation of the given kind may
// move from one status to another.  It is the single source of truth
// for lifecycle legality; both the engine and tests consult it.
func CanTransition(kind Kind, from, to Status) bool {
    table := stageTransitions
    if kind == KindTaxi {
        table = taxiTransitions
    }
    for _, allowed := range table[from] {
        if allowed == to {
            return true
        }
    }
    return false
}
