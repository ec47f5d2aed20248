package booking

import (
    "errors"
    "fmt"
    "strings"
)

// ErrForbidden is returned when a caller attempts to transition a
// reservation that belongs to a different user.  Handlers translate
// it into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ValidationError reports malformed input rejected before any
// availability check runs (empty seat set, inverted date range and
// the like).  Field names the offending request field.
type ValidationError struct {
    Field  string
    Reason string
}

func (e *ValidationError) Error() string {
    return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports that a referenced resource or reservation
// does not exist.  Resource is a short noun such as "trip" or
// "taxi reservation".
type NotFoundError struct {
    Resource string
    ID       uint64
}

func (e *NotFoundError) Error() string {
    return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// ConflictError reports that the availability check failed inside the
// reservation transaction.  Slots lists the requested slots that are
// already taken (seat labels, date ranges or taxi ids) so the caller
// can offer alternatives.
type ConflictError struct {
    Slots []string
}

func (e *ConflictError) Error() string {
    return fmt.Sprintf("slot(s) unavailable: %s", strings.Join(e.Slots, ", "))
}

// IllegalTransitionError reports a status change that the lifecycle
// table rejects, such as cancelling an already cancelled reservation.
type IllegalTransitionError struct {
    Kind Kind
    From Status
    To   Status
}

func (e *IllegalTransitionError) Error() string {
    return fmt.Sprintf("%s reservation cannot move from %s to %s", strings.ToLower(string(e.Kind)), e.From, e.To)
}
