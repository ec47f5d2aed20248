package booking

import "testing"

func TestCanTransition(t *testing.T) {
    cases := []struct {
        kind Kind
        from Status
        to   Status
        want bool
    }{
        {KindBus, StatusPending, StatusConfirmed, true},
        {KindBus, StatusPending, StatusCancelled, true},
        {KindBus, StatusPending, StatusCompleted, false},
        {KindBus, StatusConfirmed, StatusCompleted, true},
        {KindBus, StatusConfirmed, StatusCancelled, true},
        {KindBus, StatusConfirmed, StatusPending, false},
        {KindBus, StatusCancelled, StatusConfirmed, false},
        {KindBus, StatusCompleted, StatusCancelled, false},

        {KindHotel, StatusPending, StatusConfirmed, true},
        {KindHotel, StatusConfirmed, StatusCompleted, true},
        {KindHotel, StatusCancelled, StatusPending, false},

        {KindTaxi, StatusConfirmed, StatusCancelled, true},
        {KindTaxi, StatusConfirmed, StatusCompleted, false},
        {KindTaxi, StatusPending, StatusConfirmed, false},
        {KindTaxi, StatusCancelled, StatusConfirmed, false},
    }
    for _, tc := range cases {
        if got := CanTransition(tc.kind, tc.from, tc.to); got != tc.want {
            t.Errorf("CanTransition(%s, %s -> %s) = %v, want %v", tc.kind, tc.from, tc.to, got, tc.want)
        }
    }
}
