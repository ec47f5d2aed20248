package booking

import (
    "context"
    "errors"
    "sync"
    "testing"
    "time"
)

// fakeStore is an in-memory Store.  WithTx serializes transactions
// with a mutex and applies writes to a staged copy of the state,
// discarding it when fn fails, which mirrors the rollback guarantees
// of the real store.
type fakeStore struct {
    mu sync.Mutex
    st fakeState
}

type fakeState struct {
    trips    map[uint64]bool
    hotels   map[uint64]bool
    taxis    map[uint64]bool // taxi id -> available flag
    nextID   uint64
    seatRows map[uint64]*SeatReservation
    stayRows map[uint64]*StayReservation
    taxiRows map[uint64]*TaxiReservation
}

func newFakeStore() *fakeStore {
    return &fakeStore{st: fakeState{
        trips:    map[uint64]bool{10: true},
        hotels:   map[uint64]bool{5: true},
        taxis:    map[uint64]bool{3: true},
        nextID:   0,
        seatRows: map[uint64]*SeatReservation{},
        stayRows: map[uint64]*StayReservation{},
        taxiRows: map[uint64]*TaxiReservation{},
    }}
}

func (s *fakeStore) WithTx(ctx context.Context, fn func(tx Tx) error) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    staged := s.st.clone()
    if err := fn(&fakeTx{st: staged}); err != nil {
        return err
    }
    s.st = *staged
    return nil
}

func (st *fakeState) clone() *fakeState {
    out := &fakeState{
        trips:    map[uint64]bool{},
        hotels:   map[uint64]bool{},
        taxis:    map[uint64]bool{},
        nextID:   st.nextID,
        seatRows: map[uint64]*SeatReservation{},
        stayRows: map[uint64]*StayReservation{},
        taxiRows: map[uint64]*TaxiReservation{},
    }
    for k, v := range st.trips {
        out.trips[k] = v
    }
    for k, v := range st.hotels {
        out.hotels[k] = v
    }
    for k, v := range st.taxis {
        out.taxis[k] = v
    }
    for k, v := range st.seatRows {
        c := *v
        out.seatRows[k] = &c
    }
    for k, v := range st.stayRows {
        c := *v
        out.stayRows[k] = &c
    }
    for k, v := range st.taxiRows {
        c := *v
        out.taxiRows[k] = &c
    }
    return out
}

type fakeTx struct {
    st *fakeState
}

func (t *fakeTx) TripExists(ctx context.Context, tripID uint64) (bool, error) {
    return t.st.trips[tripID], nil
}

func (t *fakeTx) TakenSeats(ctx context.Context, tripID uint64, labels []string) ([]string, error) {
    want := map[string]bool{}
    for _, l := range labels {
        want[l] = true
    }
    var taken []string
    for _, row := range t.st.seatRows {
        if row.TripID != tripID || !want[row.SeatLabel] {
            continue
        }
        if row.Status == StatusPending || row.Status == StatusConfirmed {
            taken = append(taken, row.SeatLabel)
        }
    }
    return taken, nil
}

// Ids are handed out in reverse batch order so tests catch any code
// that assumes the first row of a bulk insert gets the lowest id.
func (t *fakeTx) InsertSeatReservations(ctx context.Context, rows []*SeatReservation) error {
    for i := len(rows) - 1; i >= 0; i-- {
        r := rows[i]
        t.st.nextID++
        r.ID = t.st.nextID
        c := *r
        t.st.seatRows[r.ID] = &c
    }
    return nil
}

func (t *fakeTx) SeatReservation(ctx context.Context, id uint64) (*SeatReservation, error) {
    row, ok := t.st.seatRows[id]
    if !ok {
        return nil, &NotFoundError{Resource: "bus reservation", ID: id}
    }
    c := *row
    return &c, nil
}

func (t *fakeTx) UpdateSeatReservationStatus(ctx context.Context, id uint64, status Status) error {
    row, ok := t.st.seatRows[id]
    if !ok {
        return &NotFoundError{Resource: "bus reservation", ID: id}
    }
    row.Status = status
    return nil
}

func (t *fakeTx) HotelExists(ctx context.Context, hotelID uint64) (bool, error) {
    return t.st.hotels[hotelID], nil
}

func (t *fakeTx) OverlappingStays(ctx context.Context, hotelID uint64, roomType string, r DateRange, excludeID uint64) ([]DateRange, error) {
    var out []DateRange
    for _, row := range t.st.stayRows {
        if row.ID == excludeID {
            continue
        }
        if row.HotelID != hotelID || row.RoomType != roomType {
            continue
        }
        if row.Status != StatusPending && row.Status != StatusConfirmed {
            continue
        }
        if row.Range().Overlaps(r) {
            out = append(out, row.Range())
        }
    }
    return out, nil
}

func (t *fakeTx) InsertStayReservation(ctx context.Context, row *StayReservation) error {
    t.st.nextID++
    row.ID = t.st.nextID
    c := *row
    t.st.stayRows[row.ID] = &c
    return nil
}

func (t *fakeTx) StayReservation(ctx context.Context, id uint64) (*StayReservation, error) {
    row, ok := t.st.stayRows[id]
    if !ok {
        return nil, &NotFoundError{Resource: "hotel reservation", ID: id}
    }
    c := *row
    return &c, nil
}

func (t *fakeTx) UpdateStayReservationStatus(ctx context.Context, id uint64, status Status) error {
    row, ok := t.st.stayRows[id]
    if !ok {
        return &NotFoundError{Resource: "hotel reservation", ID: id}
    }
    row.Status = status
    return nil
}

func (t *fakeTx) UpdateStayReservationDates(ctx context.Context, id uint64, r DateRange) error {
    row, ok := t.st.stayRows[id]
    if !ok {
        return &NotFoundError{Resource: "hotel reservation", ID: id}
    }
    row.CheckIn = r.CheckIn
    row.CheckOut = r.CheckOut
    return nil
}

func (t *fakeTx) TaxiAvailable(ctx context.Context, taxiID uint64) (bool, error) {
    avail, ok := t.st.taxis[taxiID]
    if !ok {
        return false, &NotFoundError{Resource: "taxi", ID: taxiID}
    }
    return avail, nil
}

func (t *fakeTx) SetTaxiAvailable(ctx context.Context, taxiID uint64, available bool) error {
    if _, ok := t.st.taxis[taxiID]; !ok {
        return &NotFoundError{Resource: "taxi", ID: taxiID}
    }
    t.st.taxis[taxiID] = available
    return nil
}

func (t *fakeTx) InsertTaxiReservation(ctx context.Context, row *TaxiReservation) error {
    t.st.nextID++
    row.ID = t.st.nextID
    c := *row
    t.st.taxiRows[row.ID] = &c
    return nil
}

func (t *fakeTx) TaxiReservation(ctx context.Context, id uint64) (*TaxiReservation, error) {
    row, ok := t.st.taxiRows[id]
    if !ok {
        return nil, &NotFoundError{Resource: "taxi reservation", ID: id}
    }
    c := *row
    return &c, nil
}

func (t *fakeTx) UpdateTaxiReservationStatus(ctx context.Context, id uint64, status Status) error {
    row, ok := t.st.taxiRows[id]
    if !ok {
        return &NotFoundError{Resource: "taxi reservation", ID: id}
    }
    row.Status = status
    return nil
}

func day(s string) time.Time {
    t, err := time.Parse("2006-01-02", s)
    if err != nil {
        panic(err)
    }
    return t
}

func TestReserveSeats_SplitsPriceEvenly(t *testing.T) {
    store := newFakeStore()
    eng := NewEngine(store)

    rows, err := eng.ReserveSeats(context.Background(), SeatRequest{
        TripID: 10, UserID: 7, Seats: []string{"A1", "A2"}, TotalPriceCents: 4000,
    })
    if err != nil {
        t.Fatalf("expected nil error, got %v", err)
    }
    if len(rows) != 2 {
        t.Fatalf("expected 2 rows, got %d", len(rows))
    }
    for _, r := range rows {
        if r.PriceCents != 2000 {
            t.Fatalf("expected each seat priced 2000, got %d", r.PriceCents)
        }
        if r.Status != StatusConfirmed {
            t.Fatalf("expected status CONFIRMED, got %s", r.Status)
        }
        if r.ID == 0 || r.Reference == "" {
            t.Fatalf("expected populated id and reference, got %+v", r)
        }
    }
    if rows[0].Reference != rows[1].Reference {
        t.Fatalf("sibling rows should share a reference")
    }
}

func TestReserveSeats_RowIDsMatchStoredSeats(t *testing.T) {
    store := newFakeStore()
    eng := NewEngine(store)

    rows, err := eng.ReserveSeats(context.Background(), SeatRequest{
        TripID: 10, UserID: 7, Seats: []string{"C1", "C2", "C3"}, TotalPriceCents: 3000,
    })
    if err != nil {
        t.Fatalf("expected nil error, got %v", err)
    }
    seen := map[uint64]bool{}
    for _, r := range rows {
        if seen[r.ID] {
            t.Fatalf("duplicate reservation id %d", r.ID)
        }
        seen[r.ID] = true
        stored, ok := store.st.seatRows[r.ID]
        if !ok {
            t.Fatalf("returned id %d has no stored row", r.ID)
        }
        if stored.SeatLabel != r.SeatLabel {
            t.Fatalf("id %d belongs to seat %s, returned row claims %s", r.ID, stored.SeatLabel, r.SeatLabel)
        }
    }
}

func TestReserveSeats_RemainderGoesToEarliestSeats(t *testing.T) {
    store := newFakeStore()
    eng := NewEngine(store)

    rows, err := eng.ReserveSeats(context.Background(), SeatRequest{
        TripID: 10, UserID: 7, Seats: []string{"B1", "B2", "B3"}, TotalPriceCents: 1000,
    })
    if err != nil {
        t.Fatalf("expected nil error, got %v", err)
    }
    got := []uint32{rows[0].PriceCents, rows[1].PriceCents, rows[2].PriceCents}
    if got[0] != 334 || got[1] != 333 || got[2] != 333 {
        t.Fatalf("unexpected split: %v", got)
    }
}

func TestReserveSeats_ConflictNamesTakenSeats(t *testing.T) {
    store := newFakeStore()
    eng := NewEngine(store)
    ctx := context.Background()

    if _, err := eng.ReserveSeats(ctx, SeatRequest{TripID: 10, UserID: 7, Seats: []string{"A1"}, TotalPriceCents: 2000}); err != nil {
        t.Fatalf("seed reservation failed: %v", err)
    }

    _, err := eng.ReserveSeats(ctx, SeatRequest{TripID: 10, UserID: 8, Seats: []string{"A1"}, TotalPriceCents: 2000})
    var conflict *ConflictError
    if !errors.As(err, &conflict) {
        t.Fatalf("expected ConflictError, got %v", err)
    }
    if len(conflict.Slots) != 1 || conflict.Slots[0] != "A1" {
        t.Fatalf("expected conflict on [A1], got %v", conflict.Slots)
    }
}

func TestReserveSeats_NoPartialRowsOnConflict(t *testing.T) {
    store := newFakeStore()
    eng := NewEngine(store)
    ctx := context.Background()

    if _, err := eng.ReserveSeats(ctx, SeatRequest{TripID: 10, UserID: 7, Seats: []string{"A1"}, TotalPriceCents: 2000}); err != nil {
        t.Fatalf("seed reservation failed: %v", err)
    }
    before := len(store.st.seatRows)

    _, err := eng.ReserveSeats(ctx, SeatRequest{TripID: 10, UserID: 8, Seats: []string{"A1", "C4"}, TotalPriceCents: 4000})
    var conflict *ConflictError
    if !errors.As(err, &conflict) {
        t.Fatalf("expected ConflictError, got %v", err)
    }
    if len(store.st.seatRows) != before {
        t.Fatalf("conflicting request must not leave partial rows: before=%d after=%d", before, len(store.st.seatRows))
    }
}

func TestReserveSeats_CommaSeparatedEqualsList(t *testing.T) {
    store := newFakeStore()
    eng := NewEngine(store)

    rows, err := eng.ReserveSeats(context.Background(), SeatRequest{
        TripID: 10, UserID: 7, Seats: []string{"a1, a2 ,A2"}, TotalPriceCents: 4000,
    })
    if err != nil {
        t.Fatalf("expected nil error, got %v", err)
    }
    if len(rows) != 2 || rows[0].SeatLabel != "A1" || rows[1].SeatLabel != "A2" {
        t.Fatalf("expected normalized [A1 A2], got %+v", rows)
    }
}

func TestReserveSeats_Validation(t *testing.T) {
    eng := NewEngine(newFakeStore())
    _, err := eng.ReserveSeats(context.Background(), SeatRequest{TripID: 10, UserID: 7, Seats: []string{" , "}})
    var verr *ValidationError
    if !errors.As(err, &verr) {
        t.Fatalf("expected ValidationError for empty seat set, got %v", err)
    }
}

func TestReserveSeats_TripNotFound(t *testing.T) {
    eng := NewEngine(newFakeStore())
    _, err := eng.ReserveSeats(context.Background(), SeatRequest{TripID: 99, UserID: 7, Seats: []string{"A1"}})
    var nf *NotFoundError
    if !errors.As(err, &nf) {
        t.Fatalf("expected NotFoundError, got %v", err)
    }
    if nf.Resource != "trip" || nf.ID != 99 {
        t.Fatalf("unexpected not-found detail: %+v", nf)
    }
}

func TestReserveStay_OverlapConflicts(t *testing.T) {
    store := newFakeStore()
    eng := NewEngine(store)
    ctx := context.Background()

    if _, err := eng.ReserveStay(ctx, StayRequest{
        HotelID: 5, UserID: 7, RoomType: "DOUBLE", Guests: 2,
        CheckIn: day("2024-06-01"), CheckOut: day("2024-06-05"), PriceCents: 30000,
    }); err != nil {
        t.Fatalf("seed stay failed: %v", err)
    }

    _, err := eng.ReserveStay(ctx, StayRequest{
        HotelID: 5, UserID: 8, RoomType: "DOUBLE", Guests: 2,
        CheckIn: day("2024-06-04"), CheckOut: day("2024-06-07"), PriceCents: 20000,
    })
    var conflict *ConflictError
    if !errors.As(err, &conflict) {
        t.Fatalf("expected ConflictError for overlapping range, got %v", err)
    }
    if len(conflict.Slots) != 1 || conflict.Slots[0] != "2024-06-01..2024-06-05" {
        t.Fatalf("unexpected conflict slots: %v", conflict.Slots)
    }
}

func TestReserveStay_HalfOpenAdjacentSucceeds(t *testing.T) {
    store := newFakeStore()
    eng := NewEngine(store)
    ctx := context.Background()

    if _, err := eng.ReserveStay(ctx, StayRequest{
        HotelID: 5, UserID: 7, RoomType: "DOUBLE", Guests: 2,
        CheckIn: day("2024-06-01"), CheckOut: day("2024-06-05"), PriceCents: 30000,
    }); err != nil {
        t.Fatalf("seed stay failed: %v", err)
    }

    row, err := eng.ReserveStay(ctx, StayRequest{
        HotelID: 5, UserID: 8, RoomType: "DOUBLE", Guests: 1,
        CheckIn: day("2024-06-05"), CheckOut: day("2024-06-08"), PriceCents: 20000,
    })
    if err != nil {
        t.Fatalf("check-out day is exclusive; expected success, got %v", err)
    }
    if row.Status != StatusPending {
        t.Fatalf("expected new stay PENDING, got %s", row.Status)
    }
}

func TestReserveStay_InvertedRangeIsValidationError(t *testing.T) {
    eng := NewEngine(newFakeStore())
    for _, tc := range []struct{ in, out string }{
        {"2024-06-05", "2024-06-05"},
        {"2024-06-05", "2024-06-01"},
    } {
        _, err := eng.ReserveStay(context.Background(), StayRequest{
            HotelID: 5, UserID: 7, RoomType: "DOUBLE", Guests: 1,
            CheckIn: day(tc.in), CheckOut: day(tc.out),
        })
        var verr *ValidationError
        if !errors.As(err, &verr) {
            t.Fatalf("range %s..%s: expected ValidationError, got %v", tc.in, tc.out, err)
        }
    }
}

func TestReserveStay_CancelledStayFreesRange(t *testing.T) {
    store := newFakeStore()
    eng := NewEngine(store)
    ctx := context.Background()

    first, err := eng.ReserveStay(ctx, StayRequest{
        HotelID: 5, UserID: 7, RoomType: "DOUBLE", Guests: 2,
        CheckIn: day("2024-06-01"), CheckOut: day("2024-06-05"), PriceCents: 30000,
    })
    if err != nil {
        t.Fatalf("seed stay failed: %v", err)
    }
    if _, err := eng.TransitionStay(ctx, first.ID, StatusCancelled, 7); err != nil {
        t.Fatalf("cancel failed: %v", err)
    }
    if _, err := eng.ReserveStay(ctx, StayRequest{
        HotelID: 5, UserID: 8, RoomType: "DOUBLE", Guests: 2,
        CheckIn: day("2024-06-01"), CheckOut: day("2024-06-05"), PriceCents: 30000,
    }); err != nil {
        t.Fatalf("cancelled stay must not block rebooking, got %v", err)
    }
}

func TestReserveStay_DifferentRoomTypesCoexist(t *testing.T) {
    store := newFakeStore()
    eng := NewEngine(store)
    ctx := context.Background()

    if _, err := eng.ReserveStay(ctx, StayRequest{
        HotelID: 5, UserID: 7, RoomType: "DOUBLE", Guests: 2,
        CheckIn: day("2024-06-01"), CheckOut: day("2024-06-05"),
    }); err != nil {
        t.Fatalf("seed stay failed: %v", err)
    }
    if _, err := eng.ReserveStay(ctx, StayRequest{
        HotelID: 5, UserID: 8, RoomType: "SINGLE", Guests: 1,
        CheckIn: day("2024-06-01"), CheckOut: day("2024-06-05"),
    }); err != nil {
        t.Fatalf("different room type must not conflict, got %v", err)
    }
}

func TestRescheduleStay_OwnRangeDoesNotConflict(t *testing.T) {
    store := newFakeStore()
    eng := NewEngine(store)
    ctx := context.Background()

    first, err := eng.ReserveStay(ctx, StayRequest{
        HotelID: 5, UserID: 7, RoomType: "DOUBLE", Guests: 2,
        CheckIn: day("2024-06-01"), CheckOut: day("2024-06-05"), PriceCents: 30000,
    })
    if err != nil {
        t.Fatalf("seed stay failed: %v", err)
    }

    // Shift by two days; the new range overlaps the old one, which
    // must not count as a conflict with itself.
    row, err := eng.RescheduleStay(ctx, first.ID, DateRange{
        CheckIn: day("2024-06-03"), CheckOut: day("2024-06-07"),
    }, 7)
    if err != nil {
        t.Fatalf("reschedule over own dates failed: %v", err)
    }
    if !row.CheckIn.Equal(day("2024-06-03")) || !row.CheckOut.Equal(day("2024-06-07")) {
        t.Fatalf("dates not updated: %s..%s", row.CheckIn, row.CheckOut)
    }
    stored := store.st.stayRows[first.ID]
    if !stored.CheckIn.Equal(day("2024-06-03")) {
        t.Fatalf("stored row not updated: %s", stored.CheckIn)
    }
}

func TestRescheduleStay_ConflictsWithOtherStay(t *testing.T) {
    store := newFakeStore()
    eng := NewEngine(store)
    ctx := context.Background()

    first, err := eng.ReserveStay(ctx, StayRequest{
        HotelID: 5, UserID: 7, RoomType: "DOUBLE", Guests: 2,
        CheckIn: day("2024-06-01"), CheckOut: day("2024-06-03"), PriceCents: 10000,
    })
    if err != nil {
        t.Fatalf("seed stay failed: %v", err)
    }
    if _, err := eng.ReserveStay(ctx, StayRequest{
        HotelID: 5, UserID: 8, RoomType: "DOUBLE", Guests: 2,
        CheckIn: day("2024-06-10"), CheckOut: day("2024-06-15"), PriceCents: 25000,
    }); err != nil {
        t.Fatalf("second stay failed: %v", err)
    }

    _, err = eng.RescheduleStay(ctx, first.ID, DateRange{
        CheckIn: day("2024-06-12"), CheckOut: day("2024-06-14"),
    }, 7)
    var conflict *ConflictError
    if !errors.As(err, &conflict) {
        t.Fatalf("expected ConflictError, got %v", err)
    }
    if !store.st.stayRows[first.ID].CheckIn.Equal(day("2024-06-01")) {
        t.Fatalf("failed reschedule must not change stored dates")
    }
}

func TestRescheduleStay_CancelledStayRejected(t *testing.T) {
    store := newFakeStore()
    eng := NewEngine(store)
    ctx := context.Background()

    first, err := eng.ReserveStay(ctx, StayRequest{
        HotelID: 5, UserID: 7, RoomType: "DOUBLE", Guests: 2,
        CheckIn: day("2024-06-01"), CheckOut: day("2024-06-05"), PriceCents: 30000,
    })
    if err != nil {
        t.Fatalf("seed stay failed: %v", err)
    }
    if _, err := eng.TransitionStay(ctx, first.ID, StatusCancelled, 7); err != nil {
        t.Fatalf("cancel failed: %v", err)
    }

    _, err = eng.RescheduleStay(ctx, first.ID, DateRange{
        CheckIn: day("2024-07-01"), CheckOut: day("2024-07-05"),
    }, 7)
    var verr *ValidationError
    if !errors.As(err, &verr) {
        t.Fatalf("expected ValidationError for cancelled stay, got %v", err)
    }
}

func TestRescheduleStay_OwnershipEnforced(t *testing.T) {
    store := newFakeStore()
    eng := NewEngine(store)
    ctx := context.Background()

    first, err := eng.ReserveStay(ctx, StayRequest{
        HotelID: 5, UserID: 7, RoomType: "DOUBLE", Guests: 2,
        CheckIn: day("2024-06-01"), CheckOut: day("2024-06-05"), PriceCents: 30000,
    })
    if err != nil {
        t.Fatalf("seed stay failed: %v", err)
    }

    _, err = eng.RescheduleStay(ctx, first.ID, DateRange{
        CheckIn: day("2024-07-01"), CheckOut: day("2024-07-05"),
    }, 99)
    if !errors.Is(err, ErrForbidden) {
        t.Fatalf("expected ErrForbidden for foreign requester, got %v", err)
    }
}

func TestTaxi_ReserveCancelReserveAgain(t *testing.T) {
    store := newFakeStore()
    eng := NewEngine(store)
    ctx := context.Background()

    first, err := eng.ReserveTaxi(ctx, TaxiRequest{
        TaxiID: 3, UserID: 7, Pickup: "airport", Dropoff: "station", PickupAt: day("2024-06-01"), PriceCents: 1500,
    })
    if err != nil {
        t.Fatalf("reserve failed: %v", err)
    }
    if first.Status != StatusConfirmed {
        t.Fatalf("taxi reservations confirm immediately, got %s", first.Status)
    }
    if store.st.taxis[3] {
        t.Fatalf("availability flag should be false while reserved")
    }

    // A second claim must conflict while the first is active.
    _, err = eng.ReserveTaxi(ctx, TaxiRequest{TaxiID: 3, UserID: 8, Pickup: "a", Dropoff: "b"})
    var conflict *ConflictError
    if !errors.As(err, &conflict) {
        t.Fatalf("expected ConflictError, got %v", err)
    }

    cancelled, err := eng.TransitionTaxi(ctx, first.ID, StatusCancelled, 7)
    if err != nil {
        t.Fatalf("cancel failed: %v", err)
    }
    if cancelled.Status != StatusCancelled {
        t.Fatalf("expected CANCELLED, got %s", cancelled.Status)
    }
    if !store.st.taxis[3] {
        t.Fatalf("cancel must reset the availability flag")
    }

    if _, err := eng.ReserveTaxi(ctx, TaxiRequest{TaxiID: 3, UserID: 8, Pickup: "a", Dropoff: "b"}); err != nil {
        t.Fatalf("taxi should be bookable again after cancel, got %v", err)
    }
}

func TestTransition_IllegalMovesRejected(t *testing.T) {
    store := newFakeStore()
    eng := NewEngine(store)
    ctx := context.Background()

    stay, err := eng.ReserveStay(ctx, StayRequest{
        HotelID: 5, UserID: 7, RoomType: "DOUBLE", Guests: 2,
        CheckIn: day("2024-06-01"), CheckOut: day("2024-06-05"),
    })
    if err != nil {
        t.Fatalf("seed stay failed: %v", err)
    }

    // Completing a pending stay skips confirmation.
    _, err = eng.TransitionStay(ctx, stay.ID, StatusCompleted, 7)
    var illegal *IllegalTransitionError
    if !errors.As(err, &illegal) {
        t.Fatalf("expected IllegalTransitionError, got %v", err)
    }

    if _, err := eng.TransitionStay(ctx, stay.ID, StatusConfirmed, 7); err != nil {
        t.Fatalf("confirm failed: %v", err)
    }
    if _, err := eng.TransitionStay(ctx, stay.ID, StatusCancelled, 7); err != nil {
        t.Fatalf("cancel failed: %v", err)
    }

    // Cancelling twice must fail, not report a duplicate success.
    _, err = eng.TransitionStay(ctx, stay.ID, StatusCancelled, 7)
    if !errors.As(err, &illegal) {
        t.Fatalf("expected IllegalTransitionError on second cancel, got %v", err)
    }
}

func TestTransition_OwnershipEnforced(t *testing.T) {
    store := newFakeStore()
    eng := NewEngine(store)
    ctx := context.Background()

    rows, err := eng.ReserveSeats(ctx, SeatRequest{TripID: 10, UserID: 7, Seats: []string{"A1"}, TotalPriceCents: 2000})
    if err != nil {
        t.Fatalf("seed reservation failed: %v", err)
    }

    if _, err := eng.TransitionSeat(ctx, rows[0].ID, StatusCancelled, 8); !errors.Is(err, ErrForbidden) {
        t.Fatalf("expected ErrForbidden for foreign reservation, got %v", err)
    }
    // Requester zero bypasses the ownership check (admin path).
    if _, err := eng.TransitionSeat(ctx, rows[0].ID, StatusCancelled, 0); err != nil {
        t.Fatalf("admin cancel failed: %v", err)
    }
}

func TestTransition_NotFound(t *testing.T) {
    eng := NewEngine(newFakeStore())
    _, err := eng.TransitionTaxi(context.Background(), 42, StatusCancelled, 7)
    var nf *NotFoundError
    if !errors.As(err, &nf) {
        t.Fatalf("expected NotFoundError, got %v", err)
    }
}

func TestConcurrentSeatClaims_ExactlyOneWinner(t *testing.T) {
    store := newFakeStore()
    eng := NewEngine(store)

    const attempts = 8
    results := make(chan error, attempts)
    var wg sync.WaitGroup
    for i := 0; i < attempts; i++ {
        wg.Add(1)
        go func(user uint64) {
            defer wg.Done()
            _, err := eng.ReserveSeats(context.Background(), SeatRequest{
                TripID: 10, UserID: user, Seats: []string{"A1"}, TotalPriceCents: 2000,
            })
            results <- err
        }(uint64(i + 1))
    }
    wg.Wait()
    close(results)

    wins, conflicts := 0, 0
    for err := range results {
        switch {
        case err == nil:
            wins++
        default:
            var conflict *ConflictError
            if !errors.As(err, &conflict) {
                t.Fatalf("unexpected error: %v", err)
            }
            conflicts++
        }
    }
    if wins != 1 || conflicts != attempts-1 {
        t.Fatalf("expected exactly one winner, got wins=%d conflicts=%d", wins, conflicts)
    }
}
