package handler

import (
    "encoding/json"
    "errors"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/travel-reservation/internal/booking"
)

func callBookingError(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]interface{}) {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodPost, "/", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    if herr := bookingError(c, err); herr != nil {
        t.Fatalf("bookingError returned error: %v", herr)
    }
    var body map[string]interface{}
    if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
        t.Fatalf("response is not JSON: %v", err)
    }
    return rec, body
}

func TestBookingError_StatusMapping(t *testing.T) {
    cases := []struct {
        name string
        err  error
        want int
    }{
        {"validation", &booking.ValidationError{Field: "seats", Reason: "required"}, http.StatusBadRequest},
        {"not found", &booking.NotFoundError{Resource: "trip", ID: 4}, http.StatusNotFound},
        {"conflict", &booking.ConflictError{Slots: []string{"A1"}}, http.StatusConflict},
        {"illegal transition", &booking.IllegalTransitionError{Kind: booking.KindBus, From: booking.StatusCancelled, To: booking.StatusConfirmed}, http.StatusUnprocessableEntity},
        {"forbidden", booking.ErrForbidden, http.StatusForbidden},
        {"unknown", errors.New("connection reset"), http.StatusInternalServerError},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            rec, _ := callBookingError(t, tc.err)
            if rec.Code != tc.want {
                t.Fatalf("expected status %d, got %d", tc.want, rec.Code)
            }
        })
    }
}

func TestBookingError_ConflictCarriesSlots(t *testing.T) {
    _, body := callBookingError(t, &booking.ConflictError{Slots: []string{"A1", "B2"}})
    slots, ok := body["conflicts"].([]interface{})
    if !ok {
        t.Fatalf("expected conflicts array, got %v", body)
    }
    if len(slots) != 2 || slots[0] != "A1" || slots[1] != "B2" {
        t.Fatalf("unexpected conflict slots: %v", slots)
    }
}
