package handler

import (
    "context"
    "encoding/json"
    "errors"
    "net/http"
    "net/http/httptest"
    "net/url"
    "testing"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/travel-reservation/internal/model"
)

// fakeTripCatalog serves canned trip data so the search handler can be
// exercised without a database.
type fakeTripCatalog struct {
    trips       []*model.TripSummary
    searchErr   error
    suggestions []*model.RouteSuggestion
    suggestErr  error

    gotFrom, gotTo uint64
    suggestCalled  bool
}

func (f *fakeTripCatalog) GetByID(ctx context.Context, id uint64) (*model.TripSummary, error) {
    return nil, errors.New("not implemented")
}

func (f *fakeTripCatalog) Search(ctx context.Context, fromCityID, toCityID uint64, day time.Time) ([]*model.TripSummary, error) {
    f.gotFrom, f.gotTo = fromCityID, toCityID
    return f.trips, f.searchErr
}

func (f *fakeTripCatalog) SuggestRoutes(ctx context.Context, fromCityID, toCityID uint64, day time.Time) ([]*model.RouteSuggestion, error) {
    f.suggestCalled = true
    return f.suggestions, f.suggestErr
}

func (f *fakeTripCatalog) TodayDepartures(ctx context.Context, now time.Time) ([]*model.TripSummary, error) {
    return f.trips, f.searchErr
}

func (f *fakeTripCatalog) DeparturesFromCity(ctx context.Context, cityID uint64, now time.Time) ([]*model.TripSummary, error) {
    return f.trips, f.searchErr
}

func callSearchTrips(t *testing.T, catalog *fakeTripCatalog, query url.Values) (*httptest.ResponseRecorder, map[string]interface{}) {
    t.Helper()
    h := &PublicHandler{Trips: catalog}
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/v1/search/trips?"+query.Encode(), nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    if err := h.SearchTrips(c); err != nil {
        t.Fatalf("SearchTrips returned error: %v", err)
    }
    var body map[string]interface{}
    if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
        t.Fatalf("response is not JSON: %v", err)
    }
    return rec, body
}

func TestSearchTrips_DirectMatches(t *testing.T) {
    catalog := &fakeTripCatalog{
        trips: []*model.TripSummary{
            {Trip: model.Trip{ID: 7}, FromCity: "Tunis", ToCity: "Sfax", SeatsRemaining: 12},
        },
    }
    rec, body := callSearchTrips(t, catalog, url.Values{"from": {"1"}, "to": {"2"}})
    if rec.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rec.Code)
    }
    trips, ok := body["trips"].([]interface{})
    if !ok || len(trips) != 1 {
        t.Fatalf("expected one trip, got %v", body)
    }
    if _, present := body["suggestions"]; present {
        t.Fatalf("suggestions must not appear when direct trips exist: %v", body)
    }
    if catalog.suggestCalled {
        t.Fatal("suggestion lookup must be skipped when direct trips exist")
    }
    if catalog.gotFrom != 1 || catalog.gotTo != 2 {
        t.Fatalf("city filters not forwarded: from=%d to=%d", catalog.gotFrom, catalog.gotTo)
    }
}

func TestSearchTrips_NoMatchOffersAlternatives(t *testing.T) {
    catalog := &fakeTripCatalog{
        suggestions: []*model.RouteSuggestion{
            {FromCity: "Tunis", ToCity: "Sousse", TripCount: 4},
            {FromCity: "Gabes", ToCity: "Sfax", TripCount: 2},
        },
    }
    rec, body := callSearchTrips(t, catalog, url.Values{"from": {"1"}, "to": {"2"}, "date": {"2026-09-01"}})
    if rec.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rec.Code)
    }
    if body["message"] != "no direct trips found" {
        t.Fatalf("expected fallback message, got %v", body["message"])
    }
    suggestions, ok := body["suggestions"].([]interface{})
    if !ok || len(suggestions) != 2 {
        t.Fatalf("expected two suggestions, got %v", body)
    }
    first, ok := suggestions[0].(map[string]interface{})
    if !ok || first["from_city"] != "Tunis" || first["to_city"] != "Sousse" || first["trip_count"] != float64(4) {
        t.Fatalf("unexpected first suggestion: %v", suggestions[0])
    }
}

func TestSearchTrips_NoMatchNoAlternatives(t *testing.T) {
    rec, body := callSearchTrips(t, &fakeTripCatalog{}, url.Values{"from": {"1"}})
    if rec.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rec.Code)
    }
    trips, ok := body["trips"].([]interface{})
    if !ok || len(trips) != 0 {
        t.Fatalf("expected empty trips array, got %v", body)
    }
    if _, present := body["suggestions"]; present {
        t.Fatalf("empty suggestion set must be omitted: %v", body)
    }
}

func TestSearchTrips_SuggestionFailureStillReturnsEmptyResult(t *testing.T) {
    catalog := &fakeTripCatalog{suggestErr: errors.New("connection reset")}
    rec, body := callSearchTrips(t, catalog, url.Values{"from": {"1"}, "to": {"2"}})
    if rec.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rec.Code)
    }
    if _, present := body["suggestions"]; present {
        t.Fatalf("failed suggestion lookup must not leak into the response: %v", body)
    }
}

func TestSearchTrips_BadDateRejected(t *testing.T) {
    h := &PublicHandler{Trips: &fakeTripCatalog{}}
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/v1/search/trips?date=tomorrow", nil)
    rec := httptest.NewRecorder()
    if err := h.SearchTrips(e.NewContext(req, rec)); err != nil {
        t.Fatalf("SearchTrips returned error: %v", err)
    }
    if rec.Code != http.StatusBadRequest {
        t.Fatalf("expected 400, got %d", rec.Code)
    }
}
