package booking

import (
    "reflect"
    "testing"
)

func TestNormalizeSeatLabels(t *testing.T) {
    cases := []struct {
        name string
        in   []string
        want []string
    }{
        {"list form", []string{"A1", "A2"}, []string{"A1", "A2"}},
        {"comma form", []string{"A1,A2"}, []string{"A1", "A2"}},
        {"mixed with spaces", []string{" a1 , b2", "C3"}, []string{"A1", "B2", "C3"}},
        {"duplicates collapse", []string{"A1", "a1", "A1,A1"}, []string{"A1"}},
        {"order preserved", []string{"B2", "A1"}, []string{"B2", "A1"}},
        {"empty pieces dropped", []string{" , ", ""}, []string{}},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            got := NormalizeSeatLabels(tc.in)
            if !reflect.DeepEqual(got, tc.want) {
                t.Fatalf("got %v, want %v", got, tc.want)
            }
        })
    }
}

func TestDateRangeOverlaps(t *testing.T) {
    base := DateRange{CheckIn: day("2024-06-01"), CheckOut: day("2024-06-05")}
    cases := []struct {
        name  string
        other DateRange
        want  bool
    }{
        {"identical", base, true},
        {"contained", DateRange{day("2024-06-02"), day("2024-06-03")}, true},
        {"straddles end", DateRange{day("2024-06-04"), day("2024-06-07")}, true},
        {"straddles start", DateRange{day("2024-05-30"), day("2024-06-02")}, true},
        {"back to back after", DateRange{day("2024-06-05"), day("2024-06-08")}, false},
        {"back to back before", DateRange{day("2024-05-28"), day("2024-06-01")}, false},
        {"disjoint", DateRange{day("2024-07-01"), day("2024-07-03")}, false},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            if got := base.Overlaps(tc.other); got != tc.want {
                t.Fatalf("Overlaps(%s) = %v, want %v", tc.other, got, tc.want)
            }
            // Overlap is symmetric.
            if got := tc.other.Overlaps(base); got != tc.want {
                t.Fatalf("reverse Overlaps(%s) = %v, want %v", tc.other, got, tc.want)
            }
        })
    }
}

func TestDateRangeValid(t *testing.T) {
    if (DateRange{day("2024-06-05"), day("2024-06-05")}).Valid() {
        t.Fatalf("zero-length range must be invalid")
    }
    if (DateRange{day("2024-06-05"), day("2024-06-01")}).Valid() {
        t.Fatalf("inverted range must be invalid")
    }
    if !(DateRange{day("2024-06-01"), day("2024-06-02")}).Valid() {
        t.Fatalf("one-night range must be valid")
    }
}
