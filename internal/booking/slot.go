package booking

import (
    "strings"
    "time"
)

// NormalizeSeatLabels converts raw seat input into a canonical,
// deduplicated, order-preserving set of labels.  Clients may send a
// structured list or a single comma-separated string ("A1,A2"); both
// forms must check identically, so every element is additionally
// split on commas, trimmed and upper-cased before deduplication.
func NormalizeSeatLabels(raw []string) []string {
    out := make([]string, 0, len(raw))
    seen := make(map[string]struct{}, len(raw))
    for _, item := range raw {
        for _, part := range strings.Split(item, ",") {
            label := strings.ToUpper(strings.TrimSpace(part))
            if label == "" {
                continue
            }
            if _, ok := seen[label]; ok {
                continue
            }
            seen[label] = struct{}{}
            out = append(out, label)
        }
    }
    return out
}

// DateRange is a half-open stay interval [CheckIn, CheckOut): the
// check-out day is exclusive, so a stay ending June 5 does not
// conflict with one starting June 5.
type DateRange struct {
    CheckIn  time.Time
    CheckOut time.Time
}

// Valid reports whether the range has positive length.  Zero-length
// and inverted ranges are input errors, never conflicts.
func (r DateRange) Valid() bool {
    return r.CheckOut.After(r.CheckIn)
}

// Overlaps implements the half-open overlap rule: two ranges overlap
// iff each one starts before the other ends.
func (r DateRange) Overlaps(o DateRange) bool {
    return r.CheckIn.Before(o.CheckOut) && o.CheckIn.Before(r.CheckOut)
}

// String renders the range for conflict payloads, e.g.
// "2024-06-01..2024-06-05".
func (r DateRange) String() string {
    return r.CheckIn.Format("2006-01-02") + ".." + r.CheckOut.Format("2006-01-02")
}
