package middleware

// identity.go defines helper functions shared across middleware files. It
// provides user identity extraction from values the JWT middleware stored in
// the Echo context, used by the rate limiter to build per-user bucket keys.

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// currentUserID returns a string form of the authenticated user's ID for
// cache and rate-limit keys. JWT numeric claims decode as float64, so both
// string and numeric context values are handled. Returns "anon" when no
// user is authenticated.
func currentUserID(c echo.Context) string {
    v := c.Get("user_id")
    if v == nil {
        return "anon"
    }
    switch t := v.(type) {
    case string:
        if t != "" {
            return t
        }
    case float64:
        return strconv.FormatUint(uint64(t), 10)
    case uint64:
        return strconv.FormatUint(t, 10)
    case int64:
        return strconv.FormatInt(t, 10)
    case int:
        return strconv.Itoa(t)
    }
    return "anon"
}
