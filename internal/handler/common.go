package handler // handler defines http handlers

import (
    "errors"
    "strconv"

    "github.com/labstack/echo/v4"
)

// getUserID extracts the user_id from echo.Context and converts it to uint64.
// The JWT middleware stores the raw claim value, whose concrete type depends
// on how the JSON was decoded, so all plausible types are handled.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// isAdmin reports whether the authenticated request carries the ADMIN role.
func isAdmin(c echo.Context) bool {
    role, _ := c.Get("role").(string)
    return role == "ADMIN"
}

// paramID parses a numeric path parameter.  Returns 0 and false when
// the parameter is missing or not a positive integer.
func paramID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, false
    }
    return id, true
}
