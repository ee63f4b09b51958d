package handler // handler defines http handlers

import (
    "errors"   // errors provides sentinel matching via errors.Is
    "math"     // ceiling for the retry-after hint
    "net/http" // status code constants
    "strconv"  // strconv converts strings to numeric types
    "time"     // retry-after computation

    "github.com/labstack/echo/v4" // echo defines request context types

    "github.com/iliyamo/helpdesk/internal/ratelimit"  // limiter result for 429 responses
    "github.com/iliyamo/helpdesk/internal/repository" // repository holds data access layer
)

// callerEmail returns the authenticated user's e-mail from context.
func callerEmail(c echo.Context) string {
    if v, ok := c.Get("email").(string); ok {
        return v
    }
    return ""
}

// callerRole returns the authenticated user's role from context.
func callerRole(c echo.Context) string {
    if v, ok := c.Get("role").(string); ok {
        return v
    }
    return ""
}

// tooManyRequests writes the uniform 429 with a Retry-After hint computed
// from the limiter's window reset time.
func tooManyRequests(c echo.Context, res ratelimit.Result) error {
    secs := int(math.Ceil(time.Until(res.ResetAt).Seconds()))
    if secs < 0 {
        secs = 0
    }
    c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
    return c.JSON(http.StatusTooManyRequests, echo.Map{
        "error":       "too_many_requests",
        "retry_after": secs,
    })
}

// respondError is the single mapping from repository errors to HTTP
// responses, so every endpoint reports failures the same way.  Unrecognized
// errors become a generic 500 so internals are never leaked to clients.
func respondError(c echo.Context, err error) error {
    switch {
    case errors.Is(err, repository.ErrTicketNotFound),
        errors.Is(err, repository.ErrCategoryNotFound),
        errors.Is(err, repository.ErrUserNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
    case errors.Is(err, repository.ErrConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": "already exists"})
    case errors.Is(err, repository.ErrWrongType):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "id does not belong to category type"})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }
}
