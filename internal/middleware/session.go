package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "context"  // context with timeout for the user lookup
    "net/http" // HTTP status codes for responses
    "time"     // timeout durations

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/helpdesk/internal/repository" // user lookup by token subject
    "github.com/iliyamo/helpdesk/internal/utils"      // session token verification
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "session"

// SessionAuth returns an Echo middleware that resolves the caller from the
// session cookie.  It verifies the signed token, loads the user record by
// its subject (a token whose user no longer exists is treated the same as
// no token at all) and injects `user_id`, `role` and `email` into the
// request context.  Every failure mode produces the same 401 so callers
// never learn why a credential was rejected.
func SessionAuth(secret string, users *repository.UserRepo) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            cookie, err := c.Cookie(SessionCookie)
            if err != nil || cookie.Value == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
            }
            ident, ok := utils.VerifySessionToken(secret, cookie.Value)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
            }

            // The token is only half the story: the user row must still
            // exist.  The role stored in the row wins over the claim, so a
            // role change takes effect at the next request rather than at
            // the next token issue.
            ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
            defer cancel()
            u, err := users.GetByID(ctx, ident.UserID)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
            }

            c.Set("user_id", u.ID)
            c.Set("role", u.Role)
            c.Set("email", u.Email)
            return next(c)
        }
    }
}
