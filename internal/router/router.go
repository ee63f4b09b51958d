package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/helpdesk/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/helpdesk/internal/middleware" // import middleware for session authentication and role enforcement
	"github.com/iliyamo/helpdesk/internal/repository" // user repo needed by the session middleware
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// This endpoint can be used by load balancers or monitoring systems to
	// verify that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication‑related routes.  The session
// lifecycle endpoints (register, verify, login, refresh, logout, session
// probe) live under /v1/auth and need no existing session; /v1/me sits
// behind the session middleware as a probe for the resolved identity.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, users *repository.UserRepo) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/verify-email", a.VerifyEmail)
	g.POST("/resend-verification", a.ResendVerification)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout works without a valid session: it revokes whatever refresh
	// cookie is presented and clears cookies either way.
	g.POST("/logout", a.Logout)
	// The session probe never fails; the UI polls it to decide whether to
	// show the login screen.
	g.GET("/session", a.Session)

	e.POST("/v1/locale", a.SetLocale)

	auth := e.Group("/v1")
	auth.Use(middleware.SessionAuth(jwtSecret, users))
	auth.GET("/me", a.Me)
}
