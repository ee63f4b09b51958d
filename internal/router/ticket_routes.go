package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/helpdesk/internal/handler"
	"github.com/iliyamo/helpdesk/internal/middleware"
	"github.com/iliyamo/helpdesk/internal/model"
	"github.com/iliyamo/helpdesk/internal/repository"
)

// RegisterTickets wires the ticket lifecycle and the attachment store.
// Creation, listing and reading are open to any authenticated user (the
// handlers scope results by role); updates are admin-only.
func RegisterTickets(e *echo.Echo, t *handler.TicketHandler, up *handler.UploadHandler, jwtSecret string, users *repository.UserRepo) {
	session := middleware.SessionAuth(jwtSecret, users)

	// Dropdown options for the creation form.  Authenticated: the form is
	// only reachable after login and the labels are admin-curated content.
	e.GET("/v1/ticket-options", t.Options, session)

	g := e.Group("/v1/tickets", session)
	g.POST("", t.Create)
	g.GET("", t.List)
	g.GET("/:uid", t.Get)
	g.PUT("/:uid", t.Update, middleware.RequireRole(model.RoleAdmin))

	u := e.Group("/v1/uploads", session)
	u.POST("", up.Upload)
	u.GET("/:filename", up.Serve)
}
