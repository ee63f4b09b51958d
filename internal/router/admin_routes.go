package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/helpdesk/internal/handler"
	"github.com/iliyamo/helpdesk/internal/middleware"
	"github.com/iliyamo/helpdesk/internal/model"
	"github.com/iliyamo/helpdesk/internal/repository"
)

// RegisterAdmin wires the category management panel.  Every route resolves
// the session first and then requires the admin role.
func RegisterAdmin(e *echo.Echo, cat *handler.CategoryHandler, jwtSecret string, users *repository.UserRepo) {
	g := e.Group("/v1/admin",
		middleware.SessionAuth(jwtSecret, users),
		middleware.RequireRole(model.RoleAdmin))

	g.GET("/categories", cat.List)
	g.POST("/categories", cat.Create)
	// Reorder is registered before :id so the literal path wins.
	g.PUT("/categories/reorder", cat.Reorder)
	g.PUT("/categories/:id", cat.Update)
	g.DELETE("/categories/:id", cat.Delete)
}
