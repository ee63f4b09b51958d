package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/helpdesk/internal/model"
	"github.com/iliyamo/helpdesk/internal/repository"
)

// CategoryHandler exposes the admin panel for the four dropdown taxonomies.
// Every route is behind the admin role gate.
type CategoryHandler struct {
	Categories *repository.CategoryRepo
}

func NewCategoryHandler(cat *repository.CategoryRepo) *CategoryHandler {
	return &CategoryHandler{Categories: cat}
}

type categoryReq struct {
	Type        string  `json:"type"`
	Value       string  `json:"value"`
	Label       string  `json:"label"`
	Description *string `json:"description"`
}

type reorderReq struct {
	Type       string   `json:"type"`
	OrderedIDs []uint64 `json:"ordered_ids"`
}

// List handles GET /v1/admin/categories.
func (h *CategoryHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	items, err := h.Categories.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Create handles POST /v1/admin/categories.  The new row lands at the end
// of its taxonomy's order.
func (h *CategoryHandler) Create(c echo.Context) error {
	req, errResp := bindCategory(c)
	if errResp != nil {
		return errResp
	}

	cat := model.Category{
		Type:        req.Type,
		Value:       req.Value,
		Label:       req.Label,
		Description: req.Description,
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Categories.Create(ctx, &cat); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, cat)
}

// Update handles PUT /v1/admin/categories/:id.
func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	req, errResp := bindCategory(c)
	if errResp != nil {
		return errResp
	}

	cat := model.Category{
		Type:        req.Type,
		Value:       req.Value,
		Label:       req.Label,
		Description: req.Description,
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Categories.Update(ctx, id, &cat); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cat)
}

// Delete handles DELETE /v1/admin/categories/:id (hard delete).
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Categories.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Reorder handles PUT /v1/admin/categories/reorder.  All positions are
// written in one transaction: either every id gets its new 1-based place or
// nothing changes.
func (h *CategoryHandler) Reorder(c echo.Context) error {
	var req reorderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !model.ValidCategoryType(req.Type) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category type"})
	}
	if len(req.OrderedIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ordered_ids required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Categories.Reorder(ctx, req.Type, req.OrderedIDs); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// bindCategory binds and validates the shared create/update payload.  The
// second return value is the error response already written, nil when the
// request is valid.
func bindCategory(c echo.Context) (categoryReq, error) {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return req, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Type = strings.TrimSpace(req.Type)
	req.Value = strings.TrimSpace(req.Value)
	req.Label = strings.TrimSpace(req.Label)
	if !model.ValidCategoryType(req.Type) {
		return req, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category type"})
	}
	if req.Value == "" || req.Label == "" {
		return req, c.JSON(http.StatusBadRequest, echo.Map{"error": "value and label are required"})
	}
	return req, nil
}
