package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/helpdesk/internal/config"
	"github.com/iliyamo/helpdesk/internal/model"
	"github.com/iliyamo/helpdesk/internal/queue"
	"github.com/iliyamo/helpdesk/internal/repository"
	queue_publisher "github.com/iliyamo/helpdesk/internal/service"
)

// TicketHandler bundles dependencies for ticket endpoints.  Categories are
// needed for the dropdown-options endpoint that feeds the creation form.
type TicketHandler struct {
	Cfg        config.Config
	Tickets    *repository.TicketRepo
	Categories *repository.CategoryRepo
}

func NewTicketHandler(cfg config.Config, t *repository.TicketRepo, cat *repository.CategoryRepo) *TicketHandler {
	return &TicketHandler{Cfg: cfg, Tickets: t, Categories: cat}
}

type createTicketReq struct {
	IssueType            string `json:"issue_type"`
	Condition            string `json:"condition"`
	Priority             string `json:"priority"` // semantic choice: urgent | standard | low-priority
	Event                string `json:"event"`
	ShortDescription     string `json:"short_description"`
	CommunicationChannel string `json:"communication_channel"`
}

// Create handles POST /v1/tickets.  Priority and the short description are
// required; everything else is optional.  The response is the persisted
// ticket including its generated uid.  Notification delivery runs through
// the message queue and never affects the outcome.
func (h *TicketHandler) Create(c echo.Context) error {
	email := callerEmail(c)
	if email == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	var req createTicketReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	missing := []string{}
	if strings.TrimSpace(req.Priority) == "" {
		missing = append(missing, "priority")
	}
	if strings.TrimSpace(req.ShortDescription) == "" {
		missing = append(missing, "short_description")
	}
	if len(missing) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":  "missing required fields",
			"fields": missing,
		})
	}

	t := model.Ticket{
		CreatedBy:            email,
		IssueType:            strings.TrimSpace(req.IssueType),
		CurrentCondition:     strings.TrimSpace(req.Condition),
		Priority:             model.MapPriority(req.Priority),
		StatusBadge:          model.StatusOpen,
		SelectedEvent:        strings.TrimSpace(req.Event),
		ClientNote:           strings.TrimSpace(req.ShortDescription),
		CommunicationChannel: strings.TrimSpace(req.CommunicationChannel),
		RelatedTickets:       []string{},
		Attachments:          []string{},
		Comments:             []model.Comment{},
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Tickets.Create(ctx, &t); err != nil {
		log.Printf("ticket create failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create ticket failed"})
	}

	// Best-effort: notify the reporter and the operations inbox.  The
	// publisher logs its own failures; the create call already succeeded.
	_ = queue_publisher.PublishTicketCreated(ctx, queue.TicketCreatedEvent{
		UID:         t.UID,
		CreatedBy:   t.CreatedBy,
		IssueType:   t.IssueType,
		Priority:    t.Priority,
		StatusBadge: t.StatusBadge,
		ClientNote:  t.ClientNote,
		Recipients:  []string{t.CreatedBy, h.Cfg.OpsEmail},
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, t)
}

// List handles GET /v1/tickets.  Admins see everything; clients only the
// tickets they created.  No pagination, the dashboard paginates client-side.
func (h *TicketHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var (
		items []model.Ticket
		err   error
	)
	if callerRole(c) == model.RoleAdmin {
		items, err = h.Tickets.ListAll(ctx)
	} else {
		items, err = h.Tickets.ListByCreator(ctx, callerEmail(c))
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/tickets/:uid.  Admins may read any ticket; a client
// only their own.
func (h *TicketHandler) Get(c echo.Context) error {
	uid := c.Param("uid")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	t, err := h.Tickets.GetByUID(ctx, uid)
	if err != nil {
		return respondError(c, err)
	}
	if callerRole(c) != model.RoleAdmin && t.CreatedBy != callerEmail(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, t)
}

// Update handles PUT /v1/tickets/:uid (admin only, enforced by the route
// group).  The body is a sparse patch: absent fields stay untouched, empty
// strings clear.  Enum fields are validated when present; updated_at
// refreshes on every call, even for a patch with no fields.
func (h *TicketHandler) Update(c echo.Context) error {
	uid := c.Param("uid")

	var patch model.TicketPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if patch.Priority != nil && !model.ValidPriority(*patch.Priority) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid priority"})
	}
	if patch.StatusBadge != nil && !model.ValidStatus(*patch.StatusBadge) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status_badge"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	updated, err := h.Tickets.Update(ctx, uid, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// option is one dropdown entry on the creation form.
type option struct {
	Value       string `json:"value"`
	Text        string `json:"text"`
	Description string `json:"description,omitempty"`
}

// Options handles GET /v1/ticket-options: the categories grouped by
// taxonomy in presentation order, shaped for <select> population.
func (h *TicketHandler) Options(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	cats, err := h.Categories.List(ctx)
	if err != nil {
		return respondError(c, err)
	}

	grouped := map[string][]option{
		model.CategoryIssueType: {},
		model.CategoryCondition: {},
		model.CategoryPriority:  {},
		model.CategoryEvent:     {},
	}
	for _, cat := range cats {
		o := option{Value: cat.Value, Text: cat.Label}
		if cat.Description != nil {
			o.Description = *cat.Description
		}
		grouped[cat.Type] = append(grouped[cat.Type], o)
	}
	return c.JSON(http.StatusOK, grouped)
}
