package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/helpdesk/internal/model"
	"github.com/iliyamo/helpdesk/internal/utils"
)

// TicketRepo provides persistence for support tickets.  List-valued fields
// (related tickets, attachments, comments) are flattened to text columns on
// write and rehydrated to slices on read; the model package owns both
// directions of that mapping.
type TicketRepo struct{ DB *sql.DB }

func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{DB: db} }

const ticketColumns = `uid, created_by, issue_type, current_condition, priority,
status_badge, selected_event, client_note, assignee, current_condition_by_admin,
problem_solved_at, action_taken, time_taken_to_solve, related_tickets,
attachments, comments, communication_channel, created_at, updated_at`

// uidInsertRetries bounds retries when a generated uid collides with an
// existing row.  At 62^8 possible uids a single retry is already overkill.
const uidInsertRetries = 3

// Create inserts a new ticket and fills in its generated uid and
// timestamps.  On the (vanishingly rare) duplicate-uid insert it generates
// a fresh uid and tries again, up to uidInsertRetries times.
func (r *TicketRepo) Create(ctx context.Context, t *model.Ticket) error {
	comments, err := model.MarshalComments(t.Comments)
	if err != nil {
		return err
	}
	var lastErr error
	for attempt := 0; attempt < uidInsertRetries; attempt++ {
		uid, err := utils.NewTicketUID()
		if err != nil {
			return err
		}
		_, err = r.DB.ExecContext(ctx,
			`INSERT INTO tickets (uid, created_by, issue_type, current_condition,
			   priority, status_badge, selected_event, client_note, assignee,
			   current_condition_by_admin, problem_solved_at, action_taken,
			   time_taken_to_solve, related_tickets, attachments, comments,
			   communication_channel)
			 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			uid, t.CreatedBy, t.IssueType, t.CurrentCondition,
			t.Priority, t.StatusBadge, t.SelectedEvent, t.ClientNote, t.Assignee,
			t.CurrentConditionByAdmin, t.ProblemSolvedAt, t.ActionTaken,
			t.TimeTakenToSolve, model.JoinList(t.RelatedTickets),
			model.JoinList(t.Attachments), comments, t.CommunicationChannel)
		if err != nil {
			if isDuplicateKey(err) {
				lastErr = err
				continue // uid collision, roll a new one
			}
			return err
		}
		t.UID = uid
		// Follow-up SELECT populates the DB-assigned timestamps.
		return r.DB.QueryRowContext(ctx,
			"SELECT created_at, updated_at FROM tickets WHERE uid=?", uid).
			Scan(&t.CreatedAt, &t.UpdatedAt)
	}
	return fmt.Errorf("ticket uid collision persisted after %d attempts: %w", uidInsertRetries, lastErr)
}

// GetByUID fetches a single ticket.  Returns ErrTicketNotFound when the uid
// does not exist.
func (r *TicketRepo) GetByUID(ctx context.Context, uid string) (model.Ticket, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+ticketColumns+" FROM tickets WHERE uid=? LIMIT 1", uid)
	t, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Ticket{}, ErrTicketNotFound
		}
		return model.Ticket{}, err
	}
	return t, nil
}

// ListAll returns every ticket, newest first.  Admin-only at the handler
// layer.
func (r *TicketRepo) ListAll(ctx context.Context) ([]model.Ticket, error) {
	return r.list(ctx, "SELECT "+ticketColumns+" FROM tickets ORDER BY created_at DESC")
}

// ListByCreator returns tickets created by the given e-mail, newest first.
func (r *TicketRepo) ListByCreator(ctx context.Context, email string) ([]model.Ticket, error) {
	return r.list(ctx,
		"SELECT "+ticketColumns+" FROM tickets WHERE created_by=? ORDER BY created_at DESC", email)
}

func (r *TicketRepo) list(ctx context.Context, query string, args ...any) ([]model.Ticket, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Ticket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update applies a sparse patch to a ticket: only non-nil patch fields
// become SET clauses.  updated_at always refreshes, even for a patch whose
// values happen to match the stored row.  Returns ErrTicketNotFound if the
// uid does not exist, and the updated row on success.
func (r *TicketRepo) Update(ctx context.Context, uid string, p model.TicketPatch) (model.Ticket, error) {
	// Existence check first so an unknown uid is reported as 404 and not
	// hidden behind a zero-rows-affected update.
	if _, err := r.GetByUID(ctx, uid); err != nil {
		return model.Ticket{}, err
	}

	set := []string{"updated_at=UTC_TIMESTAMP()"}
	args := []any{}
	appendSet := func(col string, v any) {
		set = append(set, col+"=?")
		args = append(args, v)
	}
	if p.IssueType != nil {
		appendSet("issue_type", *p.IssueType)
	}
	if p.CurrentCondition != nil {
		appendSet("current_condition", *p.CurrentCondition)
	}
	if p.Priority != nil {
		appendSet("priority", *p.Priority)
	}
	if p.StatusBadge != nil {
		appendSet("status_badge", *p.StatusBadge)
	}
	if p.SelectedEvent != nil {
		appendSet("selected_event", *p.SelectedEvent)
	}
	if p.ClientNote != nil {
		appendSet("client_note", *p.ClientNote)
	}
	if p.Assignee != nil {
		appendSet("assignee", *p.Assignee)
	}
	if p.CurrentConditionByAdmin != nil {
		appendSet("current_condition_by_admin", *p.CurrentConditionByAdmin)
	}
	if p.ProblemSolvedAt != nil {
		appendSet("problem_solved_at", *p.ProblemSolvedAt)
	}
	if p.ActionTaken != nil {
		appendSet("action_taken", *p.ActionTaken)
	}
	if p.TimeTakenToSolve != nil {
		appendSet("time_taken_to_solve", *p.TimeTakenToSolve)
	}
	if p.RelatedTickets != nil {
		appendSet("related_tickets", model.JoinList(*p.RelatedTickets))
	}
	if p.Attachments != nil {
		appendSet("attachments", model.JoinList(*p.Attachments))
	}
	if p.Comments != nil {
		comments, err := model.MarshalComments(*p.Comments)
		if err != nil {
			return model.Ticket{}, err
		}
		appendSet("comments", comments)
	}
	if p.CommunicationChannel != nil {
		appendSet("communication_channel", *p.CommunicationChannel)
	}

	query := "UPDATE tickets SET "
	for i, s := range set {
		if i > 0 {
			query += ", "
		}
		query += s
	}
	query += " WHERE uid=?"
	args = append(args, uid)

	if _, err := r.DB.ExecContext(ctx, query, args...); err != nil {
		return model.Ticket{}, err
	}
	return r.GetByUID(ctx, uid)
}

// scanTicket reads one row from either a *sql.Row or *sql.Rows.
func scanTicket(row interface{ Scan(...any) error }) (model.Ticket, error) {
	var (
		t                model.Ticket
		assignee         sql.NullString
		conditionByAdmin sql.NullString
		solvedAt         sql.NullString
		actionTaken      sql.NullString
		timeTaken        sql.NullString
		related          sql.NullString
		attachments      sql.NullString
		comments         sql.NullString
		channel          sql.NullString
	)
	err := row.Scan(
		&t.UID, &t.CreatedBy, &t.IssueType, &t.CurrentCondition, &t.Priority,
		&t.StatusBadge, &t.SelectedEvent, &t.ClientNote, &assignee, &conditionByAdmin,
		&solvedAt, &actionTaken, &timeTaken, &related,
		&attachments, &comments, &channel, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return model.Ticket{}, err
	}
	t.Assignee = assignee.String
	t.CurrentConditionByAdmin = conditionByAdmin.String
	t.ProblemSolvedAt = solvedAt.String
	t.ActionTaken = actionTaken.String
	t.TimeTakenToSolve = timeTaken.String
	t.RelatedTickets = model.SplitList(related.String)
	t.Attachments = model.SplitList(attachments.String)
	t.Comments = model.UnmarshalComments(comments.String)
	t.CommunicationChannel = channel.String
	return t, nil
}
