package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/helpdesk/internal/model"
)

const selectTicketByUID = "SELECT (.+) FROM tickets WHERE uid=(.+) LIMIT 1"

func newTicketMock(t *testing.T) (*TicketRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewTicketRepo(db), mock
}

// ticketRow builds a full tickets row in ticketColumns order.
func ticketRow(uid, priority string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"uid", "created_by", "issue_type", "current_condition", "priority",
		"status_badge", "selected_event", "client_note", "assignee",
		"current_condition_by_admin", "problem_solved_at", "action_taken",
		"time_taken_to_solve", "related_tickets", "attachments", "comments",
		"communication_channel", "created_at", "updated_at",
	}).AddRow(
		uid, "user@example.com", "hardware", "not-working", priority,
		model.StatusOpen, "", "printer keeps jamming", nil,
		nil, nil, nil,
		nil, "", "", "",
		nil, now, now,
	)
}

// A patch carrying only a priority must generate SET clauses for priority
// and updated_at and nothing else.
func TestUpdatePriorityOnlyTouchesPriorityColumn(t *testing.T) {
	repo, mock := newTicketMock(t)
	uid := "T-abc12345"

	mock.ExpectQuery(selectTicketByUID).WithArgs(uid).
		WillReturnRows(ticketRow(uid, model.PriorityLow))
	mock.ExpectExec("^" + regexp.QuoteMeta(
		"UPDATE tickets SET updated_at=UTC_TIMESTAMP(), priority=? WHERE uid=?") + "$").
		WithArgs(model.PriorityHigh, uid).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(selectTicketByUID).WithArgs(uid).
		WillReturnRows(ticketRow(uid, model.PriorityHigh))

	prio := model.PriorityHigh
	got, err := repo.Update(context.Background(), uid, model.TicketPatch{Priority: &prio})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Priority != model.PriorityHigh {
		t.Errorf("priority = %q, want %q", got.Priority, model.PriorityHigh)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("update touched more than priority and updated_at: %v", err)
	}
}

// A patch with no fields still runs the update so updated_at refreshes.
func TestUpdateEmptyPatchRefreshesUpdatedAt(t *testing.T) {
	repo, mock := newTicketMock(t)
	uid := "T-abc12345"

	mock.ExpectQuery(selectTicketByUID).WithArgs(uid).
		WillReturnRows(ticketRow(uid, model.PriorityMedium))
	mock.ExpectExec("^" + regexp.QuoteMeta(
		"UPDATE tickets SET updated_at=UTC_TIMESTAMP() WHERE uid=?") + "$").
		WithArgs(uid).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(selectTicketByUID).WithArgs(uid).
		WillReturnRows(ticketRow(uid, model.PriorityMedium))

	if _, err := repo.Update(context.Background(), uid, model.TicketPatch{}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateUnknownUID(t *testing.T) {
	repo, mock := newTicketMock(t)

	mock.ExpectQuery(selectTicketByUID).WithArgs("T-missing0").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), "T-missing0", model.TicketPatch{})
	if !errors.Is(err, ErrTicketNotFound) {
		t.Fatalf("Update: got %v, want ErrTicketNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("an update ran against a missing uid: %v", err)
	}
}
