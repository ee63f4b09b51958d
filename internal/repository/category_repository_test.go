package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/helpdesk/internal/model"
)

func newCategoryMock(t *testing.T) (*CategoryRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewCategoryRepo(db), mock
}

func issueTypeRows(ids ...uint64) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id"})
	for _, id := range ids {
		rows.AddRow(id)
	}
	return rows
}

// An id outside the taxonomy must abort the reorder before the first
// position write; the transaction rolls back with nothing changed.
func TestReorderRejectsForeignID(t *testing.T) {
	repo, mock := newCategoryMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM ticket_categories WHERE type=\\? FOR UPDATE").
		WithArgs(model.CategoryIssueType).
		WillReturnRows(issueTypeRows(1, 2, 3))
	mock.ExpectRollback()

	err := repo.Reorder(context.Background(), model.CategoryIssueType, []uint64{1, 99, 2})
	if !errors.Is(err, ErrWrongType) {
		t.Fatalf("Reorder: got %v, want ErrWrongType", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("a sort_order write ran despite the foreign id: %v", err)
	}
}

// A failure after some positions were written must roll the whole
// transaction back; no commit, no further writes.
func TestReorderFailureMidwayRollsBack(t *testing.T) {
	repo, mock := newCategoryMock(t)
	boom := errors.New("connection lost")

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM ticket_categories WHERE type=\\? FOR UPDATE").
		WithArgs(model.CategoryIssueType).
		WillReturnRows(issueTypeRows(1, 2, 3))
	mock.ExpectExec("UPDATE ticket_categories SET sort_order=\\? WHERE id=\\?").
		WithArgs(1, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE ticket_categories SET sort_order=\\? WHERE id=\\?").
		WithArgs(2, 2).
		WillReturnError(boom)
	mock.ExpectRollback()

	err := repo.Reorder(context.Background(), model.CategoryIssueType, []uint64{1, 2, 3})
	if !errors.Is(err, boom) {
		t.Fatalf("Reorder: got %v, want the injected failure", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("transaction was not rolled back cleanly: %v", err)
	}
}

func TestReorderAssignsSequentialPositions(t *testing.T) {
	repo, mock := newCategoryMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM ticket_categories WHERE type=\\? FOR UPDATE").
		WithArgs(model.CategoryEvent).
		WillReturnRows(issueTypeRows(4, 5, 6))
	mock.ExpectExec("UPDATE ticket_categories SET sort_order=\\? WHERE id=\\?").
		WithArgs(1, 6).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE ticket_categories SET sort_order=\\? WHERE id=\\?").
		WithArgs(2, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE ticket_categories SET sort_order=\\? WHERE id=\\?").
		WithArgs(3, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Reorder(context.Background(), model.CategoryEvent, []uint64{6, 4, 5}); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
