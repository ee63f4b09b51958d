package model

import (
	"testing"
	"time"
)

func baseTicket() Ticket {
	return Ticket{
		UID:              "T-abc12345",
		CreatedBy:        "a@b.com",
		IssueType:        "hardware",
		CurrentCondition: "degraded",
		Priority:         PriorityMedium,
		StatusBadge:      StatusOpen,
		SelectedEvent:    "none",
		ClientNote:       "printer jammed",
		RelatedTickets:   []string{"T-xyz00001"},
		Attachments:      []string{"photo.jpg"},
		Comments:         []Comment{{Author: "a@b.com", Content: "hi", Timestamp: time.Unix(1700000000, 0)}},
	}
}

func TestChangedFieldsNoChanges(t *testing.T) {
	orig := baseTicket()
	edited := baseTicket()
	if got := ChangedFields(orig, edited); len(got) != 0 {
		t.Errorf("identical snapshots: got %v, want empty", got)
	}
}

func TestChangedFields(t *testing.T) {
	cases := []struct {
		name string
		edit func(*Ticket)
		want []string
	}{
		{"scalar", func(tk *Ticket) { tk.Priority = PriorityHigh }, []string{"priority"}},
		{"status", func(tk *Ticket) { tk.StatusBadge = StatusClosed }, []string{"status_badge"}},
		{"related reorder", func(tk *Ticket) { tk.RelatedTickets = []string{"T-other999"} }, []string{"related_tickets"}},
		{"related grows", func(tk *Ticket) {
			tk.RelatedTickets = append(tk.RelatedTickets, "T-other999")
		}, []string{"related_tickets"}},
		{"comment content", func(tk *Ticket) { tk.Comments[0].Content = "edited" }, []string{"comments"}},
		{"comment appended", func(tk *Ticket) {
			tk.Comments = append(tk.Comments, Comment{Author: "x", Content: "y", Timestamp: time.Unix(1700000100, 0)})
		}, []string{"comments"}},
		{"several", func(tk *Ticket) {
			tk.Assignee = "admin@b.com"
			tk.StatusBadge = StatusInProgress
		}, []string{"status_badge", "assignee"}},
	}
	for _, tc := range cases {
		orig := baseTicket()
		edited := baseTicket()
		tc.edit(&edited)
		got := ChangedFields(orig, edited)
		if len(got) != len(tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
				break
			}
		}
	}
}

func TestChangedFieldsTimestampEquality(t *testing.T) {
	// Comments compare timestamps with time.Equal, so the same instant in a
	// different location is not a change.
	orig := baseTicket()
	edited := baseTicket()
	edited.Comments[0].Timestamp = edited.Comments[0].Timestamp.UTC()
	if got := ChangedFields(orig, edited); len(got) != 0 {
		t.Errorf("same instant, different location: got %v, want empty", got)
	}
}
