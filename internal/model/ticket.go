// Package model holds the domain types shared between repositories and
// handlers: users, tickets, taxonomy categories and the helpers that map
// between their stored and client-facing representations.  Tickets keep
// three list-valued fields (related tickets, attachments, comments) that
// serialize to flat text columns and rehydrate to structured values here.
package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Stored priority values.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// Status badge values shown on the dashboard.
const (
	StatusOpen       = "Open"
	StatusInProgress = "In Progress"
	StatusUrgent     = "Urgent"
	StatusClosed     = "Closed"
)

// Comment is a single admin or client note attached to a ticket.  The full
// comment list is stored as a JSON array in the tickets.comments column.
type Comment struct {
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Ticket is a support request.  UID is the immutable human-readable
// identifier ("T-" + 8 base62 characters).  CreatedBy holds the reporter's
// e-mail and scopes client-visible listings.
type Ticket struct {
	UID                     string    `json:"uid"`
	CreatedBy               string    `json:"created_by"`
	IssueType               string    `json:"issue_type"`
	CurrentCondition        string    `json:"current_condition"`
	Priority                string    `json:"priority"`
	StatusBadge             string    `json:"status_badge"`
	SelectedEvent           string    `json:"selected_event"`
	ClientNote              string    `json:"client_note"`
	Assignee                string    `json:"assignee,omitempty"`
	CurrentConditionByAdmin string    `json:"current_condition_by_admin,omitempty"`
	ProblemSolvedAt         string    `json:"problem_solved_at,omitempty"`
	ActionTaken             string    `json:"action_taken,omitempty"`
	TimeTakenToSolve        string    `json:"time_taken_to_solve,omitempty"`
	RelatedTickets          []string  `json:"related_tickets"`
	Attachments             []string  `json:"attachments"`
	Comments                []Comment `json:"comments"`
	CommunicationChannel    string    `json:"communication_channel,omitempty"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// TicketPatch carries a sparse update: nil pointers leave the column
// untouched, non-nil pointers overwrite it (an empty string clears the
// field).  This makes "absent" and "explicitly empty" distinct on the wire.
type TicketPatch struct {
	IssueType               *string    `json:"issue_type"`
	CurrentCondition        *string    `json:"current_condition"`
	Priority                *string    `json:"priority"`
	StatusBadge             *string    `json:"status_badge"`
	SelectedEvent           *string    `json:"selected_event"`
	ClientNote              *string    `json:"client_note"`
	Assignee                *string    `json:"assignee"`
	CurrentConditionByAdmin *string    `json:"current_condition_by_admin"`
	ProblemSolvedAt         *string    `json:"problem_solved_at"`
	ActionTaken             *string    `json:"action_taken"`
	TimeTakenToSolve        *string    `json:"time_taken_to_solve"`
	RelatedTickets          *[]string  `json:"related_tickets"`
	Attachments             *[]string  `json:"attachments"`
	Comments                *[]Comment `json:"comments"`
	CommunicationChannel    *string    `json:"communication_channel"`
}

// MapPriority converts the semantic choice offered on the creation form
// (urgent / standard / low-priority) to the stored priority value.  Unknown
// inputs fall back to Medium.
func MapPriority(choice string) string {
	switch strings.ToLower(strings.TrimSpace(choice)) {
	case "urgent", "high":
		return PriorityHigh
	case "low-priority", "low":
		return PriorityLow
	case "standard", "medium":
		return PriorityMedium
	default:
		return PriorityMedium
	}
}

// ValidPriority reports whether v is one of the stored priority values.
func ValidPriority(v string) bool {
	return v == PriorityHigh || v == PriorityMedium || v == PriorityLow
}

// ValidStatus reports whether v is one of the status badge values.
func ValidStatus(v string) bool {
	return v == StatusOpen || v == StatusInProgress || v == StatusUrgent || v == StatusClosed
}

// JoinList flattens a list field (related ticket uids, attachment names)
// to its comma-delimited storage form.  Blank entries are dropped.
func JoinList(items []string) string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s := strings.TrimSpace(it); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, ",")
}

// SplitList is the inverse of JoinList.  An empty column yields an empty
// slice, never nil, so JSON responses render [] instead of null.
func SplitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// MarshalComments serializes the comment list to its JSON column form.
// An empty list serializes to the empty string rather than "[]" so that
// untouched tickets keep a NULL-ish column.
func MarshalComments(comments []Comment) (string, error) {
	if len(comments) == 0 {
		return "", nil
	}
	b, err := json.Marshal(comments)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// UnmarshalComments rehydrates the comments column.  Empty or malformed
// text yields an empty list; a corrupt column must not make a ticket
// unreadable.
func UnmarshalComments(s string) []Comment {
	if strings.TrimSpace(s) == "" {
		return []Comment{}
	}
	var out []Comment
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return []Comment{}
	}
	return out
}
