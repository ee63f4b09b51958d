// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketCreatedEvent is published when a client submits a new ticket.
// It carries enough information for downstream consumers to notify the
// reporter and the operations inbox without querying the primary database.
type TicketCreatedEvent struct {
	UID         string   `json:"uid"`
	CreatedBy   string   `json:"created_by"`
	IssueType   string   `json:"issue_type"`
	Priority    string   `json:"priority"`
	StatusBadge string   `json:"status_badge"`
	ClientNote  string   `json:"client_note"`
	Recipients  []string `json:"recipients"`
	CreatedAt   string   `json:"created_at"`
}
