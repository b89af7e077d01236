package models

import "time"

// Support ticket priorities and the default status.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"

	TicketStatusOpen = "Open"
)

// SupportTicket is the model for the 'support_tickets' table
type SupportTicket struct {
	ID          int64      `json:"id" db:"id"`
	UserID      int64      `json:"userId" db:"user_id"`
	Subject     string     `json:"subject" db:"subject"`
	Description string     `json:"description" db:"description"`
	Status      string     `json:"status" db:"status"`
	Priority    string     `json:"priority" db:"priority"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	ResolvedAt  *time.Time `json:"resolvedAt,omitempty" db:"resolved_at"`
}

// ChatMessage is the model for the 'chat_messages' table.
// UserID is nil for messages posted by staff tooling.
type ChatMessage struct {
	ID              int64     `json:"id" db:"id"`
	SupportTicketID int64     `json:"supportTicketId" db:"support_ticket_id"`
	UserID          *int64    `json:"userId,omitempty" db:"user_id"`
	Message         string    `json:"message" db:"message"`
	Timestamp       time.Time `json:"timestamp" db:"timestamp"`
}

// Contact is the model for the 'contacts' table
type Contact struct {
	ID        int64     `json:"id" db:"id"`
	FirstName string    `json:"firstName" db:"first_name"`
	LastName  string    `json:"lastName" db:"last_name"`
	Email     string    `json:"email" db:"email"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
