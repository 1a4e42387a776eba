package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type TicketType string

const (
	TicketTypeTechnical TicketType = "technical"
	TicketTypeBilling   TicketType = "billing"
)

type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusClosed     TicketStatus = "closed"
)

// Ticket is one support case. ClosedAt is populated only when the ticket
// reaches closed; Priority is optional and carries no default.
type Ticket struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	Type       TicketType   `gorm:"type:text;not null" json:"type"`
	Status     TicketStatus `gorm:"type:text;not null;default:open" json:"status"`
	Priority   *string      `gorm:"type:text" json:"priority,omitempty"`
	CustomerID snowflake.ID `gorm:"not null;index" json:"customer_id"`
	EmployeeID snowflake.ID `gorm:"not null;index" json:"employee_id"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	ClosedAt   *time.Time   `json:"closed_at,omitempty"`
}

// TableName sets the database table name.
func (Ticket) TableName() string { return "support_tickets" }

func ValidType(t TicketType) bool {
	return t == TicketTypeTechnical || t == TicketTypeBilling
}

func ValidStatus(s TicketStatus) bool {
	return s == TicketStatusOpen || s == TicketStatusInProgress || s == TicketStatusClosed
}

// ValidTransition encodes the ticket lifecycle: open may move to
// in_progress or closed, in_progress only to closed, closed is terminal.
func ValidTransition(from, to TicketStatus) bool {
	switch from {
	case TicketStatusOpen:
		return to == TicketStatusInProgress || to == TicketStatusClosed
	case TicketStatusInProgress:
		return to == TicketStatusClosed
	default:
		return false
	}
}

func ValidPriority(p string) bool {
	return p == "low" || p == "medium" || p == "high"
}
