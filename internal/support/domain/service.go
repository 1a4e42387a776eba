package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (*Response, error)
}

type CreateRequest struct {
	Type       string  `json:"type"`
	Priority   *string `json:"priority"`
	CustomerID string  `json:"customer_id"`
	EmployeeID string  `json:"employee_id"`
}

type ListRequest struct {
	Status     string `form:"status"`
	CustomerID string `form:"customer_id"`
	EmployeeID string `form:"employee_id"`
}

type UpdateStatusRequest struct {
	ID     string `json:"-"`
	Status string `json:"status"`
}

type Response struct {
	ID         string       `json:"id"`
	Type       TicketType   `json:"type"`
	Status     TicketStatus `json:"status"`
	Priority   *string      `json:"priority,omitempty"`
	CustomerID string       `json:"customer_id"`
	EmployeeID string       `json:"employee_id"`
	CreatedAt  time.Time    `json:"created_at"`
	ClosedAt   *time.Time   `json:"closed_at,omitempty"`
}

var (
	ErrInvalidID         = errors.New("invalid_ticket_id")
	ErrInvalidType       = errors.New("invalid_ticket_type")
	ErrInvalidStatus     = errors.New("invalid_ticket_status")
	ErrInvalidPriority   = errors.New("invalid_ticket_priority")
	ErrInvalidCustomer   = errors.New("invalid_ticket_customer")
	ErrInvalidEmployee   = errors.New("invalid_ticket_employee")
	ErrInvalidTransition = errors.New("invalid_ticket_transition")
	ErrNotFound          = errors.New("ticket_not_found")
)
