package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*EmployeeResponse, error)
	ListEmployees(ctx context.Context) ([]EmployeeResponse, error)
	CreateElement(ctx context.Context, req CreateElementRequest) (*ElementResponse, error)
	ListElements(ctx context.Context, req ListElementsRequest) ([]ElementResponse, error)
	UpdateElementStatus(ctx context.Context, id, status string) (*ElementResponse, error)
}

type CreateEmployeeRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type EmployeeResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Role      EmployeeRole   `json:"role"`
	Status    EmployeeStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}

type CreateElementRequest struct {
	Type       string `json:"type"`
	LocationID string `json:"location_id"`
	EmployeeID string `json:"employee_id"`
}

type ListElementsRequest struct {
	Type   string `form:"type"`
	Status string `form:"status"`
}

type ElementResponse struct {
	ID         string        `json:"id"`
	Type       ElementType   `json:"type"`
	Status     ElementStatus `json:"status"`
	LocationID string        `json:"location_id"`
	EmployeeID string        `json:"employee_id"`
	CreatedAt  time.Time     `json:"created_at"`
}

var (
	ErrInvalidID            = errors.New("invalid_network_id")
	ErrInvalidEmployeeName  = errors.New("invalid_employee_name")
	ErrInvalidEmployeeEmail = errors.New("invalid_employee_email")
	ErrInvalidEmployeeRole  = errors.New("invalid_employee_role")
	ErrDuplicateEmail       = errors.New("duplicate_employee_email")
	ErrInvalidElementType   = errors.New("invalid_element_type")
	ErrInvalidElementStatus = errors.New("invalid_element_status")
	ErrInvalidLocation      = errors.New("invalid_element_location")
	ErrInvalidEmployee      = errors.New("invalid_element_employee")
	ErrElementNotFound      = errors.New("network_element_not_found")
)
