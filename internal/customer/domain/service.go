package domain

import (
	"context"
	"errors"
	"time"

	"github.com/telvoralabs/telvora/pkg/db/pagination"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
}

type ListRequest struct {
	Status     string `form:"status"`
	City       string `form:"city"`
	SortBy     string `form:"sort_by"`
	OrderBy    string `form:"order_by"`
	Pagination pagination.Pagination
}

type CreateRequest struct {
	Name       string         `json:"name"`
	Phone      string         `json:"phone"`
	Email      string         `json:"email"`
	LocationID string         `json:"location_id"`
	Metadata   map[string]any `json:"metadata"`
}

type UpdateRequest struct {
	ID     string  `json:"-"`
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Status *string `json:"status"`
}

type Response struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Phone            string         `json:"phone"`
	Email            string         `json:"email"`
	LocationID       string         `json:"location_id"`
	RegistrationDate time.Time      `json:"registration_date"`
	Status           CustomerStatus `json:"status"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

type ListResponse struct {
	Customers []Response           `json:"customers"`
	PageInfo  *pagination.PageInfo `json:"page_info"`
}

var (
	ErrInvalidID       = errors.New("invalid_customer_id")
	ErrInvalidName     = errors.New("invalid_customer_name")
	ErrInvalidPhone    = errors.New("invalid_customer_phone")
	ErrInvalidEmail    = errors.New("invalid_customer_email")
	ErrInvalidStatus   = errors.New("invalid_customer_status")
	ErrInvalidLocation = errors.New("invalid_customer_location")
	ErrDuplicatePhone  = errors.New("duplicate_customer_phone")
	ErrNotFound        = errors.New("customer_not_found")
)
