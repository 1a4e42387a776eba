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
	SortBy     string `form:"sort_by"`
	OrderBy    string `form:"order_by"`
	Pagination pagination.Pagination
}

type CreateRequest struct {
	Name             string         `json:"name"`
	Price            int64          `json:"price"`
	DataLimitMB      int64          `json:"data_limit_mb"`
	CallLimitMinutes int64          `json:"call_limit_minutes"`
	SMSLimit         int64          `json:"sms_limit"`
	ValidityDays     int            `json:"validity_days"`
	Metadata         map[string]any `json:"metadata"`
}

type UpdateRequest struct {
	ID           string  `json:"-"`
	Name         *string `json:"name"`
	Price        *int64  `json:"price"`
	DataLimitMB  *int64  `json:"data_limit_mb"`
	ValidityDays *int    `json:"validity_days"`
	Status       *string `json:"status"`
}

type Response struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Code             string         `json:"code"`
	Price            int64          `json:"price"`
	DataLimitMB      int64          `json:"data_limit_mb"`
	CallLimitMinutes int64          `json:"call_limit_minutes"`
	SMSLimit         int64          `json:"sms_limit"`
	ValidityDays     int            `json:"validity_days"`
	Status           PlanStatus     `json:"status"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

type ListResponse struct {
	Plans    []Response           `json:"plans"`
	PageInfo *pagination.PageInfo `json:"page_info"`
}

var (
	ErrInvalidID        = errors.New("invalid_plan_id")
	ErrInvalidName      = errors.New("invalid_plan_name")
	ErrInvalidPrice     = errors.New("invalid_plan_price")
	ErrInvalidAllowance = errors.New("invalid_plan_allowance")
	ErrInvalidStatus    = errors.New("invalid_plan_status")
	ErrDuplicateCode    = errors.New("duplicate_plan_code")
	ErrNotFound         = errors.New("plan_not_found")
)
