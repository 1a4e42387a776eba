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
	Expire(ctx context.Context, id string) (*Response, error)
}

type CreateRequest struct {
	Name          string    `json:"name"`
	DiscountValue int64     `json:"discount_value"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	PlanID        string    `json:"plan_id"`
}

type ListRequest struct {
	Status string `form:"status"`
	PlanID string `form:"plan_id"`
}

type Response struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	DiscountValue int64           `json:"discount_value"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	Status        PromotionStatus `json:"status"`
	PlanID        string          `json:"plan_id"`
	CreatedAt     time.Time       `json:"created_at"`
}

var (
	ErrInvalidID       = errors.New("invalid_promotion_id")
	ErrInvalidName     = errors.New("invalid_promotion_name")
	ErrInvalidDiscount = errors.New("invalid_promotion_discount")
	ErrInvalidPeriod   = errors.New("invalid_promotion_period")
	ErrInvalidPlan     = errors.New("invalid_promotion_plan")
	ErrAlreadyExpired  = errors.New("promotion_already_expired")
	ErrNotFound        = errors.New("promotion_not_found")
)
