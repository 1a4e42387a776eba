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
	Cancel(ctx context.Context, id string) (*Response, error)
	ApplyPromotion(ctx context.Context, req ApplyPromotionRequest) (*AppliedPromotionResponse, error)
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	CustomerID string    `json:"customer_id"`
	PlanID     string    `json:"plan_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
}

type ListRequest struct {
	CustomerID string `form:"customer_id"`
	PlanID     string `form:"plan_id"`
	Status     string `form:"status"`
}

type ApplyPromotionRequest struct {
	SubscriptionID string `json:"-"`
	PromotionID    string `json:"promotion_id"`
}

type Response struct {
	ID         string             `json:"id"`
	CustomerID string             `json:"customer_id"`
	PlanID     string             `json:"plan_id"`
	StartDate  time.Time          `json:"start_date"`
	EndDate    time.Time          `json:"end_date"`
	Status     SubscriptionStatus `json:"status"`
	CreatedAt  time.Time          `json:"created_at"`
}

type AppliedPromotionResponse struct {
	SubscriptionID string    `json:"subscription_id"`
	PromotionID    string    `json:"promotion_id"`
	AppliedDate    time.Time `json:"applied_date"`
}

var (
	ErrInvalidID          = errors.New("invalid_subscription_id")
	ErrInvalidCustomer    = errors.New("invalid_subscription_customer")
	ErrInvalidPlan        = errors.New("invalid_subscription_plan")
	ErrInvalidPeriod      = errors.New("invalid_subscription_period")
	ErrInvalidPromotion   = errors.New("invalid_subscription_promotion")
	ErrPromotionPlanMatch = errors.New("promotion_plan_mismatch")
	ErrPromotionInactive  = errors.New("promotion_inactive")
	ErrPromotionApplied   = errors.New("promotion_already_applied")
	ErrAlreadyCancelled   = errors.New("subscription_already_cancelled")
	ErrNotFound           = errors.New("subscription_not_found")
)
