package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Ingest(ctx context.Context, req IngestRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
}

type IngestRequest struct {
	Type             string    `json:"type"`
	Amount           int64     `json:"amount"`
	SubscriptionID   string    `json:"subscription_id"`
	NetworkElementID string    `json:"network_element_id"`
	Timestamp        time.Time `json:"timestamp"`
}

type ListRequest struct {
	SubscriptionID string `form:"subscription_id"`
	Type           string `form:"type"`
}

type Response struct {
	ID               string    `json:"id"`
	Type             UsageType `json:"type"`
	Amount           int64     `json:"amount"`
	SubscriptionID   string    `json:"subscription_id"`
	NetworkElementID string    `json:"network_element_id"`
	Timestamp        time.Time `json:"timestamp"`
	DayOfWeek        string    `json:"day_of_week"`
	PartOfDay        string    `json:"part_of_day"`
}

var (
	ErrInvalidType         = errors.New("invalid_usage_type")
	ErrInvalidAmount       = errors.New("invalid_usage_amount")
	ErrInvalidSubscription = errors.New("invalid_usage_subscription")
	ErrInvalidElement      = errors.New("invalid_usage_element")
	ErrRateLimited         = errors.New("usage_ingest_rate_limited")
)
