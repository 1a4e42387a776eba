package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Post(ctx context.Context, req PostRequest) (*Response, error)
	// PostBatch stages entries inside one transaction with a savepoint
	// per entry. Invalid entries are rolled back to their savepoint and
	// skipped; the commit persists every valid entry.
	PostBatch(ctx context.Context, req BatchRequest) (*BatchResponse, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
}

type PostRequest struct {
	CustomerID string    `json:"customer_id"`
	Type       string    `json:"type"`
	Amount     int64     `json:"amount"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
}

type BatchRequest struct {
	Entries []PostRequest `json:"entries"`
}

type ListRequest struct {
	CustomerID string `form:"customer_id"`
	Type       string `form:"type"`
	Status     string `form:"status"`
}

type Response struct {
	ID         string            `json:"id"`
	CustomerID string            `json:"customer_id"`
	Type       TransactionType   `json:"type"`
	Amount     int64             `json:"amount"`
	Status     TransactionStatus `json:"status"`
	Reference  string            `json:"reference"`
	Timestamp  time.Time         `json:"timestamp"`
}

// BatchEntryError reports one rejected batch entry by position.
type BatchEntryError struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

type BatchResponse struct {
	Posted   []Response        `json:"posted"`
	Rejected []BatchEntryError `json:"rejected"`
}

var (
	ErrInvalidCustomer = errors.New("invalid_transaction_customer")
	ErrInvalidType     = errors.New("invalid_transaction_type")
	ErrInvalidAmount   = errors.New("invalid_transaction_amount")
	ErrInvalidStatus   = errors.New("invalid_transaction_status")
	ErrEmptyBatch      = errors.New("empty_transaction_batch")
)
