package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	CreateBilling(ctx context.Context, db *gorm.DB, billing *Billing) error
	FindBillingByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Billing, error)
	ListBillings(ctx context.Context, db *gorm.DB, filter ListBillingsRequest) ([]Billing, error)
	UpdateBillingStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status BillingStatus) error

	CreatePayment(ctx context.Context, db *gorm.DB, payment *Payment) error
	CustomerBillingSummary(ctx context.Context, db *gorm.DB, customerID snowflake.ID) ([]SummaryRow, error)
}
