package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, record *UsageRecord) error
	List(ctx context.Context, db *gorm.DB, filter ListRequest) ([]UsageRecord, error)
}
