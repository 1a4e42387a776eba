package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, txn *Transaction) error
	List(ctx context.Context, db *gorm.DB, filter ListRequest) ([]Transaction, error)
}
