package repository

import (
	"context"

	"github.com/telvoralabs/telvora/internal/ledger/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, txn *domain.Transaction) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO transactions (id, customer_id, type, amount, status, reference, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		txn.ID,
		txn.CustomerID,
		txn.Type,
		txn.Amount,
		txn.Status,
		txn.Reference,
		txn.Timestamp,
	).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListRequest) ([]domain.Transaction, error) {
	var txns []domain.Transaction
	stmt := db.WithContext(ctx).Model(&domain.Transaction{})

	if filter.CustomerID != "" {
		stmt = stmt.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Type != "" {
		stmt = stmt.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}

	if err := stmt.Order("timestamp DESC").Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}
