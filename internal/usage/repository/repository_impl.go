package repository

import (
	"context"

	"github.com/telvoralabs/telvora/internal/usage/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, record *domain.UsageRecord) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO usage_records (id, type, amount, subscription_id, network_element_id, time_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Type,
		record.Amount,
		record.SubscriptionID,
		record.NetworkElementID,
		record.TimeID,
		record.CreatedAt,
	).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListRequest) ([]domain.UsageRecord, error) {
	var records []domain.UsageRecord
	stmt := db.WithContext(ctx).Model(&domain.UsageRecord{})

	if filter.SubscriptionID != "" {
		stmt = stmt.Where("subscription_id = ?", filter.SubscriptionID)
	}
	if filter.Type != "" {
		stmt = stmt.Where("type = ?", filter.Type)
	}

	if err := stmt.Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
