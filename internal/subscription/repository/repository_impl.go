package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/telvoralabs/telvora/internal/subscription/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, subscription *domain.Subscription) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO subscriptions (id, customer_id, plan_id, start_date, end_date, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		subscription.ID,
		subscription.CustomerID,
		subscription.PlanID,
		subscription.StartDate,
		subscription.EndDate,
		subscription.Status,
		subscription.CreatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Subscription, error) {
	var subscription domain.Subscription
	err := db.WithContext(ctx).Raw(
		`SELECT id, customer_id, plan_id, start_date, end_date, status, created_at
		 FROM subscriptions WHERE id = ?`,
		id,
	).Scan(&subscription).Error
	if err != nil {
		return nil, err
	}
	if subscription.ID == 0 {
		return nil, nil
	}
	return &subscription, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListRequest) ([]domain.Subscription, error) {
	var subscriptions []domain.Subscription
	stmt := db.WithContext(ctx).Model(&domain.Subscription{})

	if filter.CustomerID != "" {
		stmt = stmt.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.PlanID != "" {
		stmt = stmt.Where("plan_id = ?", filter.PlanID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}

	if err := stmt.Order("start_date DESC").Find(&subscriptions).Error; err != nil {
		return nil, err
	}
	return subscriptions, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status domain.SubscriptionStatus) error {
	return db.WithContext(ctx).Exec(
		`UPDATE subscriptions SET status = ? WHERE id = ?`,
		status,
		id,
	).Error
}

func (r *repo) ApplyPromotion(ctx context.Context, db *gorm.DB, link *domain.SubscriptionPromotion) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO subscription_promotions (subscription_id, promotion_id, applied_date)
		 VALUES (?, ?, ?)`,
		link.SubscriptionID,
		link.PromotionID,
		link.AppliedDate,
	).Error
}

func (r *repo) FindAppliedPromotion(ctx context.Context, db *gorm.DB, subscriptionID, promotionID snowflake.ID) (*domain.SubscriptionPromotion, error) {
	var link domain.SubscriptionPromotion
	err := db.WithContext(ctx).Raw(
		`SELECT subscription_id, promotion_id, applied_date
		 FROM subscription_promotions WHERE subscription_id = ? AND promotion_id = ?`,
		subscriptionID,
		promotionID,
	).Scan(&link).Error
	if err != nil {
		return nil, err
	}
	if link.SubscriptionID == 0 {
		return nil, nil
	}
	return &link, nil
}
