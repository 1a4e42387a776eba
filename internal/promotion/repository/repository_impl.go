package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/telvoralabs/telvora/internal/promotion/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, promotion *domain.Promotion) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO promotions (id, name, discount_value, start_date, end_date, status, plan_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		promotion.ID,
		promotion.Name,
		promotion.DiscountValue,
		promotion.StartDate,
		promotion.EndDate,
		promotion.Status,
		promotion.PlanID,
		promotion.CreatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Promotion, error) {
	var promotion domain.Promotion
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, discount_value, start_date, end_date, status, plan_id, created_at
		 FROM promotions WHERE id = ?`,
		id,
	).Scan(&promotion).Error
	if err != nil {
		return nil, err
	}
	if promotion.ID == 0 {
		return nil, nil
	}
	return &promotion, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListRequest) ([]domain.Promotion, error) {
	var promotions []domain.Promotion
	stmt := db.WithContext(ctx).Model(&domain.Promotion{})

	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.PlanID != "" {
		stmt = stmt.Where("plan_id = ?", filter.PlanID)
	}

	if err := stmt.Order("start_date DESC").Find(&promotions).Error; err != nil {
		return nil, err
	}
	return promotions, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, promotion *domain.Promotion) error {
	return db.WithContext(ctx).Exec(
		`UPDATE promotions SET status = ? WHERE id = ?`,
		promotion.Status,
		promotion.ID,
	).Error
}
