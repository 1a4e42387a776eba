package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/telvoralabs/telvora/internal/plan/domain"
	"github.com/telvoralabs/telvora/pkg/db/option"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, plan *domain.ServicePlan) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO service_plans (id, name, code, price, data_limit_mb, call_limit_minutes, sms_limit, validity_days, status, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		plan.ID,
		plan.Name,
		plan.Code,
		plan.Price,
		plan.DataLimitMB,
		plan.CallLimitMinutes,
		plan.SMSLimit,
		plan.ValidityDays,
		plan.Status,
		plan.Metadata,
		plan.CreatedAt,
		plan.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.ServicePlan, error) {
	var plan domain.ServicePlan
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, code, price, data_limit_mb, call_limit_minutes, sms_limit, validity_days, status, metadata, created_at, updated_at
		 FROM service_plans WHERE id = ?`,
		id,
	).Scan(&plan).Error
	if err != nil {
		return nil, err
	}
	if plan.ID == 0 {
		return nil, nil
	}
	return &plan, nil
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, code string) (*domain.ServicePlan, error) {
	var plan domain.ServicePlan
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, code, price, data_limit_mb, call_limit_minutes, sms_limit, validity_days, status, metadata, created_at, updated_at
		 FROM service_plans WHERE code = ?`,
		code,
	).Scan(&plan).Error
	if err != nil {
		return nil, err
	}
	if plan.ID == 0 {
		return nil, nil
	}
	return &plan, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListRequest) ([]domain.ServicePlan, error) {
	var plans []domain.ServicePlan
	stmt := db.WithContext(ctx).Model(&domain.ServicePlan{})

	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}

	stmt = option.WithSortBy(filter.SortBy, filter.OrderBy, map[string]bool{
		"created_at": true,
		"name":       true,
		"price":      true,
	}).Apply(stmt)
	stmt = option.ApplyPagination(filter.Pagination).Apply(stmt)

	if err := stmt.Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, plan *domain.ServicePlan) error {
	return db.WithContext(ctx).Exec(
		`UPDATE service_plans
		 SET name = ?, price = ?, data_limit_mb = ?, validity_days = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		plan.Name,
		plan.Price,
		plan.DataLimitMB,
		plan.ValidityDays,
		plan.Status,
		plan.UpdatedAt,
		plan.ID,
	).Error
}
