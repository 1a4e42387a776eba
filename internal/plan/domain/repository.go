package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, plan *ServicePlan) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*ServicePlan, error)
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*ServicePlan, error)
	List(ctx context.Context, db *gorm.DB, filter ListRequest) ([]ServicePlan, error)
	Update(ctx context.Context, db *gorm.DB, plan *ServicePlan) error
}
