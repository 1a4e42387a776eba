package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, promotion *Promotion) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Promotion, error)
	List(ctx context.Context, db *gorm.DB, filter ListRequest) ([]Promotion, error)
	Update(ctx context.Context, db *gorm.DB, promotion *Promotion) error
}
