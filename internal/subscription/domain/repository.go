package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, subscription *Subscription) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Subscription, error)
	List(ctx context.Context, db *gorm.DB, filter ListRequest) ([]Subscription, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status SubscriptionStatus) error

	ApplyPromotion(ctx context.Context, db *gorm.DB, link *SubscriptionPromotion) error
	FindAppliedPromotion(ctx context.Context, db *gorm.DB, subscriptionID, promotionID snowflake.ID) (*SubscriptionPromotion, error)
}
