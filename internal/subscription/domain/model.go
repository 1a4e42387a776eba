package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// Subscription binds a customer to a plan over a period. StartDate is
// always strictly before EndDate; the same rule is a CHECK constraint in
// the schema.
type Subscription struct {
	ID         snowflake.ID       `gorm:"primaryKey" json:"id"`
	CustomerID snowflake.ID       `gorm:"not null;index" json:"customer_id"`
	PlanID     snowflake.ID       `gorm:"not null;index" json:"plan_id"`
	StartDate  time.Time          `gorm:"not null" json:"start_date"`
	EndDate    time.Time          `gorm:"not null" json:"end_date"`
	Status     SubscriptionStatus `gorm:"type:text;not null;default:active" json:"status"`
	CreatedAt  time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Subscription) TableName() string { return "subscriptions" }

// SubscriptionPromotion links an applied promotion to a subscription.
// Rows follow their parents: deleting either side removes the link.
type SubscriptionPromotion struct {
	SubscriptionID snowflake.ID `gorm:"primaryKey;autoIncrement:false" json:"subscription_id"`
	PromotionID    snowflake.ID `gorm:"primaryKey;autoIncrement:false" json:"promotion_id"`
	AppliedDate    time.Time    `gorm:"not null" json:"applied_date"`
}

// TableName sets the database table name.
func (SubscriptionPromotion) TableName() string { return "subscription_promotions" }

func ValidStatus(s SubscriptionStatus) bool {
	return s == SubscriptionStatusActive || s == SubscriptionStatusExpired || s == SubscriptionStatusCancelled
}
