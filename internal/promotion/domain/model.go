package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type PromotionStatus string

const (
	PromotionStatusActive  PromotionStatus = "active"
	PromotionStatusExpired PromotionStatus = "expired"
)

// Promotion is a discount campaign tied to one plan. DiscountValue is in
// minor units.
type Promotion struct {
	ID            snowflake.ID    `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"type:text;not null" json:"name"`
	DiscountValue int64           `gorm:"not null" json:"discount_value"`
	StartDate     time.Time       `gorm:"not null" json:"start_date"`
	EndDate       time.Time       `gorm:"not null" json:"end_date"`
	Status        PromotionStatus `gorm:"type:text;not null;default:active" json:"status"`
	PlanID        snowflake.ID    `gorm:"not null;index" json:"plan_id"`
	CreatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Promotion) TableName() string { return "promotions" }

func ValidStatus(s PromotionStatus) bool {
	return s == PromotionStatusActive || s == PromotionStatusExpired
}
