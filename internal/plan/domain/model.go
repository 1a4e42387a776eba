package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type PlanStatus string

const (
	PlanStatusActive   PlanStatus = "active"
	PlanStatusInactive PlanStatus = "inactive"
)

// ServicePlan is a billable plan definition. Price is in minor units and
// strictly positive; allowances are non-negative.
type ServicePlan struct {
	ID               snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name             string            `gorm:"type:text;not null" json:"name"`
	Code             string            `gorm:"type:text;not null;uniqueIndex" json:"code"`
	Price            int64             `gorm:"not null" json:"price"`
	DataLimitMB      int64             `gorm:"column:data_limit_mb;not null;default:0" json:"data_limit_mb"`
	CallLimitMinutes int64             `gorm:"not null;default:0" json:"call_limit_minutes"`
	SMSLimit         int64             `gorm:"column:sms_limit;not null;default:0" json:"sms_limit"`
	ValidityDays     int               `gorm:"not null;default:30" json:"validity_days"`
	Status           PlanStatus        `gorm:"type:text;not null;default:active" json:"status"`
	Metadata         datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt        time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (ServicePlan) TableName() string { return "service_plans" }

// ValidStatus reports whether s is a recognized plan status.
func ValidStatus(s PlanStatus) bool {
	return s == PlanStatusActive || s == PlanStatusInactive
}
