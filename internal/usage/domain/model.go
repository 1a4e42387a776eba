package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type UsageType string

const (
	UsageTypeCall UsageType = "call"
	UsageTypeSMS  UsageType = "sms"
	UsageTypeData UsageType = "data"
)

// UsageRecord is one usage event. Amount semantics depend on Type:
// minutes for call, message count for sms, megabytes for data.
type UsageRecord struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	Type             UsageType    `gorm:"type:text;not null" json:"type"`
	Amount           int64        `gorm:"not null" json:"amount"`
	SubscriptionID   snowflake.ID `gorm:"not null;index" json:"subscription_id"`
	NetworkElementID snowflake.ID `gorm:"not null;index" json:"network_element_id"`
	TimeID           snowflake.ID `gorm:"not null;index" json:"time_id"`
	CreatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (UsageRecord) TableName() string { return "usage_records" }

func ValidType(t UsageType) bool {
	return t == UsageTypeCall || t == UsageTypeSMS || t == UsageTypeData
}
