package domain

import (
	"regexp"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

// emailPattern requires exactly one "@" and at least one "." after it.
var emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// ValidEmail reports whether the address satisfies the subscriber email
// rule enforced on create and update.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidStatus reports whether s is a recognized customer status.
func ValidStatus(s CustomerStatus) bool {
	return s == CustomerStatusActive || s == CustomerStatusInactive
}

// Customer is a subscriber. Phone is unique, the location must exist, and
// delete is restricted while subscriptions, tickets or ledger transactions
// reference the row.
type Customer struct {
	ID               snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name             string            `gorm:"type:text;not null" json:"name"`
	Phone            string            `gorm:"type:text;not null;uniqueIndex" json:"phone"`
	Email            string            `gorm:"type:text;not null" json:"email"`
	LocationID       snowflake.ID      `gorm:"not null;index" json:"location_id"`
	RegistrationDate time.Time         `gorm:"not null" json:"registration_date"`
	Status           CustomerStatus    `gorm:"type:text;not null;default:active" json:"status"`
	Metadata         datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt        time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Customer) TableName() string { return "customers" }
