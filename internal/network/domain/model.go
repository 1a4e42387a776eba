package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type EmployeeRole string

const (
	EmployeeRoleSupport      EmployeeRole = "support"
	EmployeeRoleNetworkAdmin EmployeeRole = "network_admin"
)

type EmployeeStatus string

const (
	EmployeeStatusActive   EmployeeStatus = "active"
	EmployeeStatusInactive EmployeeStatus = "inactive"
)

// Employee is a staff record. Support tickets and network elements
// reference employees, so deletes are restricted.
type Employee struct {
	ID        snowflake.ID   `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"type:text;not null" json:"name"`
	Email     string         `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Role      EmployeeRole   `gorm:"type:text;not null" json:"role"`
	Status    EmployeeStatus `gorm:"type:text;not null;default:active" json:"status"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Employee) TableName() string { return "employees" }

type ElementType string

const (
	ElementTypeTower  ElementType = "tower"
	ElementTypeRouter ElementType = "router"
	ElementTypeSwitch ElementType = "switch"
)

type ElementStatus string

const (
	ElementStatusActive      ElementStatus = "active"
	ElementStatusInactive    ElementStatus = "inactive"
	ElementStatusMaintenance ElementStatus = "maintenance"
)

// NetworkElement is one infrastructure unit at a location, owned by an
// employee responsible for it.
type NetworkElement struct {
	ID         snowflake.ID  `gorm:"primaryKey" json:"id"`
	Type       ElementType   `gorm:"type:text;not null" json:"type"`
	Status     ElementStatus `gorm:"type:text;not null;default:active" json:"status"`
	LocationID snowflake.ID  `gorm:"not null;index" json:"location_id"`
	EmployeeID snowflake.ID  `gorm:"not null;index" json:"employee_id"`
	CreatedAt  time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (NetworkElement) TableName() string { return "network_elements" }

func ValidRole(r EmployeeRole) bool {
	return r == EmployeeRoleSupport || r == EmployeeRoleNetworkAdmin
}

func ValidElementType(t ElementType) bool {
	return t == ElementTypeTower || t == ElementTypeRouter || t == ElementTypeSwitch
}

func ValidElementStatus(s ElementStatus) bool {
	return s == ElementStatusActive || s == ElementStatusInactive || s == ElementStatusMaintenance
}
