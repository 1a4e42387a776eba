package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	CreateEmployee(ctx context.Context, db *gorm.DB, employee *Employee) error
	FindEmployeeByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Employee, error)
	FindEmployeeByEmail(ctx context.Context, db *gorm.DB, email string) (*Employee, error)
	ListEmployees(ctx context.Context, db *gorm.DB) ([]Employee, error)

	CreateElement(ctx context.Context, db *gorm.DB, element *NetworkElement) error
	FindElementByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*NetworkElement, error)
	ListElements(ctx context.Context, db *gorm.DB, filter ListElementsRequest) ([]NetworkElement, error)
	UpdateElement(ctx context.Context, db *gorm.DB, element *NetworkElement) error
}
