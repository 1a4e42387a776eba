package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	ListLocations(ctx context.Context) ([]Location, error)
	FindLocationByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Location, error)
	InsertLocation(ctx context.Context, db *gorm.DB, location *Location) error
	// EnsureTimeRow returns the dimension row for a timestamp, creating it
	// if this is the first usage record at that instant.
	EnsureTimeRow(ctx context.Context, db *gorm.DB, id snowflake.ID, ts time.Time) (*TimeDimension, error)
}
