// Package domain contains the reference lookup models shared by the
// subscriber and network domains.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Location is a city/country lookup row. IDs are never renumbered once
// another row references them.
type Location struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	City      string       `gorm:"type:text;not null;uniqueIndex:idx_locations_city_country" json:"city"`
	Country   string       `gorm:"type:text;not null;uniqueIndex:idx_locations_city_country" json:"country"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Location) TableName() string { return "locations" }

// PartOfDay buckets a timestamp's hour for reporting.
type PartOfDay string

const (
	PartOfDayMorning   PartOfDay = "morning"
	PartOfDayAfternoon PartOfDay = "afternoon"
	PartOfDayEvening   PartOfDay = "evening"
	PartOfDayNight     PartOfDay = "night"
)

// TimeDimension holds one row per distinct timestamp referenced by usage
// records, pre-classified for reporting.
type TimeDimension struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Timestamp time.Time    `gorm:"not null;uniqueIndex" json:"timestamp"`
	DayOfWeek string       `gorm:"type:text;not null" json:"day_of_week"`
	PartOfDay PartOfDay    `gorm:"type:text;not null" json:"part_of_day"`
}

// TableName sets the database table name.
func (TimeDimension) TableName() string { return "time_dimension" }

// ClassifyPartOfDay maps an hour to its reporting bucket:
// 05-11 morning, 12-16 afternoon, 17-21 evening, otherwise night.
func ClassifyPartOfDay(t time.Time) PartOfDay {
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return PartOfDayMorning
	case h >= 12 && h < 17:
		return PartOfDayAfternoon
	case h >= 17 && h < 22:
		return PartOfDayEvening
	default:
		return PartOfDayNight
	}
}

// NewTimeDimension classifies a timestamp into a dimension row.
func NewTimeDimension(id snowflake.ID, ts time.Time) TimeDimension {
	ts = ts.UTC().Truncate(time.Second)
	return TimeDimension{
		ID:        id,
		Timestamp: ts,
		DayOfWeek: ts.Weekday().String(),
		PartOfDay: ClassifyPartOfDay(ts),
	}
}
