package reference

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/telvoralabs/telvora/internal/reference/domain"
	pkgdb "github.com/telvoralabs/telvora/pkg/db"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) ListLocations(ctx context.Context) ([]domain.Location, error) {
	var locations []domain.Location
	err := r.db.WithContext(ctx).
		Raw(`SELECT id, city, country, created_at FROM locations ORDER BY country, city`).
		Scan(&locations).Error
	if err != nil {
		return nil, err
	}

	return locations, nil
}

func (r *repository) FindLocationByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Location, error) {
	var location domain.Location
	err := db.WithContext(ctx).
		Raw(`SELECT id, city, country, created_at FROM locations WHERE id = ?`, id).
		Scan(&location).Error
	if err != nil {
		return nil, err
	}
	if location.ID == 0 {
		return nil, nil
	}
	return &location, nil
}

func (r *repository) InsertLocation(ctx context.Context, db *gorm.DB, location *domain.Location) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO locations (id, city, country, created_at) VALUES (?, ?, ?, ?)`,
		location.ID,
		location.City,
		location.Country,
		location.CreatedAt,
	).Error
}

func (r *repository) EnsureTimeRow(ctx context.Context, db *gorm.DB, id snowflake.ID, ts time.Time) (*domain.TimeDimension, error) {
	ts = ts.UTC().Truncate(time.Second)

	var row domain.TimeDimension
	err := db.WithContext(ctx).
		Where("timestamp = ?", ts).
		First(&row).Error
	if err == nil {
		return &row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	row = domain.NewTimeDimension(id, ts)
	if err := db.WithContext(ctx).Create(&row).Error; err != nil {
		// Another writer may have created the same instant concurrently.
		if pkgdb.IsDuplicateKeyErr(err) {
			var existing domain.TimeDimension
			if findErr := db.WithContext(ctx).Where("timestamp = ?", ts).First(&existing).Error; findErr == nil {
				return &existing, nil
			}
		}
		return nil, err
	}

	return &row, nil
}
