package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/telvoralabs/telvora/internal/customer/domain"
	"github.com/telvoralabs/telvora/pkg/db/option"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO customers (id, name, phone, email, location_id, registration_date, status, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		customer.ID,
		customer.Name,
		customer.Phone,
		customer.Email,
		customer.LocationID,
		customer.RegistrationDate,
		customer.Status,
		customer.Metadata,
		customer.CreatedAt,
		customer.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, phone, email, location_id, registration_date, status, metadata, created_at, updated_at
		 FROM customers WHERE id = ?`,
		id,
	).Scan(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == 0 {
		return nil, nil
	}
	return &customer, nil
}

func (r *repo) FindByPhone(ctx context.Context, db *gorm.DB, phone string) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, phone, email, location_id, registration_date, status, metadata, created_at, updated_at
		 FROM customers WHERE phone = ?`,
		phone,
	).Scan(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == 0 {
		return nil, nil
	}
	return &customer, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListRequest) ([]domain.Customer, error) {
	var customers []domain.Customer
	stmt := db.WithContext(ctx).Model(&domain.Customer{})

	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.City != "" {
		stmt = stmt.Where(
			"location_id IN (SELECT id FROM locations WHERE city = ?)",
			filter.City,
		)
	}

	stmt = option.WithSortBy(filter.SortBy, filter.OrderBy, map[string]bool{
		"created_at":        true,
		"name":              true,
		"registration_date": true,
	}).Apply(stmt)
	stmt = option.ApplyPagination(filter.Pagination).Apply(stmt)

	if err := stmt.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Exec(
		`UPDATE customers SET name = ?, email = ?, status = ?, updated_at = ? WHERE id = ?`,
		customer.Name,
		customer.Email,
		customer.Status,
		customer.UpdatedAt,
		customer.ID,
	).Error
}
