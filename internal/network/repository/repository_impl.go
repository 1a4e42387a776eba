package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/telvoralabs/telvora/internal/network/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) CreateEmployee(ctx context.Context, db *gorm.DB, employee *domain.Employee) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO employees (id, name, email, role, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		employee.ID,
		employee.Name,
		employee.Email,
		employee.Role,
		employee.Status,
		employee.CreatedAt,
	).Error
}

func (r *repo) FindEmployeeByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Employee, error) {
	var employee domain.Employee
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, email, role, status, created_at FROM employees WHERE id = ?`,
		id,
	).Scan(&employee).Error
	if err != nil {
		return nil, err
	}
	if employee.ID == 0 {
		return nil, nil
	}
	return &employee, nil
}

func (r *repo) FindEmployeeByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.Employee, error) {
	var employee domain.Employee
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, email, role, status, created_at FROM employees WHERE email = ?`,
		email,
	).Scan(&employee).Error
	if err != nil {
		return nil, err
	}
	if employee.ID == 0 {
		return nil, nil
	}
	return &employee, nil
}

func (r *repo) ListEmployees(ctx context.Context, db *gorm.DB) ([]domain.Employee, error) {
	var employees []domain.Employee
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, email, role, status, created_at FROM employees ORDER BY name`,
	).Scan(&employees).Error
	if err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *repo) CreateElement(ctx context.Context, db *gorm.DB, element *domain.NetworkElement) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO network_elements (id, type, status, location_id, employee_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		element.ID,
		element.Type,
		element.Status,
		element.LocationID,
		element.EmployeeID,
		element.CreatedAt,
	).Error
}

func (r *repo) FindElementByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.NetworkElement, error) {
	var element domain.NetworkElement
	err := db.WithContext(ctx).Raw(
		`SELECT id, type, status, location_id, employee_id, created_at
		 FROM network_elements WHERE id = ?`,
		id,
	).Scan(&element).Error
	if err != nil {
		return nil, err
	}
	if element.ID == 0 {
		return nil, nil
	}
	return &element, nil
}

func (r *repo) ListElements(ctx context.Context, db *gorm.DB, filter domain.ListElementsRequest) ([]domain.NetworkElement, error) {
	var elements []domain.NetworkElement
	stmt := db.WithContext(ctx).Model(&domain.NetworkElement{})

	if filter.Type != "" {
		stmt = stmt.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}

	if err := stmt.Order("created_at DESC").Find(&elements).Error; err != nil {
		return nil, err
	}
	return elements, nil
}

func (r *repo) UpdateElement(ctx context.Context, db *gorm.DB, element *domain.NetworkElement) error {
	return db.WithContext(ctx).Exec(
		`UPDATE network_elements SET status = ? WHERE id = ?`,
		element.Status,
		element.ID,
	).Error
}
