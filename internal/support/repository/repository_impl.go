package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/telvoralabs/telvora/internal/support/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, ticket *domain.Ticket) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO support_tickets (id, type, status, priority, customer_id, employee_id, created_at, closed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ticket.ID,
		ticket.Type,
		ticket.Status,
		ticket.Priority,
		ticket.CustomerID,
		ticket.EmployeeID,
		ticket.CreatedAt,
		ticket.ClosedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Ticket, error) {
	var ticket domain.Ticket
	err := db.WithContext(ctx).Raw(
		`SELECT id, type, status, priority, customer_id, employee_id, created_at, closed_at
		 FROM support_tickets WHERE id = ?`,
		id,
	).Scan(&ticket).Error
	if err != nil {
		return nil, err
	}
	if ticket.ID == 0 {
		return nil, nil
	}
	return &ticket, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListRequest) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	stmt := db.WithContext(ctx).Model(&domain.Ticket{})

	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != "" {
		stmt = stmt.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.EmployeeID != "" {
		stmt = stmt.Where("employee_id = ?", filter.EmployeeID)
	}

	if err := stmt.Order("created_at DESC").Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, ticket *domain.Ticket) error {
	return db.WithContext(ctx).Exec(
		`UPDATE support_tickets SET status = ?, closed_at = ? WHERE id = ?`,
		ticket.Status,
		ticket.ClosedAt,
		ticket.ID,
	).Error
}
