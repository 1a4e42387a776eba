package option

import (
	"github.com/telvoralabs/telvora/pkg/db/pagination"
	"gorm.io/gorm"
)

// Option mutates a gorm statement before execution.
type Option interface {
	Apply(*gorm.DB) *gorm.DB
}

type sortOption struct {
	expr string
}

// WithSortBy orders results by a whitelisted column. Unknown columns fall
// back to created_at descending so callers cannot inject order clauses.
func WithSortBy(column, direction string, allowed map[string]bool) Option {
	if !allowed[column] {
		column = "created_at"
	}
	if direction != "asc" {
		direction = "desc"
	}
	return sortOption{expr: column + " " + direction}
}

func (o sortOption) Apply(stmt *gorm.DB) *gorm.DB {
	return stmt.Order(o.expr)
}

type paginationOption struct {
	page pagination.Pagination
}

func ApplyPagination(page pagination.Pagination) Option {
	return paginationOption{page: page}
}

func (o paginationOption) Apply(stmt *gorm.DB) *gorm.DB {
	size := o.page.PageSize
	if size <= 0 {
		size = 10
	}
	if size > 250 {
		size = 250
	}

	if token := o.page.PageToken; token != "" {
		cursor, err := pagination.DecodeCursor(token)
		if err == nil && cursor.CreatedAt != "" {
			stmt = stmt.Where("created_at < ?", cursor.CreatedAt)
		}
	}

	// Fetch one extra row so callers can detect a next page.
	return stmt.Limit(size + 1)
}
