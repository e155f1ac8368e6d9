package services

import (
	"fmt"
	"strconv"

	"gorm.io/gorm"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// Pagination describes one page of a list result
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// NewPagination computes the page count for a total row count
func NewPagination(total int64, page, limit int) Pagination {
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return Pagination{Total: total, Page: page, Limit: limit, Pages: pages}
}

// ParsePageLimit parses page/limit query values, falling back to 1 and 10
// for missing or non-positive input.
func ParsePageLimit(pageStr, limitStr string) (page, limit int) {
	page = defaultPage
	limit = defaultLimit
	if v, err := strconv.Atoi(pageStr); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(limitStr); err == nil && v > 0 {
		limit = v
	}
	return page, limit
}

// paginate applies offset/limit for a page
func paginate(db *gorm.DB, page, limit int) *gorm.DB {
	return db.Offset((page - 1) * limit).Limit(limit)
}

// applySearch adds a case-insensitive substring match over the given string
// columns. LOWER/LIKE is used instead of ILIKE so the clause behaves the same
// on PostgreSQL and the SQLite test database.
func applySearch(db *gorm.DB, term string, columns []string) *gorm.DB {
	if term == "" || len(columns) == 0 {
		return db
	}
	pattern := "%" + term + "%"
	clause := db.Session(&gorm.Session{NewDB: true})
	for i, col := range columns {
		cond := fmt.Sprintf("LOWER(%s) LIKE LOWER(?)", col)
		if i == 0 {
			clause = clause.Where(cond, pattern)
		} else {
			clause = clause.Or(cond, pattern)
		}
	}
	return db.Where(clause)
}
