// Package option builds parameter-bound gorm query fragments from a closed
// set of column names. Values are always bound, never interpolated.
package option

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

var ErrInvalidField = errors.New("invalid_query_field")

var fieldRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*(\.[a-z_][a-z0-9_]*)?$`)

type QueryOption interface {
	Apply(db *gorm.DB) *gorm.DB
}

type QueryOptionFunc func(db *gorm.DB) *gorm.DB

func (f QueryOptionFunc) Apply(db *gorm.DB) *gorm.DB { return f(db) }

type Operator string

const (
	EQ  Operator = "="
	NEQ Operator = "<>"
	GT  Operator = ">"
	GTE Operator = ">="
	LT  Operator = "<"
	LTE Operator = "<="
	IN  Operator = "IN"
)

// Condition is a single "<field> <op> ?" predicate.
type Condition struct {
	Field    string
	Operator Operator
	Value    any
}

// ApplyOperator appends cond to the WHERE clause. Unknown operators and
// malformed field names fail the statement with ErrInvalidField.
func ApplyOperator(cond Condition) QueryOption {
	return QueryOptionFunc(func(db *gorm.DB) *gorm.DB {
		field := strings.TrimSpace(cond.Field)
		if !fieldRe.MatchString(field) {
			_ = db.AddError(fmt.Errorf("%w: %q", ErrInvalidField, cond.Field))
			return db
		}
		switch cond.Operator {
		case EQ, NEQ, GT, GTE, LT, LTE:
			return db.Where(fmt.Sprintf("%s %s ?", field, cond.Operator), cond.Value)
		case IN:
			return db.Where(fmt.Sprintf("%s IN ?", field), cond.Value)
		default:
			_ = db.AddError(fmt.Errorf("%w: operator %q", ErrInvalidField, cond.Operator))
			return db
		}
	})
}

// QuerySortBy describes an ORDER BY restricted to Allow.
type QuerySortBy struct {
	SortBy  string
	OrderBy string
	Allow   map[string]bool
}

func WithQuerySortBy(sortBy, orderBy string, allow map[string]bool) QuerySortBy {
	return QuerySortBy{
		SortBy:  strings.TrimSpace(sortBy),
		OrderBy: strings.ToLower(strings.TrimSpace(orderBy)),
		Allow:   allow,
	}
}

// WithSortBy applies the sort when the column is allowed and falls back to
// created_at desc when allowed, otherwise leaves the statement untouched.
func WithSortBy(s QuerySortBy) QueryOption {
	return QueryOptionFunc(func(db *gorm.DB) *gorm.DB {
		column := s.SortBy
		if column == "" || !s.Allow[column] {
			if !s.Allow["created_at"] {
				return db
			}
			column = "created_at"
			if s.OrderBy == "" {
				s.OrderBy = "desc"
			}
		}
		direction := "asc"
		if s.OrderBy == "desc" {
			direction = "desc"
		}
		return db.Order(column + " " + direction)
	})
}

func ApplyPagination(limit, offset int) QueryOption {
	return QueryOptionFunc(func(db *gorm.DB) *gorm.DB {
		if limit > 0 {
			db = db.Limit(limit)
		}
		if offset > 0 {
			db = db.Offset(offset)
		}
		return db
	})
}

// Apply folds opts over db in order.
func Apply(db *gorm.DB, opts ...QueryOption) *gorm.DB {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		db = opt.Apply(db)
	}
	return db
}
