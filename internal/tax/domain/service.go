package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// ExpenseTypeLookup resolves an expense type by id through db, which is
// the caller's transaction when it has one. A missing type is reported as
// (nil, nil).
type ExpenseTypeLookup interface {
	LookupExpenseType(ctx context.Context, db *gorm.DB, id snowflake.ID) (*ExpenseType, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Deactivate(ctx context.Context, id string) (*Response, error)
	Delete(ctx context.Context, id string) error
}

type ListRequest struct {
	Name     string
	IsActive *bool
	SortBy   string
	OrderBy  string
}

type CreateRequest struct {
	Name              string  `json:"name"`
	DefaultCGSTRateBP int64   `json:"default_cgst_rate_bp"`
	DefaultSGSTRateBP int64   `json:"default_sgst_rate_bp"`
	DefaultIGSTRateBP int64   `json:"default_igst_rate_bp"`
	Description       *string `json:"description"`
	IsActive          *bool   `json:"is_active"`
}

type UpdateRequest struct {
	ID                string  `json:"id"`
	Name              *string `json:"name,omitempty"`
	DefaultCGSTRateBP *int64  `json:"default_cgst_rate_bp,omitempty"`
	DefaultSGSTRateBP *int64  `json:"default_sgst_rate_bp,omitempty"`
	DefaultIGSTRateBP *int64  `json:"default_igst_rate_bp,omitempty"`
	Description       *string `json:"description,omitempty"`
	IsActive          *bool   `json:"is_active,omitempty"`
}

type Response struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	DefaultCGSTRateBP int64     `json:"default_cgst_rate_bp"`
	DefaultSGSTRateBP int64     `json:"default_sgst_rate_bp"`
	DefaultIGSTRateBP int64     `json:"default_igst_rate_bp"`
	Description       *string   `json:"description,omitempty"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
