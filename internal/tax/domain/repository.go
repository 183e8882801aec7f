package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, item *ExpenseType) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*ExpenseType, error)
	FindByName(ctx context.Context, db *gorm.DB, name string) (*ExpenseType, error)
	List(ctx context.Context, db *gorm.DB, filter ListRequest) ([]ExpenseType, error)
	Update(ctx context.Context, db *gorm.DB, item *ExpenseType) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	CountLineReferences(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
}
