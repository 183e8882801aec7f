package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository methods run against db, which is a transaction handle when
// called from a mutating operation.
type Repository interface {
	InsertInvoice(ctx context.Context, db *gorm.DB, inv *ExpenseInvoice) error
	FindInvoiceByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*ExpenseInvoice, error)
	FindInvoiceByIdempotencyKey(ctx context.Context, db *gorm.DB, key string) (*ExpenseInvoice, error)
	FindInvoiceByProviderNumber(ctx context.Context, db *gorm.DB, providerID, invoiceNumber string) (*ExpenseInvoice, error)
	UpdateInvoiceHeader(ctx context.Context, db *gorm.DB, inv *ExpenseInvoice) error
	// SaveAggregates writes totals, version and updated_at from inv when the
	// stored version equals expectedVersion. It reports rows affected.
	SaveAggregates(ctx context.Context, db *gorm.DB, inv *ExpenseInvoice, expectedVersion int64) (int64, error)
	DeleteInvoice(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
	ListInvoices(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*ExpenseInvoice, error)

	InsertLines(ctx context.Context, db *gorm.DB, lines []ExpenseLine) error
	FindLineByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*ExpenseLine, error)
	ListLines(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]ExpenseLine, error)
	ListLineDetails(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]LineDetail, error)
	UpdateLine(ctx context.Context, db *gorm.DB, line *ExpenseLine) error
	DeleteLines(ctx context.Context, db *gorm.DB, ids []snowflake.ID) (int64, error)
	DeleteLinesByInvoice(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) error
	MaxLinePosition(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) (int, error)
}
