package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tradeledger/internal/tax/calc"
)

// ExpenseType is a category of expense line (freight, customs duty, ...)
// carrying the default GST rates suggested to callers.
type ExpenseType struct {
	ID   snowflake.ID `gorm:"primaryKey"`
	Name string       `gorm:"type:text;not null;uniqueIndex:ux_expense_types_name"`

	DefaultCGSTRateBP int64 `gorm:"column:default_cgst_rate_bp;not null"`
	DefaultSGSTRateBP int64 `gorm:"column:default_sgst_rate_bp;not null"`
	DefaultIGSTRateBP int64 `gorm:"column:default_igst_rate_bp;not null"`

	Description *string `gorm:"type:text"`

	// Inactive types stay resolvable for existing lines but are rejected
	// for new ones.
	IsActive bool `gorm:"column:is_active;not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (ExpenseType) TableName() string { return "expense_types" }

func (t *ExpenseType) Validate() error {
	if t.Name == "" {
		return ErrInvalidName
	}
	for _, bp := range []int64{t.DefaultCGSTRateBP, t.DefaultSGSTRateBP, t.DefaultIGSTRateBP} {
		if !calc.ValidRate(bp) {
			return ErrInvalidTaxRate
		}
	}
	return nil
}
