package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tradeledger/internal/clock"
	taxdomain "github.com/smallbiznis/tradeledger/internal/tax/domain"
	"gorm.io/gorm"
)

type expenseTypeSeed struct {
	name             string
	cgst, sgst, igst int64
}

// Common logistics charges with their usual GST slabs. Intra-state rates
// split evenly into CGST and SGST; IGST applies inter-state.
var defaultExpenseTypes = []expenseTypeSeed{
	{name: "Freight", cgst: 600, sgst: 600},
	{name: "Customs Clearance", cgst: 900, sgst: 900},
	{name: "Port Handling", cgst: 900, sgst: 900},
	{name: "Container Detention", igst: 1800},
	{name: "Demurrage", igst: 1800},
	{name: "Transportation", cgst: 250, sgst: 250},
	{name: "Documentation", cgst: 900, sgst: 900},
	{name: "Insurance", igst: 1800},
	{name: "Customs Duty"},
}

// EnsureExpenseTypes inserts the default expense types whose names are not
// present yet and reports how many were created.
func EnsureExpenseTypes(db *gorm.DB, node *snowflake.Node, c clock.Clock) (int, error) {
	if db == nil {
		return 0, errors.New("seed database handle is required")
	}
	if node == nil {
		return 0, errors.New("seed id generator is required")
	}

	ctx := context.Background()
	created := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, s := range defaultExpenseTypes {
			var count int64
			if err := tx.Model(&taxdomain.ExpenseType{}).Where("name = ?", s.name).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}

			now := c.Now().UTC()
			item := taxdomain.ExpenseType{
				ID:                node.Generate(),
				Name:              s.name,
				DefaultCGSTRateBP: s.cgst,
				DefaultSGSTRateBP: s.sgst,
				DefaultIGSTRateBP: s.igst,
				IsActive:          true,
				CreatedAt:         now,
				UpdatedAt:         now,
			}
			if err := item.Validate(); err != nil {
				return err
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}
