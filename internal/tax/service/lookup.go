package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	taxdomain "github.com/smallbiznis/tradeledger/internal/tax/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type LookupParams struct {
	fx.In

	DB   *gorm.DB
	Repo taxdomain.Repository
}

type lookup struct {
	db   *gorm.DB
	repo taxdomain.Repository
}

func NewLookup(p LookupParams) taxdomain.ExpenseTypeLookup {
	return &lookup{db: p.DB, repo: p.Repo}
}

// LookupExpenseType reads through db, or the pool when db is nil.
func (l *lookup) LookupExpenseType(ctx context.Context, db *gorm.DB, id snowflake.ID) (*taxdomain.ExpenseType, error) {
	if id == 0 {
		return nil, nil
	}
	if db == nil {
		db = l.db
	}
	return l.repo.FindByID(ctx, db, id)
}
