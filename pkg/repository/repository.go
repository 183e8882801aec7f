package repository

import (
	"context"

	"github.com/smallbiznis/tradeledger/pkg/db/option"
	"gorm.io/gorm"
)

// Repository is the typed insert/select surface for append-only child
// tables. Callers pass the transaction handle they are running under.
type Repository[T any] interface {
	Find(ctx context.Context, query *T, opts ...option.QueryOption) ([]*T, error)
	FindOne(ctx context.Context, query *T, opts ...option.QueryOption) (*T, error)
	Create(ctx context.Context, resource *T) error
}

// ProvideStore binds a Repository to db, usually a transaction.
func ProvideStore[T any](db *gorm.DB) Repository[T] {
	return &store[T]{db: db}
}
