package repository

import (
	"context"
	"testing"

	"github.com/smallbiznis/tradeledger/pkg/db/dbtest"
	"github.com/smallbiznis/tradeledger/pkg/db/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	ID     int64 `gorm:"primaryKey"`
	LineID int64
	Body   string
}

func TestStoreFindAndFindOne(t *testing.T) {
	db := dbtest.Open(t)
	require.NoError(t, db.AutoMigrate(&note{}))

	ctx := context.Background()
	store := ProvideStore[note](db)
	require.NoError(t, store.Create(ctx, &note{ID: 1, LineID: 7, Body: "b"}))
	require.NoError(t, store.Create(ctx, &note{ID: 2, LineID: 7, Body: "a"}))
	require.NoError(t, store.Create(ctx, &note{ID: 3, LineID: 8, Body: "c"}))

	items, err := store.Find(ctx, &note{LineID: 7},
		option.WithSortBy(option.WithQuerySortBy("body", "asc", map[string]bool{"body": true})),
	)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].Body)

	one, err := store.FindOne(ctx, &note{LineID: 8})
	require.NoError(t, err)
	require.NotNil(t, one)
	assert.EqualValues(t, 3, one.ID)

	missing, err := store.FindOne(ctx, &note{LineID: 99})
	require.NoError(t, err)
	assert.Nil(t, missing)
}
