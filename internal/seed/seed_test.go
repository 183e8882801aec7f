package seed

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tradeledger/internal/clock"
	taxdomain "github.com/smallbiznis/tradeledger/internal/tax/domain"
	"github.com/smallbiznis/tradeledger/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureExpenseTypesIsIdempotent(t *testing.T) {
	db := dbtest.Open(t)
	require.NoError(t, db.AutoMigrate(&taxdomain.ExpenseType{}))
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	created, err := EnsureExpenseTypes(db, node, clock.System())
	require.NoError(t, err)
	assert.Equal(t, len(defaultExpenseTypes), created)

	created, err = EnsureExpenseTypes(db, node, clock.System())
	require.NoError(t, err)
	assert.Zero(t, created)

	var freight taxdomain.ExpenseType
	require.NoError(t, db.Where("name = ?", "Freight").First(&freight).Error)
	assert.Equal(t, int64(600), freight.DefaultCGSTRateBP)
	assert.True(t, freight.IsActive)
}
