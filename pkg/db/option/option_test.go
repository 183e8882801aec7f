package option

import (
	"testing"

	"github.com/smallbiznis/tradeledger/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type ledgerRow struct {
	ID        int64
	Name      string
	Amount    int64
	CreatedAt int64
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := dbtest.Open(t)
	require.NoError(t, db.AutoMigrate(&ledgerRow{}))
	require.NoError(t, db.Create(&[]ledgerRow{
		{ID: 1, Name: "freight", Amount: 100, CreatedAt: 1},
		{ID: 2, Name: "customs", Amount: 250, CreatedAt: 2},
		{ID: 3, Name: "handling", Amount: 400, CreatedAt: 3},
	}).Error)
	return db
}

func TestApplyOperatorBindsValues(t *testing.T) {
	db := setupDB(t)

	var out []ledgerRow
	err := Apply(db.Model(&ledgerRow{}),
		ApplyOperator(Condition{Field: "amount", Operator: GTE, Value: 250}),
		WithSortBy(WithQuerySortBy("amount", "desc", map[string]bool{"amount": true})),
	).Find(&out).Error
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, int64(3), out[0].ID)

	// A hostile value is bound as data, so nothing matches.
	out = nil
	err = Apply(db.Model(&ledgerRow{}),
		ApplyOperator(Condition{Field: "name", Operator: EQ, Value: "x' OR '1'='1"}),
	).Find(&out).Error
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestApplyOperatorRejectsFieldInjection(t *testing.T) {
	db := setupDB(t)

	var out []ledgerRow
	err := Apply(db.Model(&ledgerRow{}),
		ApplyOperator(Condition{Field: "amount = 1 OR 1", Operator: EQ, Value: 1}),
	).Find(&out).Error
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestWithSortByIgnoresUnknownColumn(t *testing.T) {
	db := setupDB(t)

	var out []ledgerRow
	err := Apply(db.Model(&ledgerRow{}),
		WithSortBy(WithQuerySortBy("name; DROP TABLE rows", "asc", map[string]bool{"created_at": true})),
		ApplyPagination(1, 0),
	).Find(&out).Error
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(3), out[0].ID)
}
