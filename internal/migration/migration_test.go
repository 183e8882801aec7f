package migration

import (
	"testing"

	"github.com/smallbiznis/tradeledger/pkg/db"
	"github.com/smallbiznis/tradeledger/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCreatesTables(t *testing.T) {
	conn := dbtest.Open(t)
	require.NoError(t, Run(conn, db.TypeSQLite))

	for _, table := range []string{
		"expense_types",
		"expense_invoices",
		"expense_lines",
		"expense_line_attachments",
		"expense_audit_entries",
	} {
		assert.True(t, conn.Migrator().HasTable(table), table)
	}
	assert.True(t, conn.Migrator().HasIndex("expense_invoices", "ux_expense_invoices_provider_number"))

	require.NoError(t, Run(conn, db.TypeSQLite))
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	entries, err := embeddedMigrations.ReadDir(migrationsDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRunRequiresHandle(t *testing.T) {
	assert.Error(t, Run(nil, db.TypeSQLite))
}
