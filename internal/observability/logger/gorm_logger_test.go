package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperationFromSQL(t *testing.T) {
	assert.Equal(t, "SELECT", operationFromSQL("select * from expense_lines"))
	assert.Equal(t, "UPDATE", operationFromSQL("  UPDATE expense_invoices SET version = version + 1"))
	assert.Equal(t, "SELECT", operationFromSQL("WITH t AS (SELECT 1) SELECT * FROM t"))
	assert.Equal(t, "UNKNOWN", operationFromSQL(""))
	assert.Equal(t, "UNKNOWN", operationFromSQL("PRAGMA foreign_keys = ON"))
}

func TestTableFromSQL(t *testing.T) {
	assert.Equal(t, "expense_lines", tableFromSQL("SELECT * FROM expense_lines WHERE invoice_id = ?"))
	assert.Equal(t, "expense_invoices", tableFromSQL(`INSERT INTO "expense_invoices" ("id") VALUES (?)`))
	assert.Equal(t, "expense_invoices", tableFromSQL("UPDATE `expense_invoices` SET version = ?"))
	assert.Equal(t, "t", tableFromSQL("WITH t AS (SELECT 1) SELECT * FROM t"))
	assert.Equal(t, "", tableFromSQL("PRAGMA foreign_keys = ON"))
}
