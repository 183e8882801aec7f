package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Action string

const (
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionCombine Action = "combine"
	ActionDelete  Action = "delete"
)

func (a Action) Valid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionCombine, ActionDelete:
		return true
	}
	return false
}

// AuditEntry is an append-only trail row for one committed invoice mutation.
// Rows outlive the invoice they describe.
type AuditEntry struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	InvoiceID snowflake.ID      `gorm:"column:invoice_id;not null;index:ix_audit_invoice" json:"invoice_id"`
	Action    Action            `gorm:"type:text;not null" json:"action"`
	Detail    string            `gorm:"type:text;not null" json:"detail"`
	Metadata  datatypes.JSONMap `gorm:"type:json" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null" json:"created_at"`
}

func (AuditEntry) TableName() string { return "expense_audit_entries" }

// AuditCursor resumes a listing after ID. Snowflake ids are time ordered,
// so id order is creation order.
type AuditCursor struct {
	ID snowflake.ID
}

type ListFilter struct {
	InvoiceID snowflake.ID
	Action    Action
	Cursor    *AuditCursor
	Limit     int
}
