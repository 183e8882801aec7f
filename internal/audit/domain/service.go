package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tradeledger/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *AuditEntry) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*AuditEntry, error)
}

type RecordRequest struct {
	InvoiceID snowflake.ID
	Action    Action
	Detail    string
	Metadata  map[string]any
}

// Recorder writes audit rows through the caller's transaction, so a failed
// write rolls the mutation back with it.
type Recorder interface {
	Record(ctx context.Context, tx *gorm.DB, req RecordRequest) error
}

type ListAuditEntriesRequest struct {
	pagination.Pagination
	InvoiceID string
	Action    string
}

type ListAuditEntriesResponse struct {
	pagination.PageInfo
	Entries []AuditEntry `json:"entries"`
}

type Service interface {
	Recorder
	List(ctx context.Context, tx *gorm.DB, req ListAuditEntriesRequest) (ListAuditEntriesResponse, error)
}

var (
	ErrInvalidInvoice   = errors.New("invalid_invoice")
	ErrInvalidPageToken = errors.New("invalid_page_token")
	ErrInvalidAction    = errors.New("invalid_action")
)
