package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/smallbiznis/tradeledger/internal/audit/domain"
	"github.com/smallbiznis/tradeledger/pkg/db/pagination"
)

type Service interface {
	CreateOrUpdateInvoice(ctx context.Context, payload InvoicePayload) (*InvoiceResult, error)
	PreviewInvoice(ctx context.Context, payload InvoicePayload) (*InvoicePreview, error)
	GetInvoice(ctx context.Context, id string) (*InvoiceDetail, error)
	ListInvoices(ctx context.Context, req ListInvoicesRequest) (ListInvoicesResponse, error)
	UpdateInvoice(ctx context.Context, req UpdateInvoiceRequest) (*InvoiceResult, error)
	DeleteInvoice(ctx context.Context, req DeleteInvoiceRequest) error

	AddLine(ctx context.Context, req AddLineRequest) (*LineResult, error)
	UpdateLine(ctx context.Context, req UpdateLineRequest) (*LineResult, error)
	DeleteLine(ctx context.Context, req DeleteLineRequest) (*InvoiceResult, error)

	CombineDuplicates(ctx context.Context, req CombineRequest) (*InvoiceResult, error)

	ListAuditEntries(ctx context.Context, req auditdomain.ListAuditEntriesRequest) (auditdomain.ListAuditEntriesResponse, error)
}

// InvoicePayload is the create/update body. InvoiceDate is an ISO-8601
// calendar date (YYYY-MM-DD).
type InvoicePayload struct {
	ShipmentID        string      `json:"shipment_id"`
	ServiceProviderID string      `json:"service_provider_id"`
	InvoiceNumber     string      `json:"invoice_number"`
	InvoiceDate       string      `json:"invoice_date"`
	Currency          string      `json:"currency"`
	IdempotencyKey    *string     `json:"idempotency_key,omitempty"`
	Lines             []LineInput `json:"lines"`
}

// LineInput carries client rates. A nil rate takes the expense type's
// default (TDS defaults to zero). Amounts are always derived.
type LineInput struct {
	ExpenseTypeID snowflake.ID `json:"expense_type_id"`
	AmountPaise   int64        `json:"amount_paise"`
	CGSTRateBP    *int64       `json:"cgst_rate_bp,omitempty"`
	SGSTRateBP    *int64       `json:"sgst_rate_bp,omitempty"`
	IGSTRateBP    *int64       `json:"igst_rate_bp,omitempty"`
	TDSRateBP     *int64       `json:"tds_rate_bp,omitempty"`
	Remarks       string       `json:"remarks,omitempty"`
}

type InvoiceResult struct {
	InvoiceID snowflake.ID `json:"invoice_id"`
	Version   int64        `json:"version"`
	Totals
}

type LineResult struct {
	LineID  snowflake.ID  `json:"line_id"`
	Invoice InvoiceResult `json:"invoice"`
}

type LinePreview struct {
	Index           int          `json:"index"`
	ExpenseTypeID   snowflake.ID `json:"expense_type_id"`
	ExpenseTypeName string       `json:"expense_type_name,omitempty"`

	AmountPaise int64 `json:"amount_paise"`
	CGSTRateBP  int64 `json:"cgst_rate_bp"`
	SGSTRateBP  int64 `json:"sgst_rate_bp"`
	IGSTRateBP  int64 `json:"igst_rate_bp"`
	TDSRateBP   int64 `json:"tds_rate_bp"`

	CGSTAmountPaise  int64 `json:"cgst_amount_paise"`
	SGSTAmountPaise  int64 `json:"sgst_amount_paise"`
	IGSTAmountPaise  int64 `json:"igst_amount_paise"`
	TDSAmountPaise   int64 `json:"tds_amount_paise"`
	TotalAmountPaise int64 `json:"total_amount_paise"`
	NetAmountPaise   int64 `json:"net_amount_paise"`

	Remarks string `json:"remarks,omitempty"`
}

type InvoicePreview struct {
	Lines []LinePreview `json:"lines"`
	Totals
}

type LineDetail struct {
	ExpenseLine
	ExpenseTypeName string `json:"expense_type_name"`
}

type InvoiceDetail struct {
	ExpenseInvoice
	Lines []LineDetail `json:"lines"`
}

type ListInvoicesRequest struct {
	pagination.Pagination
	ShipmentID        string `form:"shipment_id"`
	ServiceProviderID string `form:"service_provider_id"`
	InvoiceNumber     string `form:"invoice_number"`
	Currency          string `form:"currency"`
	DateFrom          string `form:"date_from"`
	DateTo            string `form:"date_to"`
}

type ListInvoicesResponse struct {
	pagination.PageInfo
	Invoices []ExpenseInvoice `json:"invoices"`
}

// ListFilter is the repository form of ListInvoicesRequest.
type ListFilter struct {
	ShipmentID        string
	ServiceProviderID string
	InvoiceNumber     string
	Currency          string
	DateFrom          string
	DateTo            string
	AfterID           snowflake.ID
	Limit             int
}

// ExpectedVersion, when set, must equal the stored version or the
// mutation fails with a ConflictError.
type UpdateInvoiceRequest struct {
	ID              string         `json:"id"`
	ExpectedVersion *int64         `json:"expected_version,omitempty"`
	Payload         InvoicePayload `json:"invoice"`
}

type DeleteInvoiceRequest struct {
	ID              string `json:"id"`
	ExpectedVersion *int64 `json:"expected_version,omitempty"`
}

type AddLineRequest struct {
	InvoiceID       string    `json:"invoice_id"`
	ExpectedVersion *int64    `json:"expected_version,omitempty"`
	Line            LineInput `json:"line"`
}

type UpdateLineRequest struct {
	LineID          string    `json:"line_id"`
	ExpectedVersion *int64    `json:"expected_version,omitempty"`
	Line            LineInput `json:"line"`
}

type DeleteLineRequest struct {
	LineID          string `json:"line_id"`
	ExpectedVersion *int64 `json:"expected_version,omitempty"`
}

// CombineRequest merges lines sharing an expense type. A nil
// RemarksSeparator uses the configured default.
type CombineRequest struct {
	InvoiceID        string  `json:"invoice_id"`
	ExpectedVersion  *int64  `json:"expected_version,omitempty"`
	RemarksSeparator *string `json:"remarks_separator,omitempty"`
}
