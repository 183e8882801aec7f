package domain

import (
	"context"
	"errors"
)

type Dimension string

const (
	DimensionExpenseType Dimension = "expense_type"
	DimensionProvider    Dimension = "service_provider"
	DimensionShipment    Dimension = "shipment"
	DimensionMonth       Dimension = "month"
)

var (
	ErrInvalidDateRange   = errors.New("invalid_date_range")
	ErrInvalidExpenseType = errors.New("invalid_expense_type")
	ErrInvalidCurrency    = errors.New("invalid_currency")
)

type Service interface {
	ByExpenseType(ctx context.Context, filter ReportFilter) (RollupResponse, error)
	ByServiceProvider(ctx context.Context, filter ReportFilter) (RollupResponse, error)
	ByShipment(ctx context.Context, filter ReportFilter) (RollupResponse, error)
	ByMonth(ctx context.Context, filter ReportFilter) (RollupResponse, error)
	GSTSummary(ctx context.Context, filter ReportFilter) (GSTSummaryResponse, error)
}

// ReportFilter narrows every report. Empty fields do not filter. Dates are
// inclusive YYYY-MM-DD bounds on the invoice date.
type ReportFilter struct {
	DateFrom          string `form:"date_from"`
	DateTo            string `form:"date_to"`
	ShipmentID        string `form:"shipment_id"`
	ServiceProviderID string `form:"service_provider_id"`
	ExpenseTypeID     string `form:"expense_type_id"`
	Currency          string `form:"currency"`
}

// Amounts are summed over committed lines. NetAmountPaise is base minus
// TDS, matching the invoice header; PayableAmountPaise is the sum of line
// nets.
type Amounts struct {
	BaseAmountPaise    int64 `json:"base_amount_paise"`
	CGSTAmountPaise    int64 `json:"cgst_amount_paise"`
	SGSTAmountPaise    int64 `json:"sgst_amount_paise"`
	IGSTAmountPaise    int64 `json:"igst_amount_paise"`
	TDSAmountPaise     int64 `json:"tds_amount_paise"`
	NetAmountPaise     int64 `json:"net_amount_paise"`
	GrossAmountPaise   int64 `json:"gross_amount_paise"`
	PayableAmountPaise int64 `json:"payable_amount_paise"`
}

// Display carries the same amounts in rupees with two decimals.
type Display struct {
	Base    string `json:"base"`
	CGST    string `json:"cgst"`
	SGST    string `json:"sgst"`
	IGST    string `json:"igst"`
	TDS     string `json:"tds"`
	Net     string `json:"net"`
	Gross   string `json:"gross"`
	Payable string `json:"payable"`
}

type RollupRow struct {
	Key          string `json:"key"`
	Label        string `json:"label"`
	Currency     string `json:"currency"`
	InvoiceCount int64  `json:"invoice_count"`
	LineCount    int64  `json:"line_count"`
	Amounts
	Display Display `json:"display"`
}

type RollupResponse struct {
	Dimension Dimension   `json:"dimension"`
	Rows      []RollupRow `json:"rows"`
}

type GSTSummaryRow struct {
	Currency        string `json:"currency"`
	InvoiceCount    int64  `json:"invoice_count"`
	LineCount       int64  `json:"line_count"`
	TotalGSTPaise   int64  `json:"total_gst_paise"`
	TotalGSTDisplay string `json:"total_gst_display"`
	Amounts
	Display Display `json:"display"`
}

type GSTSummaryResponse struct {
	Rows []GSTSummaryRow `json:"rows"`
}
