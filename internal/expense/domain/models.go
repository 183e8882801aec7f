package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tradeledger/internal/tax/calc"
	taxdomain "github.com/smallbiznis/tradeledger/internal/tax/domain"
)

// ExpenseInvoice is a service provider's bill against a shipment. The
// amount fields are derived from the invoice's current line set and are
// never written from client input.
type ExpenseInvoice struct {
	ID                snowflake.ID `gorm:"primaryKey" json:"id"`
	ShipmentID        string       `gorm:"column:shipment_id;type:text;not null;index" json:"shipment_id"`
	ServiceProviderID string       `gorm:"column:service_provider_id;type:text;not null;uniqueIndex:ux_expense_invoices_provider_number,priority:1" json:"service_provider_id"`
	InvoiceNumber     string       `gorm:"column:invoice_number;type:text;not null;uniqueIndex:ux_expense_invoices_provider_number,priority:2" json:"invoice_number"`
	InvoiceDate       string       `gorm:"column:invoice_date;type:varchar(10);not null;index" json:"invoice_date"`
	Currency          string       `gorm:"type:varchar(3);not null" json:"currency"`
	IdempotencyKey    *string      `gorm:"column:idempotency_key;type:varchar(255);uniqueIndex:ux_expense_invoices_idempotency_key" json:"idempotency_key,omitempty"`
	Version           int64        `gorm:"not null" json:"version"`

	TotalAmountPaise     int64 `gorm:"column:total_amount_paise;not null" json:"total_amount_paise"`
	TotalCGSTAmountPaise int64 `gorm:"column:total_cgst_amount_paise;not null" json:"total_cgst_amount_paise"`
	TotalSGSTAmountPaise int64 `gorm:"column:total_sgst_amount_paise;not null" json:"total_sgst_amount_paise"`
	TotalIGSTAmountPaise int64 `gorm:"column:total_igst_amount_paise;not null" json:"total_igst_amount_paise"`
	TotalTDSAmountPaise  int64 `gorm:"column:total_tds_amount_paise;not null" json:"total_tds_amount_paise"`
	NetAmountPaise       int64 `gorm:"column:net_amount_paise;not null" json:"net_amount_paise"`
	GrossAmountPaise     int64 `gorm:"column:gross_amount_paise;not null" json:"gross_amount_paise"`
	PayableAmountPaise   int64 `gorm:"column:payable_amount_paise;not null" json:"payable_amount_paise"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (ExpenseInvoice) TableName() string { return "expense_invoices" }

// Totals returns the stored aggregate fields.
func (i *ExpenseInvoice) Totals() Totals {
	return Totals{
		TotalAmountPaise:     i.TotalAmountPaise,
		TotalCGSTAmountPaise: i.TotalCGSTAmountPaise,
		TotalSGSTAmountPaise: i.TotalSGSTAmountPaise,
		TotalIGSTAmountPaise: i.TotalIGSTAmountPaise,
		TotalTDSAmountPaise:  i.TotalTDSAmountPaise,
		NetAmountPaise:       i.NetAmountPaise,
		GrossAmountPaise:     i.GrossAmountPaise,
		PayableAmountPaise:   i.PayableAmountPaise,
	}
}

// ApplyTotals overwrites the aggregate fields with t.
func (i *ExpenseInvoice) ApplyTotals(t Totals) {
	i.TotalAmountPaise = t.TotalAmountPaise
	i.TotalCGSTAmountPaise = t.TotalCGSTAmountPaise
	i.TotalSGSTAmountPaise = t.TotalSGSTAmountPaise
	i.TotalIGSTAmountPaise = t.TotalIGSTAmountPaise
	i.TotalTDSAmountPaise = t.TotalTDSAmountPaise
	i.NetAmountPaise = t.NetAmountPaise
	i.GrossAmountPaise = t.GrossAmountPaise
	i.PayableAmountPaise = t.PayableAmountPaise
}

func (i *ExpenseInvoice) Result() InvoiceResult {
	return InvoiceResult{InvoiceID: i.ID, Version: i.Version, Totals: i.Totals()}
}

// ExpenseLine is exclusively owned by its invoice.
type ExpenseLine struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	InvoiceID     snowflake.ID `gorm:"column:invoice_id;not null;index:ix_expense_lines_invoice_position,priority:1" json:"invoice_id"`
	ExpenseTypeID snowflake.ID `gorm:"column:expense_type_id;not null;index" json:"expense_type_id"`
	Position      int          `gorm:"not null;index:ix_expense_lines_invoice_position,priority:2" json:"position"`

	AmountPaise int64 `gorm:"column:amount_paise;not null" json:"amount_paise"`
	CGSTRateBP  int64 `gorm:"column:cgst_rate_bp;not null" json:"cgst_rate_bp"`
	SGSTRateBP  int64 `gorm:"column:sgst_rate_bp;not null" json:"sgst_rate_bp"`
	IGSTRateBP  int64 `gorm:"column:igst_rate_bp;not null" json:"igst_rate_bp"`
	TDSRateBP   int64 `gorm:"column:tds_rate_bp;not null" json:"tds_rate_bp"`

	CGSTAmountPaise  int64 `gorm:"column:cgst_amount_paise;not null" json:"cgst_amount_paise"`
	SGSTAmountPaise  int64 `gorm:"column:sgst_amount_paise;not null" json:"sgst_amount_paise"`
	IGSTAmountPaise  int64 `gorm:"column:igst_amount_paise;not null" json:"igst_amount_paise"`
	TDSAmountPaise   int64 `gorm:"column:tds_amount_paise;not null" json:"tds_amount_paise"`
	TotalAmountPaise int64 `gorm:"column:total_amount_paise;not null" json:"total_amount_paise"`
	NetAmountPaise   int64 `gorm:"column:net_amount_paise;not null" json:"net_amount_paise"`

	Remarks string `gorm:"type:text;not null" json:"remarks"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	// Schema-only associations. They carry the foreign keys for stores
	// migrated from the models and are never loaded.
	Invoice     *ExpenseInvoice        `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"-"`
	ExpenseType *taxdomain.ExpenseType `gorm:"foreignKey:ExpenseTypeID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (ExpenseLine) TableName() string { return "expense_lines" }

func (l *ExpenseLine) Rates() calc.Rates {
	return calc.Rates{CGST: l.CGSTRateBP, SGST: l.SGSTRateBP, IGST: l.IGSTRateBP, TDS: l.TDSRateBP}
}

func (l *ExpenseLine) Amounts() calc.LineAmounts {
	return calc.LineAmounts{
		Base:  l.AmountPaise,
		CGST:  l.CGSTAmountPaise,
		SGST:  l.SGSTAmountPaise,
		IGST:  l.IGSTAmountPaise,
		TDS:   l.TDSAmountPaise,
		Total: l.TotalAmountPaise,
		Net:   l.NetAmountPaise,
	}
}

// Recompute derives every amount field from AmountPaise and the rates.
func (l *ExpenseLine) Recompute() {
	a := calc.ComputeLine(l.AmountPaise, l.Rates())
	l.CGSTAmountPaise = a.CGST
	l.SGSTAmountPaise = a.SGST
	l.IGSTAmountPaise = a.IGST
	l.TDSAmountPaise = a.TDS
	l.TotalAmountPaise = a.Total
	l.NetAmountPaise = a.Net
}

// Totals are the invoice-level aggregates.
//
// TotalAmountPaise is the sum of line base amounts and NetAmountPaise is
// TotalAmountPaise less TDS. GrossAmountPaise adds the GST components and
// PayableAmountPaise is the sum of line net amounts.
type Totals struct {
	TotalAmountPaise     int64 `json:"total_amount_paise"`
	TotalCGSTAmountPaise int64 `json:"total_cgst_amount_paise"`
	TotalSGSTAmountPaise int64 `json:"total_sgst_amount_paise"`
	TotalIGSTAmountPaise int64 `json:"total_igst_amount_paise"`
	TotalTDSAmountPaise  int64 `json:"total_tds_amount_paise"`
	NetAmountPaise       int64 `json:"net_amount_paise"`
	GrossAmountPaise     int64 `json:"gross_amount_paise"`
	PayableAmountPaise   int64 `json:"payable_amount_paise"`
}

// SumTotals aggregates line amounts. It is the single source of invoice
// totals for preview and every persisted mutation. Sums that leave the
// int64 range fail with TotalsOutOfRange.
func SumTotals(lines []calc.LineAmounts) (Totals, error) {
	var sum calc.LineAmounts
	for _, l := range lines {
		if err := sum.Add(l); err != nil {
			return Totals{}, TotalsOutOfRange()
		}
	}
	return Totals{
		TotalAmountPaise:     sum.Base,
		TotalCGSTAmountPaise: sum.CGST,
		TotalSGSTAmountPaise: sum.SGST,
		TotalIGSTAmountPaise: sum.IGST,
		TotalTDSAmountPaise:  sum.TDS,
		NetAmountPaise:       sum.Base - sum.TDS,
		GrossAmountPaise:     sum.Total,
		PayableAmountPaise:   sum.Net,
	}, nil
}

// LinesTotals sums the stored amounts of lines.
func LinesTotals(lines []ExpenseLine) (Totals, error) {
	amounts := make([]calc.LineAmounts, 0, len(lines))
	for i := range lines {
		amounts = append(amounts, lines[i].Amounts())
	}
	return SumTotals(amounts)
}
