package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	expensedomain "github.com/smallbiznis/tradeledger/internal/expense/domain"
	"github.com/smallbiznis/tradeledger/pkg/db/option"
	"gorm.io/gorm"
)

const invoiceColumns = `id, shipment_id, service_provider_id, invoice_number, invoice_date, currency,
	idempotency_key, version, total_amount_paise, total_cgst_amount_paise, total_sgst_amount_paise,
	total_igst_amount_paise, total_tds_amount_paise, net_amount_paise, gross_amount_paise,
	payable_amount_paise, created_at, updated_at`

const lineColumns = `id, invoice_id, expense_type_id, position, amount_paise,
	cgst_rate_bp, sgst_rate_bp, igst_rate_bp, tds_rate_bp,
	cgst_amount_paise, sgst_amount_paise, igst_amount_paise, tds_amount_paise,
	total_amount_paise, net_amount_paise, remarks, created_at, updated_at`

type repository struct{}

func NewRepository() expensedomain.Repository {
	return &repository{}
}

func (r *repository) InsertInvoice(ctx context.Context, db *gorm.DB, inv *expensedomain.ExpenseInvoice) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO expense_invoices (`+invoiceColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID,
		inv.ShipmentID,
		inv.ServiceProviderID,
		inv.InvoiceNumber,
		inv.InvoiceDate,
		inv.Currency,
		inv.IdempotencyKey,
		inv.Version,
		inv.TotalAmountPaise,
		inv.TotalCGSTAmountPaise,
		inv.TotalSGSTAmountPaise,
		inv.TotalIGSTAmountPaise,
		inv.TotalTDSAmountPaise,
		inv.NetAmountPaise,
		inv.GrossAmountPaise,
		inv.PayableAmountPaise,
		inv.CreatedAt,
		inv.UpdatedAt,
	).Error
}

func (r *repository) findInvoice(ctx context.Context, db *gorm.DB, where string, args ...any) (*expensedomain.ExpenseInvoice, error) {
	var inv expensedomain.ExpenseInvoice
	err := db.WithContext(ctx).Raw(
		`SELECT `+invoiceColumns+` FROM expense_invoices WHERE `+where,
		args...,
	).Scan(&inv).Error
	if err != nil {
		return nil, err
	}
	if inv.ID == 0 {
		return nil, nil
	}
	return &inv, nil
}

func (r *repository) FindInvoiceByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*expensedomain.ExpenseInvoice, error) {
	return r.findInvoice(ctx, db, `id = ?`, id)
}

func (r *repository) FindInvoiceByIdempotencyKey(ctx context.Context, db *gorm.DB, key string) (*expensedomain.ExpenseInvoice, error) {
	return r.findInvoice(ctx, db, `idempotency_key = ?`, key)
}

func (r *repository) FindInvoiceByProviderNumber(ctx context.Context, db *gorm.DB, providerID, invoiceNumber string) (*expensedomain.ExpenseInvoice, error) {
	return r.findInvoice(ctx, db, `service_provider_id = ? AND invoice_number = ?`, providerID, invoiceNumber)
}

func (r *repository) UpdateInvoiceHeader(ctx context.Context, db *gorm.DB, inv *expensedomain.ExpenseInvoice) error {
	return db.WithContext(ctx).Exec(
		`UPDATE expense_invoices
		 SET shipment_id = ?, service_provider_id = ?, invoice_number = ?, invoice_date = ?, currency = ?
		 WHERE id = ?`,
		inv.ShipmentID,
		inv.ServiceProviderID,
		inv.InvoiceNumber,
		inv.InvoiceDate,
		inv.Currency,
		inv.ID,
	).Error
}

func (r *repository) SaveAggregates(ctx context.Context, db *gorm.DB, inv *expensedomain.ExpenseInvoice, expectedVersion int64) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE expense_invoices
		 SET total_amount_paise = ?, total_cgst_amount_paise = ?, total_sgst_amount_paise = ?,
		     total_igst_amount_paise = ?, total_tds_amount_paise = ?, net_amount_paise = ?,
		     gross_amount_paise = ?, payable_amount_paise = ?, version = ?, updated_at = ?
		 WHERE id = ? AND version = ?`,
		inv.TotalAmountPaise,
		inv.TotalCGSTAmountPaise,
		inv.TotalSGSTAmountPaise,
		inv.TotalIGSTAmountPaise,
		inv.TotalTDSAmountPaise,
		inv.NetAmountPaise,
		inv.GrossAmountPaise,
		inv.PayableAmountPaise,
		inv.Version,
		inv.UpdatedAt,
		inv.ID,
		expectedVersion,
	)
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteInvoice(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error) {
	res := db.WithContext(ctx).Exec(`DELETE FROM expense_invoices WHERE id = ?`, id)
	return res.RowsAffected, res.Error
}

func (r *repository) ListInvoices(ctx context.Context, db *gorm.DB, filter expensedomain.ListFilter) ([]*expensedomain.ExpenseInvoice, error) {
	var items []*expensedomain.ExpenseInvoice

	opts := make([]option.QueryOption, 0, 8)
	conds := []struct {
		field string
		op    option.Operator
		value string
	}{
		{"shipment_id", option.EQ, filter.ShipmentID},
		{"service_provider_id", option.EQ, filter.ServiceProviderID},
		{"invoice_number", option.EQ, filter.InvoiceNumber},
		{"currency", option.EQ, filter.Currency},
		{"invoice_date", option.GTE, filter.DateFrom},
		{"invoice_date", option.LTE, filter.DateTo},
	}
	for _, c := range conds {
		if c.value == "" {
			continue
		}
		opts = append(opts, option.ApplyOperator(option.Condition{Field: c.field, Operator: c.op, Value: c.value}))
	}
	if filter.AfterID != 0 {
		opts = append(opts, option.ApplyOperator(option.Condition{Field: "id", Operator: option.GT, Value: filter.AfterID}))
	}
	opts = append(opts,
		option.WithSortBy(option.WithQuerySortBy("id", "asc", map[string]bool{"id": true})),
	)
	if filter.Limit > 0 {
		opts = append(opts, option.ApplyPagination(filter.Limit+1, 0))
	}

	stmt := option.Apply(db.WithContext(ctx).Model(&expensedomain.ExpenseInvoice{}), opts...)
	if err := stmt.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) InsertLines(ctx context.Context, db *gorm.DB, lines []expensedomain.ExpenseLine) error {
	for i := range lines {
		l := &lines[i]
		err := db.WithContext(ctx).Exec(
			`INSERT INTO expense_lines (`+lineColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			l.ID,
			l.InvoiceID,
			l.ExpenseTypeID,
			l.Position,
			l.AmountPaise,
			l.CGSTRateBP,
			l.SGSTRateBP,
			l.IGSTRateBP,
			l.TDSRateBP,
			l.CGSTAmountPaise,
			l.SGSTAmountPaise,
			l.IGSTAmountPaise,
			l.TDSAmountPaise,
			l.TotalAmountPaise,
			l.NetAmountPaise,
			l.Remarks,
			l.CreatedAt,
			l.UpdatedAt,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) FindLineByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*expensedomain.ExpenseLine, error) {
	var line expensedomain.ExpenseLine
	err := db.WithContext(ctx).Raw(
		`SELECT `+lineColumns+` FROM expense_lines WHERE id = ?`,
		id,
	).Scan(&line).Error
	if err != nil {
		return nil, err
	}
	if line.ID == 0 {
		return nil, nil
	}
	return &line, nil
}

func (r *repository) ListLines(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]expensedomain.ExpenseLine, error) {
	var lines []expensedomain.ExpenseLine
	err := db.WithContext(ctx).Raw(
		`SELECT `+lineColumns+` FROM expense_lines WHERE invoice_id = ? ORDER BY position ASC, id ASC`,
		invoiceID,
	).Scan(&lines).Error
	return lines, err
}

func (r *repository) ListLineDetails(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]expensedomain.LineDetail, error) {
	var lines []expensedomain.LineDetail
	err := db.WithContext(ctx).Raw(
		`SELECT l.id, l.invoice_id, l.expense_type_id, l.position, l.amount_paise,
		        l.cgst_rate_bp, l.sgst_rate_bp, l.igst_rate_bp, l.tds_rate_bp,
		        l.cgst_amount_paise, l.sgst_amount_paise, l.igst_amount_paise, l.tds_amount_paise,
		        l.total_amount_paise, l.net_amount_paise, l.remarks, l.created_at, l.updated_at,
		        COALESCE(t.name, '') AS expense_type_name
		 FROM expense_lines l
		 LEFT JOIN expense_types t ON t.id = l.expense_type_id
		 WHERE l.invoice_id = ?
		 ORDER BY l.position ASC, l.id ASC`,
		invoiceID,
	).Scan(&lines).Error
	return lines, err
}

func (r *repository) UpdateLine(ctx context.Context, db *gorm.DB, l *expensedomain.ExpenseLine) error {
	return db.WithContext(ctx).Exec(
		`UPDATE expense_lines
		 SET expense_type_id = ?, amount_paise = ?,
		     cgst_rate_bp = ?, sgst_rate_bp = ?, igst_rate_bp = ?, tds_rate_bp = ?,
		     cgst_amount_paise = ?, sgst_amount_paise = ?, igst_amount_paise = ?, tds_amount_paise = ?,
		     total_amount_paise = ?, net_amount_paise = ?, remarks = ?, updated_at = ?
		 WHERE id = ?`,
		l.ExpenseTypeID,
		l.AmountPaise,
		l.CGSTRateBP,
		l.SGSTRateBP,
		l.IGSTRateBP,
		l.TDSRateBP,
		l.CGSTAmountPaise,
		l.SGSTAmountPaise,
		l.IGSTAmountPaise,
		l.TDSAmountPaise,
		l.TotalAmountPaise,
		l.NetAmountPaise,
		l.Remarks,
		l.UpdatedAt,
		l.ID,
	).Error
}

func (r *repository) DeleteLines(ctx context.Context, db *gorm.DB, ids []snowflake.ID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := db.WithContext(ctx).Exec(`DELETE FROM expense_lines WHERE id IN ?`, ids)
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteLinesByInvoice(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM expense_lines WHERE invoice_id = ?`, invoiceID).Error
}

func (r *repository) MaxLinePosition(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) (int, error) {
	var pos int
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(MAX(position), -1) FROM expense_lines WHERE invoice_id = ?`,
		invoiceID,
	).Scan(&pos).Error
	return pos, err
}
