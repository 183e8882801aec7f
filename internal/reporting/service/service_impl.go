package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	reporting "github.com/smallbiznis/tradeledger/internal/reporting/domain"
	"github.com/smallbiznis/tradeledger/pkg/db/option"
	"github.com/smallbiznis/tradeledger/pkg/db/txmanager"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

var currencyRe = regexp.MustCompile(`^[A-Z]{3}$`)

const amountColumns = `
	COUNT(DISTINCT l.invoice_id) AS invoice_count,
	COUNT(l.id) AS line_count,
	COALESCE(SUM(l.amount_paise), 0) AS base_amount_paise,
	COALESCE(SUM(l.cgst_amount_paise), 0) AS cgst_amount_paise,
	COALESCE(SUM(l.sgst_amount_paise), 0) AS sgst_amount_paise,
	COALESCE(SUM(l.igst_amount_paise), 0) AS igst_amount_paise,
	COALESCE(SUM(l.tds_amount_paise), 0) AS tds_amount_paise,
	COALESCE(SUM(l.total_amount_paise), 0) AS gross_amount_paise,
	COALESCE(SUM(l.net_amount_paise), 0) AS payable_amount_paise`

// dimensions maps each rollup to its key, label and grouping expressions.
var dimensions = map[reporting.Dimension]struct {
	key, label string
	group      []string
}{
	reporting.DimensionExpenseType: {
		key:   "l.expense_type_id",
		label: "COALESCE(t.name, '')",
		group: []string{"l.expense_type_id", "t.name"},
	},
	reporting.DimensionProvider: {
		key:   "i.service_provider_id",
		label: "i.service_provider_id",
		group: []string{"i.service_provider_id"},
	},
	reporting.DimensionShipment: {
		key:   "i.shipment_id",
		label: "i.shipment_id",
		group: []string{"i.shipment_id"},
	},
	reporting.DimensionMonth: {
		key:   "SUBSTR(i.invoice_date, 1, 7)",
		label: "SUBSTR(i.invoice_date, 1, 7)",
		group: []string{"SUBSTR(i.invoice_date, 1, 7)"},
	},
}

type Params struct {
	fx.In

	Tx  *txmanager.Manager
	Log *zap.Logger
}

type Service struct {
	tx  *txmanager.Manager
	log *zap.Logger
}

func NewService(p Params) reporting.Service {
	return &Service{
		tx:  p.Tx,
		log: p.Log.Named("reporting.service"),
	}
}

type reportRow struct {
	GroupKey           string
	GroupLabel         string
	Currency           string
	InvoiceCount       int64
	LineCount          int64
	BaseAmountPaise    int64
	CGSTAmountPaise    int64 `gorm:"column:cgst_amount_paise"`
	SGSTAmountPaise    int64 `gorm:"column:sgst_amount_paise"`
	IGSTAmountPaise    int64 `gorm:"column:igst_amount_paise"`
	TDSAmountPaise     int64 `gorm:"column:tds_amount_paise"`
	GrossAmountPaise   int64
	PayableAmountPaise int64
}

func (s *Service) ByExpenseType(ctx context.Context, filter reporting.ReportFilter) (reporting.RollupResponse, error) {
	return s.rollup(ctx, reporting.DimensionExpenseType, filter)
}

func (s *Service) ByServiceProvider(ctx context.Context, filter reporting.ReportFilter) (reporting.RollupResponse, error) {
	return s.rollup(ctx, reporting.DimensionProvider, filter)
}

func (s *Service) ByShipment(ctx context.Context, filter reporting.ReportFilter) (reporting.RollupResponse, error) {
	return s.rollup(ctx, reporting.DimensionShipment, filter)
}

func (s *Service) ByMonth(ctx context.Context, filter reporting.ReportFilter) (reporting.RollupResponse, error) {
	return s.rollup(ctx, reporting.DimensionMonth, filter)
}

func (s *Service) rollup(ctx context.Context, dim reporting.Dimension, filter reporting.ReportFilter) (reporting.RollupResponse, error) {
	conds, err := buildConditions(filter)
	if err != nil {
		return reporting.RollupResponse{}, err
	}
	d := dimensions[dim]

	var rows []reportRow
	err = s.tx.Read(ctx, func(tx *gorm.DB) error {
		q := baseQuery(ctx, tx).
			Select(d.key + " AS group_key, " + d.label + " AS group_label, i.currency AS currency," + amountColumns)
		q = option.Apply(q, conds...)
		for _, g := range d.group {
			q = q.Group(g)
		}
		return q.Group("i.currency").Order("group_key ASC").Order("currency ASC").Scan(&rows).Error
	})
	if err != nil {
		s.log.Error("report query failed", zap.String("dimension", string(dim)), zap.Error(err))
		return reporting.RollupResponse{}, err
	}

	out := reporting.RollupResponse{Dimension: dim, Rows: make([]reporting.RollupRow, 0, len(rows))}
	for _, r := range rows {
		amounts := r.amounts()
		out.Rows = append(out.Rows, reporting.RollupRow{
			Key:          r.GroupKey,
			Label:        r.GroupLabel,
			Currency:     r.Currency,
			InvoiceCount: r.InvoiceCount,
			LineCount:    r.LineCount,
			Amounts:      amounts,
			Display:      display(amounts),
		})
	}
	return out, nil
}

// GSTSummary totals every tax component per currency.
func (s *Service) GSTSummary(ctx context.Context, filter reporting.ReportFilter) (reporting.GSTSummaryResponse, error) {
	conds, err := buildConditions(filter)
	if err != nil {
		return reporting.GSTSummaryResponse{}, err
	}

	var rows []reportRow
	err = s.tx.Read(ctx, func(tx *gorm.DB) error {
		q := baseQuery(ctx, tx).Select("i.currency AS currency," + amountColumns)
		q = option.Apply(q, conds...)
		return q.Group("i.currency").Order("currency ASC").Scan(&rows).Error
	})
	if err != nil {
		s.log.Error("gst summary query failed", zap.Error(err))
		return reporting.GSTSummaryResponse{}, err
	}

	out := reporting.GSTSummaryResponse{Rows: make([]reporting.GSTSummaryRow, 0, len(rows))}
	for _, r := range rows {
		amounts := r.amounts()
		gst := amounts.CGSTAmountPaise + amounts.SGSTAmountPaise + amounts.IGSTAmountPaise
		out.Rows = append(out.Rows, reporting.GSTSummaryRow{
			Currency:        r.Currency,
			InvoiceCount:    r.InvoiceCount,
			LineCount:       r.LineCount,
			TotalGSTPaise:   gst,
			TotalGSTDisplay: rupees(gst),
			Amounts:         amounts,
			Display:         display(amounts),
		})
	}
	return out, nil
}

func baseQuery(ctx context.Context, tx *gorm.DB) *gorm.DB {
	return tx.WithContext(ctx).
		Table("expense_lines AS l").
		Joins("JOIN expense_invoices AS i ON i.id = l.invoice_id").
		Joins("LEFT JOIN expense_types AS t ON t.id = l.expense_type_id")
}

// buildConditions compiles the filter into bound predicates over a fixed
// set of columns.
func buildConditions(filter reporting.ReportFilter) ([]option.QueryOption, error) {
	var conds []option.QueryOption
	add := func(field string, op option.Operator, value any) {
		conds = append(conds, option.ApplyOperator(option.Condition{Field: field, Operator: op, Value: value}))
	}

	from := strings.TrimSpace(filter.DateFrom)
	to := strings.TrimSpace(filter.DateTo)
	for _, v := range []string{from, to} {
		if v == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, v); err != nil {
			return nil, reporting.ErrInvalidDateRange
		}
	}
	if from != "" && to != "" && from > to {
		return nil, reporting.ErrInvalidDateRange
	}
	if from != "" {
		add("i.invoice_date", option.GTE, from)
	}
	if to != "" {
		add("i.invoice_date", option.LTE, to)
	}

	if v := strings.TrimSpace(filter.ShipmentID); v != "" {
		add("i.shipment_id", option.EQ, v)
	}
	if v := strings.TrimSpace(filter.ServiceProviderID); v != "" {
		add("i.service_provider_id", option.EQ, v)
	}
	if v := strings.TrimSpace(filter.ExpenseTypeID); v != "" {
		id, err := snowflake.ParseString(v)
		if err != nil || id <= 0 {
			return nil, reporting.ErrInvalidExpenseType
		}
		add("l.expense_type_id", option.EQ, id)
	}
	if v := strings.ToUpper(strings.TrimSpace(filter.Currency)); v != "" {
		if !currencyRe.MatchString(v) {
			return nil, reporting.ErrInvalidCurrency
		}
		add("i.currency", option.EQ, v)
	}
	return conds, nil
}

func (r reportRow) amounts() reporting.Amounts {
	return reporting.Amounts{
		BaseAmountPaise:    r.BaseAmountPaise,
		CGSTAmountPaise:    r.CGSTAmountPaise,
		SGSTAmountPaise:    r.SGSTAmountPaise,
		IGSTAmountPaise:    r.IGSTAmountPaise,
		TDSAmountPaise:     r.TDSAmountPaise,
		NetAmountPaise:     r.BaseAmountPaise - r.TDSAmountPaise,
		GrossAmountPaise:   r.GrossAmountPaise,
		PayableAmountPaise: r.PayableAmountPaise,
	}
}

func display(a reporting.Amounts) reporting.Display {
	return reporting.Display{
		Base:    rupees(a.BaseAmountPaise),
		CGST:    rupees(a.CGSTAmountPaise),
		SGST:    rupees(a.SGSTAmountPaise),
		IGST:    rupees(a.IGSTAmountPaise),
		TDS:     rupees(a.TDSAmountPaise),
		Net:     rupees(a.NetAmountPaise),
		Gross:   rupees(a.GrossAmountPaise),
		Payable: rupees(a.PayableAmountPaise),
	}
}

func rupees(paise int64) string {
	return decimal.New(paise, -2).StringFixed(2)
}
