package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	expensedomain "github.com/smallbiznis/tradeledger/internal/expense/domain"
	"github.com/smallbiznis/tradeledger/internal/migration"
	reporting "github.com/smallbiznis/tradeledger/internal/reporting/domain"
	taxdomain "github.com/smallbiznis/tradeledger/internal/tax/domain"
	"github.com/smallbiznis/tradeledger/pkg/db/dbtest"
	"github.com/smallbiznis/tradeledger/pkg/db/txmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type seedLine struct {
	typeID snowflake.ID
	amount int64
	cgst   int64
	sgst   int64
	igst   int64
	tds    int64
}

type ledger struct {
	db      *gorm.DB
	node    *snowflake.Node
	now     time.Time
	customs snowflake.ID
	freight snowflake.ID
}

func newLedger(t *testing.T) *ledger {
	t.Helper()
	db := dbtest.Open(t)
	require.NoError(t, migration.AutoMigrate(db))
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	l := &ledger{db: db, node: node, now: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	l.customs = l.expenseType(t, "Customs Clearance")
	l.freight = l.expenseType(t, "Freight")
	return l
}

func (l *ledger) expenseType(t *testing.T, name string) snowflake.ID {
	t.Helper()
	et := taxdomain.ExpenseType{ID: l.node.Generate(), Name: name, IsActive: true, CreatedAt: l.now, UpdatedAt: l.now}
	require.NoError(t, l.db.Create(&et).Error)
	return et.ID
}

func (l *ledger) invoice(t *testing.T, shipment, provider, number, date, currency string, lines ...seedLine) {
	t.Helper()
	inv := expensedomain.ExpenseInvoice{
		ID:                l.node.Generate(),
		ShipmentID:        shipment,
		ServiceProviderID: provider,
		InvoiceNumber:     number,
		InvoiceDate:       date,
		Currency:          currency,
		Version:           1,
		CreatedAt:         l.now,
		UpdatedAt:         l.now,
	}
	rows := make([]expensedomain.ExpenseLine, 0, len(lines))
	for i, sl := range lines {
		line := expensedomain.ExpenseLine{
			ID:            l.node.Generate(),
			InvoiceID:     inv.ID,
			ExpenseTypeID: sl.typeID,
			Position:      i,
			AmountPaise:   sl.amount,
			CGSTRateBP:    sl.cgst,
			SGSTRateBP:    sl.sgst,
			IGSTRateBP:    sl.igst,
			TDSRateBP:     sl.tds,
			CreatedAt:     l.now,
			UpdatedAt:     l.now,
		}
		line.Recompute()
		rows = append(rows, line)
	}
	totals, err := expensedomain.LinesTotals(rows)
	require.NoError(t, err)
	inv.ApplyTotals(totals)
	require.NoError(t, l.db.Create(&inv).Error)
	require.NoError(t, l.db.Create(&rows).Error)
}

func (l *ledger) service() reporting.Service {
	return NewService(Params{Tx: txmanager.New(l.db), Log: zap.NewNop()})
}

func seedReportData(t *testing.T) *ledger {
	l := newLedger(t)
	l.invoice(t, "SHP-1", "SP-A", "A-1", "2025-03-15", "INR",
		seedLine{typeID: l.customs, amount: 100000, cgst: 900, sgst: 900},
		seedLine{typeID: l.freight, amount: 50000, igst: 1800, tds: 200},
	)
	l.invoice(t, "SHP-1", "SP-B", "B-1", "2025-04-02", "INR",
		seedLine{typeID: l.freight, amount: 25000, igst: 1800},
	)
	l.invoice(t, "SHP-2", "SP-A", "A-2", "2025-04-20", "INR",
		seedLine{typeID: l.customs, amount: 10000, cgst: 900, sgst: 900},
	)
	return l
}

func TestByExpenseType(t *testing.T) {
	l := seedReportData(t)
	resp, err := l.service().ByExpenseType(context.Background(), reporting.ReportFilter{})
	require.NoError(t, err)
	assert.Equal(t, reporting.DimensionExpenseType, resp.Dimension)
	require.Len(t, resp.Rows, 2)

	byLabel := map[string]reporting.RollupRow{}
	for _, r := range resp.Rows {
		byLabel[r.Label] = r
	}

	customs := byLabel["Customs Clearance"]
	assert.Equal(t, l.customs.String(), customs.Key)
	assert.Equal(t, int64(110000), customs.BaseAmountPaise)
	assert.Equal(t, int64(9900), customs.CGSTAmountPaise)
	assert.Equal(t, int64(2), customs.InvoiceCount)
	assert.Equal(t, int64(2), customs.LineCount)
	assert.Equal(t, "1100.00", customs.Display.Base)

	freight := byLabel["Freight"]
	assert.Equal(t, int64(75000), freight.BaseAmountPaise)
	assert.Equal(t, int64(13500), freight.IGSTAmountPaise)
	assert.Equal(t, int64(1000), freight.TDSAmountPaise)
	assert.Equal(t, int64(74000), freight.NetAmountPaise)
	assert.Equal(t, int64(87500), freight.PayableAmountPaise)
	assert.Equal(t, "10.00", freight.Display.TDS)
}

func TestByProviderShipmentAndMonth(t *testing.T) {
	l := seedReportData(t)
	svc := l.service()
	ctx := context.Background()

	providers, err := svc.ByServiceProvider(ctx, reporting.ReportFilter{})
	require.NoError(t, err)
	require.Len(t, providers.Rows, 2)
	assert.Equal(t, "SP-A", providers.Rows[0].Key)
	assert.Equal(t, int64(160000), providers.Rows[0].BaseAmountPaise)
	assert.Equal(t, int64(2), providers.Rows[0].InvoiceCount)
	assert.Equal(t, int64(3), providers.Rows[0].LineCount)

	shipments, err := svc.ByShipment(ctx, reporting.ReportFilter{})
	require.NoError(t, err)
	require.Len(t, shipments.Rows, 2)
	assert.Equal(t, "SHP-1", shipments.Rows[0].Key)
	assert.Equal(t, int64(175000), shipments.Rows[0].BaseAmountPaise)

	months, err := svc.ByMonth(ctx, reporting.ReportFilter{})
	require.NoError(t, err)
	require.Len(t, months.Rows, 2)
	assert.Equal(t, "2025-03", months.Rows[0].Key)
	assert.Equal(t, "2025-04", months.Rows[1].Key)
	assert.Equal(t, int64(35000), months.Rows[1].BaseAmountPaise)
	assert.Equal(t, int64(2), months.Rows[1].InvoiceCount)
}

func TestReportFilters(t *testing.T) {
	l := seedReportData(t)
	svc := l.service()
	ctx := context.Background()

	resp, err := svc.ByServiceProvider(ctx, reporting.ReportFilter{DateFrom: "2025-04-01", DateTo: "2025-04-30"})
	require.NoError(t, err)
	require.Len(t, resp.Rows, 2)
	assert.Equal(t, int64(10000), resp.Rows[0].BaseAmountPaise)

	resp, err = svc.ByShipment(ctx, reporting.ReportFilter{ExpenseTypeID: l.freight.String(), ServiceProviderID: "SP-A"})
	require.NoError(t, err)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, int64(50000), resp.Rows[0].BaseAmountPaise)

	resp, err = svc.ByMonth(ctx, reporting.ReportFilter{Currency: "usd"})
	require.NoError(t, err)
	assert.Empty(t, resp.Rows)

	_, err = svc.ByMonth(ctx, reporting.ReportFilter{DateFrom: "2025-05-01", DateTo: "2025-04-01"})
	assert.ErrorIs(t, err, reporting.ErrInvalidDateRange)

	_, err = svc.ByMonth(ctx, reporting.ReportFilter{DateFrom: "yesterday"})
	assert.ErrorIs(t, err, reporting.ErrInvalidDateRange)

	_, err = svc.ByMonth(ctx, reporting.ReportFilter{ExpenseTypeID: "freight"})
	assert.ErrorIs(t, err, reporting.ErrInvalidExpenseType)

	_, err = svc.ByMonth(ctx, reporting.ReportFilter{Currency: "RUPEE"})
	assert.ErrorIs(t, err, reporting.ErrInvalidCurrency)

	_, err = svc.ByMonth(ctx, reporting.ReportFilter{ShipmentID: "x' OR '1'='1"})
	require.NoError(t, err)
}

func TestGSTSummaryMatchesInvoiceHeaders(t *testing.T) {
	l := seedReportData(t)

	resp, err := l.service().GSTSummary(context.Background(), reporting.ReportFilter{})
	require.NoError(t, err)
	require.Len(t, resp.Rows, 1)
	row := resp.Rows[0]
	assert.Equal(t, "INR", row.Currency)
	assert.Equal(t, int64(3), row.InvoiceCount)
	assert.Equal(t, int64(4), row.LineCount)

	var invoices []expensedomain.ExpenseInvoice
	require.NoError(t, l.db.Find(&invoices).Error)
	var want expensedomain.Totals
	for _, inv := range invoices {
		want.TotalAmountPaise += inv.TotalAmountPaise
		want.TotalCGSTAmountPaise += inv.TotalCGSTAmountPaise
		want.TotalSGSTAmountPaise += inv.TotalSGSTAmountPaise
		want.TotalIGSTAmountPaise += inv.TotalIGSTAmountPaise
		want.TotalTDSAmountPaise += inv.TotalTDSAmountPaise
		want.NetAmountPaise += inv.NetAmountPaise
	}
	assert.Equal(t, want.TotalAmountPaise, row.BaseAmountPaise)
	assert.Equal(t, want.TotalCGSTAmountPaise, row.CGSTAmountPaise)
	assert.Equal(t, want.TotalIGSTAmountPaise, row.IGSTAmountPaise)
	assert.Equal(t, want.NetAmountPaise, row.NetAmountPaise)
	assert.Equal(t, row.CGSTAmountPaise+row.SGSTAmountPaise+row.IGSTAmountPaise, row.TotalGSTPaise)
	assert.Equal(t, "333.00", row.TotalGSTDisplay)
}
