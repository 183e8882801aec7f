package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tradeledger/internal/tax/calc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ratesOf(cgst, sgst, igst, tds int64) calc.Rates {
	return calc.Rates{CGST: cgst, SGST: sgst, IGST: igst, TDS: tds}
}

func line(id, typeID snowflake.ID, amount int64, r calc.Rates, remarks string) ExpenseLine {
	l := ExpenseLine{
		ID:            id,
		ExpenseTypeID: typeID,
		AmountPaise:   amount,
		CGSTRateBP:    r.CGST,
		SGSTRateBP:    r.SGST,
		IGSTRateBP:    r.IGST,
		TDSRateBP:     r.TDS,
		Remarks:       remarks,
	}
	l.Recompute()
	return l
}

func sumBase(lines []ExpenseLine) int64 {
	var total int64
	for _, l := range lines {
		total += l.AmountPaise
	}
	return total
}

func TestPlanCombineMergesByType(t *testing.T) {
	gst := ratesOf(900, 900, 0, 100)
	lines := []ExpenseLine{
		line(1, 100, 33333, gst, "first leg"),
		line(2, 200, 50000, ratesOf(0, 0, 1800, 0), "customs"),
		line(3, 100, 33333, gst, ""),
		line(4, 100, 33334, gst, "last leg"),
	}

	plan, err := PlanCombine(lines, "; ")
	require.NoError(t, err)
	require.Len(t, plan.Groups, 1)
	require.Len(t, plan.Lines, 2)

	merged := plan.Lines[0]
	assert.Equal(t, snowflake.ID(1), merged.ID)
	assert.Equal(t, int64(100000), merged.AmountPaise)
	assert.Equal(t, int64(9000), merged.CGSTAmountPaise)
	assert.Equal(t, int64(1000), merged.TDSAmountPaise)
	assert.Equal(t, "first leg; last leg", merged.Remarks)
	assert.Equal(t, []snowflake.ID{3, 4}, plan.Groups[0].Absorbed)
	assert.False(t, plan.Groups[0].MixedRates)

	assert.Equal(t, lines[1], plan.Lines[1])
	assert.Equal(t, sumBase(lines), sumBase(plan.Lines))
}

func TestPlanCombineMixedRatesKeepsFirst(t *testing.T) {
	lines := []ExpenseLine{
		line(1, 100, 1000, ratesOf(900, 900, 0, 0), ""),
		line(2, 100, 1000, ratesOf(0, 0, 1800, 0), ""),
	}

	plan, err := PlanCombine(lines, ", ")
	require.NoError(t, err)
	require.Len(t, plan.Groups, 1)
	assert.True(t, plan.Groups[0].MixedRates)

	merged := plan.Lines[0]
	assert.Equal(t, int64(2000), merged.AmountPaise)
	assert.Equal(t, int64(180), merged.CGSTAmountPaise)
	assert.Equal(t, int64(0), merged.IGSTAmountPaise)
}

func TestPlanCombineIsFixedPoint(t *testing.T) {
	lines := []ExpenseLine{
		line(1, 100, 700, ratesOf(600, 600, 0, 0), "a"),
		line(2, 100, 300, ratesOf(600, 600, 0, 0), "b"),
		line(3, 200, 900, ratesOf(0, 0, 500, 0), ""),
	}

	first, err := PlanCombine(lines, "|")
	require.NoError(t, err)
	require.False(t, first.Empty())

	second, err := PlanCombine(first.Lines, "|")
	require.NoError(t, err)
	assert.True(t, second.Empty())
	assert.Equal(t, first.Lines, second.Lines)
	assert.Equal(t, sumBase(lines), sumBase(second.Lines))
}

func TestLinesTotalsMatchesLineSums(t *testing.T) {
	lines := []ExpenseLine{
		line(1, 100, 100000, ratesOf(900, 900, 0, 0), ""),
		line(2, 200, 50000, ratesOf(0, 0, 1800, 200), ""),
	}

	totals, err := LinesTotals(lines)
	require.NoError(t, err)
	assert.Equal(t, int64(150000), totals.TotalAmountPaise)
	assert.Equal(t, int64(1000), totals.TotalTDSAmountPaise)
	assert.Equal(t, totals.TotalAmountPaise-totals.TotalTDSAmountPaise, totals.NetAmountPaise)
	assert.Equal(t, lines[0].TotalAmountPaise+lines[1].TotalAmountPaise, totals.GrossAmountPaise)
	assert.Equal(t, lines[0].NetAmountPaise+lines[1].NetAmountPaise, totals.PayableAmountPaise)
}

func TestPlanCombineRejectsMergedAmountAboveMaximum(t *testing.T) {
	gst := ratesOf(900, 900, 0, 0)
	lines := []ExpenseLine{
		line(1, 100, calc.MaxAmountPaise, gst, ""),
		line(2, 100, 1, gst, ""),
	}

	_, err := PlanCombine(lines, ", ")
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	lines[0].AmountPaise = calc.MaxAmountPaise - 1
	lines[0].Recompute()
	plan, err := PlanCombine(lines, ", ")
	require.NoError(t, err)
	assert.Equal(t, calc.MaxAmountPaise, plan.Lines[0].AmountPaise)
}

func TestSumTotalsRejectsOverflow(t *testing.T) {
	huge := calc.ComputeLine(math.MaxInt64/2, ratesOf(0, 0, 1800, 0))
	_, err := SumTotals([]calc.LineAmounts{huge, huge})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, -1, verr.LineIndex)
}
