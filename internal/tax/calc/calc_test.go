package calc

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateTaxAmountScenarios(t *testing.T) {
	cases := []struct {
		name   string
		amount int64
		rate   int64
		want   int64
	}{
		{name: "nine percent", amount: 100000, rate: 900, want: 9000},
		{name: "eighteen percent", amount: 50000, rate: 1800, want: 9000},
		{name: "sub paise rounds to zero", amount: 1, rate: 900, want: 0},
		{name: "zero rate", amount: 123456, rate: 0, want: 0},
		{name: "zero amount", amount: 0, rate: 10000, want: 0},
		{name: "full rate", amount: 98765, rate: 10000, want: 98765},
		{name: "half rounds up", amount: 50, rate: 100, want: 1},
		{name: "one and a half rounds up", amount: 150, rate: 100, want: 2},
		{name: "two and a half rounds up not to even", amount: 250, rate: 100, want: 3},
		{name: "just below half rounds down", amount: 49, rate: 100, want: 0},
		{name: "trillion paise", amount: 1_000_000_000_000, rate: 1800, want: 180_000_000_000},
		{name: "max int64 full rate", amount: math.MaxInt64, rate: 10000, want: math.MaxInt64},
		{name: "negative amount", amount: -100, rate: 900, want: 0},
		{name: "negative rate", amount: 100, rate: -900, want: 0},
		{name: "rate above cap is capped", amount: 100, rate: 20000, want: 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CalculateTaxAmount(tc.amount, tc.rate))
		})
	}
}

func TestCalculateTaxAmountNeverExceedsPrincipal(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 10000; i++ {
		amount := r.Int63()
		if i%2 == 0 {
			amount = r.Int63n(10_000_000)
		}
		rate := r.Int63n(MaxRateBP + 1)

		got := CalculateTaxAmount(amount, rate)
		assert.GreaterOrEqual(t, got, int64(0))
		assert.LessOrEqual(t, got, amount, "amount=%d rate=%d", amount, rate)
		assert.Equal(t, int64(0), CalculateTaxAmount(amount, 0))
	}
}

func TestComputeLine(t *testing.T) {
	a := ComputeLine(100000, Rates{CGST: 900, SGST: 900})
	assert.Equal(t, LineAmounts{Base: 100000, CGST: 9000, SGST: 9000, Total: 118000, Net: 118000}, a)

	b := ComputeLine(50000, Rates{IGST: 1800, TDS: 200})
	assert.Equal(t, int64(9000), b.IGST)
	assert.Equal(t, int64(1000), b.TDS)
	assert.Equal(t, int64(59000), b.Total)
	assert.Equal(t, int64(58000), b.Net)

	var sum LineAmounts
	require.NoError(t, sum.Add(a))
	require.NoError(t, sum.Add(b))
	assert.Equal(t, int64(150000), sum.Base)
	assert.Equal(t, int64(177000), sum.Total)
	assert.Equal(t, sum.Total-sum.TDS, sum.Net)
}

func TestValidRate(t *testing.T) {
	assert.True(t, ValidRate(0))
	assert.True(t, ValidRate(10000))
	assert.False(t, ValidRate(-1))
	assert.False(t, ValidRate(10001))
}

func TestAddPaiseOverflow(t *testing.T) {
	v, err := AddPaise(math.MaxInt64-1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), v)

	_, err = AddPaise(math.MaxInt64, 1)
	assert.ErrorIs(t, err, ErrOverflow)
	_, err = AddPaise(math.MinInt64, -1)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestLineAmountsAddRejectsOverflow(t *testing.T) {
	huge := ComputeLine(math.MaxInt64/2, Rates{IGST: 1800})
	var sum LineAmounts
	require.NoError(t, sum.Add(huge))
	before := sum
	assert.ErrorIs(t, sum.Add(huge), ErrOverflow)
	assert.Equal(t, before, sum)
}

func TestMaxAmountLinesSumSafely(t *testing.T) {
	top := ComputeLine(MaxAmountPaise, Rates{CGST: MaxRateBP, SGST: MaxRateBP, IGST: MaxRateBP, TDS: MaxRateBP})
	var sum LineAmounts
	for i := 0; i < 1000; i++ {
		require.NoError(t, sum.Add(top))
	}
	assert.Equal(t, 1000*MaxAmountPaise, sum.Base)
	assert.Equal(t, 4000*MaxAmountPaise, sum.Total)
}
