// Package calc converts basis-point tax rates into paise amounts.
//
// All arithmetic is integer. Rounding is half-up at the paise boundary:
// round(amount * rate / 10000) with .5 rounded away from zero. The
// intermediate product is 128-bit, so a single tax amount never overflows.
// Sums are checked: AddPaise and LineAmounts.Add report ErrOverflow instead
// of wrapping.
package calc

import (
	"errors"
	"math/bits"
)

const (
	// MaxRateBP is 100% expressed in basis points.
	MaxRateBP int64 = 10000

	// MaxAmountPaise bounds a single line's base amount (10^13 rupees). A
	// line at the cap with every rate at MaxRateBP totals 4*10^15, far
	// inside int64.
	MaxAmountPaise int64 = 1_000_000_000_000_000

	denominator     = uint64(MaxRateBP)
	halfDenominator = denominator / 2
)

// Rates are the four per-line rates in basis points.
type Rates struct {
	CGST int64
	SGST int64
	IGST int64
	TDS  int64
}

// LineAmounts are the derived paise amounts of one expense line.
type LineAmounts struct {
	Base  int64
	CGST  int64
	SGST  int64
	IGST  int64
	TDS   int64
	Total int64
	Net   int64
}

// ValidRate reports whether bp is within [0, MaxRateBP].
func ValidRate(bp int64) bool {
	return bp >= 0 && bp <= MaxRateBP
}

// CalculateTaxAmount returns round_half_up(amountPaise * rateBP / 10000).
// Negative inputs yield 0; rates above MaxRateBP are treated as MaxRateBP.
func CalculateTaxAmount(amountPaise, rateBP int64) int64 {
	if amountPaise <= 0 || rateBP <= 0 {
		return 0
	}
	if rateBP > MaxRateBP {
		rateBP = MaxRateBP
	}

	hi, lo := bits.Mul64(uint64(amountPaise), uint64(rateBP))
	lo, carry := bits.Add64(lo, halfDenominator, 0)
	hi += carry
	q, _ := bits.Div64(hi, lo, denominator)
	return int64(q)
}

func CalculateTotalAmount(base, cgst, sgst, igst int64) int64 {
	return base + cgst + sgst + igst
}

func CalculateNetAmount(base, cgst, sgst, igst, tds int64) int64 {
	return CalculateTotalAmount(base, cgst, sgst, igst) - tds
}

// ComputeLine derives every monetary field of a line from its base amount
// and rates. It is the only place line tax amounts are produced.
func ComputeLine(basePaise int64, r Rates) LineAmounts {
	out := LineAmounts{
		Base: basePaise,
		CGST: CalculateTaxAmount(basePaise, r.CGST),
		SGST: CalculateTaxAmount(basePaise, r.SGST),
		IGST: CalculateTaxAmount(basePaise, r.IGST),
		TDS:  CalculateTaxAmount(basePaise, r.TDS),
	}
	out.Total = CalculateTotalAmount(out.Base, out.CGST, out.SGST, out.IGST)
	out.Net = CalculateNetAmount(out.Base, out.CGST, out.SGST, out.IGST, out.TDS)
	return out
}

// Add accumulates other into a. On overflow a is left unchanged.
func (a *LineAmounts) Add(other LineAmounts) error {
	sum := *a
	for _, f := range []struct {
		dst *int64
		v   int64
	}{
		{&sum.Base, other.Base},
		{&sum.CGST, other.CGST},
		{&sum.SGST, other.SGST},
		{&sum.IGST, other.IGST},
		{&sum.TDS, other.TDS},
		{&sum.Total, other.Total},
		{&sum.Net, other.Net},
	} {
		v, err := AddPaise(*f.dst, f.v)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	*a = sum
	return nil
}

// ErrOverflow is returned when a paise sum leaves the int64 range.
var ErrOverflow = errors.New("amount_overflow")

// AddPaise returns a+b, or ErrOverflow when the sum does not fit in int64.
func AddPaise(a, b int64) (int64, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, ErrOverflow
	}
	return sum, nil
}
