package domain

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tradeledger/internal/tax/calc"
	taxdomain "github.com/smallbiznis/tradeledger/internal/tax/domain"
	"gorm.io/gorm"
)

const DateLayout = "2006-01-02"

var currencyRe = regexp.MustCompile(`^[A-Z]{3}$`)

// ResolvedLine is a validated line with its effective rates.
type ResolvedLine struct {
	Input           LineInput
	ExpenseTypeName string
	Rates           calc.Rates
}

// Validator checks payloads. Expense type existence is delegated to the
// lookup; a nil lookup skips that check and
// treats omitted rates as zero.
type Validator struct {
	lookup taxdomain.ExpenseTypeLookup
}

func NewValidator(lookup taxdomain.ExpenseTypeLookup) *Validator {
	return &Validator{lookup: lookup}
}

// NormalizePayload trims header fields and applies the default currency.
func NormalizePayload(p InvoicePayload, defaultCurrency string) InvoicePayload {
	p.ShipmentID = strings.TrimSpace(p.ShipmentID)
	p.ServiceProviderID = strings.TrimSpace(p.ServiceProviderID)
	p.InvoiceNumber = strings.TrimSpace(p.InvoiceNumber)
	p.InvoiceDate = strings.TrimSpace(p.InvoiceDate)
	p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))
	if p.Currency == "" {
		p.Currency = strings.ToUpper(strings.TrimSpace(defaultCurrency))
	}
	if p.IdempotencyKey != nil {
		key := strings.TrimSpace(*p.IdempotencyKey)
		if key == "" {
			p.IdempotencyKey = nil
		} else {
			p.IdempotencyKey = &key
		}
	}
	for i := range p.Lines {
		p.Lines[i].Remarks = strings.TrimSpace(p.Lines[i].Remarks)
	}
	return p
}

// CheckPayload runs the store-agnostic checks in order and stops at the
// first failure.
func CheckPayload(p InvoicePayload) error {
	if len(p.Lines) == 0 {
		return NoExpenseLines()
	}

	switch {
	case p.InvoiceNumber == "":
		return MissingField("invoice_number")
	case p.ServiceProviderID == "":
		return MissingField("service_provider_id")
	case p.ShipmentID == "":
		return MissingField("shipment_id")
	}

	if p.InvoiceDate == "" {
		return MissingField("invoice_date")
	}
	if _, err := time.Parse(DateLayout, p.InvoiceDate); err != nil {
		return Validation(fmt.Sprintf("invoice_date %q is not a YYYY-MM-DD date", p.InvoiceDate))
	}
	if !currencyRe.MatchString(p.Currency) {
		return Validation(fmt.Sprintf("currency %q is not an ISO 4217 code", p.Currency))
	}

	for i, line := range p.Lines {
		if err := CheckLine(i, line); err != nil {
			return err
		}
	}
	return nil
}

// CheckLine validates one line at index.
func CheckLine(index int, line LineInput) error {
	if line.AmountPaise <= 0 || line.AmountPaise > calc.MaxAmountPaise {
		return InvalidAmount(index)
	}

	rates := []struct {
		field string
		value *int64
	}{
		{"cgst_rate_bp", line.CGSTRateBP},
		{"sgst_rate_bp", line.SGSTRateBP},
		{"igst_rate_bp", line.IGSTRateBP},
		{"tds_rate_bp", line.TDSRateBP},
	}
	for _, r := range rates {
		if r.value != nil && !calc.ValidRate(*r.value) {
			return InvalidTaxRate(index, r.field)
		}
	}

	if line.ExpenseTypeID == 0 {
		return MissingField(fmt.Sprintf("lines[%d].expense_type_id", index))
	}
	return nil
}

// Validate runs CheckPayload and then resolves every line's expense type
// through db.
func (v *Validator) Validate(ctx context.Context, db *gorm.DB, p InvoicePayload) ([]ResolvedLine, error) {
	if err := CheckPayload(p); err != nil {
		return nil, err
	}
	return v.ResolveLines(ctx, db, p.Lines, 0)
}

// ResolveLines resolves expense types and effective rates. offset shifts
// the reported line index. Writers pass their transaction as db so the
// types they reference cannot change before the lines are inserted.
func (v *Validator) ResolveLines(ctx context.Context, db *gorm.DB, lines []LineInput, offset int) ([]ResolvedLine, error) {
	cache := make(map[snowflake.ID]*taxdomain.ExpenseType)
	out := make([]ResolvedLine, 0, len(lines))

	for i, line := range lines {
		var et *taxdomain.ExpenseType
		if v.lookup != nil {
			cached, ok := cache[line.ExpenseTypeID]
			if !ok {
				found, err := v.lookup.LookupExpenseType(ctx, db, line.ExpenseTypeID)
				if err != nil {
					return nil, Storage("lookup expense type", err)
				}
				cache[line.ExpenseTypeID] = found
				cached = found
			}
			if cached == nil {
				return nil, NotFound("expense_type", line.ExpenseTypeID.String())
			}
			if !cached.IsActive {
				return nil, &ValidationError{
					Message:   fmt.Sprintf("line %d: expense type %q is inactive", i+offset, cached.Name),
					Field:     "expense_type_id",
					LineIndex: i + offset,
				}
			}
			et = cached
		}
		out = append(out, resolveRates(line, et))
	}
	return out, nil
}

func resolveRates(line LineInput, et *taxdomain.ExpenseType) ResolvedLine {
	var defaults calc.Rates
	name := ""
	if et != nil {
		defaults = calc.Rates{CGST: et.DefaultCGSTRateBP, SGST: et.DefaultSGSTRateBP, IGST: et.DefaultIGSTRateBP}
		name = et.Name
	}

	return ResolvedLine{
		Input:           line,
		ExpenseTypeName: name,
		Rates: calc.Rates{
			CGST: pick(line.CGSTRateBP, defaults.CGST),
			SGST: pick(line.SGSTRateBP, defaults.SGST),
			IGST: pick(line.IGSTRateBP, defaults.IGST),
			TDS:  pick(line.TDSRateBP, defaults.TDS),
		},
	}
}

func pick(v *int64, fallback int64) int64 {
	if v != nil {
		return *v
	}
	return fallback
}

// BuildPreview computes every line and the invoice totals. Create uses the
// same computation, so previewed values equal persisted ones.
func BuildPreview(lines []ResolvedLine) (InvoicePreview, error) {
	preview := InvoicePreview{Lines: make([]LinePreview, 0, len(lines))}
	amounts := make([]calc.LineAmounts, 0, len(lines))

	for i, rl := range lines {
		a := calc.ComputeLine(rl.Input.AmountPaise, rl.Rates)
		amounts = append(amounts, a)
		preview.Lines = append(preview.Lines, LinePreview{
			Index:            i,
			ExpenseTypeID:    rl.Input.ExpenseTypeID,
			ExpenseTypeName:  rl.ExpenseTypeName,
			AmountPaise:      a.Base,
			CGSTRateBP:       rl.Rates.CGST,
			SGSTRateBP:       rl.Rates.SGST,
			IGSTRateBP:       rl.Rates.IGST,
			TDSRateBP:        rl.Rates.TDS,
			CGSTAmountPaise:  a.CGST,
			SGSTAmountPaise:  a.SGST,
			IGSTAmountPaise:  a.IGST,
			TDSAmountPaise:   a.TDS,
			TotalAmountPaise: a.Total,
			NetAmountPaise:   a.Net,
			Remarks:          rl.Input.Remarks,
		})
	}

	totals, err := SumTotals(amounts)
	if err != nil {
		return InvoicePreview{}, err
	}
	preview.Totals = totals
	return preview, nil
}
