package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/smallbiznis/tradeledger/internal/audit/domain"
	expensedomain "github.com/smallbiznis/tradeledger/internal/expense/domain"
	"github.com/smallbiznis/tradeledger/pkg/db"
	"github.com/smallbiznis/tradeledger/pkg/log/ctxlogger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// instrument opens a span for a mutating operation. The returned func
// records the outcome and must be called exactly once.
func (s *Service) instrument(ctx context.Context, action string) (context.Context, func(error)) {
	ctx, span := tracer.Start(ctx, "expense."+action)
	started := time.Now()

	return ctx, func(err error) {
		s.metrics.ObserveWrite(action, started)
		s.metrics.InvoiceOperation(action, err)
		if errors.Is(err, expensedomain.ErrConflict) {
			s.metrics.VersionConflict()
		}

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			if errors.Is(err, expensedomain.ErrStorage) {
				ctxlogger.WithContext(ctx, s.log).Error("expense operation failed",
					zap.String("action", action),
					zap.Error(err),
				)
			}
		}
		span.End()
	}
}

func (s *Service) replay(ctx context.Context, inv *expensedomain.ExpenseInvoice) *expensedomain.InvoiceResult {
	s.metrics.IdempotentReplay()
	ctxlogger.WithContext(ctx, s.log).Info("idempotent create replayed",
		zap.String("invoice_id", inv.ID.String()),
		zap.Int64("version", inv.Version),
	)
	res := inv.Result()
	return &res
}

func (s *Service) record(ctx context.Context, tx *gorm.DB, inv *expensedomain.ExpenseInvoice, action auditdomain.Action, detail string, metadata map[string]any) error {
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadata["version"] = inv.Version

	err := s.audit.Record(ctx, tx, auditdomain.RecordRequest{
		InvoiceID: inv.ID,
		Action:    action,
		Detail:    detail,
		Metadata:  metadata,
	})
	if err != nil {
		return expensedomain.Storage("record audit entry", err)
	}
	return nil
}

// loadForMutation fetches the invoice and enforces the caller's expected
// version.
func (s *Service) loadForMutation(ctx context.Context, tx *gorm.DB, id snowflake.ID, expected *int64) (*expensedomain.ExpenseInvoice, error) {
	inv, err := s.repo.FindInvoiceByID(ctx, tx, id)
	if err != nil {
		return nil, expensedomain.Storage("find invoice", err)
	}
	if inv == nil {
		return nil, expensedomain.NotFound("expense_invoice", id.String())
	}
	if expected != nil && *expected != inv.Version {
		return nil, &expensedomain.ConflictError{Expected: *expected, Actual: inv.Version}
	}
	return inv, nil
}

// refreshAggregates recomputes the invoice totals from its full stored line
// set and writes them back. With bump the version advances by one. The
// write is conditional on the version read earlier in the transaction.
func (s *Service) refreshAggregates(ctx context.Context, tx *gorm.DB, inv *expensedomain.ExpenseInvoice, bump bool) error {
	lines, err := s.repo.ListLines(ctx, tx, inv.ID)
	if err != nil {
		return expensedomain.Storage("list lines", err)
	}
	totals, err := expensedomain.LinesTotals(lines)
	if err != nil {
		return err
	}
	inv.ApplyTotals(totals)

	expected := inv.Version
	if bump {
		inv.Version++
		inv.UpdatedAt = s.clock.Now().UTC()
	}

	rows, err := s.repo.SaveAggregates(ctx, tx, inv, expected)
	if err != nil {
		return expensedomain.Storage("save aggregates", err)
	}
	if rows == 0 {
		actual := int64(0)
		if current, err := s.repo.FindInvoiceByID(ctx, tx, inv.ID); err == nil && current != nil {
			actual = current.Version
		}
		return &expensedomain.ConflictError{Expected: expected, Actual: actual}
	}
	return nil
}

func checkLine(line expensedomain.LineInput) (expensedomain.LineInput, error) {
	line.Remarks = strings.TrimSpace(line.Remarks)
	if err := expensedomain.CheckLine(0, line); err != nil {
		return line, err
	}
	return line, nil
}

// resolveLine must run inside the writer transaction that stores the line.
func (s *Service) resolveLine(ctx context.Context, tx *gorm.DB, line expensedomain.LineInput) (expensedomain.ResolvedLine, error) {
	resolved, err := s.validator.ResolveLines(ctx, tx, []expensedomain.LineInput{line}, 0)
	if err != nil {
		return expensedomain.ResolvedLine{}, err
	}
	return resolved[0], nil
}

// insertLinesErr maps a foreign key rejection to a caller error. It fires
// when another process removed an expense type after it was resolved.
func insertLinesErr(err error) error {
	if db.IsForeignKeyErr(err) {
		return &expensedomain.ValidationError{
			Message:   "expense type no longer exists",
			Field:     "expense_type_id",
			LineIndex: -1,
		}
	}
	return expensedomain.Storage("insert lines", err)
}

func (s *Service) newLines(invoiceID snowflake.ID, resolved []expensedomain.ResolvedLine, startPos int, now time.Time) []expensedomain.ExpenseLine {
	lines := make([]expensedomain.ExpenseLine, 0, len(resolved))
	for i, rl := range resolved {
		lines = append(lines, s.newLine(invoiceID, rl, startPos+i, now))
	}
	return lines
}

func (s *Service) newLine(invoiceID snowflake.ID, rl expensedomain.ResolvedLine, position int, now time.Time) expensedomain.ExpenseLine {
	line := expensedomain.ExpenseLine{
		ID:        s.genID.Generate(),
		InvoiceID: invoiceID,
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyResolved(&line, rl)
	return line
}

func applyResolved(line *expensedomain.ExpenseLine, rl expensedomain.ResolvedLine) {
	line.ExpenseTypeID = rl.Input.ExpenseTypeID
	line.AmountPaise = rl.Input.AmountPaise
	line.CGSTRateBP = rl.Rates.CGST
	line.SGSTRateBP = rl.Rates.SGST
	line.IGSTRateBP = rl.Rates.IGST
	line.TDSRateBP = rl.Rates.TDS
	line.Remarks = rl.Input.Remarks
	line.Recompute()
}

func parseID(entity, raw string) (snowflake.ID, error) {
	trimmed := strings.TrimSpace(raw)
	id, err := snowflake.ParseString(trimmed)
	if err != nil || id <= 0 {
		return 0, &expensedomain.ValidationError{
			Message:   fmt.Sprintf("invalid %s id %q", entity, trimmed),
			Field:     "id",
			LineIndex: -1,
		}
	}
	return id, nil
}

// annotate tags the active span with the invoice it mutated.
func annotate(ctx context.Context, inv *expensedomain.ExpenseInvoice) {
	if inv == nil {
		return
	}
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("invoice.id", inv.ID.String()),
		attribute.Int64("invoice.version", inv.Version),
	)
}
