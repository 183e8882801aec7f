package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	attachmentdomain "github.com/smallbiznis/tradeledger/internal/attachment/domain"
	auditdomain "github.com/smallbiznis/tradeledger/internal/audit/domain"
	"github.com/smallbiznis/tradeledger/internal/clock"
	"github.com/smallbiznis/tradeledger/internal/config"
	expensedomain "github.com/smallbiznis/tradeledger/internal/expense/domain"
	"github.com/smallbiznis/tradeledger/internal/observability/metrics"
	taxdomain "github.com/smallbiznis/tradeledger/internal/tax/domain"
	"github.com/smallbiznis/tradeledger/pkg/db"
	"github.com/smallbiznis/tradeledger/pkg/db/pagination"
	"github.com/smallbiznis/tradeledger/pkg/db/txmanager"
	"github.com/smallbiznis/tradeledger/pkg/log/ctxlogger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("tradeledger/expense")

type Params struct {
	fx.In

	Config      config.Config
	Log         *zap.Logger
	GenID       *snowflake.Node
	Tx          *txmanager.Manager
	Clock       clock.Clock
	Repo        expensedomain.Repository
	Lookup      taxdomain.ExpenseTypeLookup
	Audit       auditdomain.Service
	Attachments attachmentdomain.Service
	Metrics     *metrics.Metrics `optional:"true"`
}

type Service struct {
	log         *zap.Logger
	genID       *snowflake.Node
	tx          *txmanager.Manager
	clock       clock.Clock
	repo        expensedomain.Repository
	validator   *expensedomain.Validator
	audit       auditdomain.Service
	attachments attachmentdomain.Service
	metrics     *metrics.Metrics

	defaultCurrency  string
	remarksSeparator string
}

func NewService(p Params) expensedomain.Service {
	lookup := p.Lookup
	if !p.Config.Expense.ExpenseTypeLookupEnabled {
		lookup = nil
	}

	return &Service{
		log:         p.Log.Named("expense.service"),
		genID:       p.GenID,
		tx:          p.Tx,
		clock:       p.Clock,
		repo:        p.Repo,
		validator:   expensedomain.NewValidator(lookup),
		audit:       p.Audit,
		attachments: p.Attachments,
		metrics:     p.Metrics,

		defaultCurrency:  p.Config.Expense.DefaultCurrency,
		remarksSeparator: p.Config.Expense.CombineRemarksSeparator,
	}
}

// CreateOrUpdateInvoice creates an invoice with its lines. A known
// idempotency key replays the stored result; a known (provider, number)
// pair is rejected because updates go through UpdateInvoice.
//
// Replay happens before validation: the payload of a request whose key is
// already stored is not checked or compared with the original.
func (s *Service) CreateOrUpdateInvoice(ctx context.Context, payload expensedomain.InvoicePayload) (result *expensedomain.InvoiceResult, err error) {
	ctx, done := s.instrument(ctx, "create")
	defer func() { done(err) }()

	payload = expensedomain.NormalizePayload(payload, s.defaultCurrency)

	if key := payload.IdempotencyKey; key != nil {
		var existing *expensedomain.ExpenseInvoice
		err = s.tx.Read(ctx, func(tx *gorm.DB) error {
			var err error
			existing, err = s.repo.FindInvoiceByIdempotencyKey(ctx, tx, *key)
			return err
		})
		if err != nil {
			return nil, expensedomain.Storage("find invoice by idempotency key", err)
		}
		if existing != nil {
			return s.replay(ctx, existing), nil
		}
	}

	if err := expensedomain.CheckPayload(payload); err != nil {
		return nil, err
	}

	var (
		inv      *expensedomain.ExpenseInvoice
		resolved []expensedomain.ResolvedLine
		replayed bool
	)
	err = s.tx.Write(ctx, func(tx *gorm.DB) error {
		if key := payload.IdempotencyKey; key != nil {
			existing, err := s.repo.FindInvoiceByIdempotencyKey(ctx, tx, *key)
			if err != nil {
				return expensedomain.Storage("find invoice by idempotency key", err)
			}
			if existing != nil {
				inv, replayed = existing, true
				return nil
			}
		}

		var err error
		resolved, err = s.validator.ResolveLines(ctx, tx, payload.Lines, 0)
		if err != nil {
			return err
		}

		dup, err := s.repo.FindInvoiceByProviderNumber(ctx, tx, payload.ServiceProviderID, payload.InvoiceNumber)
		if err != nil {
			return expensedomain.Storage("find invoice by provider number", err)
		}
		if dup != nil {
			return expensedomain.Validation(expensedomain.MsgUpdateViaCreate)
		}

		now := s.clock.Now().UTC()
		inv = &expensedomain.ExpenseInvoice{
			ID:                s.genID.Generate(),
			ShipmentID:        payload.ShipmentID,
			ServiceProviderID: payload.ServiceProviderID,
			InvoiceNumber:     payload.InvoiceNumber,
			InvoiceDate:       payload.InvoiceDate,
			Currency:          payload.Currency,
			IdempotencyKey:    payload.IdempotencyKey,
			Version:           1,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := s.repo.InsertInvoice(ctx, tx, inv); err != nil {
			return expensedomain.Storage("insert invoice", err)
		}
		if err := s.repo.InsertLines(ctx, tx, s.newLines(inv.ID, resolved, 0, now)); err != nil {
			return insertLinesErr(err)
		}
		if err := s.refreshAggregates(ctx, tx, inv, false); err != nil {
			return err
		}

		return s.record(ctx, tx, inv, auditdomain.ActionCreate,
			fmt.Sprintf("created invoice %s with %d line(s)", inv.InvoiceNumber, len(resolved)),
			map[string]any{"line_count": len(resolved)},
		)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, expensedomain.Validation(expensedomain.MsgUpdateViaCreate)
		}
		return nil, expensedomain.Storage("create invoice", err)
	}
	annotate(ctx, inv)
	if replayed {
		return s.replay(ctx, inv), nil
	}

	ctxlogger.WithContext(ctx, s.log).Info("expense invoice created",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.Int("line_count", len(resolved)),
	)
	res := inv.Result()
	return &res, nil
}

// PreviewInvoice validates and computes without persisting anything.
func (s *Service) PreviewInvoice(ctx context.Context, payload expensedomain.InvoicePayload) (*expensedomain.InvoicePreview, error) {
	ctx, span := tracer.Start(ctx, "expense.preview")
	defer span.End()

	payload = expensedomain.NormalizePayload(payload, s.defaultCurrency)
	var preview expensedomain.InvoicePreview
	err := s.tx.Read(ctx, func(tx *gorm.DB) error {
		resolved, err := s.validator.Validate(ctx, tx, payload)
		if err != nil {
			return err
		}
		preview, err = expensedomain.BuildPreview(resolved)
		return err
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, expensedomain.Storage("preview invoice", err)
	}
	return &preview, nil
}

func (s *Service) GetInvoice(ctx context.Context, id string) (*expensedomain.InvoiceDetail, error) {
	invoiceID, err := parseID("expense_invoice", id)
	if err != nil {
		return nil, err
	}

	var detail *expensedomain.InvoiceDetail
	err = s.tx.Read(ctx, func(tx *gorm.DB) error {
		inv, err := s.repo.FindInvoiceByID(ctx, tx, invoiceID)
		if err != nil {
			return expensedomain.Storage("find invoice", err)
		}
		if inv == nil {
			return expensedomain.NotFound("expense_invoice", invoiceID.String())
		}

		lines, err := s.repo.ListLineDetails(ctx, tx, invoiceID)
		if err != nil {
			return expensedomain.Storage("list lines", err)
		}
		if lines == nil {
			lines = []expensedomain.LineDetail{}
		}
		detail = &expensedomain.InvoiceDetail{ExpenseInvoice: *inv, Lines: lines}
		return nil
	})
	if err != nil {
		return nil, expensedomain.Storage("get invoice", err)
	}
	return detail, nil
}

func (s *Service) ListInvoices(ctx context.Context, req expensedomain.ListInvoicesRequest) (expensedomain.ListInvoicesResponse, error) {
	filter := expensedomain.ListFilter{
		ShipmentID:        strings.TrimSpace(req.ShipmentID),
		ServiceProviderID: strings.TrimSpace(req.ServiceProviderID),
		InvoiceNumber:     strings.TrimSpace(req.InvoiceNumber),
		Currency:          strings.ToUpper(strings.TrimSpace(req.Currency)),
		DateFrom:          strings.TrimSpace(req.DateFrom),
		DateTo:            strings.TrimSpace(req.DateTo),
		Limit:             req.Size(),
	}
	for name, value := range map[string]string{"date_from": filter.DateFrom, "date_to": filter.DateTo} {
		if value == "" {
			continue
		}
		if _, err := time.Parse(expensedomain.DateLayout, value); err != nil {
			return expensedomain.ListInvoicesResponse{}, expensedomain.Validation(fmt.Sprintf("%s %q is not a YYYY-MM-DD date", name, value))
		}
	}

	if token := strings.TrimSpace(req.PageToken); token != "" {
		cursor, err := pagination.DecodeCursor(token)
		if err != nil {
			return expensedomain.ListInvoicesResponse{}, expensedomain.Validation("invalid page_token")
		}
		afterID, err := snowflake.ParseString(cursor.ID)
		if err != nil {
			return expensedomain.ListInvoicesResponse{}, expensedomain.Validation("invalid page_token")
		}
		filter.AfterID = afterID
	}

	var items []*expensedomain.ExpenseInvoice
	err := s.tx.Read(ctx, func(tx *gorm.DB) error {
		var err error
		items, err = s.repo.ListInvoices(ctx, tx, filter)
		return err
	})
	if err != nil {
		return expensedomain.ListInvoicesResponse{}, expensedomain.Storage("list invoices", err)
	}

	items, pageInfo := pagination.BuildCursorPageInfo(items, filter.Limit, func(inv *expensedomain.ExpenseInvoice) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{ID: inv.ID.String()})
		if err != nil {
			return ""
		}
		return token
	})

	invoices := make([]expensedomain.ExpenseInvoice, 0, len(items))
	for _, item := range items {
		if item != nil {
			invoices = append(invoices, *item)
		}
	}
	return expensedomain.ListInvoicesResponse{PageInfo: pageInfo, Invoices: invoices}, nil
}

// UpdateInvoice replaces the header and the full line set. Attachments of
// the replaced lines are removed.
func (s *Service) UpdateInvoice(ctx context.Context, req expensedomain.UpdateInvoiceRequest) (result *expensedomain.InvoiceResult, err error) {
	ctx, done := s.instrument(ctx, "update")
	defer func() { done(err) }()

	invoiceID, err := parseID("expense_invoice", req.ID)
	if err != nil {
		return nil, err
	}

	payload := expensedomain.NormalizePayload(req.Payload, s.defaultCurrency)
	if err := expensedomain.CheckPayload(payload); err != nil {
		return nil, err
	}

	var (
		inv      *expensedomain.ExpenseInvoice
		resolved []expensedomain.ResolvedLine
		paths    []string
	)
	err = s.tx.Write(ctx, func(tx *gorm.DB) error {
		resolved, err = s.validator.ResolveLines(ctx, tx, payload.Lines, 0)
		if err != nil {
			return err
		}

		inv, err = s.loadForMutation(ctx, tx, invoiceID, req.ExpectedVersion)
		if err != nil {
			return err
		}

		if payload.ServiceProviderID != inv.ServiceProviderID || payload.InvoiceNumber != inv.InvoiceNumber {
			other, err := s.repo.FindInvoiceByProviderNumber(ctx, tx, payload.ServiceProviderID, payload.InvoiceNumber)
			if err != nil {
				return expensedomain.Storage("find invoice by provider number", err)
			}
			if other != nil && other.ID != inv.ID {
				return expensedomain.Validation(expensedomain.MsgDuplicateInvoiceNo)
			}
		}

		inv.ShipmentID = payload.ShipmentID
		inv.ServiceProviderID = payload.ServiceProviderID
		inv.InvoiceNumber = payload.InvoiceNumber
		inv.InvoiceDate = payload.InvoiceDate
		inv.Currency = payload.Currency
		if err := s.repo.UpdateInvoiceHeader(ctx, tx, inv); err != nil {
			return expensedomain.Storage("update invoice header", err)
		}

		paths, err = s.attachments.DeleteForInvoice(ctx, tx, inv.ID)
		if err != nil {
			return expensedomain.Storage("delete attachments", err)
		}
		if err := s.repo.DeleteLinesByInvoice(ctx, tx, inv.ID); err != nil {
			return expensedomain.Storage("delete lines", err)
		}
		now := s.clock.Now().UTC()
		if err := s.repo.InsertLines(ctx, tx, s.newLines(inv.ID, resolved, 0, now)); err != nil {
			return insertLinesErr(err)
		}
		if err := s.refreshAggregates(ctx, tx, inv, true); err != nil {
			return err
		}

		return s.record(ctx, tx, inv, auditdomain.ActionUpdate,
			fmt.Sprintf("replaced line set with %d line(s)", len(resolved)),
			map[string]any{"line_count": len(resolved)},
		)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, expensedomain.Validation(expensedomain.MsgDuplicateInvoiceNo)
		}
		return nil, expensedomain.Storage("update invoice", err)
	}

	annotate(ctx, inv)
	s.attachments.PurgeFiles(ctx, paths)
	res := inv.Result()
	return &res, nil
}

// DeleteInvoice removes attachments, lines and the invoice row.
func (s *Service) DeleteInvoice(ctx context.Context, req expensedomain.DeleteInvoiceRequest) (err error) {
	ctx, done := s.instrument(ctx, "delete_invoice")
	defer func() { done(err) }()

	invoiceID, err := parseID("expense_invoice", req.ID)
	if err != nil {
		return err
	}

	var paths []string
	err = s.tx.Write(ctx, func(tx *gorm.DB) error {
		inv, err := s.loadForMutation(ctx, tx, invoiceID, req.ExpectedVersion)
		if err != nil {
			return err
		}

		paths, err = s.attachments.DeleteForInvoice(ctx, tx, invoiceID)
		if err != nil {
			return expensedomain.Storage("delete attachments", err)
		}
		if err := s.repo.DeleteLinesByInvoice(ctx, tx, invoiceID); err != nil {
			return expensedomain.Storage("delete lines", err)
		}
		rows, err := s.repo.DeleteInvoice(ctx, tx, invoiceID)
		if err != nil {
			return expensedomain.Storage("delete invoice", err)
		}
		if rows == 0 {
			return expensedomain.NotFound("expense_invoice", invoiceID.String())
		}

		return s.record(ctx, tx, inv, auditdomain.ActionDelete,
			fmt.Sprintf("deleted invoice %s", inv.InvoiceNumber),
			map[string]any{
				"version":            inv.Version,
				"total_amount_paise": inv.TotalAmountPaise,
				"net_amount_paise":   inv.NetAmountPaise,
			},
		)
	})
	if err != nil {
		return expensedomain.Storage("delete invoice", err)
	}

	s.attachments.PurgeFiles(ctx, paths)
	return nil
}

func (s *Service) AddLine(ctx context.Context, req expensedomain.AddLineRequest) (result *expensedomain.LineResult, err error) {
	ctx, done := s.instrument(ctx, "add_line")
	defer func() { done(err) }()

	invoiceID, err := parseID("expense_invoice", req.InvoiceID)
	if err != nil {
		return nil, err
	}
	input, err := checkLine(req.Line)
	if err != nil {
		return nil, err
	}

	var (
		inv  *expensedomain.ExpenseInvoice
		line expensedomain.ExpenseLine
	)
	err = s.tx.Write(ctx, func(tx *gorm.DB) error {
		resolved, err := s.resolveLine(ctx, tx, input)
		if err != nil {
			return err
		}

		inv, err = s.loadForMutation(ctx, tx, invoiceID, req.ExpectedVersion)
		if err != nil {
			return err
		}

		pos, err := s.repo.MaxLinePosition(ctx, tx, invoiceID)
		if err != nil {
			return expensedomain.Storage("max line position", err)
		}
		line = s.newLine(invoiceID, resolved, pos+1, s.clock.Now().UTC())
		if err := s.repo.InsertLines(ctx, tx, []expensedomain.ExpenseLine{line}); err != nil {
			return insertLinesErr(err)
		}
		if err := s.refreshAggregates(ctx, tx, inv, true); err != nil {
			return err
		}

		return s.record(ctx, tx, inv, auditdomain.ActionUpdate,
			fmt.Sprintf("added line %s", line.ID),
			map[string]any{"line_id": line.ID.String(), "amount_paise": line.AmountPaise},
		)
	})
	if err != nil {
		return nil, expensedomain.Storage("add line", err)
	}
	annotate(ctx, inv)

	return &expensedomain.LineResult{LineID: line.ID, Invoice: inv.Result()}, nil
}

func (s *Service) UpdateLine(ctx context.Context, req expensedomain.UpdateLineRequest) (result *expensedomain.LineResult, err error) {
	ctx, done := s.instrument(ctx, "update_line")
	defer func() { done(err) }()

	lineID, err := parseID("expense_line", req.LineID)
	if err != nil {
		return nil, err
	}
	input, err := checkLine(req.Line)
	if err != nil {
		return nil, err
	}

	var inv *expensedomain.ExpenseInvoice
	err = s.tx.Write(ctx, func(tx *gorm.DB) error {
		resolved, err := s.resolveLine(ctx, tx, input)
		if err != nil {
			return err
		}

		line, err := s.repo.FindLineByID(ctx, tx, lineID)
		if err != nil {
			return expensedomain.Storage("find line", err)
		}
		if line == nil {
			return expensedomain.NotFound("expense_line", lineID.String())
		}

		inv, err = s.loadForMutation(ctx, tx, line.InvoiceID, req.ExpectedVersion)
		if err != nil {
			return err
		}

		before := line.AmountPaise
		applyResolved(line, resolved)
		line.UpdatedAt = s.clock.Now().UTC()
		if err := s.repo.UpdateLine(ctx, tx, line); err != nil {
			return insertLinesErr(err)
		}
		if err := s.refreshAggregates(ctx, tx, inv, true); err != nil {
			return err
		}

		return s.record(ctx, tx, inv, auditdomain.ActionUpdate,
			fmt.Sprintf("updated line %s", line.ID),
			map[string]any{
				"line_id":             line.ID.String(),
				"amount_paise_before": before,
				"amount_paise_after":  line.AmountPaise,
			},
		)
	})
	if err != nil {
		return nil, expensedomain.Storage("update line", err)
	}

	annotate(ctx, inv)
	return &expensedomain.LineResult{LineID: lineID, Invoice: inv.Result()}, nil
}

// DeleteLine removes one line and its attachments. The last line of an
// invoice cannot be deleted; delete the invoice instead.
func (s *Service) DeleteLine(ctx context.Context, req expensedomain.DeleteLineRequest) (result *expensedomain.InvoiceResult, err error) {
	ctx, done := s.instrument(ctx, "delete_line")
	defer func() { done(err) }()

	lineID, err := parseID("expense_line", req.LineID)
	if err != nil {
		return nil, err
	}

	var (
		inv   *expensedomain.ExpenseInvoice
		paths []string
	)
	err = s.tx.Write(ctx, func(tx *gorm.DB) error {
		line, err := s.repo.FindLineByID(ctx, tx, lineID)
		if err != nil {
			return expensedomain.Storage("find line", err)
		}
		if line == nil {
			return expensedomain.NotFound("expense_line", lineID.String())
		}

		inv, err = s.loadForMutation(ctx, tx, line.InvoiceID, req.ExpectedVersion)
		if err != nil {
			return err
		}

		lines, err := s.repo.ListLines(ctx, tx, inv.ID)
		if err != nil {
			return expensedomain.Storage("list lines", err)
		}
		if len(lines) <= 1 {
			return expensedomain.Validation(expensedomain.MsgLastLine)
		}

		paths, err = s.attachments.DeleteForLine(ctx, tx, lineID)
		if err != nil {
			return expensedomain.Storage("delete attachments", err)
		}
		if _, err := s.repo.DeleteLines(ctx, tx, []snowflake.ID{lineID}); err != nil {
			return expensedomain.Storage("delete line", err)
		}
		if err := s.refreshAggregates(ctx, tx, inv, true); err != nil {
			return err
		}

		return s.record(ctx, tx, inv, auditdomain.ActionUpdate,
			fmt.Sprintf("deleted line %s", lineID),
			map[string]any{"line_id": lineID.String(), "amount_paise": line.AmountPaise},
		)
	})
	if err != nil {
		return nil, expensedomain.Storage("delete line", err)
	}

	annotate(ctx, inv)
	s.attachments.PurgeFiles(ctx, paths)
	res := inv.Result()
	return &res, nil
}

// CombineDuplicates merges lines that share an expense type. An invoice
// without duplicates is returned unchanged with no version bump.
func (s *Service) CombineDuplicates(ctx context.Context, req expensedomain.CombineRequest) (result *expensedomain.InvoiceResult, err error) {
	ctx, done := s.instrument(ctx, "combine")
	defer func() { done(err) }()

	invoiceID, err := parseID("expense_invoice", req.InvoiceID)
	if err != nil {
		return nil, err
	}
	separator := s.remarksSeparator
	if req.RemarksSeparator != nil {
		separator = *req.RemarksSeparator
	}

	log := ctxlogger.WithContext(ctx, s.log)
	var inv *expensedomain.ExpenseInvoice
	err = s.tx.Write(ctx, func(tx *gorm.DB) error {
		inv, err = s.loadForMutation(ctx, tx, invoiceID, req.ExpectedVersion)
		if err != nil {
			return err
		}

		lines, err := s.repo.ListLines(ctx, tx, invoiceID)
		if err != nil {
			return expensedomain.Storage("list lines", err)
		}

		plan, err := expensedomain.PlanCombine(lines, separator)
		if err != nil {
			return err
		}
		if plan.Empty() {
			return nil
		}

		now := s.clock.Now().UTC()
		absorbed := 0
		for i := range plan.Groups {
			group := &plan.Groups[i]
			if group.MixedRates {
				log.Warn("combining lines with differing rates, first line's rates kept",
					zap.String("invoice_id", invoiceID.String()),
					zap.String("expense_type_id", group.Survivor.ExpenseTypeID.String()),
				)
			}

			group.Survivor.UpdatedAt = now
			if err := s.repo.UpdateLine(ctx, tx, &group.Survivor); err != nil {
				return expensedomain.Storage("update merged line", err)
			}
			if err := s.attachments.ReassignToLine(ctx, tx, group.Absorbed, group.Survivor.ID); err != nil {
				return expensedomain.Storage("reassign attachments", err)
			}
			if _, err := s.repo.DeleteLines(ctx, tx, group.Absorbed); err != nil {
				return expensedomain.Storage("delete merged lines", err)
			}
			absorbed += len(group.Absorbed)
		}

		if err := s.refreshAggregates(ctx, tx, inv, true); err != nil {
			return err
		}

		return s.record(ctx, tx, inv, auditdomain.ActionCombine,
			fmt.Sprintf("combined %d line(s) into %d", len(lines), len(plan.Lines)),
			map[string]any{
				"lines_before":  len(lines),
				"lines_after":   len(plan.Lines),
				"merged_groups": len(plan.Groups),
				"absorbed":      absorbed,
			},
		)
	})
	if err != nil {
		return nil, expensedomain.Storage("combine duplicates", err)
	}

	annotate(ctx, inv)
	res := inv.Result()
	return &res, nil
}

// ListAuditEntries returns the trail of an invoice, including deleted ones.
func (s *Service) ListAuditEntries(ctx context.Context, req auditdomain.ListAuditEntriesRequest) (auditdomain.ListAuditEntriesResponse, error) {
	var resp auditdomain.ListAuditEntriesResponse
	err := s.tx.Read(ctx, func(tx *gorm.DB) error {
		var err error
		resp, err = s.audit.List(ctx, tx, req)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, auditdomain.ErrInvalidInvoice),
			errors.Is(err, auditdomain.ErrInvalidAction),
			errors.Is(err, auditdomain.ErrInvalidPageToken):
			return auditdomain.ListAuditEntriesResponse{}, &expensedomain.ValidationError{
				Kind:      err,
				Message:   err.Error(),
				LineIndex: -1,
			}
		}
		return auditdomain.ListAuditEntriesResponse{}, expensedomain.Storage("list audit entries", err)
	}
	return resp, nil
}
