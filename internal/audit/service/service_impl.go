package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/smallbiznis/tradeledger/internal/audit/domain"
	"github.com/smallbiznis/tradeledger/internal/clock"
	"github.com/smallbiznis/tradeledger/pkg/db/pagination"
	"github.com/smallbiznis/tradeledger/pkg/telemetry/correlation"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  auditdomain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  auditdomain.Repository
}

func NewService(p Params) auditdomain.Service {
	return &Service{
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

// Record appends one entry using tx. The error is returned unchanged so the
// enclosing transaction rolls back.
func (s *Service) Record(ctx context.Context, tx *gorm.DB, req auditdomain.RecordRequest) error {
	if !req.Action.Valid() {
		return auditdomain.ErrInvalidAction
	}
	if req.InvoiceID == 0 {
		return auditdomain.ErrInvalidInvoice
	}

	payload := map[string]any{}
	for key, value := range req.Metadata {
		if strings.TrimSpace(key) == "" {
			continue
		}
		payload[key] = value
	}
	if cid := correlation.ExtractCorrelationID(ctx); cid != "" {
		payload["correlation_id"] = cid
	}

	entry := auditdomain.AuditEntry{
		ID:        s.genID.Generate(),
		InvoiceID: req.InvoiceID,
		Action:    req.Action,
		Detail:    strings.TrimSpace(req.Detail),
		CreatedAt: s.clock.Now().UTC(),
	}
	if len(payload) > 0 {
		entry.Metadata = datatypes.JSONMap(payload)
	}

	if err := s.repo.Insert(ctx, tx, &entry); err != nil {
		s.log.Warn("failed to write audit entry",
			zap.String("invoice_id", req.InvoiceID.String()),
			zap.String("action", string(req.Action)),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *Service) List(ctx context.Context, tx *gorm.DB, req auditdomain.ListAuditEntriesRequest) (auditdomain.ListAuditEntriesResponse, error) {
	invoiceID, err := snowflake.ParseString(strings.TrimSpace(req.InvoiceID))
	if err != nil || invoiceID == 0 {
		return auditdomain.ListAuditEntriesResponse{}, auditdomain.ErrInvalidInvoice
	}

	action := auditdomain.Action(strings.ToLower(strings.TrimSpace(req.Action)))
	if action != "" && !action.Valid() {
		return auditdomain.ListAuditEntriesResponse{}, auditdomain.ErrInvalidAction
	}

	var cursor *auditdomain.AuditCursor
	if token := strings.TrimSpace(req.PageToken); token != "" {
		decoded, err := pagination.DecodeCursor(token)
		if err != nil {
			return auditdomain.ListAuditEntriesResponse{}, auditdomain.ErrInvalidPageToken
		}
		id, err := snowflake.ParseString(strings.TrimSpace(decoded.ID))
		if err != nil || id == 0 {
			return auditdomain.ListAuditEntriesResponse{}, auditdomain.ErrInvalidPageToken
		}
		cursor = &auditdomain.AuditCursor{ID: id}
	}

	pageSize := req.Size()
	items, err := s.repo.List(ctx, tx, auditdomain.ListFilter{
		InvoiceID: invoiceID,
		Action:    action,
		Cursor:    cursor,
		Limit:     pageSize,
	})
	if err != nil {
		return auditdomain.ListAuditEntriesResponse{}, err
	}

	items, pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(item *auditdomain.AuditEntry) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{ID: item.ID.String()})
		if err != nil {
			return ""
		}
		return token
	})

	entries := make([]auditdomain.AuditEntry, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		entries = append(entries, *item)
	}

	return auditdomain.ListAuditEntriesResponse{PageInfo: pageInfo, Entries: entries}, nil
}
