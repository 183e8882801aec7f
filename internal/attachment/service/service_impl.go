package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tradeledger/internal/attachment/domain"
	"github.com/smallbiznis/tradeledger/pkg/db/txmanager"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Tx    *txmanager.Manager
	Repo  domain.Repository
	Store domain.FileStore
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	tx    *txmanager.Manager
	repo  domain.Repository
	store domain.FileStore
}

func NewService(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("attachment.service"),
		genID: p.GenID,
		tx:    p.Tx,
		repo:  p.Repo,
		store: p.Store,
	}
}

func (s *Service) AttachFile(ctx context.Context, req domain.AttachRequest) (*domain.Attachment, error) {
	lineID, err := parseLineID(req.LineID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.SourcePath) == "" {
		return nil, domain.ErrInvalidSourcePath
	}

	var record *domain.Attachment
	err = s.tx.Write(ctx, func(tx *gorm.DB) error {
		invoiceID, err := s.repo.LineInvoiceID(ctx, tx, lineID)
		if err != nil {
			return err
		}
		if invoiceID == 0 {
			return domain.ErrLineNotFound
		}

		stored, err := s.store.Save(ctx, lineID, req.SourcePath)
		if err != nil {
			return err
		}

		record = &domain.Attachment{
			ID:         s.genID.Generate(),
			LineID:     lineID,
			InvoiceID:  invoiceID,
			FileName:   stored.FileName,
			StoredPath: stored.StoredPath,
			SizeBytes:  stored.SizeBytes,
			UploadedAt: stored.UploadedAt,
		}
		if err := s.repo.Insert(ctx, tx, record); err != nil {
			s.removeFile(ctx, stored.StoredPath)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("attachment stored",
		zap.String("line_id", lineID.String()),
		zap.String("attachment_id", record.ID.String()),
		zap.Int64("size_bytes", record.SizeBytes),
	)
	return record, nil
}

func (s *Service) ListForLine(ctx context.Context, lineID string) ([]domain.Attachment, error) {
	id, err := parseLineID(lineID)
	if err != nil {
		return nil, err
	}

	var items []*domain.Attachment
	err = s.tx.Read(ctx, func(tx *gorm.DB) error {
		var err error
		items, err = s.repo.ListByLine(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.Attachment, 0, len(items))
	for _, item := range items {
		if item != nil {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (s *Service) DeleteForLine(ctx context.Context, tx *gorm.DB, lineID snowflake.ID) ([]string, error) {
	return s.repo.DeleteByLine(ctx, tx, lineID)
}

func (s *Service) DeleteForInvoice(ctx context.Context, tx *gorm.DB, invoiceID snowflake.ID) ([]string, error) {
	return s.repo.DeleteByInvoice(ctx, tx, invoiceID)
}

func (s *Service) ReassignToLine(ctx context.Context, tx *gorm.DB, fromLineIDs []snowflake.ID, toLineID snowflake.ID) error {
	return s.repo.Reassign(ctx, tx, fromLineIDs, toLineID)
}

func (s *Service) PurgeFiles(ctx context.Context, paths []string) {
	for _, p := range paths {
		s.removeFile(ctx, p)
	}
}

func (s *Service) removeFile(ctx context.Context, storedPath string) {
	if err := s.store.Remove(ctx, storedPath); err != nil {
		s.log.Warn("failed to remove attachment file", zap.String("path", storedPath), zap.Error(err))
	}
}

func parseLineID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidLine
	}
	return id, nil
}
