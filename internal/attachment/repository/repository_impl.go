package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tradeledger/internal/attachment/domain"
	"github.com/smallbiznis/tradeledger/pkg/db/option"
	"github.com/smallbiznis/tradeledger/pkg/repository"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) store(db *gorm.DB) repository.Repository[domain.Attachment] {
	return repository.ProvideStore[domain.Attachment](db)
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, item *domain.Attachment) error {
	return r.store(db).Create(ctx, item)
}

func (r *repo) ListByLine(ctx context.Context, db *gorm.DB, lineID snowflake.ID) ([]*domain.Attachment, error) {
	return r.store(db).Find(ctx, &domain.Attachment{LineID: lineID},
		option.WithSortBy(option.WithQuerySortBy("uploaded_at", "asc", map[string]bool{"uploaded_at": true})),
	)
}

func (r *repo) DeleteByLine(ctx context.Context, db *gorm.DB, lineID snowflake.ID) ([]string, error) {
	return r.deleteWhere(ctx, db, "line_id", lineID)
}

func (r *repo) DeleteByInvoice(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]string, error) {
	return r.deleteWhere(ctx, db, "invoice_id", invoiceID)
}

func (r *repo) deleteWhere(ctx context.Context, db *gorm.DB, column string, id snowflake.ID) ([]string, error) {
	var paths []string
	err := db.WithContext(ctx).
		Model(&domain.Attachment{}).
		Where(column+" = ?", id).
		Pluck("stored_path", &paths).Error
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, nil
	}

	err = db.WithContext(ctx).Exec(
		`DELETE FROM expense_line_attachments WHERE `+column+` = ?`,
		id,
	).Error
	if err != nil {
		return nil, err
	}
	return paths, nil
}

func (r *repo) Reassign(ctx context.Context, db *gorm.DB, fromLineIDs []snowflake.ID, toLineID snowflake.ID) error {
	if len(fromLineIDs) == 0 {
		return nil
	}
	return db.WithContext(ctx).Exec(
		`UPDATE expense_line_attachments SET line_id = ? WHERE line_id IN ?`,
		toLineID,
		fromLineIDs,
	).Error
}

func (r *repo) LineInvoiceID(ctx context.Context, db *gorm.DB, lineID snowflake.ID) (snowflake.ID, error) {
	var invoiceID snowflake.ID
	err := db.WithContext(ctx).Raw(
		`SELECT invoice_id FROM expense_lines WHERE id = ?`,
		lineID,
	).Scan(&invoiceID).Error
	return invoiceID, err
}
