package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Attachment records a file copied into the attachment store for one
// expense line. The row is removed with its line.
type Attachment struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	LineID     snowflake.ID `gorm:"column:line_id;not null;index" json:"line_id"`
	InvoiceID  snowflake.ID `gorm:"column:invoice_id;not null;index" json:"invoice_id"`
	FileName   string       `gorm:"type:text;not null" json:"file_name"`
	StoredPath string       `gorm:"type:text;not null" json:"stored_path"`
	SizeBytes  int64        `gorm:"column:size_bytes;not null" json:"size_bytes"`
	UploadedAt time.Time    `gorm:"column:uploaded_at;not null" json:"uploaded_at"`
}

func (Attachment) TableName() string { return "expense_line_attachments" }

// StoredFile is what a FileStore reports after copying a source file.
type StoredFile struct {
	FileName   string
	StoredPath string
	SizeBytes  int64
	UploadedAt time.Time
}

// FileStore copies source files under a per-line directory.
type FileStore interface {
	Save(ctx context.Context, lineID snowflake.ID, sourcePath string) (StoredFile, error)
	Remove(ctx context.Context, storedPath string) error
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, item *Attachment) error
	ListByLine(ctx context.Context, db *gorm.DB, lineID snowflake.ID) ([]*Attachment, error)
	DeleteByLine(ctx context.Context, db *gorm.DB, lineID snowflake.ID) ([]string, error)
	DeleteByInvoice(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]string, error)
	Reassign(ctx context.Context, db *gorm.DB, fromLineIDs []snowflake.ID, toLineID snowflake.ID) error
	LineInvoiceID(ctx context.Context, db *gorm.DB, lineID snowflake.ID) (snowflake.ID, error)
}

type Service interface {
	AttachFile(ctx context.Context, req AttachRequest) (*Attachment, error)
	ListForLine(ctx context.Context, lineID string) ([]Attachment, error)

	// DeleteForLine and DeleteForInvoice run inside the caller's
	// transaction and return the stored paths of the removed rows.
	DeleteForLine(ctx context.Context, tx *gorm.DB, lineID snowflake.ID) ([]string, error)
	DeleteForInvoice(ctx context.Context, tx *gorm.DB, invoiceID snowflake.ID) ([]string, error)

	// ReassignToLine moves the rows of merged lines onto the surviving line
	// inside the caller's transaction. Stored files are left in place.
	ReassignToLine(ctx context.Context, tx *gorm.DB, fromLineIDs []snowflake.ID, toLineID snowflake.ID) error

	// PurgeFiles removes stored files after their rows are committed away.
	PurgeFiles(ctx context.Context, paths []string)
}

type AttachRequest struct {
	LineID     string `json:"line_id"`
	SourcePath string `json:"source_path"`
}

var (
	ErrInvalidLine       = errors.New("invalid_line")
	ErrLineNotFound      = errors.New("line_not_found")
	ErrInvalidSourcePath = errors.New("invalid_source_path")
	ErrSourceNotFound    = errors.New("source_not_found")
)
