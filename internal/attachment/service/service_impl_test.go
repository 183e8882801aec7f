package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tradeledger/internal/attachment/domain"
	"github.com/smallbiznis/tradeledger/internal/attachment/repository"
	"github.com/smallbiznis/tradeledger/internal/attachment/store"
	"github.com/smallbiznis/tradeledger/internal/clock"
	"github.com/smallbiznis/tradeledger/pkg/db/dbtest"
	"github.com/smallbiznis/tradeledger/pkg/db/txmanager"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type mockFileStore struct {
	mock.Mock
}

func (m *mockFileStore) Save(ctx context.Context, lineID snowflake.ID, sourcePath string) (domain.StoredFile, error) {
	args := m.Called(ctx, lineID, sourcePath)
	return args.Get(0).(domain.StoredFile), args.Error(1)
}

func (m *mockFileStore) Remove(ctx context.Context, storedPath string) error {
	args := m.Called(ctx, storedPath)
	return args.Error(0)
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := dbtest.Open(t)
	require.NoError(t, db.AutoMigrate(&domain.Attachment{}))
	require.NoError(t, db.Exec(`CREATE TABLE expense_lines (id INTEGER PRIMARY KEY, invoice_id INTEGER NOT NULL)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO expense_lines (id, invoice_id) VALUES (11, 100), (12, 100)`).Error)
	return db
}

func newService(t *testing.T, db *gorm.DB, fs domain.FileStore) domain.Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return NewService(Params{
		Log:   zap.NewNop(),
		GenID: node,
		Tx:    txmanager.New(db),
		Repo:  repository.Provide(),
		Store: fs,
	})
}

func TestAttachFileAndCascade(t *testing.T) {
	db := setupDB(t)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/in/bill.pdf", []byte("bill"), 0o644))
	svc := newService(t, db, store.NewLocalStore(fs, "/att", clock.NewFakeClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))))
	ctx := context.Background()

	first, err := svc.AttachFile(ctx, domain.AttachRequest{LineID: "11", SourcePath: "/in/bill.pdf"})
	require.NoError(t, err)
	assert.Equal(t, snowflake.ID(100), first.InvoiceID)
	assert.Equal(t, "bill.pdf", first.FileName)

	_, err = svc.AttachFile(ctx, domain.AttachRequest{LineID: "12", SourcePath: "/in/bill.pdf"})
	require.NoError(t, err)

	items, err := svc.ListForLine(ctx, "11")
	require.NoError(t, err)
	require.Len(t, items, 1)

	var paths []string
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		paths, err = svc.DeleteForLine(ctx, tx, 11)
		return err
	}))
	assert.Equal(t, []string{first.StoredPath}, paths)
	svc.PurgeFiles(ctx, paths)

	exists, err := afero.Exists(fs, first.StoredPath)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		paths, err = svc.DeleteForInvoice(ctx, tx, 100)
		return err
	}))
	assert.Len(t, paths, 1)

	var remaining int64
	require.NoError(t, db.Model(&domain.Attachment{}).Count(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestAttachFileUnknownLine(t *testing.T) {
	db := setupDB(t)
	fs := new(mockFileStore)
	svc := newService(t, db, fs)

	_, err := svc.AttachFile(context.Background(), domain.AttachRequest{LineID: "99", SourcePath: "/in/x.pdf"})
	assert.ErrorIs(t, err, domain.ErrLineNotFound)
	fs.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)

	_, err = svc.AttachFile(context.Background(), domain.AttachRequest{LineID: "x", SourcePath: "/in/x.pdf"})
	assert.ErrorIs(t, err, domain.ErrInvalidLine)
}

func TestAttachFileRemovesStoredFileWhenInsertFails(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Migrator().DropTable(&domain.Attachment{}))

	fs := new(mockFileStore)
	fs.On("Save", mock.Anything, snowflake.ID(11), "/in/x.pdf").
		Return(domain.StoredFile{FileName: "x.pdf", StoredPath: "/att/lines/11/x.pdf", UploadedAt: time.Now()}, nil)
	fs.On("Remove", mock.Anything, "/att/lines/11/x.pdf").Return(nil)

	svc := newService(t, db, fs)
	_, err := svc.AttachFile(context.Background(), domain.AttachRequest{LineID: "11", SourcePath: "/in/x.pdf"})
	require.Error(t, err)
	fs.AssertExpectations(t)
}

func TestReassignToLineMovesAttachments(t *testing.T) {
	db := setupDB(t)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/in/pod.jpg", []byte("pod"), 0o644))
	svc := newService(t, db, store.NewLocalStore(fs, "/att", clock.System()))
	ctx := context.Background()

	att, err := svc.AttachFile(ctx, domain.AttachRequest{LineID: "12", SourcePath: "/in/pod.jpg"})
	require.NoError(t, err)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return svc.ReassignToLine(ctx, tx, []snowflake.ID{12}, 11)
	}))

	moved, err := svc.ListForLine(ctx, "11")
	require.NoError(t, err)
	require.Len(t, moved, 1)
	assert.Equal(t, att.ID, moved[0].ID)
	assert.Equal(t, att.StoredPath, moved[0].StoredPath)

	left, err := svc.ListForLine(ctx, "12")
	require.NoError(t, err)
	assert.Empty(t, left)
}
