package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/smallbiznis/tradeledger/internal/attachment/domain"
	"github.com/smallbiznis/tradeledger/internal/clock"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreSave(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/inbox/Freight Bill 42.PDF", []byte("pdf-bytes"), 0o644))

	uploadedAt := time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)
	s := NewLocalStore(fs, "/data/attachments", clock.NewFakeClock(uploadedAt))

	got, err := s.Save(context.Background(), 77, "/inbox/Freight Bill 42.PDF")
	require.NoError(t, err)

	assert.Equal(t, "Freight Bill 42.PDF", got.FileName)
	assert.Equal(t, int64(9), got.SizeBytes)
	assert.Equal(t, uploadedAt, got.UploadedAt)
	assert.Equal(t, filepath.Join("/data/attachments", "lines", "77"), filepath.Dir(got.StoredPath))

	base := filepath.Base(got.StoredPath)
	assert.True(t, strings.HasPrefix(base, "freight-bill-42-"), base)
	assert.True(t, strings.HasSuffix(base, ".pdf"), base)

	content, err := afero.ReadFile(fs, got.StoredPath)
	require.NoError(t, err)
	assert.Equal(t, "pdf-bytes", string(content))

	again, err := s.Save(context.Background(), 77, "/inbox/Freight Bill 42.PDF")
	require.NoError(t, err)
	assert.NotEqual(t, got.StoredPath, again.StoredPath)
}

func TestLocalStoreSaveErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/inbox", 0o755))
	s := NewLocalStore(fs, "/data", clock.System())
	ctx := context.Background()

	_, err := s.Save(ctx, 1, "")
	assert.ErrorIs(t, err, domain.ErrInvalidSourcePath)

	_, err = s.Save(ctx, 1, "/inbox/missing.pdf")
	assert.ErrorIs(t, err, domain.ErrSourceNotFound)

	_, err = s.Save(ctx, 1, "/inbox")
	assert.ErrorIs(t, err, domain.ErrInvalidSourcePath)
}

func TestLocalStoreRemove(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/src/a.txt", []byte("x"), 0o644))
	s := NewLocalStore(fs, "/data", clock.System())
	ctx := context.Background()

	stored, err := s.Save(ctx, 5, "/src/a.txt")
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, stored.StoredPath))
	exists, err := afero.Exists(fs, stored.StoredPath)
	require.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, s.Remove(ctx, stored.StoredPath))
	assert.ErrorIs(t, s.Remove(ctx, "/src/a.txt"), domain.ErrInvalidSourcePath)
}
