// Package store keeps attachment files on a filesystem, one directory per
// expense line.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/tradeledger/internal/attachment/domain"
	"github.com/smallbiznis/tradeledger/internal/clock"
	"github.com/smallbiznis/tradeledger/internal/config"
	"github.com/spf13/afero"
	"go.uber.org/fx"
)

type LocalStore struct {
	fs      afero.Fs
	baseDir string
	clock   clock.Clock
}

type Params struct {
	fx.In

	Config config.Config
	Clock  clock.Clock
}

// Provide returns a LocalStore rooted at the configured attachment dir on
// the OS filesystem.
func Provide(p Params) domain.FileStore {
	return NewLocalStore(afero.NewOsFs(), p.Config.Attachment.BaseDir, p.Clock)
}

func NewLocalStore(fs afero.Fs, baseDir string, c clock.Clock) *LocalStore {
	if strings.TrimSpace(baseDir) == "" {
		baseDir = "attachments"
	}
	return &LocalStore{fs: fs, baseDir: filepath.Clean(baseDir), clock: c}
}

// Save copies sourcePath to <base>/lines/<line id>/<slug>-<ulid><ext>.
func (s *LocalStore) Save(ctx context.Context, lineID snowflake.ID, sourcePath string) (domain.StoredFile, error) {
	if err := ctx.Err(); err != nil {
		return domain.StoredFile{}, err
	}

	sourcePath = strings.TrimSpace(sourcePath)
	if sourcePath == "" {
		return domain.StoredFile{}, domain.ErrInvalidSourcePath
	}

	info, err := s.fs.Stat(sourcePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.StoredFile{}, domain.ErrSourceNotFound
		}
		return domain.StoredFile{}, err
	}
	if info.IsDir() {
		return domain.StoredFile{}, domain.ErrInvalidSourcePath
	}

	fileName := filepath.Base(sourcePath)
	dir := filepath.Join(s.baseDir, "lines", lineID.String())
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return domain.StoredFile{}, fmt.Errorf("create attachment dir: %w", err)
	}

	target := filepath.Join(dir, storedName(fileName))
	size, err := s.copyFile(sourcePath, target)
	if err != nil {
		_ = s.fs.Remove(target)
		return domain.StoredFile{}, err
	}

	return domain.StoredFile{
		FileName:   fileName,
		StoredPath: target,
		SizeBytes:  size,
		UploadedAt: s.clock.Now().UTC(),
	}, nil
}

// Remove deletes a stored file. Paths outside the base dir are refused and
// missing files are not an error.
func (s *LocalStore) Remove(_ context.Context, storedPath string) error {
	clean := filepath.Clean(storedPath)
	rel, err := filepath.Rel(s.baseDir, clean)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return domain.ErrInvalidSourcePath
	}

	if err := s.fs.Remove(clean); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalStore) copyFile(source, target string) (int64, error) {
	src, err := s.fs.Open(source)
	if err != nil {
		return 0, fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	dst, err := s.fs.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create target: %w", err)
	}

	n, err := io.Copy(dst, src)
	if err != nil {
		_ = dst.Close()
		return 0, fmt.Errorf("copy attachment: %w", err)
	}
	if err := dst.Close(); err != nil {
		return 0, fmt.Errorf("close target: %w", err)
	}
	return n, nil
}

func storedName(fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	stem := slug.Make(strings.TrimSuffix(fileName, filepath.Ext(fileName)))
	if stem == "" {
		stem = "attachment"
	}
	return stem + "-" + strings.ToLower(ulid.Make().String()) + ext
}
