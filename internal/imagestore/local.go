package imagestore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/Korixo/demolition-tracker/internal/common"
)

// LocalStore writes images into a directory on disk and returns file:// URLs.
type LocalStore struct {
	dir    string
	logger *slog.Logger
}

func NewLocalStore(dir string, logger *slog.Logger) (*LocalStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create image dir %q: %v", common.ErrStore, dir, err)
	}
	return &LocalStore{dir: dir, logger: logger}, nil
}

func (s *LocalStore) Put(_ context.Context, contentType string, data []byte) (string, error) {
	name := "notice-" + uuid.New().String() + ExtForContentType(contentType)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: write image: %v", common.ErrStore, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	s.logger.Debug("image stored", "path", abs, "bytes", len(data))
	return "file://" + abs, nil
}
