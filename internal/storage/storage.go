package storage

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/contracts-extractor/internal/common"
)

var ErrObjectNotFound = fmt.Errorf("object: %w", common.ErrNotFound)

// ObjectStore keeps uploaded documents and generated exports.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

const (
	BackendLocal = "local"
	BackendMinio = "minio"
)

// New builds the store selected by cfg.Backend.
func New(ctx context.Context, cfg common.StorageConfig, logger *slog.Logger) (ObjectStore, error) {
	switch cfg.Backend {
	case BackendLocal, "":
		return NewLocalStore(cfg.LocalDir, logger)
	case BackendMinio:
		s, err := NewMinioStore(cfg.Minio, logger)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}

// UploadKey is where file seq of a task is kept. Only the base name of the upload is used.
func UploadKey(taskID uuid.UUID, seq int, name string) string {
	return path.Join("uploads", taskID.String(), strconv.Itoa(seq)+"-"+filepath.Base(name))
}

// ExportKey is where the XLSX export of a task is kept.
func ExportKey(taskID uuid.UUID) string {
	return path.Join("exports", taskID.String()+".xlsx")
}
