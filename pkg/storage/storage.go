// Package storage persists uploaded files and returns the URL clients use to
// fetch them.
package storage

import (
	"context"
	"fmt"

	"loyalty-rewards/pkg/utils"

	"go.uber.org/zap"
)

type FileStore interface {
	Save(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// New picks the backend named by the storage config.
func New(ctx context.Context, cfg utils.StorageConfig, log *zap.Logger) (FileStore, error) {
	switch cfg.Driver {
	case utils.StorageLocal:
		return NewLocalStore(cfg.UploadDir, "/uploads", log)
	case utils.StorageS3:
		return NewS3Store(ctx, cfg.S3, log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
