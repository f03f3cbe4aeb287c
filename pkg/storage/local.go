package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"
)

// LocalStore writes files below a directory that is also served under urlPrefix.
type LocalStore struct {
	dir       string
	urlPrefix string
	log       *zap.Logger
}

func NewLocalStore(dir, urlPrefix string, log *zap.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &LocalStore{
		dir:       dir,
		urlPrefix: urlPrefix,
		log:       log.With(zap.String("storage", "local")),
	}, nil
}

func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) Save(ctx context.Context, key, contentType string, data []byte) (string, error) {
	target := filepath.Join(s.dir, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", fmt.Errorf("create dir for %s: %w", key, err)
	}

	// write to a temp file first so readers never see a partial image
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		s.log.Error("Failed to write file", zap.Error(err), zap.String("key", key))
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("rename %s: %w", key, err)
	}

	s.log.Debug("File stored", zap.String("key", key), zap.Int("bytes", len(data)))
	return path.Join(s.urlPrefix, key), nil
}
