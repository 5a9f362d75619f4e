package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/lingualink/api/infrastructure/config"
)

// LocalStorage keeps avatars on the local filesystem. It exists so the
// service runs without an S3 bucket in development.
type LocalStorage struct {
	basePath string
	baseURL  string
}

func NewLocalStorage(cfg *config.Config) (*LocalStorage, error) {
	storage := &LocalStorage{
		basePath: cfg.Storage.LocalBasePath,
		baseURL:  strings.TrimRight(cfg.Storage.LocalBaseURL, "/"),
	}

	if err := os.MkdirAll(storage.basePath, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create uploads directory")
	}

	return storage, nil
}

func (s *LocalStorage) Put(_ context.Context, key string, data []byte, _ string) error {
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return errors.Wrap(err, "failed to create object directory")
	}

	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write object %s", key)
	}

	return nil
}

func (s *LocalStorage) Delete(_ context.Context, key string) error {
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(key))

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return nil
	}

	return os.Remove(fullPath)
}

func (s *LocalStorage) URL(key string) string {
	return s.baseURL + "/" + key
}

// BasePath is used by the file-serving route in development.
func (s *LocalStorage) BasePath() string {
	return s.basePath
}
