package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	DefaultBaseDir    = "./uploads"
	DefaultStaticBase = "/static/uploads"
)

// LocalStorage writes blobs under baseDir and serves them through the
// gin static route mounted at staticBase.
type LocalStorage struct {
	baseDir    string
	staticBase string
}

func NewLocalStorage(baseDir, staticBase string) *LocalStorage {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	if staticBase == "" {
		staticBase = DefaultStaticBase
	}
	return &LocalStorage{baseDir: baseDir, staticBase: staticBase}
}

func (s *LocalStorage) Put(_ context.Context, key string, data []byte, _ string) (*PutResult, error) {
	cleanKey := filepath.ToSlash(filepath.Clean(key))
	if cleanKey == "." || strings.HasPrefix(cleanKey, "..") || strings.HasPrefix(cleanKey, "/") {
		return nil, fmt.Errorf("invalid storage key %q", key)
	}

	absPath := filepath.Join(s.baseDir, filepath.FromSlash(cleanKey))
	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	if err := os.WriteFile(absPath, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write object: %w", err)
	}

	return &PutResult{
		Key: cleanKey,
		URL: s.staticBase + "/" + cleanKey,
	}, nil
}

// BaseDir is exposed so main can mount the static file route.
func (s *LocalStorage) BaseDir() string { return s.baseDir }
