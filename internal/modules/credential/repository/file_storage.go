package repository

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/reshetovitsme/contentguard/internal/modules/credential/domain"
	"github.com/samber/oops"
)

// StorageKey is the fixed name of the credentials blob
const StorageKey = "cg_credentials"

// FileStorage implements Repository as a single JSON file
type FileStorage struct {
	path string
	mu   sync.RWMutex
}

// NewFileStorage creates a file-based credential repository under basePath
func NewFileStorage(basePath string) (Repository, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to create storage directory").Wrap(err)
	}

	return &FileStorage{path: filepath.Join(basePath, StorageKey+".json")}, nil
}

func (s *FileStorage) Load(ctx context.Context) (*domain.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &domain.Credentials{}, nil
		}
		return nil, oops.With("path", s.path, "context", "failed to read credentials").Wrap(err)
	}

	var creds domain.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		// A corrupt blob is treated like no blob; the next save overwrites it.
		slog.Error("Failed to parse credentials", "path", s.path, "error", err)
		return &domain.Credentials{}, nil
	}

	return &creds, nil
}

func (s *FileStorage) Save(ctx context.Context, creds *domain.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return oops.With("context", "failed to marshal credentials").Wrap(err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return oops.With("path", s.path, "context", "failed to write credentials").Wrap(err)
	}
	return nil
}
