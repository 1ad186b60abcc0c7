package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/reshetovitsme/contentguard/internal/modules/publication/domain"
	"github.com/samber/oops"
)

// FileStorage implements Repository with one JSON file per publication
type FileStorage struct {
	basePath string
	mu       sync.RWMutex
}

// NewFileStorage creates a new file-based publication journal
func NewFileStorage(basePath string) (Repository, error) {
	publicationPath := filepath.Join(basePath, "publications")
	if err := os.MkdirAll(publicationPath, 0755); err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to create publications directory").Wrap(err)
	}

	return &FileStorage{basePath: publicationPath}, nil
}

func (s *FileStorage) SavePublication(publication *domain.Publication) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Names sort chronologically
	name := fmt.Sprintf("%020d-%s.json", publication.CreatedAt.UnixNano(), publication.ID)
	data, err := json.MarshalIndent(publication, "", "  ")
	if err != nil {
		return oops.With("publication_id", publication.ID, "context", "failed to marshal publication").Wrap(err)
	}

	if err := os.WriteFile(filepath.Join(s.basePath, name), data, 0644); err != nil {
		return oops.With("publication_id", publication.ID, "context", "failed to write publication").Wrap(err)
	}
	return nil
}

// GetPublications returns up to limit publications, newest first
func (s *FileStorage) GetPublications(limit int) ([]*domain.Publication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, oops.With("directory", s.basePath, "context", "failed to read publications directory").Wrap(err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	publications := []*domain.Publication{}
	for i := len(entries) - 1; i >= 0 && len(publications) < limit; i-- {
		entry := entries[i]
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.basePath, entry.Name()))
		if err != nil {
			continue
		}

		var publication domain.Publication
		if err := json.Unmarshal(data, &publication); err != nil {
			continue
		}

		publications = append(publications, &publication)
	}

	return publications, nil
}
