package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/emiliopalmerini/sessiontrack/internal/domain"
)

// ProjectStore keeps one JSON file per project, named "<id>.json".
type ProjectStore struct {
	baseDir string
}

func NewProjectStore(baseDir string) (*ProjectStore, error) {
	if err := ensureDir(baseDir); err != nil {
		return nil, err
	}
	return &ProjectStore{baseDir: baseDir}, nil
}

func (s *ProjectStore) Create(ctx context.Context, project *domain.Project) error {
	path, ok := s.getPath(project.ID)
	if !ok {
		return fmt.Errorf("invalid project id %q", project.ID)
	}
	if exists, err := fileExists(path); err != nil {
		return err
	} else if exists {
		return fmt.Errorf("project %s already exists", project.ID)
	}
	if err := writeJSONFile(path, project); err != nil {
		return fmt.Errorf("failed to write project %s: %w", project.ID, err)
	}
	return nil
}

func (s *ProjectStore) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	path, ok := s.getPath(id)
	if !ok {
		return nil, domain.ErrNotFound
	}

	var project domain.Project
	if err := readJSONFile(path, &project); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read project %s: %w", id, err)
	}
	return &project, nil
}

func (s *ProjectStore) Save(ctx context.Context, project *domain.Project) error {
	path, ok := s.getPath(project.ID)
	if !ok {
		return domain.ErrNotFound
	}
	exists, err := fileExists(path)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}
	if err := writeJSONFile(path, project); err != nil {
		return fmt.Errorf("failed to write project %s: %w", project.ID, err)
	}
	return nil
}

func (s *ProjectStore) List(ctx context.Context) ([]*domain.Project, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read project directory: %w", err)
	}

	var projects []*domain.Project
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), recordExt) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var p domain.Project
		if err := readJSONFile(filepath.Join(s.baseDir, e.Name()), &p); err != nil {
			return nil, fmt.Errorf("failed to read project: %w", err)
		}
		projects = append(projects, &p)
	}
	return projects, nil
}

// getPath maps a project id to its file. Only uuid ids are accepted so an id can
// never address a file outside the project directory.
func (s *ProjectStore) getPath(id string) (string, bool) {
	if uuid.Validate(id) != nil {
		return "", false
	}
	return filepath.Join(s.baseDir, id+recordExt), true
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
