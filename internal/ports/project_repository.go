package ports

import (
	"context"

	"github.com/emiliopalmerini/sessiontrack/internal/domain"
)

// ProjectRepository stores full project snapshots. Updates are whole-record overwrites.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	// GetByID returns domain.ErrNotFound when the project does not exist.
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	// Save overwrites an existing project. It returns domain.ErrNotFound if there is none.
	Save(ctx context.Context, project *domain.Project) error
	List(ctx context.Context) ([]*domain.Project, error)
}
