package projects

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/emiliopalmerini/sessiontrack/internal/domain"
	"github.com/emiliopalmerini/sessiontrack/internal/ports"
)

// Service manages project records. Read-modify-write cycles on the same
// project are serialized within the process; writers in other processes
// still overwrite each other.
type Service struct {
	repo   ports.ProjectRepository
	logger domain.Logger
	locks  *keyedMutex
	now    func() time.Time
}

func NewService(repo ports.ProjectRepository, logger domain.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		locks:  newKeyedMutex(),
		now:    time.Now,
	}
}

// Create stores a new active project and returns its id.
func (s *Service) Create(ctx context.Context, name, description string, tags []string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", domain.ErrEmptyName
	}
	p := domain.NewProject(uuid.NewString(), name, description, tags, s.now().UTC())
	if err := s.repo.Create(ctx, p); err != nil {
		return "", fmt.Errorf("create project: %w", err)
	}
	s.logger.Debug(fmt.Sprintf("Created project %s (%s)", p.ID, p.Name))
	return p.ID, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.repo.GetByID(ctx, id)
}

// Update merges u into the project. It returns false when the project does not exist.
func (s *Service) Update(ctx context.Context, id string, u domain.ProjectUpdate) (bool, error) {
	err := s.mutate(ctx, id, func(p *domain.Project, now time.Time) error {
		return p.Apply(u, now)
	})
	return found(err)
}

// AddSessionLink appends a back-reference to a session file. The path is not
// checked. It returns false when the project does not exist.
func (s *Service) AddSessionLink(ctx context.Context, id, sessionPath string) (bool, error) {
	err := s.mutate(ctx, id, func(p *domain.Project, now time.Time) error {
		p.Sessions = append(p.Sessions, domain.SessionLink{Path: sessionPath, AddedAt: now})
		p.UpdatedAt = now
		return nil
	})
	return found(err)
}

// AddActionItem appends a pending action item and returns its id.
// It returns domain.ErrNotFound, writing nothing, when the project does not exist.
func (s *Service) AddActionItem(ctx context.Context, id, description, priority string) (string, error) {
	prio, err := domain.ParsePriority(priority)
	if err != nil {
		return "", err
	}

	var itemID string
	err = s.mutate(ctx, id, func(p *domain.Project, now time.Time) error {
		itemID = ulid.Make().String()
		p.ActionItems = append(p.ActionItems, domain.ActionItem{
			ID:          itemID,
			Description: description,
			Priority:    prio,
			Status:      domain.ActionPending,
			CreatedAt:   now,
		})
		p.UpdatedAt = now
		return nil
	})
	if err != nil {
		return "", err
	}
	return itemID, nil
}

// SetActionItemStatus changes the status of one action item. It returns
// domain.ErrNotFound when either the project or the item does not exist.
func (s *Service) SetActionItemStatus(ctx context.Context, projectID, itemID string, status domain.ActionStatus) error {
	st, err := domain.ParseActionStatus(string(status))
	if err != nil {
		return err
	}
	return s.mutate(ctx, projectID, func(p *domain.Project, now time.Time) error {
		for i := range p.ActionItems {
			if p.ActionItems[i].ID == itemID {
				p.ActionItems[i].Status = st
				p.UpdatedAt = now
				return nil
			}
		}
		return fmt.Errorf("action item %s: %w", itemID, domain.ErrNotFound)
	})
}

// List returns project summaries, newest first. A nil status lists every project.
func (s *Service) List(ctx context.Context, status *domain.ProjectStatus) ([]domain.ProjectSummary, error) {
	projects, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	sort.Slice(projects, func(i, j int) bool {
		if projects[i].CreatedAt.Equal(projects[j].CreatedAt) {
			return projects[i].ID > projects[j].ID
		}
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})

	summaries := make([]domain.ProjectSummary, 0, len(projects))
	for _, p := range projects {
		if status != nil && p.Status != *status {
			continue
		}
		summaries = append(summaries, p.Summary())
	}
	return summaries, nil
}

// mutate runs fn on a fresh copy of the project under the per-project lock and
// saves the result. Nothing is written when fn fails.
func (s *Service) mutate(ctx context.Context, id string, fn func(p *domain.Project, now time.Time) error) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := fn(p, s.now().UTC()); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return fmt.Errorf("save project %s: %w", id, err)
	}
	s.logger.Debug(fmt.Sprintf("Saved project %s", id))
	return nil
}

// found maps a missing project to (false, nil).
func found(err error) (bool, error) {
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
