package ports

import (
	"context"

	"github.com/emiliopalmerini/sessiontrack/internal/domain"
)

// SessionRepository persists immutable session records, one record per session.
type SessionRepository interface {
	// Create writes a new record and sets session.FilePath.
	Create(ctx context.Context, session *domain.Session) error
	// GetByID returns domain.ErrNotFound when no record matches.
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	// List returns at most limit summaries, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]domain.SessionSummary, error)
}
