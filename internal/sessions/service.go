package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/emiliopalmerini/sessiontrack/internal/domain"
	"github.com/emiliopalmerini/sessiontrack/internal/ports"
)

const (
	DefaultSessionKey = "unnamed"
	DefaultSource     = "cli"
)

// InsightGenerator produces the insight embedded in a new session.
type InsightGenerator interface {
	Generate(ctx context.Context, transcript string, level domain.InsightLevel) domain.Insight
}

// CaptureInput describes a conversation to archive.
type CaptureInput struct {
	Messages   []domain.Message
	SessionKey string
	Source     string
	Project    *string
	Level      domain.InsightLevel
}

// Service captures and reads archived sessions.
type Service struct {
	repo      ports.SessionRepository
	generator InsightGenerator
	logger    domain.Logger
	now       func() time.Time
}

func NewService(repo ports.SessionRepository, generator InsightGenerator, logger domain.Logger) *Service {
	return &Service{
		repo:      repo,
		generator: generator,
		logger:    logger,
		now:       time.Now,
	}
}

// Capture builds a session from the input, attaches its insight and writes it.
// Insight problems degrade the insight; only storage errors are returned.
func (s *Service) Capture(ctx context.Context, in CaptureInput) (*domain.Session, error) {
	now := s.now().UTC()

	messages := make([]domain.Message, len(in.Messages))
	for i, m := range in.Messages {
		if m.Timestamp.IsZero() {
			m.Timestamp = now
		}
		messages[i] = m
	}

	key := in.SessionKey
	if key == "" {
		key = DefaultSessionKey
	}
	source := in.Source
	if source == "" {
		source = DefaultSource
	}
	level := in.Level
	if level == "" {
		level = domain.InsightStandard
	}

	session := &domain.Session{
		ID:            uuid.NewString(),
		SessionKey:    key,
		Timestamp:     now,
		Source:        source,
		Project:       in.Project,
		TotalMessages: len(messages),
		Participants:  domain.Participants(messages),
		Messages:      messages,
	}
	session.AIInsights = s.generator.Generate(ctx, domain.Transcript(messages), level)

	if err := s.repo.Create(ctx, session); err != nil {
		s.logger.Error(fmt.Sprintf("Failed to save session %s: %v", session.ID, err))
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.logger.Debug(fmt.Sprintf("Saved session %s (%d messages) to %s", session.ID, session.TotalMessages, session.FilePath))
	return session, nil
}

// Get returns domain.ErrNotFound when no session matches id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Session, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns at most limit summaries, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]domain.SessionSummary, error) {
	return s.repo.List(ctx, limit)
}
